package student

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"deptportal/internal/httputil"
	"deptportal/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

// RegisterPublicRoutes mounts the self-service registration endpoint.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/student/register", h.Register)
}

// RegisterAdminRoutes mounts the back-office student screens.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/students", h.ListStudents)
	router.Post("/students/{id}/toggle-status", h.ToggleStatus)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(r.Context(), "registration validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	h.logger.InfoContext(r.Context(), "registering student", "matric", req.MatricNumber)
	created, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrStudentExists) {
			httputil.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "registration failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "registration failed, try again")
		return
	}

	h.metrics.RecordStudentRegistration(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful! Please wait for admin approval.",
		"student": created,
	})
}

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r)

	students, total, err := h.service.List(r.Context(), page, httputil.PerPage)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing students failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error loading students")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"students": students,
		"meta":     httputil.NewPageMeta(page, httputil.PerPage, total),
	})
}

func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	active, err := h.service.ToggleActive(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	statusText := "rejected"
	if active {
		statusText = "approved"
	}
	httputil.RespondWithMessage(w, http.StatusOK, "Student account "+statusText+" successfully!")
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, ErrInvalidInput):
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "student handler error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
