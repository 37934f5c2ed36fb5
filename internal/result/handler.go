package result

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"deptportal/internal/auth"
	"deptportal/internal/httputil"
	"deptportal/internal/metrics"
	"deptportal/internal/session"
	"deptportal/internal/student"

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

// RegisterStudentRoutes mounts the result dashboard.
func (h *Handler) RegisterStudentRoutes(router chi.Router) {
	router.Get("/dashboard", h.Dashboard)
}

// RegisterAdminRoutes mounts the upload form and per-student view.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/results/upload", h.Upload)
	router.Get("/students/{id}/results", h.StudentResults)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	adminID, ok := auth.AdminID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Please log in to access this page.")
		return
	}

	var req UploadRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(r.Context(), "result upload validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "All fields are required and must be valid.")
		return
	}

	created, err := h.service.Upload(r.Context(), req, adminID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordResultUploaded(r.Context())
	h.logger.InfoContext(r.Context(), "result uploaded",
		"matric", req.MatricNumber, "course", created.CourseCode, "admin_id", adminID)

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Result uploaded successfully!",
		"result":  created,
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Please log in to access this page.")
		return
	}

	dash, err := h.service.Dashboard(r.Context(), studentID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, dash)
}

func (h *Handler) StudentResults(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	st, rows, err := h.service.StudentResults(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"student": st,
		"results": rows,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, student.ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Student with this matric number was not found")
	case errors.Is(err, session.ErrSessionNotFound):
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid session selected")
	case errors.Is(err, ErrAccountInactive):
		httputil.RespondWithError(w, http.StatusForbidden, "Your account is not yet approved by the admin")
	default:
		h.logger.ErrorContext(r.Context(), "result handler error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
