package contact

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
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(repo Repository, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

// RegisterPublicRoutes mounts the contact form endpoint.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/contact", h.Submit)
}

// RegisterAdminRoutes mounts the back-office message screens.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/contacts", h.List)
	router.Get("/contacts/{id}", h.Detail)
	router.Post("/contacts/{id}/delete", h.Delete)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(r.Context(), "contact validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	created, err := h.repo.Create(r.Context(), &Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "saving contact message failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error sending message, try again")
		return
	}

	h.metrics.RecordContactSubmitted(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Your message has been sent successfully!",
		"contact": created,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r)

	contacts, total, err := h.repo.List(r.Context(), httputil.PerPage, (page-1)*httputil.PerPage)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing contacts failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error loading messages")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"contacts": contacts,
		"meta":     httputil.NewPageMeta(page, httputil.PerPage, total),
	})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid message ID")
		return
	}

	contact, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"contact": contact})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid message ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	httputil.RespondWithMessage(w, http.StatusOK, "Message deleted successfully!")
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrContactNotFound) {
		httputil.RespondWithError(w, http.StatusNotFound, "Message not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "contact handler error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}
