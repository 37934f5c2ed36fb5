package session

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"deptportal/internal/httputil"

	"github.com/go-chi/chi/v5"
)

var sessionNamePattern = regexp.MustCompile(`^\d{4}/\d{4}$`)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterAdminRoutes mounts the academic session screens.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/sessions", h.List)
	router.Post("/sessions", h.Create)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing sessions failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error loading sessions")
		return
	}

	current, err := h.repo.GetCurrent(r.Context())
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		h.logger.ErrorContext(r.Context(), "loading current session failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error loading sessions")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"current":  current,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionName string `json:"sessionName"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !sessionNamePattern.MatchString(req.SessionName) {
		httputil.RespondWithError(w, http.StatusBadRequest, "Session name must look like 2024/2025")
		return
	}

	exists, err := h.repo.ExistsByName(r.Context(), req.SessionName)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "checking session failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error saving session")
		return
	}
	if exists {
		httputil.RespondWithError(w, http.StatusConflict, "This session already exists")
		return
	}

	created, err := h.repo.Create(r.Context(), &Session{SessionName: req.SessionName})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "creating session failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "error saving session")
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Session added successfully!",
		"session": created,
	})
}
