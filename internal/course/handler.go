package course

import (
	"log/slog"
	"net/http"
	"strings"

	"deptportal/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/api/courses/search", h.Search)
}

// Search backs the course autocomplete on the result upload screen.
// Queries shorter than two characters return an empty list.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		httputil.RespondWithJSON(w, http.StatusOK, []Course{})
		return
	}

	courses, err := h.repo.Search(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "course search failed", "error", err)
		httputil.RespondWithJSON(w, http.StatusOK, []Course{})
		return
	}
	if courses == nil {
		courses = []Course{}
	}

	httputil.RespondWithJSON(w, http.StatusOK, courses)
}
