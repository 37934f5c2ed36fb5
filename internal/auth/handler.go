package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"deptportal/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// StudentLoginRequest carries the student login form. The field is
// called identifier to match the portal's login form.
type StudentLoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Handler struct {
	service   *Service
	tokens    *TokenManager
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(service *Service, tokens *TokenManager, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		tokens:    tokens,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/student/login", h.StudentLogin)
	router.Post("/student/logout", h.StudentLogout)
	router.Post("/admin/login", h.AdminLogin)
	router.Post("/admin/logout", h.AdminLogout)
}

func (h *Handler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req StudentLoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Both identifier and password are required.")
		return
	}

	stud, token, err := h.service.StudentLogin(r.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrAccountPending) {
			httputil.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "student login failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.InfoContext(r.Context(), "student logged in", "matric", stud.MatricNumber)
	SetAuthCookie(w, KindStudent, token, int(h.tokens.TTL().Seconds()))

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"student": stud,
	})
}

func (h *Handler) StudentLogout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w, KindStudent)
	httputil.RespondWithMessage(w, http.StatusOK, "You have been logged out.")
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Both username and password are required.")
		return
	}

	adm, token, err := h.service.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidAdmin) || errors.Is(err, ErrAdminInactive) {
			httputil.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "admin login failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Error during login. Please try again.")
		return
	}

	h.logger.InfoContext(r.Context(), "admin logged in", "username", adm.Username)
	SetAuthCookie(w, KindAdmin, token, int(h.tokens.TTL().Seconds()))

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Welcome, " + adm.Name + "!",
		"admin":   adm,
	})
}

func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w, KindAdmin)
	httputil.RespondWithMessage(w, http.StatusOK, "You have been logged out.")
}
