package auth

import (
	"log/slog"
	"net/http"
	"os"

	"deptportal/internal/httputil"
)

// Each principal kind carries its own cookie, mirroring the two
// independent session markers the portal has always used.
const (
	StudentCookie = "student_token"
	AdminCookie   = "admin_token"
)

func cookieName(kind Kind) string {
	if kind == KindAdmin {
		return AdminCookie
	}
	return StudentCookie
}

// RequireStudent admits only requests bearing a valid student token.
func RequireStudent(tm *TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireKind(tm, logger, KindStudent, "Please log in to access this page.")
}

// RequireAdmin admits only requests bearing a valid admin token.
func RequireAdmin(tm *TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireKind(tm, logger, KindAdmin, "Please log in to access this page.")
}

func requireKind(tm *TokenManager, logger *slog.Logger, kind Kind, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := resolve(tm, r, kind)
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized request", "path", r.URL.Path, "kind", kind)
				httputil.RespondWithError(w, http.StatusUnauthorized, message)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAny admits a valid student or admin token; used for the
// receipt viewer which both principals may reach.
func RequireAny(tm *TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := resolve(tm, r, KindAdmin); ok {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
				return
			}
			if p, ok := resolve(tm, r, KindStudent); ok {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
				return
			}
			logger.WarnContext(r.Context(), "unauthorized request", "path", r.URL.Path)
			httputil.RespondWithError(w, http.StatusUnauthorized, "Please log in to access this page.")
		})
	}
}

func resolve(tm *TokenManager, r *http.Request, kind Kind) (Principal, bool) {
	cookie, err := r.Cookie(cookieName(kind))
	if err != nil {
		return Principal{}, false
	}
	p, err := tm.Validate(cookie.Value)
	if err != nil || p.Kind != kind {
		return Principal{}, false
	}
	return p, true
}

// SetAuthCookie sets the principal's token in a secure HttpOnly cookie
func SetAuthCookie(w http.ResponseWriter, kind Kind, token string, maxAge int) {
	sameSite := http.SameSiteStrictMode
	env := os.Getenv("ENV")
	if env == "development" || env == "local" {
		sameSite = http.SameSiteLaxMode // Allow testing from Postman
	}

	// Secure cookies require HTTPS - enable for production environments
	secure := env == "production" || env == "prod"

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(kind),
		Value:    token,
		HttpOnly: true,     // XSS protection
		Secure:   secure,   // HTTPS only in production
		SameSite: sameSite, // CSRF protection
		Path:     "/",
		MaxAge:   maxAge,
	})
}

// ClearAuthCookie removes the principal's auth cookie
func ClearAuthCookie(w http.ResponseWriter, kind Kind) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(kind),
		Value:    "",
		HttpOnly: true,
		Secure:   os.Getenv("ENV") != "local",
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1, // Delete cookie
	})
}
