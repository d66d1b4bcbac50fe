package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"

	"gym-app-go/internal/config"
)

// CSRF protects form submissions with gorilla/csrf. Handlers expose the
// token through csrf.Token so clients can echo it back as the
// gorilla.csrf.Token form field or the X-CSRF-Token header.
func CSRF(cfg config.CSRFConfig, authKey []byte, secure bool) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	protect := csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(cfg.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	message := "invalid csrf token"
	if reason := csrf.FailureReason(r); reason != nil {
		message = reason.Error()
	}
	writeError(w, http.StatusForbidden, "csrf_failed", message)
}
