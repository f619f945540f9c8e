package mw

import (
	"net/http"
	"strings"

	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/session"
)

// Authenticate resolves the bearer token to a user and stores it in the
// request context. Requests without a known user get 401: no operations are
// permitted without one.
func Authenticate(provider *session.Provider, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				log.Debug("request without bearer token",
					logger.String("path", r.URL.Path))
				unauthorized(w)
				return
			}

			user, ok := provider.UserForToken(token)
			if !ok {
				log.Warn("request with unknown token",
					logger.String("path", r.URL.Path),
					logger.String("remote_ip", r.RemoteAddr))
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}`))
}
