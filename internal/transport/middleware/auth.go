package middleware

import (
	"net/http"
	"strings"

	"github.com/icewatch/ice-news-monitor/internal/transport/response"
)

// Auth returns a middleware enforcing a Bearer token. An empty configured
// token disables the check (local development).
func Auth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				authHeader := r.Header.Get("Authorization")
				if !strings.HasPrefix(authHeader, "Bearer ") {
					response.WriteError(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				if strings.TrimPrefix(authHeader, "Bearer ") != token {
					response.WriteError(w, http.StatusForbidden, "Invalid token")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
