package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/issuebridge/issuebridge-server/internal/config"
)

// BasicAuthMiddleware protects every route except /health with HTTP
// Basic auth. Credential comparison is constant-time.
func BasicAuthMiddleware(cfg *config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok || !credentialsMatch(cfg, username, password) {
				w.Header().Set("WWW-Authenticate", `Basic realm="issuebridge"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func credentialsMatch(cfg *config.AuthConfig, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
	return userOK && passOK
}
