package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	v0 "github.com/issuebridge/issuebridge-server/internal/api/v0"
	"github.com/issuebridge/issuebridge-server/internal/logger"
	"github.com/issuebridge/issuebridge-server/internal/store"
	"github.com/issuebridge/issuebridge-server/internal/versions"
)

// ServerOption configures the API server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
}

// WithMiddlewares adds middleware to the server.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewServer creates and configures the HTTP router.
func NewServer(st store.Store, runner v0.SyncRunner, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler)

	r.Mount("/api/v0", v0.Router(st, runner))

	return r
}

// LoggingMiddleware logs HTTP requests.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Debugf("HTTP %s %s %d %s %s",
			r.Method,
			r.URL.Path,
			ww.Status(),
			time.Since(start),
			middleware.GetReqID(r.Context()),
		)
	})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	response := VersionResponse{
		Version:   info.Version,
		Commit:    info.Commit,
		BuildDate: info.BuildDate,
		GoVersion: info.GoVersion,
		Platform:  info.Platform,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Errorf("Failed to encode version info: %v", err)
	}
}
