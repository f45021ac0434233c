package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuebridge/issuebridge-server/internal/api"
	"github.com/issuebridge/issuebridge-server/internal/config"
	"github.com/issuebridge/issuebridge-server/internal/store/inmemory"
	pkgsync "github.com/issuebridge/issuebridge-server/internal/sync"
)

type noopRunner struct{}

func (noopRunner) RunCycle(_ context.Context, pairID uuid.UUID) (*pkgsync.CycleSummary, error) {
	return &pkgsync.CycleSummary{PairID: pairID}, nil
}

func (noopRunner) RepairMappings(context.Context, uuid.UUID) (int, error) {
	return 0, nil
}

func TestHealthAndVersionRoutes(t *testing.T) {
	t.Parallel()

	server := api.NewServer(inmemory.New(), noopRunner{})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_version")
}

func TestAPIRoutesMounted(t *testing.T) {
	t.Parallel()

	server := api.NewServer(inmemory.New(), noopRunner{})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v0/instances", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBasicAuthMiddleware(t *testing.T) {
	t.Parallel()

	authCfg := &config.AuthConfig{Enabled: true, Username: "admin", Password: "s3cret"}
	server := api.NewServer(inmemory.New(), noopRunner{},
		api.WithMiddlewares(api.BasicAuthMiddleware(authCfg)))

	// Health stays open for probes.
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Everything else requires credentials.
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v0/instances", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v0/instances", nil)
	req.SetBasicAuth("admin", "wrong")
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v0/instances", nil)
	req.SetBasicAuth("admin", "s3cret")
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
