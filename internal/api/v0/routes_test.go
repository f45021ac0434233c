package v0_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v0 "github.com/issuebridge/issuebridge-server/internal/api/v0"
	"github.com/issuebridge/issuebridge-server/internal/store"
	"github.com/issuebridge/issuebridge-server/internal/store/inmemory"
	pkgsync "github.com/issuebridge/issuebridge-server/internal/sync"
)

type fakeRunner struct {
	summary  *pkgsync.CycleSummary
	repaired int
	err      error
	calls    []uuid.UUID
}

func (f *fakeRunner) RunCycle(_ context.Context, pairID uuid.UUID) (*pkgsync.CycleSummary, error) {
	f.calls = append(f.calls, pairID)
	if f.err != nil {
		return nil, f.err
	}
	if f.summary != nil {
		return f.summary, nil
	}
	return &pkgsync.CycleSummary{PairID: pairID}, nil
}

func (f *fakeRunner) RepairMappings(_ context.Context, pairID uuid.UUID) (int, error) {
	f.calls = append(f.calls, pairID)
	return f.repaired, f.err
}

func newTestRouter(t *testing.T) (http.Handler, *inmemory.Store, *fakeRunner) {
	t.Helper()
	st := inmemory.New()
	runner := &fakeRunner{}
	return v0.Router(st, runner), st, runner
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedInstance(t *testing.T, st *inmemory.Store, name string) store.Instance {
	t.Helper()
	inst, err := st.CreateInstance(context.Background(), store.Instance{
		Name:        name,
		URL:         "https://" + name + ".example.com",
		AccessToken: "secret-token",
	})
	require.NoError(t, err)
	return inst
}

func seedPair(t *testing.T, st *inmemory.Store, enabled bool) store.ProjectPair {
	t.Helper()
	src := seedInstance(t, st, "src-"+uuid.NewString()[:8])
	tgt := seedInstance(t, st, "tgt-"+uuid.NewString()[:8])
	pair, err := st.CreatePair(context.Background(), store.ProjectPair{
		Name:             "pair-" + uuid.NewString()[:8],
		SourceInstanceID: src.ID,
		SourceProject:    "team/app",
		TargetInstanceID: tgt.ID,
		TargetProject:    "mirror/app",
		Enabled:          enabled,
	})
	require.NoError(t, err)
	return pair
}

func TestInstanceCRUD(t *testing.T) {
	t.Parallel()
	handler, _, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/instances", map[string]any{
		"name":         "primary",
		"url":          "https://gitlab.example.com/",
		"access_token": "glpat-abc",
		"description":  "main instance",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[v0.Instance](t, rec)
	assert.Equal(t, "primary", created.Name)
	assert.Equal(t, "https://gitlab.example.com", created.URL)
	// The token must never be echoed.
	assert.NotContains(t, rec.Body.String(), "glpat-abc")

	rec = doJSON(t, handler, http.MethodGet, "/instances/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPut, "/instances/"+created.ID.String(), map[string]any{
		"name": "primary",
		"url":  "https://gitlab.example.com",
		// Empty token keeps the stored one.
		"access_token": "",
		"description":  "renamed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[v0.Instance](t, rec)
	assert.Equal(t, "renamed", updated.Description)

	rec = doJSON(t, handler, http.MethodGet, "/instances", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]v0.Instance](t, rec), 1)

	rec = doJSON(t, handler, http.MethodDelete, "/instances/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/instances/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInstanceValidation(t *testing.T) {
	t.Parallel()
	handler, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"url": "https://x.example.com", "access_token": "t"}},
		{"bad url", map[string]any{"name": "a", "url": "ftp://x", "access_token": "t"}},
		{"missing token", map[string]any{"name": "a", "url": "https://x.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/instances", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestInstanceDuplicateName(t *testing.T) {
	t.Parallel()
	handler, st, _ := newTestRouter(t)

	seedInstance(t, st, "dup")
	rec := doJSON(t, handler, http.MethodPost, "/instances", map[string]any{
		"name": "dup", "url": "https://dup.example.com", "access_token": "t",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPairLifecycle(t *testing.T) {
	t.Parallel()
	handler, st, _ := newTestRouter(t)

	src := seedInstance(t, st, "a")
	tgt := seedInstance(t, st, "b")

	rec := doJSON(t, handler, http.MethodPost, "/pairs", map[string]any{
		"name":               "app",
		"source_instance_id": src.ID,
		"source_project":     "team/app",
		"target_instance_id": tgt.ID,
		"target_project":     "mirror/app",
		"bidirectional":      true,
		"sync_interval":      "15m",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[v0.ProjectPair](t, rec)
	assert.True(t, created.Enabled)
	assert.Equal(t, "15m0s", created.SyncInterval)

	enabled := false
	rec = doJSON(t, handler, http.MethodPut, "/pairs/"+created.ID.String(), map[string]any{
		"name":               "app",
		"source_instance_id": src.ID,
		"source_project":     "team/app",
		"target_instance_id": tgt.ID,
		"target_project":     "mirror/app",
		"bidirectional":      true,
		"enabled":            enabled,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[v0.ProjectPair](t, rec).Enabled)

	rec = doJSON(t, handler, http.MethodGet, "/pairs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]v0.ProjectPair](t, rec), 1)
}

func TestCreatePairValidation(t *testing.T) {
	t.Parallel()
	handler, st, _ := newTestRouter(t)

	src := seedInstance(t, st, "a")

	// Unknown target instance.
	rec := doJSON(t, handler, http.MethodPost, "/pairs", map[string]any{
		"name":               "app",
		"source_instance_id": src.ID,
		"source_project":     "team/app",
		"target_instance_id": uuid.New(),
		"target_project":     "mirror/app",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unparseable interval.
	tgt := seedInstance(t, st, "b")
	rec = doJSON(t, handler, http.MethodPost, "/pairs", map[string]any{
		"name":               "app",
		"source_instance_id": src.ID,
		"source_project":     "team/app",
		"target_instance_id": tgt.ID,
		"target_project":     "mirror/app",
		"sync_interval":      "soon",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerSync(t *testing.T) {
	t.Parallel()
	handler, st, runner := newTestRouter(t)

	pair := seedPair(t, st, true)

	rec := doJSON(t, handler, http.MethodPost, "/pairs/"+pair.ID.String()+"/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[pkgsync.CycleSummary](t, rec)
	assert.Equal(t, pair.ID, summary.PairID)
	assert.Equal(t, []uuid.UUID{pair.ID}, runner.calls)

	rec = doJSON(t, handler, http.MethodPost, "/pairs/"+uuid.NewString()+"/sync", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTriggerSyncDisabledPair(t *testing.T) {
	t.Parallel()
	handler, st, runner := newTestRouter(t)

	pair := seedPair(t, st, false)

	rec := doJSON(t, handler, http.MethodPost, "/pairs/"+pair.ID.String()+"/sync", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, runner.calls)
}

func TestTriggerSyncAlreadyRunning(t *testing.T) {
	t.Parallel()
	handler, st, runner := newTestRouter(t)

	pair := seedPair(t, st, true)
	runner.err = pkgsync.ErrAlreadyRunning

	rec := doJSON(t, handler, http.MethodPost, "/pairs/"+pair.ID.String()+"/sync", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRepairMappings(t *testing.T) {
	t.Parallel()
	handler, st, runner := newTestRouter(t)

	pair := seedPair(t, st, true)
	runner.repaired = 3

	rec := doJSON(t, handler, http.MethodPost, "/pairs/"+pair.ID.String()+"/repair-mappings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"repaired": 3}, decode[map[string]int](t, rec))
}

func TestUserMappingAPI(t *testing.T) {
	t.Parallel()
	handler, st, _ := newTestRouter(t)

	src := seedInstance(t, st, "a")
	tgt := seedInstance(t, st, "b")

	body := map[string]any{
		"source_instance_id": src.ID,
		"source_username":    "alice",
		"target_instance_id": tgt.ID,
		"target_username":    "alicia",
	}
	rec := doJSON(t, handler, http.MethodPost, "/user-mappings", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[v0.UserMapping](t, rec)

	rec = doJSON(t, handler, http.MethodPost, "/user-mappings", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/user-mappings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]v0.UserMapping](t, rec), 1)

	rec = doJSON(t, handler, http.MethodDelete, "/user-mappings/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestConflictListAndResolve(t *testing.T) {
	t.Parallel()
	handler, st, _ := newTestRouter(t)
	ctx := context.Background()

	pair := seedPair(t, st, true)
	targetIID := int64(9)
	conflict, err := st.RecordConflict(ctx, store.Conflict{
		PairID:    pair.ID,
		SourceIID: 4,
		TargetIID: &targetIID,
		Type:      "concurrent-edit",
	})
	require.NoError(t, err)

	rec := doJSON(t, handler, http.MethodGet, "/conflicts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]v0.Conflict](t, rec)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].Resolved)

	rec = doJSON(t, handler, http.MethodPost, "/conflicts/"+conflict.ID.String()+"/resolve",
		map[string]any{"notes": "kept target wording"})
	require.Equal(t, http.StatusOK, rec.Code)
	resolved := decode[v0.Conflict](t, rec)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, "kept target wording", resolved.ResolutionNotes)

	// Resolving twice is rejected.
	rec = doJSON(t, handler, http.MethodPost, "/conflicts/"+conflict.ID.String()+"/resolve",
		map[string]any{"notes": "again"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Resolved conflicts only appear when asked for.
	rec = doJSON(t, handler, http.MethodGet, "/conflicts", nil)
	assert.Len(t, decode[[]v0.Conflict](t, rec), 0)
	rec = doJSON(t, handler, http.MethodGet, "/conflicts?include_resolved=true", nil)
	assert.Len(t, decode[[]v0.Conflict](t, rec), 1)
}

func TestLogsPagination(t *testing.T) {
	t.Parallel()
	handler, st, _ := newTestRouter(t)
	ctx := context.Background()

	pair := seedPair(t, st, true)
	for i := 0; i < 3; i++ {
		_, err := st.AppendLog(ctx, store.LogEntry{
			PairID:    pair.ID,
			Direction: store.DirectionSourceToTarget,
			Status:    store.StatusSuccess,
			Message:   "ok",
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, handler, http.MethodGet, "/logs?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]v0.LogEntry](t, rec), 2)

	rec = doJSON(t, handler, http.MethodGet, "/pairs/"+pair.ID.String()+"/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]v0.LogEntry](t, rec), 3)
}

func TestDashboardStats(t *testing.T) {
	t.Parallel()
	handler, st, _ := newTestRouter(t)
	ctx := context.Background()

	pair := seedPair(t, st, true)
	seedPair(t, st, false)

	_, err := st.RecordConflict(ctx, store.Conflict{PairID: pair.ID, SourceIID: 1, Type: "concurrent-edit"})
	require.NoError(t, err)
	_, err = st.UpsertIssueLink(ctx, store.IssueLink{
		PairID: pair.ID, SourceIID: 1, TargetIID: 2, LastSyncedAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = st.AppendLog(ctx, store.LogEntry{
		PairID: pair.ID, Direction: store.DirectionSourceToTarget, Status: store.StatusConflict,
	})
	require.NoError(t, err)

	rec := doJSON(t, handler, http.MethodGet, "/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[v0.DashboardStats](t, rec)
	assert.Equal(t, int64(2), stats.TotalPairs)
	assert.Equal(t, int64(1), stats.EnabledPairs)
	assert.Equal(t, int64(1), stats.LinkedIssues)
	assert.Equal(t, int64(1), stats.OpenConflicts)
	assert.Equal(t, int64(1), stats.Last24h["CONFLICT"])
}
