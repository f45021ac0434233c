package coordinator

import (
	"context"
	gosync "sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuebridge/issuebridge-server/internal/store"
	"github.com/issuebridge/issuebridge-server/internal/store/inmemory"
	pkgsync "github.com/issuebridge/issuebridge-server/internal/sync"
)

type fakeRunner struct {
	mu   gosync.Mutex
	runs []uuid.UUID
	err  error
}

func (f *fakeRunner) RunCycle(_ context.Context, pairID uuid.UUID) (*pkgsync.CycleSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, pairID)
	if f.err != nil {
		return nil, f.err
	}
	return &pkgsync.CycleSummary{PairID: pairID}, nil
}

func (f *fakeRunner) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func seedPair(t *testing.T, st *inmemory.Store, name string, enabled bool, lastCycle *time.Time, interval time.Duration) store.ProjectPair {
	t.Helper()
	ctx := context.Background()

	src, err := st.CreateInstance(ctx, store.Instance{Name: name + "-a", URL: "https://a.example.com", AccessToken: "t"})
	require.NoError(t, err)
	tgt, err := st.CreateInstance(ctx, store.Instance{Name: name + "-b", URL: "https://b.example.com", AccessToken: "t"})
	require.NoError(t, err)

	pair, err := st.CreatePair(ctx, store.ProjectPair{
		Name:             name,
		SourceInstanceID: src.ID,
		SourceProject:    "a/p",
		TargetInstanceID: tgt.ID,
		TargetProject:    "b/p",
		Enabled:          enabled,
		SyncInterval:     interval,
	})
	require.NoError(t, err)

	if lastCycle != nil {
		require.NoError(t, st.SetPairLastCycle(ctx, pair.ID, *lastCycle))
		pair.LastCycleAt = lastCycle
	}
	return pair
}

func TestDue(t *testing.T) {
	t.Parallel()

	c := &defaultCoordinator{defaultInterval: 10 * time.Minute}
	now := time.Now()
	recent := now.Add(-time.Minute)
	stale := now.Add(-time.Hour)

	tests := []struct {
		name string
		pair store.ProjectPair
		want bool
	}{
		{
			name: "never synced",
			pair: store.ProjectPair{},
			want: true,
		},
		{
			name: "default interval not elapsed",
			pair: store.ProjectPair{LastCycleAt: &recent},
			want: false,
		},
		{
			name: "default interval elapsed",
			pair: store.ProjectPair{LastCycleAt: &stale},
			want: true,
		},
		{
			name: "own interval overrides default",
			pair: store.ProjectPair{LastCycleAt: &recent, SyncInterval: 30 * time.Second},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.due(tt.pair, now))
		})
	}
}

func TestDispatchDueCycles(t *testing.T) {
	t.Parallel()

	st := inmemory.New()
	runner := &fakeRunner{}

	recent := time.Now().Add(-time.Second)
	due := seedPair(t, st, "due", true, nil, 0)
	seedPair(t, st, "fresh", true, &recent, time.Hour)
	seedPair(t, st, "disabled", false, nil, 0)

	c := New(runner, st, 10*time.Minute).(*defaultCoordinator)
	c.dispatchDueCycles(context.Background())
	c.wg.Wait()

	require.Equal(t, 1, runner.runCount())
	assert.Equal(t, due.ID, runner.runs[0])
}

func TestStartRunsInitialDispatchAndStops(t *testing.T) {
	t.Parallel()

	st := inmemory.New()
	runner := &fakeRunner{}
	seedPair(t, st, "pair", true, nil, 0)

	c := New(runner, st, 10*time.Minute)

	started := make(chan error, 1)
	go func() {
		started <- c.Start(context.Background())
	}()

	require.Eventually(t, func() bool {
		return runner.runCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Stop())
	require.NoError(t, <-started)
}
