package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/issuebridge/issuebridge-server/internal/gitlab"
	"github.com/issuebridge/issuebridge-server/internal/logger"
	"github.com/issuebridge/issuebridge-server/internal/store"
)

// ErrAlreadyRunning is returned when a cycle is requested for a pair
// that is already mid-cycle. The caller should treat it as a no-op.
var ErrAlreadyRunning = errors.New("sync cycle already running for pair")

// Engine reconciles issues across the project pairs in the store.
type Engine struct {
	store   store.Store
	clients ClientFactory
	overlap time.Duration
	locks   *pairLocks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithOverlapWindow sets how far behind the last cycle time the
// incremental issue listing reaches. The overlap absorbs clock skew
// between the service and the GitLab instances.
func WithOverlapWindow(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.overlap = d
		}
	}
}

// NewEngine creates an engine backed by the given store. factory builds
// an API client for each stored instance; production wiring constructs
// gitlab.Client, tests substitute fakes.
func NewEngine(st store.Store, factory ClientFactory, opts ...EngineOption) *Engine {
	e := &Engine{
		store:   st,
		clients: factory,
		overlap: 2 * time.Minute,
		locks:   newPairLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunCycle executes one full sync cycle for the pair: a forward leg and,
// for bidirectional pairs, a reverse leg. Concurrent calls for the same
// pair coalesce; the losing caller gets ErrAlreadyRunning. Individual
// issue failures are logged and skipped; only credential failures and
// setup errors abort the cycle.
func (e *Engine) RunCycle(ctx context.Context, pairID uuid.UUID) (*CycleSummary, error) {
	if !e.locks.tryAcquire(pairID) {
		return nil, ErrAlreadyRunning
	}
	defer e.locks.release(pairID)

	pair, err := e.store.GetPair(ctx, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pair: %w", err)
	}
	if !pair.Enabled {
		return nil, fmt.Errorf("pair %q is disabled", pair.Name)
	}

	forward, reverse, err := e.buildLegs(ctx, pair)
	if err != nil {
		return nil, err
	}

	summary := &CycleSummary{
		PairID:    pair.ID,
		StartedAt: time.Now().UTC(),
	}

	// Capture the cutoff before listing so that edits racing the cycle
	// land inside the next window.
	since := e.sinceFor(pair)

	logger.Infof("Starting sync cycle for pair %q (bidirectional=%t)", pair.Name, pair.Bidirectional)

	if err := forward.run(ctx, since, summary); err != nil {
		return nil, fmt.Errorf("forward leg failed: %w", err)
	}
	if pair.Bidirectional {
		if err := reverse.run(ctx, since, summary); err != nil {
			return nil, fmt.Errorf("reverse leg failed: %w", err)
		}
	}

	if err := e.store.SetPairLastCycle(ctx, pair.ID, summary.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to record cycle time: %w", err)
	}

	summary.FinishedAt = time.Now().UTC()
	logger.Infof("Finished sync cycle for pair %q: created=%d updated=%d skipped=%d conflicts=%d failed=%d comments=%d",
		pair.Name, summary.Created, summary.Updated, summary.Skipped,
		summary.Conflicts, summary.Failed, summary.CommentsPropagated)
	return summary, nil
}

// sinceFor returns the incremental listing cutoff for the pair. A pair
// that never completed a cycle is listed from the beginning of time.
func (e *Engine) sinceFor(pair store.ProjectPair) time.Time {
	if pair.LastCycleAt == nil {
		return time.Time{}
	}
	return pair.LastCycleAt.Add(-e.overlap)
}

// buildLegs resolves the pair's instances into oriented legs. The
// reverse leg is built unconditionally; callers skip it for one-way
// pairs.
func (e *Engine) buildLegs(ctx context.Context, pair store.ProjectPair) (forward, reverse *leg, err error) {
	sourceInst, err := e.store.GetInstance(ctx, pair.SourceInstanceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load source instance: %w", err)
	}
	targetInst, err := e.store.GetInstance(ctx, pair.TargetInstanceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load target instance: %w", err)
	}

	sourceClient, err := e.clients(sourceInst)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build client for %q: %w", sourceInst.Name, err)
	}
	targetClient, err := e.clients(targetInst)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build client for %q: %w", targetInst.Name, err)
	}

	forward = &leg{
		engine:         e,
		pair:           pair,
		direction:      store.DirectionSourceToTarget,
		originIsSource: true,
		origin:         sourceClient,
		dest:           targetClient,
		originInst:     sourceInst,
		destInst:       targetInst,
		originProject:  pair.SourceProject,
		destProject:    pair.TargetProject,
	}
	reverse = &leg{
		engine:         e,
		pair:           pair,
		direction:      store.DirectionTargetToSource,
		originIsSource: false,
		origin:         targetClient,
		dest:           sourceClient,
		originInst:     targetInst,
		destInst:       sourceInst,
		originProject:  pair.TargetProject,
		destProject:    pair.SourceProject,
	}
	return forward, reverse, nil
}

// logOutcome appends an audit log row. Logging failures are reported but
// never abort sync work.
func (e *Engine) logOutcome(ctx context.Context, entry store.LogEntry) {
	if _, err := e.store.AppendLog(ctx, entry); err != nil {
		logger.Warnf("Failed to append sync log entry: %v", err)
	}
}

// abortsCycle reports whether an issue-level error is severe enough to
// stop the whole cycle. Credential failures are not per-issue problems
// and retrying the remaining issues would only hammer the API.
func abortsCycle(err error) bool {
	return gitlab.IsAuth(err)
}
