package coordinator

import (
	"context"
	"errors"
	"math/rand/v2"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/issuebridge/issuebridge-server/internal/logger"
	"github.com/issuebridge/issuebridge-server/internal/store"
	pkgsync "github.com/issuebridge/issuebridge-server/internal/sync"
)

const (
	// basePollingInterval is the base interval at which the coordinator
	// checks for due pairs.
	basePollingInterval = 30 * time.Second
	// pollingJitter is the maximum random offset applied to the polling
	// interval so replicas do not poll the database in lockstep.
	pollingJitter = 5 * time.Second
)

// CycleRunner runs one sync cycle for a pair. *sync.Engine implements it.
type CycleRunner interface {
	RunCycle(ctx context.Context, pairID uuid.UUID) (*pkgsync.CycleSummary, error)
}

// Coordinator manages background sync scheduling for all enabled pairs.
type Coordinator interface {
	// Start begins background scheduling. Blocks until the context is
	// cancelled.
	Start(ctx context.Context) error

	// Stop cancels scheduling and waits for in-flight cycles to finish.
	Stop() error
}

type defaultCoordinator struct {
	runner          CycleRunner
	pairs           store.PairStore
	defaultInterval time.Duration

	cancelFunc context.CancelFunc
	done       chan struct{}
	wg         gosync.WaitGroup
}

// New creates a coordinator. defaultInterval applies to pairs that do
// not set their own sync interval.
func New(runner CycleRunner, pairs store.PairStore, defaultInterval time.Duration) Coordinator {
	return &defaultCoordinator{
		runner:          runner,
		pairs:           pairs,
		defaultInterval: defaultInterval,
		done:            make(chan struct{}),
	}
}

// calculatePollingInterval returns the base polling interval with a
// random jitter applied.
func calculatePollingInterval() time.Duration {
	//nolint:gosec // G404: non-cryptographic randomness is fine for polling jitter
	offset := time.Duration(rand.Int64N(int64(2*pollingJitter))) - pollingJitter
	return basePollingInterval + offset
}

func (c *defaultCoordinator) Start(ctx context.Context) error {
	coordCtx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel
	defer func() {
		c.wg.Wait()
		close(c.done)
		logger.Info("Sync coordinator shut down")
	}()

	pollingInterval := calculatePollingInterval()
	logger.Infof("Starting sync coordinator (polling every %s)", pollingInterval)

	ticker := time.NewTicker(pollingInterval)
	defer ticker.Stop()

	c.dispatchDueCycles(coordCtx)

	for {
		select {
		case <-ticker.C:
			c.dispatchDueCycles(coordCtx)
			ticker.Reset(calculatePollingInterval())
		case <-coordCtx.Done():
			logger.Info("Sync coordinator stopping")
			return nil
		}
	}
}

func (c *defaultCoordinator) Stop() error {
	if c.cancelFunc != nil {
		c.cancelFunc()
		<-c.done
	}
	return nil
}

// dispatchDueCycles starts a cycle for every enabled pair whose
// interval has elapsed. Cycles for different pairs run concurrently;
// the engine's per-pair lock serializes cycles for the same pair.
func (c *defaultCoordinator) dispatchDueCycles(ctx context.Context) {
	pairs, err := c.pairs.ListEnabledPairs(ctx)
	if err != nil {
		logger.Errorf("Failed to list enabled pairs: %v", err)
		return
	}

	now := time.Now()
	for _, pair := range pairs {
		if !c.due(pair, now) {
			continue
		}
		c.wg.Add(1)
		go func(pair store.ProjectPair) {
			defer c.wg.Done()
			c.runCycle(ctx, pair)
		}(pair)
	}
}

func (c *defaultCoordinator) due(pair store.ProjectPair, now time.Time) bool {
	if pair.LastCycleAt == nil {
		return true
	}
	interval := pair.SyncInterval
	if interval <= 0 {
		interval = c.defaultInterval
	}
	return now.Sub(*pair.LastCycleAt) >= interval
}

func (c *defaultCoordinator) runCycle(ctx context.Context, pair store.ProjectPair) {
	summary, err := c.runner.RunCycle(ctx, pair.ID)
	switch {
	case errors.Is(err, pkgsync.ErrAlreadyRunning):
		logger.Debugf("Pair %q already syncing; skipping scheduled cycle", pair.Name)
	case err != nil:
		logger.Errorf("Scheduled cycle for pair %q failed: %v", pair.Name, err)
	default:
		logger.Infof("Scheduled cycle for pair %q: created=%d updated=%d conflicts=%d failed=%d",
			pair.Name, summary.Created, summary.Updated, summary.Conflicts, summary.Failed)
	}
}
