package sync

import (
	gosync "sync"

	"github.com/google/uuid"
)

// pairLocks hands out non-blocking per-pair locks so that overlapping
// cycle requests for the same pair coalesce instead of queueing.
type pairLocks struct {
	mu   gosync.Mutex
	held map[uuid.UUID]struct{}
}

func newPairLocks() *pairLocks {
	return &pairLocks{held: make(map[uuid.UUID]struct{})}
}

// tryAcquire takes the lock for id if it is free and reports whether it
// succeeded.
func (p *pairLocks) tryAcquire(id uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, taken := p.held[id]; taken {
		return false
	}
	p.held[id] = struct{}{}
	return true
}

func (p *pairLocks) release(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.held, id)
}
