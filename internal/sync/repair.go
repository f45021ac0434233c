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

// RepairMappings rebuilds lost issue links for a pair by scanning both
// projects for mirror footers and relinking every match that has no
// registry row. The relinked baseline is the pair's current state, so
// repair itself never triggers writes. Returns how many links were
// restored.
func (e *Engine) RepairMappings(ctx context.Context, pairID uuid.UUID) (int, error) {
	if !e.locks.tryAcquire(pairID) {
		return 0, ErrAlreadyRunning
	}
	defer e.locks.release(pairID)

	pair, err := e.store.GetPair(ctx, pairID)
	if err != nil {
		return 0, fmt.Errorf("failed to load pair: %w", err)
	}

	forward, reverse, err := e.buildLegs(ctx, pair)
	if err != nil {
		return 0, err
	}

	// Mirrors can sit on either side of the pair, whichever leg created
	// them, so both orientations are scanned.
	repaired, err := forward.repair(ctx)
	if err != nil {
		return repaired, fmt.Errorf("forward repair failed: %w", err)
	}
	n, err := reverse.repair(ctx)
	repaired += n
	if err != nil {
		return repaired, fmt.Errorf("reverse repair failed: %w", err)
	}

	logger.Infof("Repaired %d issue links for pair %q", repaired, pair.Name)
	return repaired, nil
}

// repair scans destination issues for footers naming origin issues and
// relinks any pair that lost its registry row.
func (l *leg) repair(ctx context.Context) (int, error) {
	originIssues, err := l.origin.ListIssues(ctx, l.originProject, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("failed to list issues on %s: %w", l.originInst.Name, err)
	}
	byURL := make(map[string]*gitlab.Issue, len(originIssues))
	for _, issue := range originIssues {
		byURL[issue.WebURL] = issue
	}

	destIssues, err := l.dest.ListIssues(ctx, l.destProject, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("failed to list issues on %s: %w", l.destInst.Name, err)
	}

	repaired := 0
	for _, mirror := range destIssues {
		u, ok := footerURL(mirror.Description)
		if !ok {
			continue
		}
		origin, ok := byURL[u]
		if !ok {
			continue
		}

		if _, err := l.lookupLink(ctx, origin.IID); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return repaired, fmt.Errorf("failed to look up issue link: %w", err)
		}
		if _, err := l.lookupLinkByDest(ctx, mirror.IID); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return repaired, fmt.Errorf("failed to look up issue link: %w", err)
		}

		if err := l.saveBaseline(ctx, origin, mirror); err != nil {
			return repaired, err
		}
		logger.Infof("Relinked issue %d to mirror %d on pair %q", origin.IID, mirror.IID, l.pair.Name)
		repaired++
	}
	return repaired, nil
}

func (l *leg) lookupLinkByDest(ctx context.Context, destIID int64) (store.IssueLink, error) {
	if l.originIsSource {
		return l.engine.store.GetIssueLinkByTarget(ctx, l.pair.ID, destIID)
	}
	return l.engine.store.GetIssueLinkBySource(ctx, l.pair.ID, destIID)
}
