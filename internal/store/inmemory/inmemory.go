// Package inmemory provides an in-memory Store implementation. It enforces
// the same uniqueness rules as the PostgreSQL schema and is used by the
// sync engine and API tests.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/issuebridge/issuebridge-server/internal/store"
)

// Store is a thread-safe in-memory implementation of store.Store.
type Store struct {
	mu sync.Mutex

	instances    map[uuid.UUID]store.Instance
	pairs        map[uuid.UUID]store.ProjectPair
	mappings     map[uuid.UUID]store.UserMapping
	issueLinks   map[uuid.UUID]store.IssueLink
	commentLinks map[uuid.UUID]store.CommentLink
	conflicts    map[uuid.UUID]store.Conflict
	logs         []store.LogEntry
	nextLogID    int64
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		instances:    make(map[uuid.UUID]store.Instance),
		pairs:        make(map[uuid.UUID]store.ProjectPair),
		mappings:     make(map[uuid.UUID]store.UserMapping),
		issueLinks:   make(map[uuid.UUID]store.IssueLink),
		commentLinks: make(map[uuid.UUID]store.CommentLink),
		conflicts:    make(map[uuid.UUID]store.Conflict),
		nextLogID:    1,
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) CreateInstance(_ context.Context, inst store.Instance) (store.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.instances {
		if existing.Name == inst.Name {
			return store.Instance{}, store.ErrAlreadyExists
		}
	}
	inst.ID = uuid.New()
	inst.CreatedAt = time.Now()
	inst.UpdatedAt = inst.CreatedAt
	s.instances[inst.ID] = inst
	return inst, nil
}

func (s *Store) GetInstance(_ context.Context, id uuid.UUID) (store.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok {
		return store.Instance{}, store.ErrNotFound
	}
	return inst, nil
}

func (s *Store) GetInstanceByName(_ context.Context, name string) (store.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inst := range s.instances {
		if inst.Name == name {
			return inst, nil
		}
	}
	return store.Instance{}, store.ErrNotFound
}

func (s *Store) ListInstances(_ context.Context) ([]store.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	instances := make([]store.Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		instances = append(instances, inst)
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].Name < instances[j].Name })
	return instances, nil
}

func (s *Store) UpdateInstance(_ context.Context, inst store.Instance) (store.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.instances[inst.ID]
	if !ok {
		return store.Instance{}, store.ErrNotFound
	}
	for id, other := range s.instances {
		if id != inst.ID && other.Name == inst.Name {
			return store.Instance{}, store.ErrAlreadyExists
		}
	}
	inst.CreatedAt = existing.CreatedAt
	inst.UpdatedAt = time.Now()
	s.instances[inst.ID] = inst
	return inst, nil
}

func (s *Store) DeleteInstance(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.instances, id)
	return nil
}

func (s *Store) CreatePair(_ context.Context, pair store.ProjectPair) (store.ProjectPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.pairs {
		if existing.Name == pair.Name {
			return store.ProjectPair{}, store.ErrAlreadyExists
		}
	}
	pair.ID = uuid.New()
	pair.CreatedAt = time.Now()
	pair.UpdatedAt = pair.CreatedAt
	s.pairs[pair.ID] = pair
	return pair, nil
}

func (s *Store) GetPair(_ context.Context, id uuid.UUID) (store.ProjectPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair, ok := s.pairs[id]
	if !ok {
		return store.ProjectPair{}, store.ErrNotFound
	}
	return pair, nil
}

func (s *Store) GetPairByName(_ context.Context, name string) (store.ProjectPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pair := range s.pairs {
		if pair.Name == name {
			return pair, nil
		}
	}
	return store.ProjectPair{}, store.ErrNotFound
}

func (s *Store) ListPairs(_ context.Context) ([]store.ProjectPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPairsLocked(false), nil
}

func (s *Store) ListEnabledPairs(_ context.Context) ([]store.ProjectPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPairsLocked(true), nil
}

func (s *Store) listPairsLocked(enabledOnly bool) []store.ProjectPair {
	pairs := make([]store.ProjectPair, 0, len(s.pairs))
	for _, pair := range s.pairs {
		if enabledOnly && !pair.Enabled {
			continue
		}
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs
}

func (s *Store) UpdatePair(_ context.Context, pair store.ProjectPair) (store.ProjectPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pairs[pair.ID]
	if !ok {
		return store.ProjectPair{}, store.ErrNotFound
	}
	for id, other := range s.pairs {
		if id != pair.ID && other.Name == pair.Name {
			return store.ProjectPair{}, store.ErrAlreadyExists
		}
	}
	pair.CreatedAt = existing.CreatedAt
	pair.LastCycleAt = existing.LastCycleAt
	pair.UpdatedAt = time.Now()
	s.pairs[pair.ID] = pair
	return pair, nil
}

func (s *Store) SetPairLastCycle(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair, ok := s.pairs[id]
	if !ok {
		return store.ErrNotFound
	}
	pair.LastCycleAt = &at
	pair.UpdatedAt = time.Now()
	s.pairs[id] = pair
	return nil
}

func (s *Store) DeletePair(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pairs, id)
	return nil
}

func (s *Store) CountPairs(_ context.Context) (store.PairCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := store.PairCounts{}
	for _, pair := range s.pairs {
		counts.Total++
		if pair.Enabled {
			counts.Enabled++
		}
	}
	return counts, nil
}

func (s *Store) CreateUserMapping(_ context.Context, m store.UserMapping) (store.UserMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.mappings {
		if existing.SourceInstanceID == m.SourceInstanceID &&
			existing.SourceUsername == m.SourceUsername &&
			existing.TargetInstanceID == m.TargetInstanceID {
			return store.UserMapping{}, store.ErrAlreadyExists
		}
	}
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	s.mappings[m.ID] = m
	return m, nil
}

func (s *Store) GetUserMapping(
	_ context.Context, sourceInstanceID uuid.UUID, sourceUsername string, targetInstanceID uuid.UUID,
) (store.UserMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.mappings {
		if m.SourceInstanceID == sourceInstanceID &&
			m.SourceUsername == sourceUsername &&
			m.TargetInstanceID == targetInstanceID {
			return m, nil
		}
	}
	return store.UserMapping{}, store.ErrNotFound
}

func (s *Store) ListUserMappings(_ context.Context) ([]store.UserMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings := make([]store.UserMapping, 0, len(s.mappings))
	for _, m := range s.mappings {
		mappings = append(mappings, m)
	}
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].SourceUsername < mappings[j].SourceUsername })
	return mappings, nil
}

func (s *Store) ListUserMappingsForInstances(
	_ context.Context, sourceInstanceID, targetInstanceID uuid.UUID,
) ([]store.UserMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mappings []store.UserMapping
	for _, m := range s.mappings {
		if m.SourceInstanceID == sourceInstanceID && m.TargetInstanceID == targetInstanceID {
			mappings = append(mappings, m)
		}
	}
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].SourceUsername < mappings[j].SourceUsername })
	return mappings, nil
}

func (s *Store) DeleteUserMapping(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.mappings, id)
	return nil
}

func (s *Store) UpsertIssueLink(_ context.Context, link store.IssueLink) (store.IssueLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.issueLinks {
		if existing.PairID == link.PairID && existing.SourceIID == link.SourceIID {
			link.ID = id
			s.issueLinks[id] = link
			return link, nil
		}
	}
	link.ID = uuid.New()
	s.issueLinks[link.ID] = link
	return link, nil
}

func (s *Store) GetIssueLinkBySource(_ context.Context, pairID uuid.UUID, sourceIID int64) (store.IssueLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range s.issueLinks {
		if link.PairID == pairID && link.SourceIID == sourceIID {
			return link, nil
		}
	}
	return store.IssueLink{}, store.ErrNotFound
}

func (s *Store) GetIssueLinkByTarget(_ context.Context, pairID uuid.UUID, targetIID int64) (store.IssueLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range s.issueLinks {
		if link.PairID == pairID && link.TargetIID == targetIID {
			return link, nil
		}
	}
	return store.IssueLink{}, store.ErrNotFound
}

func (s *Store) ListIssueLinks(_ context.Context, pairID uuid.UUID, limit, offset int32) ([]store.IssueLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var links []store.IssueLink
	for _, link := range s.issueLinks {
		if link.PairID == pairID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].LastSyncedAt.After(links[j].LastSyncedAt) })
	return paginate(links, limit, offset), nil
}

func (s *Store) DeleteIssueLink(_ context.Context, pairID uuid.UUID, sourceIID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, link := range s.issueLinks {
		if link.PairID == pairID && link.SourceIID == sourceIID {
			delete(s.issueLinks, id)
			return nil
		}
	}
	return nil
}

func (s *Store) CountIssueLinks(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.issueLinks)), nil
}

func (s *Store) CreateCommentLink(_ context.Context, link store.CommentLink) (store.CommentLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.commentLinks {
		if existing.PairID == link.PairID &&
			existing.Origin == link.Origin &&
			existing.OriginNoteID == link.OriginNoteID {
			return store.CommentLink{}, store.ErrAlreadyExists
		}
	}
	link.ID = uuid.New()
	link.CreatedAt = time.Now()
	s.commentLinks[link.ID] = link
	return link, nil
}

func (s *Store) GetCommentLink(
	_ context.Context, pairID uuid.UUID, origin store.Side, originNoteID int64,
) (store.CommentLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range s.commentLinks {
		if link.PairID == pairID && link.Origin == origin && link.OriginNoteID == originNoteID {
			return link, nil
		}
	}
	return store.CommentLink{}, store.ErrNotFound
}

func (s *Store) ListCommentLinks(_ context.Context, pairID uuid.UUID) ([]store.CommentLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var links []store.CommentLink
	for _, link := range s.commentLinks {
		if link.PairID == pairID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].CreatedAt.Before(links[j].CreatedAt) })
	return links, nil
}

func (s *Store) RecordConflict(_ context.Context, c store.Conflict) (store.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.conflicts {
		if !existing.Resolved && existing.PairID == c.PairID && existing.SourceIID == c.SourceIID {
			existing.TargetIID = c.TargetIID
			existing.Type = c.Type
			existing.Description = c.Description
			existing.SourceSnapshot = c.SourceSnapshot
			existing.TargetSnapshot = c.TargetSnapshot
			s.conflicts[id] = existing
			return existing, nil
		}
	}
	c.ID = uuid.New()
	c.Resolved = false
	c.CreatedAt = time.Now()
	s.conflicts[c.ID] = c
	return c, nil
}

func (s *Store) GetConflict(_ context.Context, id uuid.UUID) (store.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conflicts[id]
	if !ok {
		return store.Conflict{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) GetOpenConflict(_ context.Context, pairID uuid.UUID, sourceIID int64) (store.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.conflicts {
		if !c.Resolved && c.PairID == pairID && c.SourceIID == sourceIID {
			return c, nil
		}
	}
	return store.Conflict{}, store.ErrNotFound
}

func (s *Store) ListConflicts(_ context.Context, includeResolved bool, limit, offset int32) ([]store.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conflicts []store.Conflict
	for _, c := range s.conflicts {
		if !includeResolved && c.Resolved {
			continue
		}
		conflicts = append(conflicts, c)
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].CreatedAt.After(conflicts[j].CreatedAt) })
	return paginate(conflicts, limit, offset), nil
}

func (s *Store) ResolveConflict(_ context.Context, id uuid.UUID, notes string) (store.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conflicts[id]
	if !ok || c.Resolved {
		return store.Conflict{}, store.ErrNotFound
	}
	now := time.Now()
	c.Resolved = true
	c.ResolvedAt = &now
	c.ResolutionNotes = notes
	s.conflicts[id] = c
	return c, nil
}

func (s *Store) CountOpenConflicts(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, c := range s.conflicts {
		if !c.Resolved {
			count++
		}
	}
	return count, nil
}

func (s *Store) AppendLog(_ context.Context, entry store.LogEntry) (store.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextLogID
	s.nextLogID++
	entry.CreatedAt = time.Now()
	s.logs = append(s.logs, entry)
	return entry, nil
}

func (s *Store) ListLogs(_ context.Context, limit, offset int32) ([]store.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paginate(s.logsNewestFirstLocked(nil), limit, offset), nil
}

func (s *Store) ListLogsForPair(_ context.Context, pairID uuid.UUID, limit, offset int32) ([]store.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paginate(s.logsNewestFirstLocked(&pairID), limit, offset), nil
}

func (s *Store) logsNewestFirstLocked(pairID *uuid.UUID) []store.LogEntry {
	var entries []store.LogEntry
	for i := len(s.logs) - 1; i >= 0; i-- {
		if pairID != nil && s.logs[i].PairID != *pairID {
			continue
		}
		entries = append(entries, s.logs[i])
	}
	return entries
}

func (s *Store) CountLogsByStatusSince(_ context.Context, since time.Time) ([]store.StatusCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byStatus := make(map[store.Status]int64)
	for _, entry := range s.logs {
		if entry.CreatedAt.Before(since) {
			continue
		}
		byStatus[entry.Status]++
	}
	counts := make([]store.StatusCount, 0, len(byStatus))
	for status, count := range byStatus {
		counts = append(counts, store.StatusCount{Status: status, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })
	return counts, nil
}

func (s *Store) PurgeLogsBefore(_ context.Context, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.logs[:0]
	for _, entry := range s.logs {
		if !entry.CreatedAt.Before(cutoff) {
			kept = append(kept, entry)
		}
	}
	s.logs = kept
	return nil
}

func paginate[T any](items []T, limit, offset int32) []T {
	if offset >= int32(len(items)) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < int32(len(items)) {
		items = items[:limit]
	}
	return items
}
