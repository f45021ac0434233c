package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/issuebridge/issuebridge-server/internal/db/pgtypes"
	"github.com/issuebridge/issuebridge-server/internal/db/sqlc"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// dbStore implements Store on top of the generated query layer.
type dbStore struct {
	q sqlc.Querier
}

// NewDBStore returns a Store backed by PostgreSQL.
func NewDBStore(q sqlc.Querier) Store {
	return &dbStore{q: q}
}

// mapErr translates driver-level errors into the store's sentinel errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrAlreadyExists
	}
	return err
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromPgUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}

func pgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func pgTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func fromPgTime(t pgtype.Timestamptz) time.Time {
	return t.Time
}

func fromPgTimePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	tt := t.Time
	return &tt
}

func pgInt8Ptr(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func fromPgInt8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	vv := v.Int64
	return &vv
}

func pgInterval(d time.Duration) pgtypes.Interval {
	if d == 0 {
		return pgtypes.NewNullInterval()
	}
	return pgtypes.NewInterval(d)
}

func instanceFromRow(row sqlc.Instance) Instance {
	return Instance{
		ID:               fromPgUUID(row.ID),
		Name:             row.Name,
		URL:              row.Url,
		AccessToken:      row.AccessToken,
		Description:      row.Description.String,
		CatchAllUsername: row.CatchAllUsername.String,
		CreatedAt:        fromPgTime(row.CreatedAt),
		UpdatedAt:        fromPgTime(row.UpdatedAt),
	}
}

func pairFromRow(row sqlc.ProjectPair) ProjectPair {
	var interval time.Duration
	if row.SyncInterval.Valid {
		interval = row.SyncInterval.Duration
	}
	return ProjectPair{
		ID:               fromPgUUID(row.ID),
		Name:             row.Name,
		SourceInstanceID: fromPgUUID(row.SourceInstanceID),
		SourceProject:    row.SourceProject,
		TargetInstanceID: fromPgUUID(row.TargetInstanceID),
		TargetProject:    row.TargetProject,
		Bidirectional:    row.Bidirectional,
		Enabled:          row.Enabled,
		SyncInterval:     interval,
		LastCycleAt:      fromPgTimePtr(row.LastCycleAt),
		CreatedAt:        fromPgTime(row.CreatedAt),
		UpdatedAt:        fromPgTime(row.UpdatedAt),
	}
}

func mappingFromRow(row sqlc.UserMapping) UserMapping {
	return UserMapping{
		ID:               fromPgUUID(row.ID),
		SourceInstanceID: fromPgUUID(row.SourceInstanceID),
		SourceUsername:   row.SourceUsername,
		TargetInstanceID: fromPgUUID(row.TargetInstanceID),
		TargetUsername:   row.TargetUsername,
		CreatedAt:        fromPgTime(row.CreatedAt),
	}
}

func issueLinkFromRow(row sqlc.SyncedIssue) IssueLink {
	return IssueLink{
		ID:                fromPgUUID(row.ID),
		PairID:            fromPgUUID(row.PairID),
		SourceIID:         row.SourceIid,
		TargetIID:         row.TargetIid,
		SourceFingerprint: row.SourceFingerprint,
		TargetFingerprint: row.TargetFingerprint,
		LastSyncedAt:      fromPgTime(row.LastSyncedAt),
	}
}

func commentLinkFromRow(row sqlc.SyncedComment) CommentLink {
	return CommentLink{
		ID:             fromPgUUID(row.ID),
		PairID:         fromPgUUID(row.PairID),
		Origin:         Side(row.Origin),
		OriginNoteID:   row.OriginNoteID,
		MirroredNoteID: row.MirroredNoteID,
		CreatedAt:      fromPgTime(row.CreatedAt),
	}
}

func conflictFromRow(row sqlc.Conflict) Conflict {
	return Conflict{
		ID:              fromPgUUID(row.ID),
		PairID:          fromPgUUID(row.PairID),
		SourceIID:       row.SourceIid,
		TargetIID:       fromPgInt8Ptr(row.TargetIid),
		Type:            row.ConflictType,
		Description:     row.Description,
		SourceSnapshot:  row.SourceSnapshot,
		TargetSnapshot:  row.TargetSnapshot,
		Resolved:        row.Resolved,
		ResolvedAt:      fromPgTimePtr(row.ResolvedAt),
		ResolutionNotes: row.ResolutionNotes.String,
		CreatedAt:       fromPgTime(row.CreatedAt),
	}
}

func logEntryFromRow(row sqlc.SyncLog) LogEntry {
	var direction Direction
	if row.Direction.Valid {
		direction = Direction(row.Direction.SyncDirection)
	}
	return LogEntry{
		ID:        row.ID,
		PairID:    fromPgUUID(row.PairID),
		Direction: direction,
		Status:    Status(row.Status),
		SourceIID: fromPgInt8Ptr(row.SourceIid),
		TargetIID: fromPgInt8Ptr(row.TargetIid),
		Message:   row.Message.String,
		CreatedAt: fromPgTime(row.CreatedAt),
	}
}

func (s *dbStore) CreateInstance(ctx context.Context, inst Instance) (Instance, error) {
	row, err := s.q.InsertInstance(ctx, sqlc.InsertInstanceParams{
		Name:             inst.Name,
		Url:              inst.URL,
		AccessToken:      inst.AccessToken,
		Description:      pgText(inst.Description),
		CatchAllUsername: pgText(inst.CatchAllUsername),
	})
	if err != nil {
		return Instance{}, mapErr(err)
	}
	return instanceFromRow(row), nil
}

func (s *dbStore) GetInstance(ctx context.Context, id uuid.UUID) (Instance, error) {
	row, err := s.q.GetInstance(ctx, pgUUID(id))
	if err != nil {
		return Instance{}, mapErr(err)
	}
	return instanceFromRow(row), nil
}

func (s *dbStore) GetInstanceByName(ctx context.Context, name string) (Instance, error) {
	row, err := s.q.GetInstanceByName(ctx, name)
	if err != nil {
		return Instance{}, mapErr(err)
	}
	return instanceFromRow(row), nil
}

func (s *dbStore) ListInstances(ctx context.Context) ([]Instance, error) {
	rows, err := s.q.ListInstances(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	instances := make([]Instance, 0, len(rows))
	for _, row := range rows {
		instances = append(instances, instanceFromRow(row))
	}
	return instances, nil
}

func (s *dbStore) UpdateInstance(ctx context.Context, inst Instance) (Instance, error) {
	row, err := s.q.UpdateInstance(ctx, sqlc.UpdateInstanceParams{
		ID:               pgUUID(inst.ID),
		Name:             inst.Name,
		Url:              inst.URL,
		AccessToken:      inst.AccessToken,
		Description:      pgText(inst.Description),
		CatchAllUsername: pgText(inst.CatchAllUsername),
	})
	if err != nil {
		return Instance{}, mapErr(err)
	}
	return instanceFromRow(row), nil
}

func (s *dbStore) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	return mapErr(s.q.DeleteInstance(ctx, pgUUID(id)))
}

func (s *dbStore) CreatePair(ctx context.Context, pair ProjectPair) (ProjectPair, error) {
	row, err := s.q.InsertProjectPair(ctx, sqlc.InsertProjectPairParams{
		Name:             pair.Name,
		SourceInstanceID: pgUUID(pair.SourceInstanceID),
		SourceProject:    pair.SourceProject,
		TargetInstanceID: pgUUID(pair.TargetInstanceID),
		TargetProject:    pair.TargetProject,
		Bidirectional:    pair.Bidirectional,
		Enabled:          pair.Enabled,
		SyncInterval:     pgInterval(pair.SyncInterval),
	})
	if err != nil {
		return ProjectPair{}, mapErr(err)
	}
	return pairFromRow(row), nil
}

func (s *dbStore) GetPair(ctx context.Context, id uuid.UUID) (ProjectPair, error) {
	row, err := s.q.GetProjectPair(ctx, pgUUID(id))
	if err != nil {
		return ProjectPair{}, mapErr(err)
	}
	return pairFromRow(row), nil
}

func (s *dbStore) GetPairByName(ctx context.Context, name string) (ProjectPair, error) {
	row, err := s.q.GetProjectPairByName(ctx, name)
	if err != nil {
		return ProjectPair{}, mapErr(err)
	}
	return pairFromRow(row), nil
}

func (s *dbStore) ListPairs(ctx context.Context) ([]ProjectPair, error) {
	rows, err := s.q.ListProjectPairs(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	pairs := make([]ProjectPair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, pairFromRow(row))
	}
	return pairs, nil
}

func (s *dbStore) ListEnabledPairs(ctx context.Context) ([]ProjectPair, error) {
	rows, err := s.q.ListEnabledProjectPairs(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	pairs := make([]ProjectPair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, pairFromRow(row))
	}
	return pairs, nil
}

func (s *dbStore) UpdatePair(ctx context.Context, pair ProjectPair) (ProjectPair, error) {
	row, err := s.q.UpdateProjectPair(ctx, sqlc.UpdateProjectPairParams{
		ID:               pgUUID(pair.ID),
		Name:             pair.Name,
		SourceInstanceID: pgUUID(pair.SourceInstanceID),
		SourceProject:    pair.SourceProject,
		TargetInstanceID: pgUUID(pair.TargetInstanceID),
		TargetProject:    pair.TargetProject,
		Bidirectional:    pair.Bidirectional,
		Enabled:          pair.Enabled,
		SyncInterval:     pgInterval(pair.SyncInterval),
	})
	if err != nil {
		return ProjectPair{}, mapErr(err)
	}
	return pairFromRow(row), nil
}

func (s *dbStore) SetPairLastCycle(ctx context.Context, id uuid.UUID, at time.Time) error {
	return mapErr(s.q.SetProjectPairLastCycle(ctx, sqlc.SetProjectPairLastCycleParams{
		ID:          pgUUID(id),
		LastCycleAt: pgTime(at),
	}))
}

func (s *dbStore) DeletePair(ctx context.Context, id uuid.UUID) error {
	return mapErr(s.q.DeleteProjectPair(ctx, pgUUID(id)))
}

func (s *dbStore) CountPairs(ctx context.Context) (PairCounts, error) {
	row, err := s.q.CountProjectPairs(ctx)
	if err != nil {
		return PairCounts{}, mapErr(err)
	}
	return PairCounts{Total: row.Total, Enabled: row.Enabled}, nil
}

func (s *dbStore) CreateUserMapping(ctx context.Context, m UserMapping) (UserMapping, error) {
	row, err := s.q.InsertUserMapping(ctx, sqlc.InsertUserMappingParams{
		SourceInstanceID: pgUUID(m.SourceInstanceID),
		SourceUsername:   m.SourceUsername,
		TargetInstanceID: pgUUID(m.TargetInstanceID),
		TargetUsername:   m.TargetUsername,
	})
	if err != nil {
		return UserMapping{}, mapErr(err)
	}
	return mappingFromRow(row), nil
}

func (s *dbStore) GetUserMapping(
	ctx context.Context, sourceInstanceID uuid.UUID, sourceUsername string, targetInstanceID uuid.UUID,
) (UserMapping, error) {
	row, err := s.q.GetUserMapping(ctx, sqlc.GetUserMappingParams{
		SourceInstanceID: pgUUID(sourceInstanceID),
		SourceUsername:   sourceUsername,
		TargetInstanceID: pgUUID(targetInstanceID),
	})
	if err != nil {
		return UserMapping{}, mapErr(err)
	}
	return mappingFromRow(row), nil
}

func (s *dbStore) ListUserMappings(ctx context.Context) ([]UserMapping, error) {
	rows, err := s.q.ListUserMappings(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	mappings := make([]UserMapping, 0, len(rows))
	for _, row := range rows {
		mappings = append(mappings, mappingFromRow(row))
	}
	return mappings, nil
}

func (s *dbStore) ListUserMappingsForInstances(
	ctx context.Context, sourceInstanceID, targetInstanceID uuid.UUID,
) ([]UserMapping, error) {
	rows, err := s.q.ListUserMappingsForInstances(ctx, sqlc.ListUserMappingsForInstancesParams{
		SourceInstanceID: pgUUID(sourceInstanceID),
		TargetInstanceID: pgUUID(targetInstanceID),
	})
	if err != nil {
		return nil, mapErr(err)
	}
	mappings := make([]UserMapping, 0, len(rows))
	for _, row := range rows {
		mappings = append(mappings, mappingFromRow(row))
	}
	return mappings, nil
}

func (s *dbStore) DeleteUserMapping(ctx context.Context, id uuid.UUID) error {
	return mapErr(s.q.DeleteUserMapping(ctx, pgUUID(id)))
}

func (s *dbStore) UpsertIssueLink(ctx context.Context, link IssueLink) (IssueLink, error) {
	row, err := s.q.UpsertSyncedIssue(ctx, sqlc.UpsertSyncedIssueParams{
		PairID:            pgUUID(link.PairID),
		SourceIid:         link.SourceIID,
		TargetIid:         link.TargetIID,
		SourceFingerprint: link.SourceFingerprint,
		TargetFingerprint: link.TargetFingerprint,
		LastSyncedAt:      pgTime(link.LastSyncedAt),
	})
	if err != nil {
		return IssueLink{}, mapErr(err)
	}
	return issueLinkFromRow(row), nil
}

func (s *dbStore) GetIssueLinkBySource(ctx context.Context, pairID uuid.UUID, sourceIID int64) (IssueLink, error) {
	row, err := s.q.GetSyncedIssueBySource(ctx, sqlc.GetSyncedIssueBySourceParams{
		PairID:    pgUUID(pairID),
		SourceIid: sourceIID,
	})
	if err != nil {
		return IssueLink{}, mapErr(err)
	}
	return issueLinkFromRow(row), nil
}

func (s *dbStore) GetIssueLinkByTarget(ctx context.Context, pairID uuid.UUID, targetIID int64) (IssueLink, error) {
	row, err := s.q.GetSyncedIssueByTarget(ctx, sqlc.GetSyncedIssueByTargetParams{
		PairID:    pgUUID(pairID),
		TargetIid: targetIID,
	})
	if err != nil {
		return IssueLink{}, mapErr(err)
	}
	return issueLinkFromRow(row), nil
}

func (s *dbStore) ListIssueLinks(ctx context.Context, pairID uuid.UUID, limit, offset int32) ([]IssueLink, error) {
	rows, err := s.q.ListSyncedIssues(ctx, sqlc.ListSyncedIssuesParams{
		PairID: pgUUID(pairID),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	links := make([]IssueLink, 0, len(rows))
	for _, row := range rows {
		links = append(links, issueLinkFromRow(row))
	}
	return links, nil
}

func (s *dbStore) DeleteIssueLink(ctx context.Context, pairID uuid.UUID, sourceIID int64) error {
	return mapErr(s.q.DeleteSyncedIssue(ctx, sqlc.DeleteSyncedIssueParams{
		PairID:    pgUUID(pairID),
		SourceIid: sourceIID,
	}))
}

func (s *dbStore) CountIssueLinks(ctx context.Context) (int64, error) {
	count, err := s.q.CountSyncedIssues(ctx)
	return count, mapErr(err)
}

func (s *dbStore) CreateCommentLink(ctx context.Context, link CommentLink) (CommentLink, error) {
	row, err := s.q.InsertSyncedComment(ctx, sqlc.InsertSyncedCommentParams{
		PairID:         pgUUID(link.PairID),
		Origin:         sqlc.SyncSide(link.Origin),
		OriginNoteID:   link.OriginNoteID,
		MirroredNoteID: link.MirroredNoteID,
	})
	if err != nil {
		return CommentLink{}, mapErr(err)
	}
	return commentLinkFromRow(row), nil
}

func (s *dbStore) GetCommentLink(
	ctx context.Context, pairID uuid.UUID, origin Side, originNoteID int64,
) (CommentLink, error) {
	row, err := s.q.GetSyncedComment(ctx, sqlc.GetSyncedCommentParams{
		PairID:       pgUUID(pairID),
		Origin:       sqlc.SyncSide(origin),
		OriginNoteID: originNoteID,
	})
	if err != nil {
		return CommentLink{}, mapErr(err)
	}
	return commentLinkFromRow(row), nil
}

func (s *dbStore) ListCommentLinks(ctx context.Context, pairID uuid.UUID) ([]CommentLink, error) {
	rows, err := s.q.ListSyncedComments(ctx, pgUUID(pairID))
	if err != nil {
		return nil, mapErr(err)
	}
	links := make([]CommentLink, 0, len(rows))
	for _, row := range rows {
		links = append(links, commentLinkFromRow(row))
	}
	return links, nil
}

func (s *dbStore) RecordConflict(ctx context.Context, c Conflict) (Conflict, error) {
	row, err := s.q.UpsertConflict(ctx, sqlc.UpsertConflictParams{
		PairID:         pgUUID(c.PairID),
		SourceIid:      c.SourceIID,
		TargetIid:      pgInt8Ptr(c.TargetIID),
		ConflictType:   c.Type,
		Description:    c.Description,
		SourceSnapshot: c.SourceSnapshot,
		TargetSnapshot: c.TargetSnapshot,
	})
	if err != nil {
		return Conflict{}, mapErr(err)
	}
	return conflictFromRow(row), nil
}

func (s *dbStore) GetConflict(ctx context.Context, id uuid.UUID) (Conflict, error) {
	row, err := s.q.GetConflict(ctx, pgUUID(id))
	if err != nil {
		return Conflict{}, mapErr(err)
	}
	return conflictFromRow(row), nil
}

func (s *dbStore) GetOpenConflict(ctx context.Context, pairID uuid.UUID, sourceIID int64) (Conflict, error) {
	row, err := s.q.GetUnresolvedConflict(ctx, sqlc.GetUnresolvedConflictParams{
		PairID:    pgUUID(pairID),
		SourceIid: sourceIID,
	})
	if err != nil {
		return Conflict{}, mapErr(err)
	}
	return conflictFromRow(row), nil
}

func (s *dbStore) ListConflicts(ctx context.Context, includeResolved bool, limit, offset int32) ([]Conflict, error) {
	rows, err := s.q.ListConflicts(ctx, sqlc.ListConflictsParams{
		Resolved:        false,
		IncludeResolved: includeResolved,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	conflicts := make([]Conflict, 0, len(rows))
	for _, row := range rows {
		conflicts = append(conflicts, conflictFromRow(row))
	}
	return conflicts, nil
}

func (s *dbStore) ResolveConflict(ctx context.Context, id uuid.UUID, notes string) (Conflict, error) {
	row, err := s.q.ResolveConflict(ctx, sqlc.ResolveConflictParams{
		ID:              pgUUID(id),
		ResolutionNotes: pgText(notes),
	})
	if err != nil {
		return Conflict{}, mapErr(err)
	}
	return conflictFromRow(row), nil
}

func (s *dbStore) CountOpenConflicts(ctx context.Context) (int64, error) {
	count, err := s.q.CountUnresolvedConflicts(ctx)
	return count, mapErr(err)
}

func (s *dbStore) AppendLog(ctx context.Context, entry LogEntry) (LogEntry, error) {
	direction := sqlc.NullSyncDirection{}
	if entry.Direction != "" {
		direction = sqlc.NullSyncDirection{
			SyncDirection: sqlc.SyncDirection(entry.Direction),
			Valid:         true,
		}
	}
	row, err := s.q.InsertSyncLog(ctx, sqlc.InsertSyncLogParams{
		PairID:    pgUUID(entry.PairID),
		Direction: direction,
		Status:    sqlc.SyncStatus(entry.Status),
		SourceIid: pgInt8Ptr(entry.SourceIID),
		TargetIid: pgInt8Ptr(entry.TargetIID),
		Message:   pgText(entry.Message),
	})
	if err != nil {
		return LogEntry{}, mapErr(err)
	}
	return logEntryFromRow(row), nil
}

func (s *dbStore) ListLogs(ctx context.Context, limit, offset int32) ([]LogEntry, error) {
	rows, err := s.q.ListSyncLogs(ctx, sqlc.ListSyncLogsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, mapErr(err)
	}
	entries := make([]LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, logEntryFromRow(row))
	}
	return entries, nil
}

func (s *dbStore) ListLogsForPair(ctx context.Context, pairID uuid.UUID, limit, offset int32) ([]LogEntry, error) {
	rows, err := s.q.ListSyncLogsForPair(ctx, sqlc.ListSyncLogsForPairParams{
		PairID: pgUUID(pairID),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	entries := make([]LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, logEntryFromRow(row))
	}
	return entries, nil
}

func (s *dbStore) CountLogsByStatusSince(ctx context.Context, since time.Time) ([]StatusCount, error) {
	rows, err := s.q.CountSyncLogsByStatusSince(ctx, pgTime(since))
	if err != nil {
		return nil, mapErr(err)
	}
	counts := make([]StatusCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, StatusCount{Status: Status(row.Status), Count: row.Count})
	}
	return counts, nil
}

func (s *dbStore) PurgeLogsBefore(ctx context.Context, cutoff time.Time) error {
	return mapErr(s.q.PurgeSyncLogsBefore(ctx, pgTime(cutoff)))
}
