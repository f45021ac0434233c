// Package store defines the persistence interface for the sync service.
// It exposes domain types decoupled from the generated query layer so that
// the sync engine and the API can be exercised against an in-memory
// implementation in tests.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a uniqueness constraint is violated.
	ErrAlreadyExists = errors.New("record already exists")
)

// Direction identifies which way a unit of sync work flowed.
type Direction string

// Direction values.
const (
	DirectionSourceToTarget Direction = "SOURCE_TO_TARGET"
	DirectionTargetToSource Direction = "TARGET_TO_SOURCE"
)

// Status is the outcome of a unit of sync work.
type Status string

// Status values.
const (
	StatusSuccess  Status = "SUCCESS"
	StatusSkipped  Status = "SKIPPED"
	StatusConflict Status = "CONFLICT"
	StatusFailed   Status = "FAILED"
)

// Side identifies which member of a pair a record refers to.
type Side string

// Side values.
const (
	SideSource Side = "SOURCE"
	SideTarget Side = "TARGET"
)

// Instance is a GitLab instance the service can talk to.
type Instance struct {
	ID          uuid.UUID
	Name        string
	URL         string
	AccessToken string
	Description string

	// CatchAllUsername receives attributed content when no user mapping
	// matches. Empty means unmapped users keep the token identity.
	CatchAllUsername string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectPair is a pair of projects kept in sync.
type ProjectPair struct {
	ID               uuid.UUID
	Name             string
	SourceInstanceID uuid.UUID
	SourceProject    string
	TargetInstanceID uuid.UUID
	TargetProject    string
	Bidirectional    bool
	Enabled          bool

	// SyncInterval of zero means the server-wide default applies.
	SyncInterval time.Duration

	LastCycleAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserMapping maps a username on one instance to a username on another.
type UserMapping struct {
	ID               uuid.UUID
	SourceInstanceID uuid.UUID
	SourceUsername   string
	TargetInstanceID uuid.UUID
	TargetUsername   string
	CreatedAt        time.Time
}

// IssueLink is the baseline record for a synced issue: the counterpart
// mapping plus the fingerprints both sides had after the last successful
// reconciliation.
type IssueLink struct {
	ID                uuid.UUID
	PairID            uuid.UUID
	SourceIID         int64
	TargetIID         int64
	SourceFingerprint string
	TargetFingerprint string
	LastSyncedAt      time.Time
}

// CommentLink records a comment that was already propagated to the other
// side, keyed by the note id on the side it originated from.
type CommentLink struct {
	ID             uuid.UUID
	PairID         uuid.UUID
	Origin         Side
	OriginNoteID   int64
	MirroredNoteID int64
	CreatedAt      time.Time
}

// Conflict is a detected concurrent edit awaiting human acknowledgment.
type Conflict struct {
	ID             uuid.UUID
	PairID         uuid.UUID
	SourceIID      int64
	TargetIID      *int64
	Type           string
	Description    string
	SourceSnapshot json.RawMessage
	TargetSnapshot json.RawMessage

	Resolved        bool
	ResolvedAt      *time.Time
	ResolutionNotes string
	CreatedAt       time.Time
}

// LogEntry is one row of the append-only sync audit log.
type LogEntry struct {
	ID        int64
	PairID    uuid.UUID
	Direction Direction
	Status    Status
	SourceIID *int64
	TargetIID *int64
	Message   string
	CreatedAt time.Time
}

// StatusCount is an aggregate of log entries by outcome.
type StatusCount struct {
	Status Status
	Count  int64
}

// PairCounts summarizes how many pairs exist and how many are enabled.
type PairCounts struct {
	Total   int64
	Enabled int64
}

// InstanceStore manages GitLab instance records.
type InstanceStore interface {
	CreateInstance(ctx context.Context, inst Instance) (Instance, error)
	GetInstance(ctx context.Context, id uuid.UUID) (Instance, error)
	GetInstanceByName(ctx context.Context, name string) (Instance, error)
	ListInstances(ctx context.Context) ([]Instance, error)
	UpdateInstance(ctx context.Context, inst Instance) (Instance, error)
	DeleteInstance(ctx context.Context, id uuid.UUID) error
}

// PairStore manages project pair records.
type PairStore interface {
	CreatePair(ctx context.Context, pair ProjectPair) (ProjectPair, error)
	GetPair(ctx context.Context, id uuid.UUID) (ProjectPair, error)
	GetPairByName(ctx context.Context, name string) (ProjectPair, error)
	ListPairs(ctx context.Context) ([]ProjectPair, error)
	ListEnabledPairs(ctx context.Context) ([]ProjectPair, error)
	UpdatePair(ctx context.Context, pair ProjectPair) (ProjectPair, error)
	SetPairLastCycle(ctx context.Context, id uuid.UUID, at time.Time) error
	DeletePair(ctx context.Context, id uuid.UUID) error
	CountPairs(ctx context.Context) (PairCounts, error)
}

// UserMappingStore manages username mappings.
type UserMappingStore interface {
	CreateUserMapping(ctx context.Context, m UserMapping) (UserMapping, error)
	GetUserMapping(ctx context.Context, sourceInstanceID uuid.UUID, sourceUsername string, targetInstanceID uuid.UUID) (UserMapping, error)
	ListUserMappings(ctx context.Context) ([]UserMapping, error)
	ListUserMappingsForInstances(ctx context.Context, sourceInstanceID, targetInstanceID uuid.UUID) ([]UserMapping, error)
	DeleteUserMapping(ctx context.Context, id uuid.UUID) error
}

// IssueLinkStore manages the baseline registry.
type IssueLinkStore interface {
	UpsertIssueLink(ctx context.Context, link IssueLink) (IssueLink, error)
	GetIssueLinkBySource(ctx context.Context, pairID uuid.UUID, sourceIID int64) (IssueLink, error)
	GetIssueLinkByTarget(ctx context.Context, pairID uuid.UUID, targetIID int64) (IssueLink, error)
	ListIssueLinks(ctx context.Context, pairID uuid.UUID, limit, offset int32) ([]IssueLink, error)
	DeleteIssueLink(ctx context.Context, pairID uuid.UUID, sourceIID int64) error
	CountIssueLinks(ctx context.Context) (int64, error)
}

// CommentLinkStore manages the propagated-comment registry.
type CommentLinkStore interface {
	CreateCommentLink(ctx context.Context, link CommentLink) (CommentLink, error)
	GetCommentLink(ctx context.Context, pairID uuid.UUID, origin Side, originNoteID int64) (CommentLink, error)
	ListCommentLinks(ctx context.Context, pairID uuid.UUID) ([]CommentLink, error)
}

// ConflictStore manages conflict records.
type ConflictStore interface {
	RecordConflict(ctx context.Context, c Conflict) (Conflict, error)
	GetConflict(ctx context.Context, id uuid.UUID) (Conflict, error)
	GetOpenConflict(ctx context.Context, pairID uuid.UUID, sourceIID int64) (Conflict, error)
	ListConflicts(ctx context.Context, includeResolved bool, limit, offset int32) ([]Conflict, error)
	ResolveConflict(ctx context.Context, id uuid.UUID, notes string) (Conflict, error)
	CountOpenConflicts(ctx context.Context) (int64, error)
}

// LogStore manages the audit log.
type LogStore interface {
	AppendLog(ctx context.Context, entry LogEntry) (LogEntry, error)
	ListLogs(ctx context.Context, limit, offset int32) ([]LogEntry, error)
	ListLogsForPair(ctx context.Context, pairID uuid.UUID, limit, offset int32) ([]LogEntry, error)
	CountLogsByStatusSince(ctx context.Context, since time.Time) ([]StatusCount, error)
	PurgeLogsBefore(ctx context.Context, cutoff time.Time) error
}

// Store is the full persistence surface of the service.
type Store interface {
	InstanceStore
	PairStore
	UserMappingStore
	IssueLinkStore
	CommentLinkStore
	ConflictStore
	LogStore
}
