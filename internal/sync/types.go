package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/issuebridge/issuebridge-server/internal/gitlab"
	"github.com/issuebridge/issuebridge-server/internal/store"
)

// TrackerClient is the capability surface the engine needs from a tracker
// instance. *gitlab.Client implements it; tests use an in-memory fake.
type TrackerClient interface {
	BaseURL() string
	Project(ctx context.Context, project string) (*gitlab.Project, error)
	ListIssues(ctx context.Context, project string, updatedAfter time.Time) ([]*gitlab.Issue, error)
	GetIssue(ctx context.Context, project string, iid int64) (*gitlab.Issue, error)
	CreateIssue(ctx context.Context, project string, opts gitlab.CreateIssueOptions) (*gitlab.Issue, error)
	UpdateIssue(ctx context.Context, project string, iid int64, opts gitlab.UpdateIssueOptions) (*gitlab.Issue, error)
	ListNotes(ctx context.Context, project string, iid int64) ([]*gitlab.Note, error)
	CreateNote(ctx context.Context, project string, iid int64, body string) (*gitlab.Note, error)
	ListLabels(ctx context.Context, project string) ([]gitlab.Label, error)
	CreateLabel(ctx context.Context, project, name, color string) (*gitlab.Label, error)
	ListMilestones(ctx context.Context, project string) ([]gitlab.Milestone, error)
	CreateMilestone(ctx context.Context, project string, opts gitlab.CreateMilestoneOptions) (*gitlab.Milestone, error)
	UserByUsername(ctx context.Context, username string) (*gitlab.User, error)
}

var _ TrackerClient = (*gitlab.Client)(nil)

// ClientFactory builds a TrackerClient for a stored instance.
type ClientFactory func(inst store.Instance) (TrackerClient, error)

// CycleSummary reports what one pair cycle did.
type CycleSummary struct {
	PairID             uuid.UUID `json:"pair_id"`
	Created            int       `json:"created"`
	Updated            int       `json:"updated"`
	Skipped            int       `json:"skipped"`
	Conflicts          int       `json:"conflicts"`
	Failed             int       `json:"failed"`
	CommentsPropagated int       `json:"comments_propagated"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
}
