package gitlab

import "time"

// Issue states as reported by the API.
const (
	IssueStateOpened = "opened"
	IssueStateClosed = "closed"
)

// State events accepted by the issue update endpoint.
const (
	StateEventClose  = "close"
	StateEventReopen = "reopen"
)

// DefaultLabelColor is used when a label has to be created on the fly.
const DefaultLabelColor = "#428BCA"

// Project is a GitLab project.
type Project struct {
	ID                int64  `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
}

// User is a GitLab user as embedded in issues and notes.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Milestone is a project milestone.
type Milestone struct {
	ID          int64  `json:"id"`
	IID         int64  `json:"iid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
	DueDate     string `json:"due_date"`
}

// Label is a project label.
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue is a project issue.
type Issue struct {
	IID         int64      `json:"iid"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       string     `json:"state"`
	Labels      []string   `json:"labels"`
	Milestone   *Milestone `json:"milestone"`
	Assignees   []User     `json:"assignees"`
	Author      User       `json:"author"`
	DueDate     string     `json:"due_date"`
	Weight      *int       `json:"weight"`
	WebURL      string     `json:"web_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Note is a comment on an issue. System notes are generated by GitLab
// itself (state changes, label changes and so on).
type Note struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Author    User      `json:"author"`
	System    bool      `json:"system"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateIssueOptions is the payload for creating an issue.
type CreateIssueOptions struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	MilestoneID *int64   `json:"milestone_id,omitempty"`
	AssigneeIDs []int64  `json:"assignee_ids,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Weight      *int     `json:"weight,omitempty"`
}

// UpdateIssueOptions is the payload for updating an issue. Nil pointers
// leave the field untouched; pointers to zero values clear it.
type UpdateIssueOptions struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Labels      *[]string `json:"labels,omitempty"`
	StateEvent  string    `json:"state_event,omitempty"`
	MilestoneID *int64    `json:"milestone_id,omitempty"`
	AssigneeIDs *[]int64  `json:"assignee_ids,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Weight      *int      `json:"weight,omitempty"`
}

// CreateMilestoneOptions is the payload for creating a milestone.
type CreateMilestoneOptions struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}
