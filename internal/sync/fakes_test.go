package sync

import (
	"context"
	"fmt"
	"net/http"
	gosync "sync"
	"time"

	"github.com/issuebridge/issuebridge-server/internal/gitlab"
)

// fakeTracker is an in-memory TrackerClient holding one project's
// issues, notes, labels, milestones and users. Write counters let tests
// assert that a cycle performed no redundant API writes.
type fakeTracker struct {
	mu      gosync.Mutex
	baseURL string
	project string

	nextIID int64
	nextID  int64

	issues     map[int64]*gitlab.Issue
	notes      map[int64][]*gitlab.Note
	labels     map[string]gitlab.Label
	milestones map[string]gitlab.Milestone
	users      map[string]gitlab.User

	listErr      error
	milestoneErr error
	noteErr      error

	createIssueCalls int
	updateIssueCalls int
	createNoteCalls  int
	createLabelCalls int
}

func newFakeTracker(baseURL, project string) *fakeTracker {
	return &fakeTracker{
		baseURL:    baseURL,
		project:    project,
		issues:     make(map[int64]*gitlab.Issue),
		notes:      make(map[int64][]*gitlab.Note),
		labels:     make(map[string]gitlab.Label),
		milestones: make(map[string]gitlab.Milestone),
		users:      make(map[string]gitlab.User),
	}
}

func notFound(what string) error {
	return &gitlab.StatusError{StatusCode: http.StatusNotFound, Message: what + " not found"}
}

func copyIssue(in *gitlab.Issue) *gitlab.Issue {
	out := *in
	out.Labels = append([]string(nil), in.Labels...)
	out.Assignees = append([]gitlab.User(nil), in.Assignees...)
	if in.Milestone != nil {
		m := *in.Milestone
		out.Milestone = &m
	}
	return &out
}

func (f *fakeTracker) BaseURL() string {
	return f.baseURL
}

func (f *fakeTracker) Project(_ context.Context, project string) (*gitlab.Project, error) {
	if project != f.project {
		return nil, notFound("project")
	}
	return &gitlab.Project{ID: 1, PathWithNamespace: f.project, WebURL: f.baseURL + "/" + f.project}, nil
}

func (f *fakeTracker) ListIssues(_ context.Context, project string, updatedAfter time.Time) ([]*gitlab.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if project != f.project {
		return nil, notFound("project")
	}
	var out []*gitlab.Issue
	for iid := int64(1); iid <= f.nextIID; iid++ {
		issue, ok := f.issues[iid]
		if !ok {
			continue
		}
		if !updatedAfter.IsZero() && issue.UpdatedAt.Before(updatedAfter) {
			continue
		}
		out = append(out, copyIssue(issue))
	}
	return out, nil
}

func (f *fakeTracker) GetIssue(_ context.Context, project string, iid int64) (*gitlab.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	issue, ok := f.issues[iid]
	if !ok {
		return nil, notFound("issue")
	}
	return copyIssue(issue), nil
}

func (f *fakeTracker) CreateIssue(_ context.Context, project string, opts gitlab.CreateIssueOptions) (*gitlab.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	f.createIssueCalls++
	f.nextIID++
	issue := &gitlab.Issue{
		IID:         f.nextIID,
		Title:       opts.Title,
		Description: opts.Description,
		State:       gitlab.IssueStateOpened,
		Labels:      append([]string(nil), opts.Labels...),
		DueDate:     opts.DueDate,
		WebURL:      fmt.Sprintf("%s/%s/-/issues/%d", f.baseURL, f.project, f.nextIID),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if opts.MilestoneID != nil && *opts.MilestoneID != 0 {
		if m, ok := f.milestoneByID(*opts.MilestoneID); ok {
			issue.Milestone = &m
		}
	}
	for _, id := range opts.AssigneeIDs {
		if u, ok := f.userByID(id); ok {
			issue.Assignees = append(issue.Assignees, u)
		}
	}
	f.issues[issue.IID] = issue
	return copyIssue(issue), nil
}

func (f *fakeTracker) UpdateIssue(_ context.Context, project string, iid int64, opts gitlab.UpdateIssueOptions) (*gitlab.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	issue, ok := f.issues[iid]
	if !ok {
		return nil, notFound("issue")
	}
	f.updateIssueCalls++

	if opts.Title != nil {
		issue.Title = *opts.Title
	}
	if opts.Description != nil {
		issue.Description = *opts.Description
	}
	if opts.Labels != nil {
		issue.Labels = append([]string(nil), (*opts.Labels)...)
	}
	if opts.DueDate != nil {
		issue.DueDate = *opts.DueDate
	}
	if opts.MilestoneID != nil {
		if *opts.MilestoneID == 0 {
			issue.Milestone = nil
		} else if m, ok := f.milestoneByID(*opts.MilestoneID); ok {
			issue.Milestone = &m
		}
	}
	if opts.AssigneeIDs != nil {
		issue.Assignees = nil
		for _, id := range *opts.AssigneeIDs {
			if u, ok := f.userByID(id); ok {
				issue.Assignees = append(issue.Assignees, u)
			}
		}
	}
	switch opts.StateEvent {
	case gitlab.StateEventClose:
		issue.State = gitlab.IssueStateClosed
	case gitlab.StateEventReopen:
		issue.State = gitlab.IssueStateOpened
	}
	issue.UpdatedAt = time.Now()
	return copyIssue(issue), nil
}

func (f *fakeTracker) ListNotes(_ context.Context, project string, iid int64) ([]*gitlab.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	out := make([]*gitlab.Note, 0, len(f.notes[iid]))
	for _, n := range f.notes[iid] {
		note := *n
		out = append(out, &note)
	}
	return out, nil
}

func (f *fakeTracker) CreateNote(_ context.Context, project string, iid int64, body string) (*gitlab.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	if _, ok := f.issues[iid]; !ok {
		return nil, notFound("issue")
	}
	if f.noteErr != nil {
		return nil, f.noteErr
	}
	f.createNoteCalls++
	f.nextID++
	note := &gitlab.Note{
		ID:        f.nextID,
		Body:      body,
		Author:    gitlab.User{Username: "syncbot"},
		CreatedAt: time.Now(),
	}
	f.notes[iid] = append(f.notes[iid], note)
	n := *note
	return &n, nil
}

func (f *fakeTracker) ListLabels(_ context.Context, project string) ([]gitlab.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	out := make([]gitlab.Label, 0, len(f.labels))
	for _, lb := range f.labels {
		out = append(out, lb)
	}
	return out, nil
}

func (f *fakeTracker) CreateLabel(_ context.Context, project, name, color string) (*gitlab.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	f.createLabelCalls++
	f.nextID++
	if color == "" {
		color = gitlab.DefaultLabelColor
	}
	lb := gitlab.Label{ID: f.nextID, Name: name, Color: color}
	f.labels[name] = lb
	return &lb, nil
}

func (f *fakeTracker) ListMilestones(_ context.Context, project string) ([]gitlab.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	out := make([]gitlab.Milestone, 0, len(f.milestones))
	for _, m := range f.milestones {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeTracker) CreateMilestone(_ context.Context, project string, opts gitlab.CreateMilestoneOptions) (*gitlab.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project != f.project {
		return nil, notFound("project")
	}
	if f.milestoneErr != nil {
		return nil, f.milestoneErr
	}
	f.nextID++
	m := gitlab.Milestone{ID: f.nextID, IID: f.nextID, Title: opts.Title, Description: opts.Description, DueDate: opts.DueDate, State: "active"}
	f.milestones[m.Title] = m
	return &m, nil
}

func (f *fakeTracker) UserByUsername(_ context.Context, username string) (*gitlab.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (f *fakeTracker) milestoneByID(id int64) (gitlab.Milestone, bool) {
	for _, m := range f.milestones {
		if m.ID == id {
			return m, true
		}
	}
	return gitlab.Milestone{}, false
}

func (f *fakeTracker) userByID(id int64) (gitlab.User, bool) {
	for _, u := range f.users {
		if u.ID == id {
			return u, true
		}
	}
	return gitlab.User{}, false
}

// Test helpers below bypass the API surface to seed and inspect state.

func (f *fakeTracker) seedIssue(title, description string, labels ...string) *gitlab.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextIID++
	issue := &gitlab.Issue{
		IID:         f.nextIID,
		Title:       title,
		Description: description,
		State:       gitlab.IssueStateOpened,
		Labels:      labels,
		Author:      gitlab.User{Username: "human"},
		WebURL:      fmt.Sprintf("%s/%s/-/issues/%d", f.baseURL, f.project, f.nextIID),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.issues[issue.IID] = issue
	return copyIssue(issue)
}

// edit mutates an issue in place the way a human would, bumping the
// update timestamp without counting as an engine write.
func (f *fakeTracker) edit(iid int64, mutate func(*gitlab.Issue)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mutate(f.issues[iid])
	f.issues[iid].UpdatedAt = time.Now()
}

func (f *fakeTracker) addNote(iid int64, author, body string) *gitlab.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	note := &gitlab.Note{
		ID:        f.nextID,
		Body:      body,
		Author:    gitlab.User{Username: author},
		CreatedAt: time.Now(),
	}
	f.notes[iid] = append(f.notes[iid], note)
	n := *note
	return &n
}

func (f *fakeTracker) addUser(id int64, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = gitlab.User{ID: id, Username: username}
}

func (f *fakeTracker) deleteIssue(iid int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.issues, iid)
}

func (f *fakeTracker) issue(iid int64) *gitlab.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyIssue(f.issues[iid])
}

func (f *fakeTracker) issueCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.issues)
}

func (f *fakeTracker) noteBodies(iid int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.notes[iid]))
	for _, n := range f.notes[iid] {
		out = append(out, n.Body)
	}
	return out
}

func (f *fakeTracker) writeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createIssueCalls + f.updateIssueCalls + f.createNoteCalls
}
