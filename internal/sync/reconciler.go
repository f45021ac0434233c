package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/issuebridge/issuebridge-server/internal/gitlab"
	"github.com/issuebridge/issuebridge-server/internal/logger"
	"github.com/issuebridge/issuebridge-server/internal/store"
)

// leg is one direction of a cycle. The forward leg has the pair's
// source as origin; the reverse leg flips the orientation. Link and
// conflict records are always stored in canonical pair orientation
// regardless of which leg touched them.
type leg struct {
	engine         *Engine
	pair           store.ProjectPair
	direction      store.Direction
	originIsSource bool

	origin     TrackerClient
	dest       TrackerClient
	originInst store.Instance
	destInst   store.Instance

	originProject string
	destProject   string

	// Lazily populated per-leg caches.
	destLabels        map[string]struct{}
	originLabelColors map[string]string
	destMilestones    map[string]gitlab.Milestone
	destUsers         map[string]int64
	footerIndex       map[string]int64
}

// dependencyError marks a failure to provision something an issue write
// needs (a label or a milestone on the destination). Field sync for the
// issue is abandoned but comment sync still proceeds.
type dependencyError struct {
	kind string
	name string
	err  error
}

func (e *dependencyError) Error() string {
	return fmt.Sprintf("failed to provision %s %q: %v", e.kind, e.name, e.err)
}

func (e *dependencyError) Unwrap() error {
	return e.err
}

var issueURLRe = regexp.MustCompile(`/-/issues/(\d+)/?$`)

// issueIIDFromURL extracts the issue IID from a canonical issue URL,
// provided the URL belongs to the given instance.
func issueIIDFromURL(u, instanceBaseURL string) (int64, bool) {
	if !strings.HasPrefix(u, instanceBaseURL+"/") {
		return 0, false
	}
	m := issueURLRe.FindStringSubmatch(u)
	if m == nil {
		return 0, false
	}
	iid, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return iid, true
}

// run processes every origin issue updated since the cutoff. Issue
// failures are logged and counted; only credential errors propagate.
func (l *leg) run(ctx context.Context, since time.Time, summary *CycleSummary) error {
	issues, err := l.origin.ListIssues(ctx, l.originProject, since)
	if err != nil {
		return fmt.Errorf("failed to list issues on %s: %w", l.originInst.Name, err)
	}
	logger.Debugf("Leg %s: %d candidate issues on %s/%s", l.direction, len(issues), l.originInst.Name, l.originProject)

	for _, issue := range issues {
		if err := l.processIssue(ctx, issue, summary); err != nil {
			if abortsCycle(err) {
				return fmt.Errorf("issue %d: %w", issue.IID, err)
			}
			summary.Failed++
			l.logIssue(ctx, store.StatusFailed, issue.IID, 0, err.Error())
			logger.Warnf("Failed to sync issue %d on %s: %v", issue.IID, l.originInst.Name, err)
		}
	}
	return nil
}

func (l *leg) processIssue(ctx context.Context, origin *gitlab.Issue, summary *CycleSummary) error {
	link, err := l.lookupLink(ctx, origin.IID)
	if errors.Is(err, store.ErrNotFound) {
		return l.processUnlinked(ctx, origin, summary)
	}
	if err != nil {
		return fmt.Errorf("failed to look up issue link: %w", err)
	}
	return l.processLinked(ctx, origin, link, summary)
}

// processUnlinked handles an issue with no baseline record. A mirror
// may already exist on the destination (a footer there names this
// issue, or this issue is itself a mirror that lost its record); if so
// it is adopted rather than duplicated. Otherwise a mirror is created.
func (l *leg) processUnlinked(ctx context.Context, origin *gitlab.Issue, summary *CycleSummary) error {
	existing, err := l.findExistingMirror(ctx, origin)
	if err != nil {
		return err
	}
	if existing != nil {
		if err := l.saveBaseline(ctx, origin, existing); err != nil {
			return err
		}
		summary.Skipped++
		l.logIssue(ctx, store.StatusSuccess, origin.IID, existing.IID,
			fmt.Sprintf("adopted existing mirror of %q", origin.Title))
		return l.syncComments(ctx, origin, existing.IID, summary)
	}

	created, err := l.createMirror(ctx, origin)
	if err != nil {
		return err
	}
	if err := l.saveBaseline(ctx, origin, created); err != nil {
		return err
	}
	summary.Created++
	l.logIssue(ctx, store.StatusSuccess, origin.IID, created.IID,
		fmt.Sprintf("created mirror of %q", origin.Title))
	return l.syncComments(ctx, origin, created.IID, summary)
}

// findExistingMirror looks for a destination issue already mirroring
// origin: first by scanning destination footers for origin's URL, then
// by following origin's own footer if it points into the destination.
func (l *leg) findExistingMirror(ctx context.Context, origin *gitlab.Issue) (*gitlab.Issue, error) {
	if iid, ok, err := l.mirrorIIDOnDest(ctx, origin.WebURL); err != nil {
		return nil, err
	} else if ok {
		issue, err := l.dest.GetIssue(ctx, l.destProject, iid)
		if err == nil {
			return issue, nil
		}
		if !gitlab.IsNotFound(err) {
			return nil, err
		}
	}

	if u, ok := footerURL(origin.Description); ok {
		if iid, ok := issueIIDFromURL(u, l.dest.BaseURL()); ok {
			issue, err := l.dest.GetIssue(ctx, l.destProject, iid)
			if err == nil {
				return issue, nil
			}
			if !gitlab.IsNotFound(err) {
				return nil, err
			}
		}
	}
	return nil, nil
}

// mirrorIIDOnDest consults an index of destination footers, built once
// per leg from a full destination listing.
func (l *leg) mirrorIIDOnDest(ctx context.Context, originURL string) (int64, bool, error) {
	if l.footerIndex == nil {
		issues, err := l.dest.ListIssues(ctx, l.destProject, time.Time{})
		if err != nil {
			return 0, false, fmt.Errorf("failed to list issues on %s: %w", l.destInst.Name, err)
		}
		l.footerIndex = make(map[string]int64, len(issues))
		for _, it := range issues {
			if u, ok := footerURL(it.Description); ok {
				if _, dup := l.footerIndex[u]; !dup {
					l.footerIndex[u] = it.IID
				}
			}
		}
	}
	iid, ok := l.footerIndex[originURL]
	return iid, ok, nil
}

func (l *leg) processLinked(ctx context.Context, origin *gitlab.Issue, link store.IssueLink, summary *CycleSummary) error {
	destIID := l.destIIDOf(link)
	sourceIID, _ := l.canonicalIIDs(origin.IID, destIID)

	// An unresolved conflict freezes field sync until a human clears it.
	// Comments keep flowing; they are additive and cannot conflict.
	if _, err := l.engine.store.GetOpenConflict(ctx, l.pair.ID, sourceIID); err == nil {
		summary.Skipped++
		l.logIssue(ctx, store.StatusSkipped, origin.IID, destIID, "unresolved conflict blocks field sync")
		return l.syncComments(ctx, origin, destIID, summary)
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to check for open conflict: %w", err)
	}

	destIssue, err := l.dest.GetIssue(ctx, l.destProject, destIID)
	if gitlab.IsNotFound(err) {
		// The mirror vanished. Recreate it and repair the link.
		created, cerr := l.createMirror(ctx, origin)
		if cerr != nil {
			return cerr
		}
		if serr := l.saveBaseline(ctx, origin, created); serr != nil {
			return serr
		}
		summary.Created++
		l.logIssue(ctx, store.StatusSuccess, origin.IID, created.IID, "recreated missing mirror")
		return l.syncComments(ctx, origin, created.IID, summary)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch mirror issue %d: %w", destIID, err)
	}

	baseOrigin, baseDest := l.baselineOf(link)
	class := classify(Fingerprint(origin), Fingerprint(destIssue), baseOrigin, baseDest)

	switch class {
	case classUnchanged:
		summary.Skipped++
		l.logIssue(ctx, store.StatusSkipped, origin.IID, destIID, "no changes since last sync")

	case classOriginChanged:
		updated, uerr := l.applyToDest(ctx, origin, destIssue)
		var depErr *dependencyError
		if errors.As(uerr, &depErr) {
			summary.Failed++
			l.logIssue(ctx, store.StatusFailed, origin.IID, destIID, uerr.Error())
			logger.Warnf("Skipping field sync for issue %d: %v", origin.IID, uerr)
		} else if uerr != nil {
			return uerr
		} else {
			if err := l.saveBaseline(ctx, origin, updated); err != nil {
				return err
			}
			summary.Updated++
			l.logIssue(ctx, store.StatusSuccess, origin.IID, destIID, "propagated changes to mirror")
		}

	case classDestChanged:
		if !l.pair.Bidirectional {
			// One-way pairs never write back; the divergence stays until
			// someone aligns the target manually.
			summary.Skipped++
			l.logIssue(ctx, store.StatusSkipped, origin.IID, destIID, "target edited on one-way pair")
		}
		// On bidirectional pairs the other leg owns this edit.

	case classBothChanged:
		if err := l.recordConflict(ctx, origin, destIssue); err != nil {
			return err
		}
		summary.Conflicts++
		l.logIssue(ctx, store.StatusConflict, origin.IID, destIID, "concurrent edits on both sides")
	}

	return l.syncComments(ctx, origin, destIID, summary)
}

// createMirror creates a destination copy of origin, carrying a footer
// that names the origin issue. Closed origin issues are closed on the
// destination right after creation, since the create endpoint cannot
// set state.
func (l *leg) createMirror(ctx context.Context, origin *gitlab.Issue) (*gitlab.Issue, error) {
	labels, err := l.ensureLabels(ctx, origin.Labels)
	if err != nil {
		return nil, err
	}
	milestoneID, err := l.resolveMilestone(ctx, origin.Milestone)
	if err != nil {
		return nil, err
	}
	assigneeIDs, err := l.mapAssignees(ctx, origin.Assignees)
	if err != nil {
		return nil, err
	}

	opts := gitlab.CreateIssueOptions{
		Title:       origin.Title,
		Description: withFooter(stripFooter(origin.Description), origin.WebURL),
		Labels:      labels,
		AssigneeIDs: assigneeIDs,
		DueDate:     origin.DueDate,
	}
	if milestoneID != nil && *milestoneID != 0 {
		opts.MilestoneID = milestoneID
	}

	created, err := l.dest.CreateIssue(ctx, l.destProject, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mirror issue: %w", err)
	}

	if origin.State == gitlab.IssueStateClosed {
		closed, err := l.dest.UpdateIssue(ctx, l.destProject, created.IID,
			gitlab.UpdateIssueOptions{StateEvent: gitlab.StateEventClose})
		if err != nil {
			return nil, fmt.Errorf("failed to close mirror issue %d: %w", created.IID, err)
		}
		return closed, nil
	}
	return created, nil
}

// applyToDest overwrites the destination issue's syncable fields with
// origin's, keeping the destination's footer in place.
func (l *leg) applyToDest(ctx context.Context, origin, dest *gitlab.Issue) (*gitlab.Issue, error) {
	labels, err := l.ensureLabels(ctx, origin.Labels)
	if err != nil {
		return nil, err
	}
	milestoneID, err := l.resolveMilestone(ctx, origin.Milestone)
	if err != nil {
		return nil, err
	}
	assigneeIDs, err := l.mapAssignees(ctx, origin.Assignees)
	if err != nil {
		return nil, err
	}

	title := origin.Title
	desc := l.mirrorDescription(origin, dest)
	due := origin.DueDate

	opts := gitlab.UpdateIssueOptions{
		Title:       &title,
		Description: &desc,
		Labels:      &labels,
		MilestoneID: milestoneID,
		AssigneeIDs: &assigneeIDs,
		DueDate:     &due,
	}
	switch {
	case origin.State == gitlab.IssueStateClosed && dest.State != gitlab.IssueStateClosed:
		opts.StateEvent = gitlab.StateEventClose
	case origin.State == gitlab.IssueStateOpened && dest.State != gitlab.IssueStateOpened:
		opts.StateEvent = gitlab.StateEventReopen
	}

	updated, err := l.dest.UpdateIssue(ctx, l.destProject, dest.IID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to update mirror issue %d: %w", dest.IID, err)
	}
	return updated, nil
}

// mirrorDescription composes the destination description from origin's
// body. An existing footer on the destination is kept whatever it
// points at; a mirror that lost its footer gets it restored. When the
// origin itself is the mirror (its footer points into the destination),
// the destination is the original issue and carries no footer.
func (l *leg) mirrorDescription(origin, dest *gitlab.Issue) string {
	body := stripFooter(origin.Description)
	if u, ok := footerURL(dest.Description); ok {
		return withFooter(body, u)
	}
	if u, ok := footerURL(origin.Description); ok {
		if _, pointsAtDest := issueIIDFromURL(u, l.dest.BaseURL()); pointsAtDest {
			return body
		}
	}
	return withFooter(body, origin.WebURL)
}

// ensureLabels makes sure every origin label exists on the destination,
// creating missing ones with the origin's color.
func (l *leg) ensureLabels(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}

	if l.destLabels == nil {
		existing, err := l.dest.ListLabels(ctx, l.destProject)
		if err != nil {
			return nil, &dependencyError{kind: "label", name: "*", err: err}
		}
		l.destLabels = make(map[string]struct{}, len(existing))
		for _, lb := range existing {
			l.destLabels[lb.Name] = struct{}{}
		}
	}

	for _, name := range names {
		if _, ok := l.destLabels[name]; ok {
			continue
		}
		color, err := l.originLabelColor(ctx, name)
		if err != nil {
			return nil, err
		}
		if _, err := l.dest.CreateLabel(ctx, l.destProject, name, color); err != nil {
			return nil, &dependencyError{kind: "label", name: name, err: err}
		}
		l.destLabels[name] = struct{}{}
	}

	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

func (l *leg) originLabelColor(ctx context.Context, name string) (string, error) {
	if l.originLabelColors == nil {
		labels, err := l.origin.ListLabels(ctx, l.originProject)
		if err != nil {
			return "", &dependencyError{kind: "label", name: name, err: err}
		}
		l.originLabelColors = make(map[string]string, len(labels))
		for _, lb := range labels {
			l.originLabelColors[lb.Name] = lb.Color
		}
	}
	return l.originLabelColors[name], nil
}

// resolveMilestone returns the destination milestone id matching the
// origin milestone by title, creating it if absent. A nil origin
// milestone yields a pointer to zero, which clears the field.
func (l *leg) resolveMilestone(ctx context.Context, m *gitlab.Milestone) (*int64, error) {
	var id int64
	if m == nil {
		return &id, nil
	}

	if l.destMilestones == nil {
		milestones, err := l.dest.ListMilestones(ctx, l.destProject)
		if err != nil {
			return nil, &dependencyError{kind: "milestone", name: m.Title, err: err}
		}
		l.destMilestones = make(map[string]gitlab.Milestone, len(milestones))
		for _, ms := range milestones {
			l.destMilestones[ms.Title] = ms
		}
	}

	if existing, ok := l.destMilestones[m.Title]; ok {
		id = existing.ID
		return &id, nil
	}

	created, err := l.dest.CreateMilestone(ctx, l.destProject, gitlab.CreateMilestoneOptions{
		Title:   m.Title,
		DueDate: m.DueDate,
	})
	if err != nil {
		return nil, &dependencyError{kind: "milestone", name: m.Title, err: err}
	}
	l.destMilestones[created.Title] = *created
	id = created.ID
	return &id, nil
}

// mapAssignees translates origin assignees to destination user ids via
// the mapping table, falling back to the destination instance's
// catch-all user. Unmappable assignees are dropped with a log line.
func (l *leg) mapAssignees(ctx context.Context, assignees []gitlab.User) ([]int64, error) {
	ids := make([]int64, 0, len(assignees))
	seen := make(map[int64]struct{}, len(assignees))

	for _, user := range assignees {
		username, err := l.mapUsername(ctx, user.Username)
		if err != nil {
			return nil, err
		}
		if username == "" {
			logger.Infof("No mapping for user %q on %s; dropping assignee", user.Username, l.originInst.Name)
			continue
		}
		id, ok, err := l.destUserID(ctx, username)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Warnf("Mapped user %q does not exist on %s; dropping assignee", username, l.destInst.Name)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (l *leg) mapUsername(ctx context.Context, originUsername string) (string, error) {
	m, err := l.engine.store.GetUserMapping(ctx, l.originInst.ID, originUsername, l.destInst.ID)
	if err == nil {
		return m.TargetUsername, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("failed to look up user mapping: %w", err)
	}
	return l.destInst.CatchAllUsername, nil
}

func (l *leg) destUserID(ctx context.Context, username string) (int64, bool, error) {
	if l.destUsers == nil {
		l.destUsers = make(map[string]int64)
	}
	if id, ok := l.destUsers[username]; ok {
		if id < 0 {
			return 0, false, nil
		}
		return id, true, nil
	}

	user, err := l.dest.UserByUsername(ctx, username)
	if gitlab.IsNotFound(err) {
		l.destUsers[username] = -1
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up user %q on %s: %w", username, l.destInst.Name, err)
	}
	l.destUsers[username] = user.ID
	return user.ID, true, nil
}

// issueSnapshot is the conflict record's view of one side.
type issueSnapshot struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	Labels      []string  `json:"labels"`
	Milestone   string    `json:"milestone"`
	DueDate     string    `json:"due_date"`
	UpdatedAt   time.Time `json:"updated_at"`
	WebURL      string    `json:"web_url"`
}

func snapshotOf(issue *gitlab.Issue) json.RawMessage {
	var milestone string
	if issue.Milestone != nil {
		milestone = issue.Milestone.Title
	}
	raw, err := json.Marshal(issueSnapshot{
		Title:       issue.Title,
		Description: issue.Description,
		State:       issue.State,
		Labels:      issue.Labels,
		Milestone:   milestone,
		DueDate:     issue.DueDate,
		UpdatedAt:   issue.UpdatedAt,
		WebURL:      issue.WebURL,
	})
	if err != nil {
		panic(err)
	}
	return raw
}

// recordConflict stores a conflict for the linked issue in canonical
// orientation. Recording is idempotent while the conflict stays open.
func (l *leg) recordConflict(ctx context.Context, origin, dest *gitlab.Issue) error {
	sourceIID, targetIID := l.canonicalIIDs(origin.IID, dest.IID)
	sourceSnap, targetSnap := snapshotOf(origin), snapshotOf(dest)
	if !l.originIsSource {
		sourceSnap, targetSnap = targetSnap, sourceSnap
	}

	_, err := l.engine.store.RecordConflict(ctx, store.Conflict{
		PairID:    l.pair.ID,
		SourceIID: sourceIID,
		TargetIID: &targetIID,
		Type:      "concurrent-edit",
		Description: fmt.Sprintf("issue %d and its mirror %d were both edited since the last sync",
			sourceIID, targetIID),
		SourceSnapshot: sourceSnap,
		TargetSnapshot: targetSnap,
	})
	if err != nil {
		return fmt.Errorf("failed to record conflict: %w", err)
	}
	return nil
}

// canonicalIIDs maps leg-relative iids to pair orientation.
func (l *leg) canonicalIIDs(originIID, destIID int64) (sourceIID, targetIID int64) {
	if l.originIsSource {
		return originIID, destIID
	}
	return destIID, originIID
}

func (l *leg) lookupLink(ctx context.Context, originIID int64) (store.IssueLink, error) {
	if l.originIsSource {
		return l.engine.store.GetIssueLinkBySource(ctx, l.pair.ID, originIID)
	}
	return l.engine.store.GetIssueLinkByTarget(ctx, l.pair.ID, originIID)
}

func (l *leg) destIIDOf(link store.IssueLink) int64 {
	if l.originIsSource {
		return link.TargetIID
	}
	return link.SourceIID
}

func (l *leg) baselineOf(link store.IssueLink) (baseOrigin, baseDest string) {
	if l.originIsSource {
		return link.SourceFingerprint, link.TargetFingerprint
	}
	return link.TargetFingerprint, link.SourceFingerprint
}

// saveBaseline stores both sides' current fingerprints as the new
// baseline. Called only with post-write remote state, so the engine's
// own writes never show up as changes next cycle.
func (l *leg) saveBaseline(ctx context.Context, origin, dest *gitlab.Issue) error {
	sourceIID, targetIID := l.canonicalIIDs(origin.IID, dest.IID)
	sourceFP, targetFP := Fingerprint(origin), Fingerprint(dest)
	if !l.originIsSource {
		sourceFP, targetFP = targetFP, sourceFP
	}

	_, err := l.engine.store.UpsertIssueLink(ctx, store.IssueLink{
		PairID:            l.pair.ID,
		SourceIID:         sourceIID,
		TargetIID:         targetIID,
		SourceFingerprint: sourceFP,
		TargetFingerprint: targetFP,
		LastSyncedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save issue baseline: %w", err)
	}
	return nil
}

func (l *leg) logIssue(ctx context.Context, status store.Status, originIID, destIID int64, msg string) {
	sourceIID, targetIID := l.canonicalIIDs(originIID, destIID)

	entry := store.LogEntry{
		PairID:    l.pair.ID,
		Direction: l.direction,
		Status:    status,
		Message:   msg,
	}
	if sourceIID != 0 {
		entry.SourceIID = &sourceIID
	}
	if targetIID != 0 {
		entry.TargetIID = &targetIID
	}
	l.engine.logOutcome(ctx, entry)
}
