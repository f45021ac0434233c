package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/issuebridge/issuebridge-server/internal/gitlab"
)

// fingerprintFields is the canonical shape hashed into a fingerprint.
// Only fields the engine syncs participate; anything the engine writes
// itself (the footer) is stripped first so our own writes never look
// like foreign edits.
type fingerprintFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	State       string   `json:"state"`
	Labels      []string `json:"labels"`
	Milestone   string   `json:"milestone"`
	DueDate     string   `json:"due_date"`
}

// Fingerprint summarizes an issue's syncable fields as a hex SHA-256
// digest of their canonical JSON encoding.
func Fingerprint(issue *gitlab.Issue) string {
	labels := make([]string, len(issue.Labels))
	copy(labels, issue.Labels)
	sort.Strings(labels)

	var milestone string
	if issue.Milestone != nil {
		milestone = issue.Milestone.Title
	}

	fields := fingerprintFields{
		Title:       issue.Title,
		Description: stripFooter(issue.Description),
		State:       issue.State,
		Labels:      labels,
		Milestone:   milestone,
		DueDate:     issue.DueDate,
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		// Marshaling a struct of strings and slices cannot fail.
		panic(err)
	}
	digest := sha256.Sum256(encoded)
	return hex.EncodeToString(digest[:])
}
