package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/issuebridge/issuebridge-server/internal/gitlab"
	"github.com/issuebridge/issuebridge-server/internal/logger"
	"github.com/issuebridge/issuebridge-server/internal/store"
)

// commentAttribution prefixes every mirrored comment. Notes starting
// with it are recognized as the engine's own output and never mirrored
// back, which breaks comment ping-pong even without the registry.
const commentAttribution = "**Comment by @"

func attributedBody(author, body string) string {
	return fmt.Sprintf("%s%s:**\n\n%s", commentAttribution, author, body)
}

func (l *leg) originSide() store.Side {
	if l.originIsSource {
		return store.SideSource
	}
	return store.SideTarget
}

// syncComments mirrors origin comments that have not been propagated
// yet. Propagation is additive and never edits or deletes, so it runs
// even for unchanged and conflicted issues. Duplicate suppression is
// two-layered: the comment registry keyed by origin note id, and a
// body match against the destination for registry rows lost to
// restores or manual cleanup.
func (l *leg) syncComments(ctx context.Context, origin *gitlab.Issue, destIID int64, summary *CycleSummary) error {
	notes, err := l.origin.ListNotes(ctx, l.originProject, origin.IID)
	if err != nil {
		if abortsCycle(err) {
			return err
		}
		logger.Warnf("Failed to list notes for issue %d on %s: %v", origin.IID, l.originInst.Name, err)
		summary.Failed++
		l.logIssue(ctx, store.StatusFailed, origin.IID, destIID,
			fmt.Sprintf("failed to list comments: %v", err))
		return nil
	}

	var destNotes []*gitlab.Note
	destLoaded := false
	dropped := 0

	for _, note := range notes {
		if note.System || strings.HasPrefix(note.Body, commentAttribution) {
			continue
		}

		_, err := l.engine.store.GetCommentLink(ctx, l.pair.ID, l.originSide(), note.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to look up comment link: %w", err)
		}

		body := attributedBody(note.Author.Username, note.Body)

		if !destLoaded {
			destNotes, err = l.dest.ListNotes(ctx, l.destProject, destIID)
			if err != nil {
				if abortsCycle(err) {
					return err
				}
				logger.Warnf("Failed to list notes for mirror issue %d on %s: %v", destIID, l.destInst.Name, err)
				summary.Failed++
				l.logIssue(ctx, store.StatusFailed, origin.IID, destIID,
					fmt.Sprintf("failed to list mirror comments: %v", err))
				return nil
			}
			destLoaded = true
		}

		mirrored := findNoteByBody(destNotes, body)
		if mirrored == nil {
			created, err := l.dest.CreateNote(ctx, l.destProject, destIID, body)
			if err != nil {
				if abortsCycle(err) {
					return err
				}
				logger.Warnf("Failed to mirror note %d to issue %d: %v", note.ID, destIID, err)
				dropped++
				continue
			}
			mirrored = created
			destNotes = append(destNotes, created)
			summary.CommentsPropagated++
		}

		// The registry row must exist before the note counts as synced.
		_, err = l.engine.store.CreateCommentLink(ctx, store.CommentLink{
			PairID:         l.pair.ID,
			Origin:         l.originSide(),
			OriginNoteID:   note.ID,
			MirroredNoteID: mirrored.ID,
		})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("failed to record comment link: %w", err)
		}
	}

	// Dropped notes are retried next cycle; one audit row covers the batch.
	if dropped > 0 {
		summary.Failed++
		l.logIssue(ctx, store.StatusFailed, origin.IID, destIID,
			fmt.Sprintf("failed to mirror %d comment(s)", dropped))
	}
	return nil
}

func findNoteByBody(notes []*gitlab.Note, body string) *gitlab.Note {
	for _, n := range notes {
		if n.Body == body {
			return n
		}
	}
	return nil
}
