package sqlc

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/issuebridge/issuebridge-server/database"
)

func setupPair(t *testing.T, queries *Queries) ProjectPair {
	t.Helper()

	ctx := context.Background()

	source, err := queries.InsertInstance(ctx, InsertInstanceParams{
		Name:        "source-gitlab",
		Url:         "https://gitlab-a.example.com",
		AccessToken: "token-a",
	})
	require.NoError(t, err)

	target, err := queries.InsertInstance(ctx, InsertInstanceParams{
		Name:        "target-gitlab",
		Url:         "https://gitlab-b.example.com",
		AccessToken: "token-b",
	})
	require.NoError(t, err)

	pair, err := queries.InsertProjectPair(ctx, InsertProjectPairParams{
		Name:             "test-pair",
		SourceInstanceID: source.ID,
		SourceProject:    "group/project-a",
		TargetInstanceID: target.ID,
		TargetProject:    "group/project-b",
		Bidirectional:    true,
		Enabled:          true,
	})
	require.NoError(t, err)
	return pair
}

func TestUpsertSyncedIssue(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)

	ctx := context.Background()
	pair := setupPair(t, queries)

	rec, err := queries.UpsertSyncedIssue(ctx, UpsertSyncedIssueParams{
		PairID:            pair.ID,
		SourceIid:         1,
		TargetIid:         10,
		SourceFingerprint: "fp-src-1",
		TargetFingerprint: "fp-tgt-1",
		LastSyncedAt:      pgtype.Timestamptz{Time: time.Now(), Valid: true},
	})
	require.NoError(t, err)
	require.Equal(t, int64(10), rec.TargetIid)

	// Upserting the same source issue refreshes the baseline in place.
	rec, err = queries.UpsertSyncedIssue(ctx, UpsertSyncedIssueParams{
		PairID:            pair.ID,
		SourceIid:         1,
		TargetIid:         10,
		SourceFingerprint: "fp-src-2",
		TargetFingerprint: "fp-tgt-2",
		LastSyncedAt:      pgtype.Timestamptz{Time: time.Now(), Valid: true},
	})
	require.NoError(t, err)
	require.Equal(t, "fp-src-2", rec.SourceFingerprint)

	count, err := queries.CountSyncedIssuesForPair(ctx, pair.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	byTarget, err := queries.GetSyncedIssueByTarget(ctx, GetSyncedIssueByTargetParams{
		PairID:    pair.ID,
		TargetIid: 10,
	})
	require.NoError(t, err)
	require.Equal(t, rec.ID, byTarget.ID)

	_, err = queries.GetSyncedIssueBySource(ctx, GetSyncedIssueBySourceParams{
		PairID:    pair.ID,
		SourceIid: 999,
	})
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUpsertConflictIdempotent(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)

	ctx := context.Background()
	pair := setupPair(t, queries)

	first, err := queries.UpsertConflict(ctx, UpsertConflictParams{
		PairID:       pair.ID,
		SourceIid:    7,
		TargetIid:    pgtype.Int8{Int64: 70, Valid: true},
		ConflictType: "concurrent_edit",
		Description:  "both sides changed",
	})
	require.NoError(t, err)
	require.False(t, first.Resolved)

	// A second detection for the same issue updates the open record
	// instead of creating another one.
	second, err := queries.UpsertConflict(ctx, UpsertConflictParams{
		PairID:       pair.ID,
		SourceIid:    7,
		TargetIid:    pgtype.Int8{Int64: 70, Valid: true},
		ConflictType: "concurrent_edit",
		Description:  "both sides changed again",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	count, err := queries.CountUnresolvedConflicts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	resolved, err := queries.ResolveConflict(ctx, ResolveConflictParams{
		ID:              first.ID,
		ResolutionNotes: pgtype.Text{String: "kept source", Valid: true},
	})
	require.NoError(t, err)
	require.True(t, resolved.Resolved)
	require.True(t, resolved.ResolvedAt.Valid)

	// Resolving twice is rejected.
	_, err = queries.ResolveConflict(ctx, ResolveConflictParams{ID: first.ID})
	require.ErrorIs(t, err, pgx.ErrNoRows)

	// Once resolved, a fresh conflict can be recorded for the same issue.
	third, err := queries.UpsertConflict(ctx, UpsertConflictParams{
		PairID:       pair.ID,
		SourceIid:    7,
		ConflictType: "concurrent_edit",
		Description:  "new round",
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, third.ID)
}
