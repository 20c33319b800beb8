package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/repository"
	"github.com/maubot/rss/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string { return &s }

func TestEntryRepository_InsertBatchAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewEntryRepository(db)
	ctx := context.Background()

	feedID := testutil.SeedFeed(t, db, model.Feed{URL: "u1"})
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err := repo.InsertBatch(ctx, []model.Entry{
		{FeedID: feedID, ID: "late", Date: base.Add(time.Hour), Title: "Late"},
		{FeedID: feedID, ID: "b", Date: base, Title: "B", Content: stringPtr("<p>body</p>")},
		{FeedID: feedID, ID: "a", Date: base, Title: "A"},
	})
	require.NoError(t, err)

	entries, err := repo.ListByFeed(ctx, feedID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "a", entries[0].ID)
	require.Equal(t, "b", entries[1].ID)
	require.Equal(t, "late", entries[2].ID)
	require.True(t, entries[0].Date.Equal(base))
	require.Nil(t, entries[0].Content)
	require.NotNil(t, entries[1].Content)
	require.Equal(t, "<p>body</p>", *entries[1].Content)
}

func TestEntryRepository_InsertBatchEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewEntryRepository(db)

	require.NoError(t, repo.InsertBatch(context.Background(), nil))
}

// A duplicate identity aborts the whole batch so nothing is half-stored.
func TestEntryRepository_InsertBatchAtomic(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewEntryRepository(db)
	ctx := context.Background()

	feedID := testutil.SeedFeed(t, db, model.Feed{URL: "u1"})
	testutil.SeedEntry(t, db, model.Entry{FeedID: feedID, ID: "dup"})

	err := repo.InsertBatch(ctx, []model.Entry{
		{FeedID: feedID, ID: "fresh", Date: time.Now()},
		{FeedID: feedID, ID: "dup", Date: time.Now()},
	})
	require.Error(t, err)

	entries, err := repo.ListByFeed(ctx, feedID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "dup", entries[0].ID)
}

func TestEntryRepository_SameIDDifferentFeeds(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewEntryRepository(db)
	ctx := context.Background()

	f1 := testutil.SeedFeed(t, db, model.Feed{URL: "u1"})
	f2 := testutil.SeedFeed(t, db, model.Feed{URL: "u2"})

	require.NoError(t, repo.InsertBatch(ctx, []model.Entry{
		{FeedID: f1, ID: "shared", Date: time.Now()},
		{FeedID: f2, ID: "shared", Date: time.Now()},
	}))

	entries, err := repo.ListByFeed(ctx, f2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
