package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/repository"
	"github.com/maubot/rss/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func TestFeedRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Feed{URL: "https://example.com/rss", Title: "Example"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/rss", fetched.URL)
	require.Equal(t, "Example", fetched.Title)
	require.Equal(t, 0, fetched.ErrorCount)
	require.Equal(t, int64(0), fetched.NextRetry)

	_, err = repo.GetByID(ctx, created.ID+1)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFeedRepository_CreateDuplicateURL(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, model.Feed{URL: "https://example.com/rss"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, model.Feed{URL: "https://example.com/rss"})
	require.Error(t, err)
}

func TestFeedRepository_FindByURL(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	id := testutil.SeedFeed(t, db, model.Feed{URL: "https://example.com/rss", Title: "Example"})

	found, err := repo.FindByURL(ctx, "https://example.com/rss")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, id, found.ID)

	missing, err := repo.FindByURL(ctx, "https://example.com/other")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestFeedRepository_ListWithSubscriptions(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	subscribed := testutil.SeedFeed(t, db, model.Feed{URL: "u1", Title: "One"})
	orphan := testutil.SeedFeed(t, db, model.Feed{URL: "u2", Title: "Two"})
	testutil.SeedSubscription(t, db, model.Subscription{FeedID: subscribed, RoomID: "!a", UserID: "@x", SendNotice: true})
	testutil.SeedSubscription(t, db, model.Subscription{FeedID: subscribed, RoomID: "!b", UserID: "@y", NotificationTemplate: "$title"})

	feeds, err := repo.ListWithSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, feeds, 2)

	byID := make(map[int64]model.Feed)
	for _, f := range feeds {
		byID[f.ID] = f
	}
	require.Len(t, byID[subscribed].Subscriptions, 2)
	require.Equal(t, "!a", byID[subscribed].Subscriptions[0].RoomID)
	require.True(t, byID[subscribed].Subscriptions[0].SendNotice)
	require.Equal(t, "$title", byID[subscribed].Subscriptions[1].NotificationTemplate)
	require.False(t, byID[subscribed].Subscriptions[1].SendNotice)
	require.Empty(t, byID[orphan].Subscriptions)
}

func TestFeedRepository_ListByRoom(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	f1 := testutil.SeedFeed(t, db, model.Feed{URL: "u1"})
	f2 := testutil.SeedFeed(t, db, model.Feed{URL: "u2"})
	testutil.SeedSubscription(t, db, model.Subscription{FeedID: f1, RoomID: "!room", UserID: "@alice"})
	testutil.SeedSubscription(t, db, model.Subscription{FeedID: f2, RoomID: "!other", UserID: "@bob"})

	feeds, err := repo.ListByRoom(ctx, "!room")
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	require.Equal(t, f1, feeds[0].Feed.ID)
	require.Equal(t, "@alice", feeds[0].UserID)
}

func TestFeedRepository_UpdateMetadataAndBackoff(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	id := testutil.SeedFeed(t, db, model.Feed{URL: "u1", Title: "Old"})

	require.NoError(t, repo.UpdateMetadata(ctx, model.Feed{ID: id, Title: "New", Subtitle: "Sub", Link: "https://example.com"}))
	require.NoError(t, repo.UpdateBackoff(ctx, id, 3, 1700000000))

	fetched, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "u1", fetched.URL)
	require.Equal(t, "New", fetched.Title)
	require.Equal(t, "Sub", fetched.Subtitle)
	require.Equal(t, "https://example.com", fetched.Link)
	require.Equal(t, 3, fetched.ErrorCount)
	require.Equal(t, int64(1700000000), fetched.NextRetry)
}

func TestFeedRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	id := testutil.SeedFeed(t, db, model.Feed{URL: "u1"})
	testutil.SeedSubscription(t, db, model.Subscription{FeedID: id, RoomID: "!a"})
	testutil.SeedEntry(t, db, model.Entry{FeedID: id, ID: "e1"})

	_, err := db.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&count))
	require.Zero(t, count)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM subscriptions`).Scan(&count))
	require.Zero(t, count)
}
