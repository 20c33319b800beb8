package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/maubot/rss/internal/db"
	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/snowflake"

	"github.com/stretchr/testify/require"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// NewTestDB opens a migrated database in a temp directory that is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "rssbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func SeedFeed(t *testing.T, database *sql.DB, feed model.Feed) int64 {
	t.Helper()
	if feed.ID == 0 {
		feed.ID = snowflake.NextID()
	}
	now := time.Now().UTC().Format(timeLayout)
	_, err := database.Exec(
		`INSERT INTO feeds (id, url, title, subtitle, link, error_count, next_retry, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		feed.ID, feed.URL, feed.Title, feed.Subtitle, feed.Link, feed.ErrorCount, feed.NextRetry, now, now,
	)
	require.NoError(t, err)
	return feed.ID
}

func SeedSubscription(t *testing.T, database *sql.DB, sub model.Subscription) {
	t.Helper()
	sendNotice := 0
	if sub.SendNotice {
		sendNotice = 1
	}
	_, err := database.Exec(
		`INSERT INTO subscriptions (feed_id, room_id, user_id, notification_template, send_notice, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.FeedID, sub.RoomID, sub.UserID, sub.NotificationTemplate, sendNotice, time.Now().UTC().Format(timeLayout),
	)
	require.NoError(t, err)
}

func SeedEntry(t *testing.T, database *sql.DB, entry model.Entry) {
	t.Helper()
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	_, err := database.Exec(
		`INSERT INTO entries (feed_id, id, date, title, summary, link, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.FeedID, entry.ID, entry.Date.UTC().Format(timeLayout), entry.Title, entry.Summary, entry.Link, entry.Content,
		time.Now().UTC().Format(timeLayout),
	)
	require.NoError(t, err)
}
