package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/snowflake"
)

//go:generate mockgen -source=feed_repository.go -destination=mock/mock_feed_repository.go -package=mock

type FeedRepository interface {
	Create(ctx context.Context, feed model.Feed) (model.Feed, error)
	GetByID(ctx context.Context, id int64) (model.Feed, error)
	FindByURL(ctx context.Context, url string) (*model.Feed, error)
	// ListWithSubscriptions returns every feed, including feeds nobody subscribes to.
	ListWithSubscriptions(ctx context.Context) ([]model.Feed, error)
	ListByRoom(ctx context.Context, roomID string) ([]model.RoomFeed, error)
	UpdateMetadata(ctx context.Context, feed model.Feed) error
	UpdateBackoff(ctx context.Context, id int64, errorCount int, nextRetry int64) error
}

const feedColumns = `f.id, f.url, f.title, f.subtitle, f.link, f.error_count, f.next_retry, f.created_at, f.updated_at`

type feedRepository struct {
	db dbtx
}

func NewFeedRepository(db dbtx) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) Create(ctx context.Context, feed model.Feed) (model.Feed, error) {
	feed.ID = snowflake.NextID()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO feeds (id, url, title, subtitle, link, error_count, next_retry, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		feed.ID,
		feed.URL,
		feed.Title,
		feed.Subtitle,
		feed.Link,
		feed.ErrorCount,
		feed.NextRetry,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return model.Feed{}, fmt.Errorf("create feed: %w", err)
	}
	feed.CreatedAt = now
	feed.UpdatedAt = now
	return feed, nil
}

func (r *feedRepository) GetByID(ctx context.Context, id int64) (model.Feed, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+feedColumns+` FROM feeds f WHERE f.id = ?`, id)
	return scanFeed(row)
}

func (r *feedRepository) FindByURL(ctx context.Context, url string) (*model.Feed, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+feedColumns+` FROM feeds f WHERE f.url = ?`, url)
	feed, err := scanFeed(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find feed: %w", err)
	}
	return &feed, nil
}

func (r *feedRepository) ListWithSubscriptions(ctx context.Context) ([]model.Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedColumns+`, s.room_id, s.user_id, s.notification_template, s.send_notice, s.created_at
		FROM feeds f
		LEFT JOIN subscriptions s ON s.feed_id = f.id
		ORDER BY f.id, s.room_id`)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []model.Feed
	index := make(map[int64]int)
	for rows.Next() {
		var roomID, userID, template, subCreatedAt sql.NullString
		var sendNotice sql.NullInt64
		feed, err := scanFeedWith(rows, &roomID, &userID, &template, &sendNotice, &subCreatedAt)
		if err != nil {
			return nil, err
		}
		i, ok := index[feed.ID]
		if !ok {
			i = len(feeds)
			index[feed.ID] = i
			feeds = append(feeds, feed)
		}
		if !roomID.Valid {
			continue
		}
		sub := model.Subscription{
			FeedID:               feed.ID,
			RoomID:               roomID.String,
			UserID:               userID.String,
			NotificationTemplate: template.String,
			SendNotice:           sendNotice.Int64 == 1,
		}
		if subCreatedAt.Valid {
			sub.CreatedAt, _ = parseTime(subCreatedAt.String)
		}
		feeds[i].Subscriptions = append(feeds[i].Subscriptions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feeds: %w", err)
	}

	return feeds, nil
}

func (r *feedRepository) ListByRoom(ctx context.Context, roomID string) ([]model.RoomFeed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedColumns+`, s.user_id
		FROM feeds f
		INNER JOIN subscriptions s ON s.feed_id = f.id
		WHERE s.room_id = ?
		ORDER BY f.id`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room feeds: %w", err)
	}
	defer rows.Close()

	var result []model.RoomFeed
	for rows.Next() {
		var userID string
		feed, err := scanFeedWith(rows, &userID)
		if err != nil {
			return nil, err
		}
		result = append(result, model.RoomFeed{Feed: feed, UserID: userID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room feeds: %w", err)
	}
	return result, nil
}

func (r *feedRepository) UpdateMetadata(ctx context.Context, feed model.Feed) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE feeds SET title = ?, subtitle = ?, link = ?, updated_at = ? WHERE id = ?`,
		feed.Title,
		feed.Subtitle,
		feed.Link,
		formatTime(time.Now()),
		feed.ID,
	)
	if err != nil {
		return fmt.Errorf("update feed metadata: %w", err)
	}
	return nil
}

func (r *feedRepository) UpdateBackoff(ctx context.Context, id int64, errorCount int, nextRetry int64) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE feeds SET error_count = ?, next_retry = ?, updated_at = ? WHERE id = ?`,
		errorCount,
		nextRetry,
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("update feed backoff: %w", err)
	}
	return nil
}

func scanFeed(row scanner) (model.Feed, error) {
	return scanFeedWith(row)
}

// scanFeedWith scans the feed columns followed by any extra destinations.
func scanFeedWith(row scanner, extra ...any) (model.Feed, error) {
	var feed model.Feed
	var createdAt, updatedAt string
	dest := []any{
		&feed.ID,
		&feed.URL,
		&feed.Title,
		&feed.Subtitle,
		&feed.Link,
		&feed.ErrorCount,
		&feed.NextRetry,
		&createdAt,
		&updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Feed{}, err
	}
	var err error
	feed.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Feed{}, fmt.Errorf("parse feed created_at: %w", err)
	}
	feed.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return model.Feed{}, fmt.Errorf("parse feed updated_at: %w", err)
	}
	return feed, nil
}
