package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maubot/rss/internal/model"
)

//go:generate mockgen -source=subscription_repository.go -destination=mock/mock_subscription_repository.go -package=mock

type SubscriptionRepository interface {
	Create(ctx context.Context, sub model.Subscription) (model.Subscription, error)
	Get(ctx context.Context, feedID int64, roomID string) (*model.Subscription, error)
	Delete(ctx context.Context, feedID int64, roomID string) error
	UpdateTemplate(ctx context.Context, feedID int64, roomID string, template string) error
	UpdateSendNotice(ctx context.Context, feedID int64, roomID string, sendNotice bool) error
	// UpdateRoomID moves every subscription of oldRoomID to newRoomID, e.g. after a room upgrade.
	UpdateRoomID(ctx context.Context, oldRoomID, newRoomID string) (int64, error)
	ListRoomsByFeed(ctx context.Context, feedID int64) ([]string, error)
}

type subscriptionRepository struct {
	db dbtx
}

func NewSubscriptionRepository(db dbtx) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub model.Subscription) (model.Subscription, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO subscriptions (feed_id, room_id, user_id, notification_template, send_notice, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.FeedID,
		sub.RoomID,
		sub.UserID,
		sub.NotificationTemplate,
		boolToInt(sub.SendNotice),
		formatTime(now),
	)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	sub.CreatedAt = now
	return sub, nil
}

func (r *subscriptionRepository) Get(ctx context.Context, feedID int64, roomID string) (*model.Subscription, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT feed_id, room_id, user_id, notification_template, send_notice, created_at
		 FROM subscriptions WHERE feed_id = ? AND room_id = ?`,
		feedID,
		roomID,
	)
	var sub model.Subscription
	var template sql.NullString
	var sendNotice int
	var createdAt string
	if err := row.Scan(&sub.FeedID, &sub.RoomID, &sub.UserID, &template, &sendNotice, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	sub.NotificationTemplate = template.String
	sub.SendNotice = sendNotice == 1
	sub.CreatedAt, _ = parseTime(createdAt)
	return &sub, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, feedID int64, roomID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE feed_id = ? AND room_id = ?`, feedID, roomID); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) UpdateTemplate(ctx context.Context, feedID int64, roomID string, template string) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE subscriptions SET notification_template = ? WHERE feed_id = ? AND room_id = ?`,
		template,
		feedID,
		roomID,
	)
	return err
}

func (r *subscriptionRepository) UpdateSendNotice(ctx context.Context, feedID int64, roomID string, sendNotice bool) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE subscriptions SET send_notice = ? WHERE feed_id = ? AND room_id = ?`,
		boolToInt(sendNotice),
		feedID,
		roomID,
	)
	return err
}

func (r *subscriptionRepository) UpdateRoomID(ctx context.Context, oldRoomID, newRoomID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE subscriptions SET room_id = ? WHERE room_id = ?`, newRoomID, oldRoomID)
	if err != nil {
		return 0, fmt.Errorf("update subscription room: %w", err)
	}
	return result.RowsAffected()
}

func (r *subscriptionRepository) ListRoomsByFeed(ctx context.Context, feedID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT room_id FROM subscriptions WHERE feed_id = ? ORDER BY room_id`, feedID)
	if err != nil {
		return nil, fmt.Errorf("list feed rooms: %w", err)
	}
	defer rows.Close()

	var rooms []string
	for rows.Next() {
		var roomID string
		if err := rows.Scan(&roomID); err != nil {
			return nil, err
		}
		rooms = append(rooms, roomID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rooms, nil
}
