package service

import (
	"errors"

	"github.com/maubot/rss/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalid        = errors.New("invalid")
	ErrFeedFetch      = errors.New("feed fetch failed")
	ErrAlreadyPolling = errors.New("poll already in progress")
	ErrDelivery       = errors.New("notification delivery failed")
)

// SubscriptionConflictError is returned when a room already follows a feed.
type SubscriptionConflictError struct {
	Feed   model.Feed
	RoomID string
}

func (e *SubscriptionConflictError) Error() string {
	return "room is already subscribed to this feed"
}

func (e *SubscriptionConflictError) Is(target error) bool {
	return target == ErrConflict
}
