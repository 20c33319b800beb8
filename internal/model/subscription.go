package model

import "time"

type DeliveryMode string

const (
	DeliveryNotice DeliveryMode = "notice"
	DeliveryText   DeliveryMode = "text"
)

type Subscription struct {
	FeedID               int64
	RoomID               string
	UserID               string
	NotificationTemplate string
	SendNotice           bool
	CreatedAt            time.Time
}

func (s Subscription) DeliveryMode() DeliveryMode {
	if s.SendNotice {
		return DeliveryNotice
	}
	return DeliveryText
}
