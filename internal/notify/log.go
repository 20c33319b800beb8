package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/model"
)

// LogSink writes notifications to the log instead of a chat network.
type LogSink struct{}

func (LogSink) Deliver(_ context.Context, roomID, text string, mode model.DeliveryMode) (string, error) {
	id := uuid.NewString()
	logger.Info("notification", "module", "notify", "action", "deliver", "resource", "message", "result", "ok", "room_id", roomID, "mode", string(mode), "message_id", id, "body", text)
	return id, nil
}
