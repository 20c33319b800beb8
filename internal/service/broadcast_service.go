package service

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maubot/rss/internal/config"
	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/metrics"
	"github.com/maubot/rss/internal/model"
)

//go:generate mockgen -source=broadcast_service.go -destination=mock/mock_broadcast_service.go -package=mock

// Sink delivers one rendered notification to a room and returns the message id.
type Sink interface {
	Deliver(ctx context.Context, roomID, text string, mode model.DeliveryMode) (string, error)
}

// SettingsSource returns the live settings. *config.Runtime implements it.
type SettingsSource interface {
	Settings() config.Settings
}

type BroadcastReport struct {
	Delivered int
	Failed    int
}

func (r *BroadcastReport) Add(other BroadcastReport) {
	r.Delivered += other.Delivered
	r.Failed += other.Failed
}

type BroadcastService interface {
	// Broadcast sends entry to every subscription. Failed deliveries are logged and counted, never returned.
	Broadcast(ctx context.Context, feed model.Feed, entry model.Entry, subs []model.Subscription) BroadcastReport
}

type broadcastService struct {
	sink     Sink
	settings SettingsSource
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewBroadcastService(sink Sink, settings SettingsSource) BroadcastService {
	return &broadcastService{sink: sink, settings: settings, sleep: sleepContext}
}

func (s *broadcastService) Broadcast(ctx context.Context, feed model.Feed, entry model.Entry, subs []model.Subscription) BroadcastReport {
	if len(subs) == 0 {
		return BroadcastReport{}
	}
	settings := s.settings.Settings()
	if settings.SpamSleep < 0 {
		return s.broadcastConcurrent(ctx, settings, feed, entry, subs)
	}
	return s.broadcastSequential(ctx, settings, feed, entry, subs)
}

// broadcastSequential pauses SpamSleep after every delivery, the last one included.
func (s *broadcastService) broadcastSequential(ctx context.Context, settings config.Settings, feed model.Feed, entry model.Entry, subs []model.Subscription) BroadcastReport {
	var report BroadcastReport
	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}
		if s.deliver(ctx, settings, feed, entry, sub) {
			report.Delivered++
		} else {
			report.Failed++
		}
		if err := s.sleep(ctx, settings.SpamSleep); err != nil {
			break
		}
	}
	return report
}

func (s *broadcastService) broadcastConcurrent(ctx context.Context, settings config.Settings, feed model.Feed, entry model.Entry, subs []model.Subscription) BroadcastReport {
	var delivered, failed atomic.Int64
	var g errgroup.Group
	for _, sub := range subs {
		g.Go(func() error {
			if s.deliver(ctx, settings, feed, entry, sub) {
				delivered.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return BroadcastReport{Delivered: int(delivered.Load()), Failed: int(failed.Load())}
}

func (s *broadcastService) deliver(ctx context.Context, settings config.Settings, feed model.Feed, entry model.Entry, sub model.Subscription) bool {
	template := sub.NotificationTemplate
	if template == "" {
		template = settings.NotificationTemplate
	}
	text := RenderNotification(template, feed, entry)

	messageID, err := s.sink.Deliver(ctx, sub.RoomID, text, sub.DeliveryMode())
	if err != nil {
		metrics.Deliveries.WithLabelValues(metrics.ResultFailed).Inc()
		logger.Warn("notification delivery failed", "module", "service", "action", "broadcast", "resource", "notification", "result", "failed", "feed_id", feed.ID, "entry_id", entry.ID, "room_id", sub.RoomID, "error", err)
		return false
	}
	metrics.Deliveries.WithLabelValues(metrics.ResultOK).Inc()
	logger.Debug("notification delivered", "module", "service", "action", "broadcast", "resource", "notification", "result", "ok", "feed_id", feed.ID, "entry_id", entry.ID, "room_id", sub.RoomID, "message_id", messageID)
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
