package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/maubot/rss/internal/feed"
	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/repository"
)

//go:generate mockgen -source=feed_service.go -destination=mock/mock_feed_service.go -package=mock

type FeedService interface {
	// Subscribe registers roomID for url, fetching the feed first when it is unknown.
	// Entries present at that moment are stored as seen and never broadcast.
	Subscribe(ctx context.Context, feedURL, roomID, userID string) (model.Feed, error)
	Unsubscribe(ctx context.Context, feedID int64, roomID string) error
	// Preview fetches and parses feedURL without storing anything.
	Preview(ctx context.Context, feedURL string) (model.FeedMetadata, []model.Entry, error)
	Entries(ctx context.Context, feedID int64) ([]model.Entry, error)
	List(ctx context.Context) ([]model.Feed, error)
	ListByRoom(ctx context.Context, roomID string) ([]model.RoomFeed, error)
	// UpdateTemplate stores template and returns a sample notification rendered with it.
	UpdateTemplate(ctx context.Context, feedID int64, roomID, template string) (string, error)
	SetSendNotice(ctx context.Context, feedID int64, roomID string, sendNotice bool) error
	// MoveRoom carries all subscriptions of oldRoomID over to newRoomID.
	MoveRoom(ctx context.Context, oldRoomID, newRoomID string) (int64, error)
	// PostAll re-broadcasts every stored entry of the feed to one subscribed room.
	PostAll(ctx context.Context, feedID int64, roomID string) (BroadcastReport, error)
}

type feedService struct {
	feeds         repository.FeedRepository
	entries       repository.EntryRepository
	subscriptions repository.SubscriptionRepository
	loader        feedLoader
	broadcaster   BroadcastService
	settings      SettingsSource
}

func NewFeedService(feeds repository.FeedRepository, entries repository.EntryRepository, subscriptions repository.SubscriptionRepository, fetcher FeedFetcher, parser *feed.Parser, broadcaster BroadcastService, settings SettingsSource) FeedService {
	if parser == nil {
		parser = feed.NewParser()
	}
	return &feedService{
		feeds:         feeds,
		entries:       entries,
		subscriptions: subscriptions,
		loader:        feedLoader{fetcher: fetcher, parser: parser},
		broadcaster:   broadcaster,
		settings:      settings,
	}
}

func (s *feedService) Subscribe(ctx context.Context, feedURL, roomID, userID string) (model.Feed, error) {
	trimmedURL := strings.TrimSpace(feedURL)
	roomID = strings.TrimSpace(roomID)
	if !isValidURL(trimmedURL) || roomID == "" {
		return model.Feed{}, ErrInvalid
	}

	existing, err := s.feeds.FindByURL(ctx, trimmedURL)
	if err != nil {
		return model.Feed{}, fmt.Errorf("check feed url: %w", err)
	}

	var target model.Feed
	if existing != nil {
		target = *existing
		sub, err := s.subscriptions.Get(ctx, target.ID, roomID)
		if err != nil {
			return model.Feed{}, fmt.Errorf("check subscription: %w", err)
		}
		if sub != nil {
			return model.Feed{}, &SubscriptionConflictError{Feed: target, RoomID: roomID}
		}
	} else {
		target, err = s.createFeed(ctx, trimmedURL)
		if err != nil {
			return model.Feed{}, err
		}
	}

	sub, err := s.subscriptions.Create(ctx, model.Subscription{
		FeedID:               target.ID,
		RoomID:               roomID,
		UserID:               userID,
		NotificationTemplate: s.settings.Settings().NotificationTemplate,
		SendNotice:           true,
	})
	if err != nil {
		return model.Feed{}, fmt.Errorf("create subscription: %w", err)
	}
	target.Subscriptions = append(target.Subscriptions, sub)

	logger.Info("feed subscribed", "module", "service", "action", "create", "resource", "subscription", "result", "ok", "feed_id", target.ID, "feed_url", target.URL, "room_id", roomID, "user_id", userID)
	return target, nil
}

func (s *feedService) createFeed(ctx context.Context, feedURL string) (model.Feed, error) {
	meta, entries, err := s.loader.load(ctx, model.Feed{URL: feedURL})
	if err != nil {
		return model.Feed{}, fmt.Errorf("%w: %w", ErrFeedFetch, err)
	}

	created, err := s.feeds.Create(ctx, model.Feed{URL: feedURL}.WithMetadata(meta))
	if err != nil {
		return model.Feed{}, fmt.Errorf("create feed: %w", err)
	}

	seen := NewEntries(nil, entries)
	for i := range seen {
		seen[i].FeedID = created.ID
	}
	if err := s.entries.InsertBatch(ctx, seen); err != nil {
		return model.Feed{}, fmt.Errorf("store initial entries: %w", err)
	}
	return created, nil
}

func (s *feedService) Unsubscribe(ctx context.Context, feedID int64, roomID string) error {
	if _, err := s.requireSubscription(ctx, feedID, roomID); err != nil {
		return err
	}
	if err := s.subscriptions.Delete(ctx, feedID, roomID); err != nil {
		return err
	}
	logger.Info("feed unsubscribed", "module", "service", "action", "delete", "resource", "subscription", "result", "ok", "feed_id", feedID, "room_id", roomID)
	return nil
}

func (s *feedService) Preview(ctx context.Context, feedURL string) (model.FeedMetadata, []model.Entry, error) {
	return s.loader.preview(ctx, feedURL)
}

func (s *feedService) Entries(ctx context.Context, feedID int64) ([]model.Entry, error) {
	if _, err := s.getFeed(ctx, feedID); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByFeed(ctx, feedID)
	if err != nil {
		return nil, err
	}
	model.SortEntries(entries)
	return entries, nil
}

func (s *feedService) List(ctx context.Context) ([]model.Feed, error) {
	return s.feeds.ListWithSubscriptions(ctx)
}

func (s *feedService) ListByRoom(ctx context.Context, roomID string) ([]model.RoomFeed, error) {
	return s.feeds.ListByRoom(ctx, roomID)
}

func (s *feedService) UpdateTemplate(ctx context.Context, feedID int64, roomID, template string) (string, error) {
	f, err := s.getFeed(ctx, feedID)
	if err != nil {
		return "", err
	}
	if _, err := s.requireSubscription(ctx, feedID, roomID); err != nil {
		return "", err
	}

	// Chat clients cannot type real newlines into a single command argument.
	template = strings.ReplaceAll(template, `\n`, "\n")
	if err := s.subscriptions.UpdateTemplate(ctx, feedID, roomID, template); err != nil {
		return "", err
	}
	if template == "" {
		template = s.settings.Settings().NotificationTemplate
	}
	return RenderNotification(template, f, sampleEntry(feedID)), nil
}

func (s *feedService) SetSendNotice(ctx context.Context, feedID int64, roomID string, sendNotice bool) error {
	if _, err := s.requireSubscription(ctx, feedID, roomID); err != nil {
		return err
	}
	return s.subscriptions.UpdateSendNotice(ctx, feedID, roomID, sendNotice)
}

func (s *feedService) MoveRoom(ctx context.Context, oldRoomID, newRoomID string) (int64, error) {
	oldRoomID = strings.TrimSpace(oldRoomID)
	newRoomID = strings.TrimSpace(newRoomID)
	if oldRoomID == "" || newRoomID == "" || oldRoomID == newRoomID {
		return 0, ErrInvalid
	}
	moved, err := s.subscriptions.UpdateRoomID(ctx, oldRoomID, newRoomID)
	if err != nil {
		return 0, err
	}
	logger.Info("subscriptions moved", "module", "service", "action", "update", "resource", "subscription", "result", "ok", "room_id", oldRoomID, "new_room_id", newRoomID, "count", moved)
	return moved, nil
}

func (s *feedService) PostAll(ctx context.Context, feedID int64, roomID string) (BroadcastReport, error) {
	f, err := s.getFeed(ctx, feedID)
	if err != nil {
		return BroadcastReport{}, err
	}
	sub, err := s.requireSubscription(ctx, feedID, roomID)
	if err != nil {
		return BroadcastReport{}, err
	}
	entries, err := s.entries.ListByFeed(ctx, feedID)
	if err != nil {
		return BroadcastReport{}, err
	}
	model.SortEntries(entries)

	var report BroadcastReport
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Add(s.broadcaster.Broadcast(ctx, f, entry, []model.Subscription{*sub}))
	}
	return report, nil
}

func (s *feedService) getFeed(ctx context.Context, feedID int64) (model.Feed, error) {
	f, err := s.feeds.GetByID(ctx, feedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Feed{}, ErrNotFound
		}
		return model.Feed{}, fmt.Errorf("get feed: %w", err)
	}
	return f, nil
}

func (s *feedService) requireSubscription(ctx context.Context, feedID int64, roomID string) (*model.Subscription, error) {
	sub, err := s.subscriptions.Get(ctx, feedID, roomID)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	return sub, nil
}

func sampleEntry(feedID int64) model.Entry {
	return model.Entry{
		FeedID:  feedID,
		ID:      "SAMPLE",
		Date:    time.Now().UTC(),
		Title:   "Sample entry",
		Summary: "This is a sample entry to demonstrate your new template",
		Link:    "http://example.com",
	}
}

func isValidURL(value string) bool {
	parsed, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
