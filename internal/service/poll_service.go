package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/maubot/rss/internal/feed"
	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/metrics"
	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/repository"
)

//go:generate mockgen -source=poll_service.go -destination=mock/mock_poll_service.go -package=mock

type CycleReport struct {
	ID               string
	StartedAt        time.Time
	Duration         time.Duration
	Feeds            int
	Due              int
	Failed           int
	NewEntries       int
	Deliveries       int
	DeliveryFailures int
}

type PollService interface {
	// PollOnce runs one cycle. Per-feed failures are contained; only listing
	// errors and cancellation are returned.
	PollOnce(ctx context.Context) (CycleReport, error)
	IsPolling() bool
}

type pollService struct {
	feeds       repository.FeedRepository
	entries     repository.EntryRepository
	loader      feedLoader
	broadcaster BroadcastService
	settings    SettingsSource
	now         func() time.Time

	mu        sync.Mutex
	isPolling bool
}

func NewPollService(feeds repository.FeedRepository, entries repository.EntryRepository, fetcher FeedFetcher, parser *feed.Parser, broadcaster BroadcastService, settings SettingsSource) PollService {
	if parser == nil {
		parser = feed.NewParser()
	}
	return &pollService{
		feeds:       feeds,
		entries:     entries,
		loader:      feedLoader{fetcher: fetcher, parser: parser},
		broadcaster: broadcaster,
		settings:    settings,
		now:         time.Now,
	}
}

type fetchResult struct {
	feed    model.Feed
	meta    model.FeedMetadata
	entries []model.Entry
	err     error
}

func (s *pollService) IsPolling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPolling
}

func (s *pollService) PollOnce(ctx context.Context) (CycleReport, error) {
	s.mu.Lock()
	if s.isPolling {
		s.mu.Unlock()
		return CycleReport{}, ErrAlreadyPolling
	}
	s.isPolling = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isPolling = false
		s.mu.Unlock()
	}()

	report := CycleReport{ID: uuid.NewString(), StartedAt: s.now()}
	err := s.pollOnce(ctx, &report)
	report.Duration = s.now().Sub(report.StartedAt)
	if err != nil {
		return report, err
	}

	metrics.PollCycles.Inc()
	metrics.PollCycleDuration.Observe(report.Duration.Seconds())
	logger.Info("poll cycle finished", "module", "service", "action", "poll", "resource", "feed", "result", "ok",
		"cycle_id", report.ID, "feeds", report.Feeds, "due", report.Due, "failed", report.Failed,
		"new_entries", report.NewEntries, "deliveries", report.Deliveries, "delivery_failures", report.DeliveryFailures,
		"duration", report.Duration)
	return report, nil
}

func (s *pollService) pollOnce(ctx context.Context, report *CycleReport) error {
	settings := s.settings.Settings()
	policy := NewBackoffPolicy(settings)

	feeds, err := s.feeds.ListWithSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("list feeds: %w", err)
	}
	now := s.now()
	due := lo.Filter(feeds, func(f model.Feed, _ int) bool {
		return policy.IsDue(f, now)
	})
	report.Feeds = len(feeds)
	report.Due = len(due)
	if len(due) == 0 {
		return nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered for every feed so workers never block once the cycle is abandoned.
	results := make(chan fetchResult, len(due))
	go func() {
		var g errgroup.Group
		if settings.FetchConcurrency > 0 {
			g.SetLimit(settings.FetchConcurrency)
		}
		for _, f := range due {
			if fetchCtx.Err() != nil {
				break
			}
			g.Go(func() error {
				meta, entries, err := s.loader.load(fetchCtx, f)
				results <- fetchResult{feed: f, meta: meta, entries: entries, err: err}
				return nil
			})
		}
		_ = g.Wait()
	}()

	for range due {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-results:
			s.handleResult(ctx, policy, res, report)
		}
	}
	return ctx.Err()
}

func (s *pollService) handleResult(ctx context.Context, policy BackoffPolicy, res fetchResult, report *CycleReport) {
	if res.err != nil {
		if ctx.Err() != nil && (errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded)) {
			return
		}
		s.recordFailure(ctx, policy, res.feed, res.err)
		report.Failed++
		return
	}
	metrics.FeedFetches.WithLabelValues(metrics.ResultOK).Inc()

	current := res.feed
	if recovered, changed := policy.Recover(current); changed {
		if err := s.feeds.UpdateBackoff(ctx, recovered.ID, recovered.ErrorCount, recovered.NextRetry); err != nil {
			logger.Warn("feed backoff reset failed", "module", "service", "action", "update", "resource", "feed", "result", "failed", "feed_id", current.ID, "error", err)
		} else {
			logger.Info("feed recovered", "module", "service", "action", "poll", "resource", "feed", "result", "ok", "feed_id", current.ID, "feed_url", current.URL, "previous_errors", current.ErrorCount)
		}
		current = recovered
	}

	updated := current.WithMetadata(res.meta)
	if updated.Metadata() != current.Metadata() {
		if err := s.feeds.UpdateMetadata(ctx, updated); err != nil {
			logger.Warn("feed metadata update failed", "module", "service", "action", "update", "resource", "feed", "result", "failed", "feed_id", current.ID, "error", err)
			updated = current
		}
	}

	fresh, err := s.storeNewEntries(ctx, updated, res.entries)
	if err != nil {
		logger.Error("store new entries failed", "module", "service", "action", "save", "resource", "entry", "result", "failed", "feed_id", updated.ID, "error", err)
		return
	}
	report.NewEntries += len(fresh)
	if len(fresh) > 0 {
		logger.Info("new entries found", "module", "service", "action", "poll", "resource", "entry", "result", "ok", "feed_id", updated.ID, "feed_url", updated.URL, "count", len(fresh), "subscriptions", len(updated.Subscriptions))
	}

	for _, entry := range fresh {
		if ctx.Err() != nil {
			return
		}
		br := s.broadcaster.Broadcast(ctx, updated, entry, updated.Subscriptions)
		report.Deliveries += br.Delivered
		report.DeliveryFailures += br.Failed
	}
}

// storeNewEntries persists the unseen entries in one batch before anything is broadcast,
// so an interrupted broadcast never causes a second delivery.
func (s *pollService) storeNewEntries(ctx context.Context, f model.Feed, parsed []model.Entry) ([]model.Entry, error) {
	stored, err := s.entries.ListByFeed(ctx, f.ID)
	if err != nil {
		return nil, fmt.Errorf("list stored entries: %w", err)
	}
	fresh := NewEntries(stored, parsed)
	if len(fresh) == 0 {
		return nil, nil
	}
	for i := range fresh {
		fresh[i].FeedID = f.ID
	}
	if err := s.entries.InsertBatch(ctx, fresh); err != nil {
		return nil, err
	}
	metrics.NewEntries.Add(float64(len(fresh)))
	return fresh, nil
}

func (s *pollService) recordFailure(ctx context.Context, policy BackoffPolicy, f model.Feed, cause error) {
	metrics.FeedFetches.WithLabelValues(metrics.ResultFailed).Inc()
	failed := policy.Fail(f, s.now())
	if err := s.feeds.UpdateBackoff(ctx, failed.ID, failed.ErrorCount, failed.NextRetry); err != nil {
		logger.Error("feed backoff update failed", "module", "service", "action", "update", "resource", "feed", "result", "failed", "feed_id", f.ID, "error", err)
	}
	logger.Warn("feed poll failed", "module", "service", "action", "poll", "resource", "feed", "result", "failed",
		"feed_id", f.ID, "feed_url", f.URL, "error_count", failed.ErrorCount, "next_retry", failed.NextRetry, "error", cause)
}
