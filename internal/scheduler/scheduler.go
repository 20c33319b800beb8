package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/service"
)

// minPause keeps back-to-back cycles from spinning when update_interval is 0.
const minPause = time.Second

type IntervalSource interface {
	UpdateInterval() time.Duration
}

type IntervalFunc func() time.Duration

func (f IntervalFunc) UpdateInterval() time.Duration { return f() }

type Scheduler struct {
	pollService service.PollService
	interval    IntervalSource
	minPause    time.Duration
	wg          sync.WaitGroup
	cancelFunc  context.CancelFunc // cancels the running loop
	mu          sync.Mutex         // protects cancelFunc
}

func New(pollService service.PollService, interval IntervalSource) *Scheduler {
	return &Scheduler{
		pollService: pollService,
		interval:    interval,
		minPause:    minPause,
	}
}

// SettingsInterval reads update_interval from the live settings.
func SettingsInterval(settings service.SettingsSource) IntervalSource {
	return IntervalFunc(func() time.Duration {
		return settings.Settings().UpdateInterval
	})
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.Run(ctx)
	}()
	logger.Info("scheduler started", "module", "scheduler", "action", "poll", "resource", "feed", "result", "ok", "interval_ms", s.interval.UpdateInterval().Milliseconds())
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
	logger.Info("scheduler stopped", "module", "scheduler", "action", "poll", "resource", "feed", "result", "ok")
}

// Run polls until ctx is cancelled. Cycle errors and panics are logged and
// never end the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.cycle(ctx)

		pause := s.interval.UpdateInterval()
		if pause < s.minPause {
			pause = s.minPause
		}
		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("poll cycle panicked", "module", "scheduler", "action", "poll", "resource", "feed", "result", "failed", "error", fmt.Sprint(r))
		}
	}()

	report, err := s.pollService.PollOnce(ctx)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			logger.Warn("poll cycle cancelled", "module", "scheduler", "action", "poll", "resource", "feed", "result", "cancelled")
		case errors.Is(err, service.ErrAlreadyPolling):
			logger.Warn("poll cycle skipped", "module", "scheduler", "action", "poll", "resource", "feed", "result", "skipped")
		default:
			logger.Error("poll cycle failed", "module", "scheduler", "action", "poll", "resource", "feed", "result", "failed", "error", err)
		}
		return
	}
	logger.Debug("poll cycle completed", "module", "scheduler", "action", "poll", "resource", "feed", "result", "ok",
		"cycle_id", report.ID, "due", report.Due, "failed", report.Failed, "new_entries", report.NewEntries)
}
