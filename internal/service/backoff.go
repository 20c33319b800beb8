package service

import (
	"time"

	"github.com/maubot/rss/internal/config"
	"github.com/maubot/rss/internal/model"
)

// BackoffPolicy delays a failing feed by Base per consecutive failure, capped at Max.
type BackoffPolicy struct {
	Base time.Duration
	Max  time.Duration
}

func NewBackoffPolicy(s config.Settings) BackoffPolicy {
	return BackoffPolicy{Base: s.EffectiveBackoffBase(), Max: s.MaxBackoff}
}

// Fail records one more failure and schedules the next attempt.
func (p BackoffPolicy) Fail(feed model.Feed, now time.Time) model.Feed {
	feed.ErrorCount++
	delay := p.Base * time.Duration(feed.ErrorCount)
	if delay > p.Max || delay < 0 {
		delay = p.Max
	}
	if delay < 0 {
		delay = 0
	}
	feed.NextRetry = now.Add(delay).Unix()
	return feed
}

// Recover clears the failure state. It reports false when the feed was already healthy.
func (p BackoffPolicy) Recover(feed model.Feed) (model.Feed, bool) {
	if feed.ErrorCount == 0 && feed.NextRetry == 0 {
		return feed, false
	}
	feed.ErrorCount = 0
	feed.NextRetry = 0
	return feed, true
}

func (p BackoffPolicy) IsDue(feed model.Feed, now time.Time) bool {
	return feed.NextRetry < now.Unix()
}
