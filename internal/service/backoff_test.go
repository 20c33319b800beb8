package service_test

import (
	"testing"
	"time"

	"github.com/maubot/rss/internal/config"
	"github.com/maubot/rss/internal/model"
	"github.com/maubot/rss/internal/service"

	"github.com/stretchr/testify/require"
)

func TestBackoffPolicy_FailIsLinear(t *testing.T) {
	policy := service.BackoffPolicy{Base: 10 * time.Minute, Max: time.Hour}
	now := time.Unix(1_700_000_000, 0)

	feed := policy.Fail(model.Feed{ID: 1}, now)
	require.Equal(t, 1, feed.ErrorCount)
	require.Equal(t, now.Add(10*time.Minute).Unix(), feed.NextRetry)

	feed = policy.Fail(feed, now)
	require.Equal(t, 2, feed.ErrorCount)
	require.Equal(t, now.Add(20*time.Minute).Unix(), feed.NextRetry)
}

func TestBackoffPolicy_Ceiling(t *testing.T) {
	policy := service.BackoffPolicy{Base: 25 * time.Minute, Max: time.Hour}
	now := time.Unix(1_700_000_000, 0)

	feed := model.Feed{}
	for i := 0; i < 50; i++ {
		feed = policy.Fail(feed, now)
		require.LessOrEqual(t, feed.NextRetry-now.Unix(), int64(time.Hour/time.Second))
	}
	require.Equal(t, 50, feed.ErrorCount)
	require.Equal(t, now.Add(time.Hour).Unix(), feed.NextRetry)
}

func TestBackoffPolicy_ConsecutiveFailuresNeverDecrease(t *testing.T) {
	policy := service.BackoffPolicy{Base: time.Minute, Max: 5 * time.Minute}
	now := time.Unix(1_700_000_000, 0)

	feed := model.Feed{}
	previous := int64(0)
	for i := 0; i < 20; i++ {
		feed = policy.Fail(feed, now)
		require.GreaterOrEqual(t, feed.NextRetry, previous)
		previous = feed.NextRetry
		// A failing feed is only retried once it is due again.
		now = time.Unix(feed.NextRetry+1, 0)
	}
}

func TestBackoffPolicy_Recover(t *testing.T) {
	policy := service.BackoffPolicy{Base: time.Minute, Max: time.Hour}

	feed, changed := policy.Recover(model.Feed{ErrorCount: 7, NextRetry: 123})
	require.True(t, changed)
	require.Zero(t, feed.ErrorCount)
	require.Zero(t, feed.NextRetry)

	_, changed = policy.Recover(feed)
	require.False(t, changed)
}

func TestBackoffPolicy_IsDue(t *testing.T) {
	policy := service.BackoffPolicy{}
	now := time.Unix(1000, 0)

	require.True(t, policy.IsDue(model.Feed{NextRetry: 0}, now))
	require.True(t, policy.IsDue(model.Feed{NextRetry: 999}, now))
	require.False(t, policy.IsDue(model.Feed{NextRetry: 1000}, now))
	require.False(t, policy.IsDue(model.Feed{NextRetry: 5000}, now))
}

func TestNewBackoffPolicy_DefaultsBaseToUpdateInterval(t *testing.T) {
	policy := service.NewBackoffPolicy(config.Settings{UpdateInterval: time.Hour, MaxBackoff: 3 * time.Hour})
	require.Equal(t, time.Hour, policy.Base)
	require.Equal(t, 3*time.Hour, policy.Max)

	policy = service.NewBackoffPolicy(config.Settings{UpdateInterval: time.Hour, BackoffBase: time.Minute})
	require.Equal(t, time.Minute, policy.Base)
}
