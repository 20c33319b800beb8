package network

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const defaultLimiterHosts = 512

// HostLimiter spaces out requests to the same host. The interval is read on
// every Wait so reloaded settings apply without a restart.
type HostLimiter struct {
	interval func() time.Duration
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
}

func NewHostLimiter(size int, interval func() time.Duration) *HostLimiter {
	if size <= 0 {
		size = defaultLimiterHosts
	}
	cache, _ := lru.New[string, *rate.Limiter](size)
	return &HostLimiter{interval: interval, limiters: cache}
}

// Wait blocks until a request to host may start or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l == nil || l.interval == nil {
		return nil
	}
	interval := l.interval()
	if interval <= 0 || host == "" {
		return nil
	}
	return l.limiter(host, interval).Wait(ctx)
}

func (l *HostLimiter) limiter(host string, interval time.Duration) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit := rate.Every(interval)
	if limiter, ok := l.limiters.Get(host); ok {
		if limiter.Limit() != limit {
			limiter.SetLimit(limit)
		}
		return limiter
	}
	limiter := rate.NewLimiter(limit, 1)
	l.limiters.Add(host, limiter)
	return limiter
}
