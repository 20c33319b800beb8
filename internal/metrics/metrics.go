package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

var (
	PollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rssbot_poll_cycles_total",
		Help: "Number of completed poll cycles",
	})
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rssbot_feed_fetches_total",
		Help: "Feed fetch and parse attempts by result",
	}, []string{"result"})
	NewEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rssbot_new_entries_total",
		Help: "Entries seen for the first time",
	})
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rssbot_deliveries_total",
		Help: "Notification deliveries by result",
	}, []string{"result"})
	PollCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rssbot_poll_cycle_duration_seconds",
		Help:    "Wall time of one poll cycle",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms up to ~3.4min
	})
)
