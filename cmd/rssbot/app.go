package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/maubot/rss/internal/config"
	"github.com/maubot/rss/internal/db"
	"github.com/maubot/rss/internal/feed"
	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/network"
	"github.com/maubot/rss/internal/notify"
	"github.com/maubot/rss/internal/repository"
	"github.com/maubot/rss/internal/service"
	"github.com/maubot/rss/internal/snowflake"
)

// hostLimiterSize bounds the number of per-host limiters kept in memory.
const hostLimiterSize = 1024

type app struct {
	cfg      config.Config
	settings *config.Runtime
	db       *sql.DB
	feeds    service.FeedService
	poll     service.PollService
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	return cfg, nil
}

func newApp(cfg config.Config) (*app, error) {
	if err := snowflake.Init(cfg.NodeID); err != nil {
		return nil, fmt.Errorf("init snowflake: %w", err)
	}

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	settings := cfg.NewRuntime()

	feedRepo := repository.NewFeedRepository(dbConn)
	entryRepo := repository.NewEntryRepository(dbConn)
	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)

	fetcher := newFetcher(cfg, func() time.Duration {
		return settings.Settings().FetchHostInterval
	})
	parser := feed.NewParser()

	var sink service.Sink = notify.LogSink{}
	if cfg.SinkURL != "" {
		sink = notify.NewWebhookSink(&http.Client{Timeout: cfg.FetchTimeout}, cfg.SinkURL, cfg.SinkToken)
	}
	broadcaster := service.NewBroadcastService(sink, settings)

	return &app{
		cfg:      cfg,
		settings: settings,
		db:       dbConn,
		feeds:    service.NewFeedService(feedRepo, entryRepo, subscriptionRepo, fetcher, parser, broadcaster, settings),
		poll:     service.NewPollService(feedRepo, entryRepo, fetcher, parser, broadcaster, settings),
	}, nil
}

func newFetcher(cfg config.Config, hostInterval func() time.Duration) *network.Fetcher {
	factory := network.NewClientFactory(network.StaticProxy(cfg.ProxyURL))
	return network.NewFetcher(factory, network.FetcherOptions{
		Timeout:         cfg.FetchTimeout,
		UserAgent:       cfg.UserAgent,
		BrowserFallback: cfg.BrowserFallback,
		Limiter:         network.NewHostLimiter(hostLimiterSize, hostInterval),
	})
}

// newPreviewer builds only the fetch and parse path, so previews never open the database.
func newPreviewer(cfg config.Config) *service.Previewer {
	fetcher := newFetcher(cfg, func() time.Duration { return cfg.Settings.FetchHostInterval })
	return service.NewPreviewer(fetcher, feed.NewParser())
}

func (a *app) Close() error {
	return a.db.Close()
}
