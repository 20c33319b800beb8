package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/maubot/rss/internal/handler"
	transport "github.com/maubot/rss/internal/http"
	"github.com/maubot/rss/internal/logger"
	"github.com/maubot/rss/internal/scheduler"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the poll loop and the admin API",
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			router := transport.NewRouter(transport.Handlers{
				Feeds:         handler.NewFeedHandler(a.feeds),
				Subscriptions: handler.NewSubscriptionHandler(a.feeds),
				Rooms:         handler.NewRoomHandler(a.feeds),
				Poll:          handler.NewPollHandler(a.poll),
			}, cfg.APIToken)

			sched := scheduler.New(a.poll, scheduler.SettingsInterval(a.settings))
			sched.Start()
			defer sched.Stop()

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("http server started", "module", "http", "action", "listen", "resource", "server", "result", "ok", "addr", cfg.Addr)
				if err := router.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			defer signal.Stop(sigCh)

			for {
				select {
				case err := <-serverErr:
					return err
				case sig := <-sigCh:
					if sig == syscall.SIGHUP {
						if _, err := a.settings.Reload(); err != nil {
							logger.Error("settings reload failed", "module", "config", "action", "reload", "resource", "settings", "result", "failed", "error", err)
						} else {
							logger.Info("settings reloaded", "module", "config", "action", "reload", "resource", "settings", "result", "ok")
						}
						continue
					}

					logger.Info("shutting down", "module", "http", "action", "shutdown", "resource", "server", "result", "ok", "signal", sig.String())
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					return router.Shutdown(shutdownCtx)
				}
			}
		},
	}
}
