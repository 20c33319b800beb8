package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/maubot/rss/internal/config"
)

// @title rssbot admin API
// @version 0.4.0
// @description Manage feed subscriptions and trigger poll cycles.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:    config.AppName,
		Version: config.AppVersion,
		Usage:   "Poll RSS, Atom and JSON feeds and post new entries to chat rooms",
		Description: `rssbot polls every subscribed feed on a fixed interval, stores the
		entries it has seen and sends a notification for each new one to the
		rooms subscribed to the feed.

		Settings are read from RSSBOT_* environment variables, a .env file in
		the working directory and the TOML file named by RSSBOT_CONFIG.`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			pollCmd(),
			previewCmd(),
		},
		Action: func(ctx *cli.Context) error {
			return cli.ShowAppHelp(ctx)
		},
	}
}
