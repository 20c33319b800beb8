package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run database migrations",
		Description: `Creates the database if it does not exist and applies any missing schema changes.`,
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
			fmt.Fprintf(ctx.App.Writer, "Database migrated: %s\n", cfg.DBPath)
			return nil
		},
	}
}

func pollCmd() *cli.Command {
	return &cli.Command{
		Name:  "poll",
		Usage: "Run a single poll cycle and print its report",
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

			report, err := a.poll.PollOnce(ctx.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "cycle %s: %d feeds, %d due, %d failed, %d new entries, %d delivered, %d delivery failures (%s)\n",
				report.ID, report.Feeds, report.Due, report.Failed, report.NewEntries, report.Deliveries, report.DeliveryFailures,
				report.Duration.Round(time.Millisecond))
			return nil
		},
	}
}

func previewCmd() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Fetch a feed and print its entries without storing anything",
		ArgsUsage: "<url>",
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return cli.ShowSubcommandHelp(ctx)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			meta, entries, err := newPreviewer(cfg).Preview(ctx.Context, ctx.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "%s\n%s\n\n", meta.Title, meta.Link)
			for _, entry := range entries {
				fmt.Fprintf(ctx.App.Writer, "%s  %s\n    %s\n", entry.Date.Format("2006-01-02 15:04"), entry.Title, entry.Link)
			}
			return nil
		},
	}
}
