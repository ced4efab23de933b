// ABOUTME: Watch command that runs scans on a cron schedule
// ABOUTME: Logs structured scan summaries and prints each report to stdout

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/harper/scout/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan feeds on a schedule",
	Long: `Run scans continuously on a cron schedule.

Accepts standard five-field cron expressions and @-descriptors like
@hourly or @every 6h. The first scan runs immediately; each report is
printed to stdout and a structured summary is logged to stderr. Stop
with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule, _ := cmd.Flags().GetString("schedule")
		days, _ := cmd.Flags().GetInt("days")
		category, _ := cmd.Flags().GetString("category")

		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Info("watch starting", "schedule", schedule, "sources", path)

		opts := pipeline.Options{LookbackDays: days, Category: category}

		runScan := func() {
			result, err := pipeline.Run(context.Background(), cfg, opts, nil)
			if err != nil {
				logger.Error("scan failed", "error", err)
				return
			}

			for _, warning := range result.Warnings {
				logger.Warn("feed failed", "feed", warning.Feed.Name, "error", warning.Err)
			}

			logger.Info("scan complete",
				"articles", result.TotalArticles,
				"clusters", len(result.Report.Clusters),
				"warnings", len(result.Warnings))

			fmt.Print(result.Report.Markdown())
		}

		scheduler := cron.New()
		if _, err := scheduler.AddFunc(schedule, runScan); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}

		// First scan runs immediately; the schedule takes over after.
		runScan()
		scheduler.Start()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		logger.Info("watch stopping")
		<-scheduler.Stop().Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("schedule", "s", "@every 6h", "cron schedule for scans")
	watchCmd.Flags().IntP("days", "d", 0, "lookback window in days (default: configured lookback_days)")
	watchCmd.Flags().StringP("category", "c", "", "restrict scans to one source category")
}
