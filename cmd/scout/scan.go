// ABOUTME: Scan command that runs the full monitoring pipeline once
// ABOUTME: Renders the ranked cluster report as terminal Markdown or JSON

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/scout/internal/config"
	"github.com/harper/scout/internal/pipeline"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan feeds and report trending topics",
	Long: `Fetch all configured feeds, cluster recent articles by shared
keywords, score the clusters against your topic weights, and print a
ranked report with suggested blog angles.

Failed feeds become warnings on stderr and the scan continues with the
rest. The command exits non-zero when no articles could be fetched at
all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		days, _ := cmd.Flags().GetInt("days")
		top, _ := cmd.Flags().GetInt("top")
		category, _ := cmd.Flags().GetString("category")

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		// Progress and warnings go to stderr so --json output stays
		// a single clean document on stdout.
		events := &pipeline.Events{
			FeedDone: func(feed config.Feed, entries int, err error) {
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s %s: %v\n", red("x"), feed.Name, err)
					return
				}
				if !jsonOut {
					fmt.Fprintf(os.Stderr, "%s %s: %d entries\n", green("v"), feed.Name, entries)
				}
			},
		}

		opts := pipeline.Options{
			LookbackDays: days,
			TopClusters:  top,
			Category:     category,
		}

		result, err := pipeline.Run(cmd.Context(), cfg, opts, events)
		if err != nil {
			return err
		}

		if result.TotalArticles == 0 {
			return fmt.Errorf("no articles fetched in the last %d days", result.Report.LookbackDays)
		}

		if jsonOut {
			out, err := result.Report.JSON()
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		markdown := result.Report.Markdown()
		if plain {
			fmt.Print(markdown)
			return nil
		}

		rendered, err := glamour.Render(markdown, "dark")
		if err != nil {
			// Fall back to plain markdown if rendering fails
			fmt.Print(markdown)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("json", false, "output the report as JSON")
	scanCmd.Flags().Bool("plain", false, "print plain Markdown without terminal rendering")
	scanCmd.Flags().IntP("days", "d", 0, "lookback window in days (default: configured lookback_days)")
	scanCmd.Flags().IntP("top", "n", 0, "maximum clusters to report (default: configured top_clusters)")
	scanCmd.Flags().StringP("category", "c", "", "restrict the scan to one source category")
}
