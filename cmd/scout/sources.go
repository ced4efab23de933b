// ABOUTME: Sources command group for managing the monitored feed list
// ABOUTME: Covers list, discover, OPML import/export, and starter file creation

package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harper/scout/internal/config"
	"github.com/harper/scout/internal/discover"
	"github.com/harper/scout/internal/fetch"
	"github.com/harper/scout/internal/opml"
)

//go:embed starter.json
var starterJSON []byte

//go:embed starter.yaml
var starterYAML []byte

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Aliases: []string{"src"},
	Short:   "Manage the monitored feed sources",
	Long:    "List, discover, import, and export the feed sources scout monitors.",
}

var sourcesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List configured sources by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		fmt.Printf("Sources file: %s\n\n", faint(path))

		categories := make([]string, 0, len(cfg.Sources))
		for category := range cfg.Sources {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		total := 0
		for _, category := range categories {
			sources := cfg.Sources[category]
			total += len(sources)
			fmt.Printf("%s (%d)\n", bold(category), len(sources))
			for _, src := range sources {
				fmt.Printf("  %s  %s\n", src.Name, faint(src.Feed))
			}
			fmt.Println()
		}

		fmt.Printf("%d feed(s) in %d categor%s\n", total, len(categories), plural(len(categories), "y", "ies"))
		fmt.Printf("Topic weights: %s\n", formatWeights(cfg.TopicWeights))
		return nil
	},
}

var sourcesDiscoverCmd = &cobra.Command{
	Use:   "discover <url>",
	Short: "Find the feed for a website",
	Long: `Probe a website URL for its RSS/Atom feed.

Tries the URL directly, then HTML link tags, then common feed paths
like /feed.xml. Prints the feed URL and title ready to paste into the
sources file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")

		// Discovery does not need a sources file; probe with default
		// fetch settings and no retries.
		client := fetch.NewClient(config.FetchConfig{
			TimeoutSeconds: config.DefaultFetchTimeoutSeconds,
			Concurrency:    1,
			Retries:        0,
		})

		feed, err := discover.New(client).Discover(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOut {
			out, err := json.MarshalIndent(map[string]string{
				"url":   feed.URL,
				"title": feed.Title,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		name := feed.Title
		if name == "" {
			name = feed.URL
		}
		fmt.Printf("Found feed: %s\n", feed.URL)
		if feed.Title != "" {
			fmt.Printf("  title: %s\n", feed.Title)
		}
		fmt.Println()
		fmt.Println("Add it to your sources file:")
		fmt.Printf("  {\"name\": %q, \"feed\": %q}\n", name, feed.URL)
		return nil
	},
}

var sourcesImportCmd = &cobra.Command{
	Use:   "import <opml-file>",
	Short: "Convert an OPML subscription list to a sources file",
	Long: `Read an OPML file and print a sources-file skeleton on stdout.

OPML folders become categories. The skeleton carries the default
scoring settings and an empty topic_weights table; fill in your
weights before scanning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		doc, err := opml.ParseFile(args[0])
		if err != nil {
			return err
		}

		skeleton := config.Defaults()
		skeleton.Sources = doc.Sources()

		feeds := 0
		for _, sources := range skeleton.Sources {
			feeds += len(sources)
		}
		if feeds == 0 {
			return fmt.Errorf("no feeds found in %s", args[0])
		}

		var out []byte
		if asYAML {
			out, err = yaml.Marshal(skeleton)
		} else {
			out, err = json.MarshalIndent(skeleton, "", "  ")
		}
		if err != nil {
			return fmt.Errorf("encoding skeleton: %w", err)
		}

		fmt.Println(string(out))
		fmt.Fprintf(os.Stderr, "Imported %d feed(s) in %d categor%s. Fill in topic_weights before scanning.\n",
			feeds, len(skeleton.Sources), plural(len(skeleton.Sources), "y", "ies"))
		return nil
	},
}

var sourcesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sources as OPML to stdout",
	Long:  "Render the configured sources as an OPML subscription list, with categories as folders.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return opml.FromSources("scout sources", cfg.Sources).Write(os.Stdout)
	},
}

var sourcesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter sources file",
	Long: `Write an example sources file to the resolved path.

The starter carries working example feeds and documented defaults;
edit topic_weights and sources to match your blog. Refuses to
overwrite an existing file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveSourcesPath(sourcesFlag)

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("sources file already exists at %s", path)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		starter := starterJSON
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			starter = starterYAML
		}

		if err := os.WriteFile(path, starter, 0644); err != nil {
			return fmt.Errorf("writing sources file: %w", err)
		}

		fmt.Printf("Created starter sources file at %s\n", path)
		fmt.Println("Edit topic_weights and sources, then run 'scout scan'.")
		return nil
	},
}

// formatWeights renders the topic weight table highest-first.
func formatWeights(weights map[string]float64) string {
	type entry struct {
		keyword string
		weight  float64
	}
	entries := make([]entry, 0, len(weights))
	for keyword, weight := range weights {
		entries = append(entries, entry{keyword, weight})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].keyword < entries[j].keyword
	})

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s (%g)", e.keyword, e.weight))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func init() {
	rootCmd.AddCommand(sourcesCmd)

	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesDiscoverCmd)
	sourcesCmd.AddCommand(sourcesImportCmd)
	sourcesCmd.AddCommand(sourcesExportCmd)
	sourcesCmd.AddCommand(sourcesInitCmd)

	sourcesDiscoverCmd.Flags().Bool("json", false, "output the discovered feed as JSON")
	sourcesImportCmd.Flags().Bool("yaml", false, "emit the skeleton as YAML instead of JSON")
}
