// ABOUTME: Root Cobra command and global flags
// ABOUTME: Sets up CLI structure and sources file resolution

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/scout/internal/config"
)

var sourcesFlag string

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Feed monitor that surfaces blog-worthy trends",
	Long: `
███████╗ ██████╗ ██████╗ ██╗   ██╗████████╗
██╔════╝██╔════╝██╔═══██╗██║   ██║╚══██╔══╝
███████╗██║     ██║   ██║██║   ██║   ██║
╚════██║██║     ██║   ██║██║   ██║   ██║
███████║╚██████╗╚██████╔╝╚██████╔╝   ██║
╚══════╝ ╚═════╝ ╚═════╝  ╚═════╝    ╚═╝

Monitors RSS/Atom feeds, clusters what they are covering, and scores
the clusters against your topics to suggest what to blog about next.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourcesFlag, "sources", "", "sources file path (default: ~/.config/scout/sources.json, or $SCOUT_SOURCES)")
}

// loadConfig resolves the sources path and loads the configuration.
// Commands that need a valid config call this in their RunE; commands
// like version and sources init must keep working without one.
func loadConfig() (*config.Config, string, error) {
	path := config.ResolveSourcesPath(sourcesFlag)
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, path, fmt.Errorf("no sources file at %s (run 'scout sources init' to create one)", path)
		}
		return nil, path, err
	}
	return cfg, path, nil
}
