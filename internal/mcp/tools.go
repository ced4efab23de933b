// ABOUTME: MCP tool definitions and handlers for scan, source, and discovery operations
// ABOUTME: Lets agents run the monitoring pipeline and inspect configured feeds

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/scout/internal/config"
	"github.com/harper/scout/internal/discover"
	"github.com/harper/scout/internal/fetch"
	"github.com/harper/scout/internal/pipeline"
	"github.com/harper/scout/internal/report"
)

// Type definitions for input/output structures

type ScanFeedsInput struct {
	Days     *int    `json:"days,omitempty"`
	Top      *int    `json:"top,omitempty"`
	Category *string `json:"category,omitempty"`
}

type ScanFeedsOutput struct {
	Report   *report.Report `json:"report"`
	Warnings []string       `json:"warnings,omitempty"`
}

type SourceOutput struct {
	Name string `json:"name"`
	Feed string `json:"feed"`
}

type CategoryOutput struct {
	Name    string         `json:"name"`
	Sources []SourceOutput `json:"sources"`
}

type ListSourcesOutput struct {
	Categories   []CategoryOutput   `json:"categories"`
	Count        int                `json:"count"`
	TopicWeights map[string]float64 `json:"topic_weights"`
}

type DiscoverFeedInput struct {
	URL string `json:"url"`
}

type DiscoverFeedOutput struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerScanFeedsTool()
	s.registerListSourcesTool()
	s.registerDiscoverFeedTool()
}

func (s *Server) registerScanFeedsTool() {
	tool := mcp.Tool{
		Name:        "scan_feeds",
		Description: "Fetch all configured feeds, cluster recent articles by shared keywords, and score the clusters against the topic weights. Returns the full report document with ranked clusters, sample articles, and suggested blog angles. Failed feeds are reported as warnings, not errors. Use this whenever you need to know what topics are trending across the monitored sources.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"days": map[string]interface{}{
					"type":        "integer",
					"description": "Lookback window in days. Defaults to the configured lookback_days. Example: 3",
				},
				"top": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of clusters to report. Defaults to the configured top_clusters. Example: 5",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the scan to sources in one category. Example: 'telecom'",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleScanFeeds)
}

func (s *Server) registerListSourcesTool() {
	tool := mcp.Tool{
		Name:        "list_sources",
		Description: "List the configured feed sources grouped by category, along with the topic weight table that drives scoring. Use this to see what is being monitored before running a scan or suggesting new feeds.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListSources)
}

func (s *Server) registerDiscoverFeedTool() {
	tool := mcp.Tool{
		Name:        "discover_feed",
		Description: "Find the RSS/Atom feed for a website URL. Tries the URL directly, then HTML link tags, then common feed paths like /feed.xml. Returns the feed URL and title, ready to be added to the sources file. Example input: 'https://example.com'",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Website or feed URL to probe. Example: 'https://blog.example.com'",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleDiscoverFeed)
}

// Tool handlers

func (s *Server) handleScanFeeds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ScanFeedsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	opts := pipeline.Options{}
	if input.Days != nil {
		opts.LookbackDays = *input.Days
	}
	if input.Top != nil {
		opts.TopClusters = *input.Top
	}
	if input.Category != nil {
		opts.Category = *input.Category
	}

	result, err := pipeline.Run(ctx, s.cfg, opts, nil)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	output := ScanFeedsOutput{Report: result.Report}
	for _, warning := range result.Warnings {
		output.Warnings = append(output.Warnings, fmt.Sprintf("%s: %v", warning.Feed.Name, warning.Err))
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListSources(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories := sourceCategories(s.cfg)

	count := 0
	for _, category := range categories {
		count += len(category.Sources)
	}

	output := ListSourcesOutput{
		Categories:   categories,
		Count:        count,
		TopicWeights: s.cfg.TopicWeights,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDiscoverFeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DiscoverFeedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("URL must use http or https scheme, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("URL must have a host")
	}

	// Discovery probes many candidate paths; retries would multiply
	// the wait on a dead host.
	client := fetch.NewClient(config.FetchConfig{
		TimeoutSeconds: s.cfg.Fetch.TimeoutSeconds,
		Concurrency:    1,
		Retries:        0,
	})

	feed, err := discover.New(client).Discover(ctx, input.URL)
	if err != nil {
		if errors.Is(err, discover.ErrNoFeedFound) {
			return nil, fmt.Errorf("no feed found at %s (tried direct parse, HTML link tags, and common paths)", input.URL)
		}
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	output := DiscoverFeedOutput{
		URL:   feed.URL,
		Title: feed.Title,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// sourceCategories flattens the sources map into a list sorted by
// category name so tool output is stable across calls.
func sourceCategories(cfg *config.Config) []CategoryOutput {
	names := make([]string, 0, len(cfg.Sources))
	for name := range cfg.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]CategoryOutput, 0, len(names))
	for _, name := range names {
		sources := make([]SourceOutput, 0, len(cfg.Sources[name]))
		for _, src := range cfg.Sources[name] {
			sources = append(sources, SourceOutput{Name: src.Name, Feed: src.Feed})
		}
		categories = append(categories, CategoryOutput{Name: name, Sources: sources})
	}
	return categories
}
