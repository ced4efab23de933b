// ABOUTME: Tests for MCP server handlers
// ABOUTME: Uses httptest feed servers and in-memory configs for isolated testing

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/scout/internal/config"
)

// recentRSS renders an RSS feed whose items were published within the
// last few hours, so default-lookback scans always include them.
func recentRSS(t *testing.T) string {
	t.Helper()
	now := time.Now()
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Telecom Wire</title>
    <item>
      <title>Carriers Expand 5G Network Coverage</title>
      <link>https://example.com/coverage</link>
      <description>Networks grow in rural areas.</description>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title>Network Upgrades Accelerate</title>
      <link>https://example.com/upgrades</link>
      <description>Network spending is up across carriers.</description>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`,
		now.Add(-3*time.Hour).Format(time.RFC1123Z),
		now.Add(-2*time.Hour).Format(time.RFC1123Z))
}

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

// testServer creates an MCP server around a config pointing at the
// given feed URLs, keyed by category.
func testServer(t *testing.T, sources map[string][]config.Source) *Server {
	t.Helper()

	cfg := config.Defaults()
	cfg.TopicWeights = map[string]float64{"network": 10}
	cfg.Fetch.Retries = 0
	cfg.Sources = sources

	return NewServer(cfg, "/tmp/sources.json")
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("tool content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestHandleScanFeeds(t *testing.T) {
	server := feedServer(t, recentRSS(t))
	s := testServer(t, map[string][]config.Source{
		"telecom": {{Name: "Telecom Wire", Feed: server.URL}},
	})

	req := mcp.CallToolRequest{}
	result, err := s.handleScanFeeds(context.Background(), req)
	if err != nil {
		t.Fatalf("handleScanFeeds: %v", err)
	}

	var output ScanFeedsOutput
	if err := json.Unmarshal([]byte(toolText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	if output.Report == nil {
		t.Fatal("expected report in output")
	}
	if output.Report.TotalArticles != 2 {
		t.Errorf("TotalArticles = %d, want 2", output.Report.TotalArticles)
	}
	if len(output.Report.Clusters) == 0 {
		t.Fatal("expected at least one cluster")
	}
	if output.Report.Clusters[0].Rank != 1 {
		t.Errorf("first cluster Rank = %d, want 1", output.Report.Clusters[0].Rank)
	}
	if len(output.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", output.Warnings)
	}
}

func TestHandleScanFeeds_WarningsForFailedFeeds(t *testing.T) {
	good := feedServer(t, recentRSS(t))
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(bad.Close)

	s := testServer(t, map[string][]config.Source{
		"telecom": {
			{Name: "Telecom Wire", Feed: good.URL},
			{Name: "Dead Feed", Feed: bad.URL},
		},
	})

	result, err := s.handleScanFeeds(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleScanFeeds: %v", err)
	}

	var output ScanFeedsOutput
	if err := json.Unmarshal([]byte(toolText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	if len(output.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(output.Warnings), output.Warnings)
	}
	if !strings.Contains(output.Warnings[0], "Dead Feed") {
		t.Errorf("warning %q does not name the failed feed", output.Warnings[0])
	}
	if output.Report.TotalArticles != 2 {
		t.Errorf("TotalArticles = %d, want 2 (good feed still counted)", output.Report.TotalArticles)
	}
}

func TestHandleScanFeeds_Arguments(t *testing.T) {
	server := feedServer(t, recentRSS(t))
	s := testServer(t, map[string][]config.Source{
		"telecom": {{Name: "Telecom Wire", Feed: server.URL}},
	})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"days": 3, "top": 1, "category": "telecom"}

	result, err := s.handleScanFeeds(context.Background(), req)
	if err != nil {
		t.Fatalf("handleScanFeeds: %v", err)
	}

	var output ScanFeedsOutput
	if err := json.Unmarshal([]byte(toolText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	if output.Report.LookbackDays != 3 {
		t.Errorf("LookbackDays = %d, want 3", output.Report.LookbackDays)
	}
	if len(output.Report.Clusters) > 1 {
		t.Errorf("got %d clusters, want at most 1 (top=1)", len(output.Report.Clusters))
	}
}

func TestHandleScanFeeds_UnknownCategory(t *testing.T) {
	server := feedServer(t, recentRSS(t))
	s := testServer(t, map[string][]config.Source{
		"telecom": {{Name: "Telecom Wire", Feed: server.URL}},
	})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"category": "sports"}

	if _, err := s.handleScanFeeds(context.Background(), req); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestHandleListSources(t *testing.T) {
	s := testServer(t, map[string][]config.Source{
		"telecom": {
			{Name: "Telecom Wire", Feed: "https://telecom.example.com/feed.xml"},
			{Name: "Network News", Feed: "https://network.example.com/rss"},
		},
		"ai": {
			{Name: "AI Briefs", Feed: "https://ai.example.com/atom.xml"},
		},
	})

	result, err := s.handleListSources(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListSources: %v", err)
	}

	var output ListSourcesOutput
	if err := json.Unmarshal([]byte(toolText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	if output.Count != 3 {
		t.Errorf("Count = %d, want 3", output.Count)
	}
	if len(output.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(output.Categories))
	}
	// Categories come back sorted
	if output.Categories[0].Name != "ai" || output.Categories[1].Name != "telecom" {
		t.Errorf("category order = [%q, %q], want [ai, telecom]",
			output.Categories[0].Name, output.Categories[1].Name)
	}
	if len(output.Categories[1].Sources) != 2 {
		t.Errorf("telecom has %d sources, want 2", len(output.Categories[1].Sources))
	}
	if output.TopicWeights["network"] != 10 {
		t.Errorf("TopicWeights[network] = %v, want 10", output.TopicWeights["network"])
	}
}

func TestHandleDiscoverFeed(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, recentRSS(t))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head>
<link rel="alternate" type="application/rss+xml" href="/feed.xml">
</head><body></body></html>`)
	})

	s := testServer(t, map[string][]config.Source{})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"url": server.URL}

	result, err := s.handleDiscoverFeed(context.Background(), req)
	if err != nil {
		t.Fatalf("handleDiscoverFeed: %v", err)
	}

	var output DiscoverFeedOutput
	if err := json.Unmarshal([]byte(toolText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	wantURL := server.URL + "/feed.xml"
	if output.URL != wantURL {
		t.Errorf("URL = %q, want %q", output.URL, wantURL)
	}
	if output.Title != "Telecom Wire" {
		t.Errorf("Title = %q, want %q", output.Title, "Telecom Wire")
	}
}

func TestHandleDiscoverFeed_RejectsBadURLs(t *testing.T) {
	s := testServer(t, map[string][]config.Source{})

	tests := []struct {
		name string
		url  string
	}{
		{name: "non-http scheme", url: "ftp://example.com/feed.xml"},
		{name: "missing host", url: "https://"},
		{name: "relative", url: "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = map[string]interface{}{"url": tt.url}
			if _, err := s.handleDiscoverFeed(context.Background(), req); err == nil {
				t.Errorf("expected error for %q", tt.url)
			}
		})
	}
}

func TestHandleDraftPost(t *testing.T) {
	s := testServer(t, map[string][]config.Source{})

	result, err := s.handleDraftPost(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("handleDraftPost: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(result.Messages))
	}

	text := result.Messages[0].Content.(mcp.TextContent).Text
	if !strings.Contains(text, "the top-ranked cluster") {
		t.Error("default prompt should target the top-ranked cluster")
	}
	if !strings.Contains(text, "scan_feeds") {
		t.Error("prompt should reference the scan_feeds tool")
	}
}

func TestHandleDraftPost_WithTopic(t *testing.T) {
	s := testServer(t, map[string][]config.Source{})

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"topic": "voip"}

	result, err := s.handleDraftPost(context.Background(), req)
	if err != nil {
		t.Fatalf("handleDraftPost: %v", err)
	}

	text := result.Messages[0].Content.(mcp.TextContent).Text
	if !strings.Contains(text, `"voip"`) {
		t.Error("prompt should name the requested topic")
	}
}

func TestHandleWeeklyRoundup(t *testing.T) {
	s := testServer(t, map[string][]config.Source{})

	result, err := s.handleWeeklyRoundup(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("handleWeeklyRoundup: %v", err)
	}
	text := result.Messages[0].Content.(mcp.TextContent).Text
	if !strings.Contains(text, "past 7") {
		t.Error("default roundup should cover 7 days")
	}

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"days": "14"}
	result, err = s.handleWeeklyRoundup(context.Background(), req)
	if err != nil {
		t.Fatalf("handleWeeklyRoundup with days: %v", err)
	}
	text = result.Messages[0].Content.(mcp.TextContent).Text
	if !strings.Contains(text, "past 14") {
		t.Error("roundup should cover the requested number of days")
	}
}
