// ABOUTME: MCP resource providers for scout
// ABOUTME: Exposes read-only views of the sources config and the current report

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/scout/internal/pipeline"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time      `json:"timestamp"`
	Count       int            `json:"count"`
	ResourceURI string         `json:"resource_uri"`
	Filters     map[string]any `json:"filters,omitempty"`
}

func (s *Server) registerResources() {
	s.registerSourcesResource()
	s.registerReportResource()
}

func (s *Server) registerSourcesResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "scout://sources",
			Name:        "Configured Sources",
			Description: "The monitored feed sources grouped by category, plus the topic weight table and the path of the sources file",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			categories := sourceCategories(s.cfg)

			count := 0
			for _, category := range categories {
				count += len(category.Sources)
			}

			resourceData := ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       count,
					ResourceURI: "scout://sources",
				},
				Data: map[string]interface{}{
					"path":          s.sourcesPath,
					"categories":    categories,
					"topic_weights": s.cfg.TopicWeights,
				},
				Links: map[string]string{
					"report": "scout://report",
				},
			}

			jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal resource data: %w", err)
			}

			return []mcp.ResourceContents{
				&mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     string(jsonBytes),
				},
			}, nil
		},
	)
}

func (s *Server) registerReportResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "scout://report",
			Name:        "Current Report",
			Description: "Runs a scan with the configured defaults and returns the ranked cluster report as JSON. Equivalent to the scan_feeds tool with no arguments.",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			result, err := pipeline.Run(ctx, s.cfg, pipeline.Options{}, nil)
			if err != nil {
				return nil, fmt.Errorf("scan failed: %w", err)
			}

			resourceData := ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       len(result.Report.Clusters),
					ResourceURI: "scout://report",
					Filters: map[string]any{
						"lookback_days": result.Report.LookbackDays,
					},
				},
				Data: result.Report,
				Links: map[string]string{
					"sources": "scout://sources",
				},
			}

			jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal resource data: %w", err)
			}

			return []mcp.ResourceContents{
				&mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     string(jsonBytes),
				},
			}, nil
		},
	)
}
