// ABOUTME: MCP server implementation for scout
// ABOUTME: Exposes feed scanning, source listing, and discovery to AI agents

package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/scout/internal/config"
)

// Server wraps the MCP server with the loaded sources configuration.
type Server struct {
	mcpServer   *server.MCPServer
	cfg         *config.Config
	sourcesPath string
}

// NewServer creates a new MCP server instance around a loaded config.
// sourcesPath is reported in the sources resource so agents can tell
// the user where to edit their configuration.
func NewServer(cfg *config.Config, sourcesPath string) *Server {
	s := &Server{
		cfg:         cfg,
		sourcesPath: sourcesPath,
	}

	s.mcpServer = server.NewMCPServer(
		"scout",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// registerTools is implemented in tools.go
// registerResources is implemented in resources.go
// registerPrompts is implemented in prompts.go
