package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/raglab/docqa/internal/config"
	"github.com/raglab/docqa/internal/engine"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes document Q&A tools.
type Server struct {
	engine *engine.Engine
	cfg    *config.Config
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server around the given engine. The
// config supplies include/exclude patterns for directory ingestion.
func NewServer(eng *engine.Engine, cfg *config.Config) *Server {
	s := &Server{
		engine: eng,
		cfg:    cfg,
	}

	s.mcp = server.NewMCPServer(
		"docqa",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askDocumentsTool, s.handleAskDocuments)
	s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	s.mcp.AddTool(ingestPathTool, s.handleIngestPath)
	s.mcp.AddTool(indexStatusTool, s.handleIndexStatus)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
