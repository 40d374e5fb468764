package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dailygoodnews/frontend/internal/config"
	"github.com/dailygoodnews/frontend/internal/content"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"content_collections": {
		def:     collectionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCollections },
	},
	"content_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"content_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server exposing the read-only content tools.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(source content.Source, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"dailygoodnews",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(source)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(source content.Source, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(source, cfg, version))
}
