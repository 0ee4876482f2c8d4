package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

const ServerName = "kleinanzeigen-search"

// NewMCPServer builds the protocol server shared by both transports. Tools
// and prompts are registered by the caller before serving.
func NewMCPServer(version string) *server.MCPServer {
	return server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)
}

// ServeStdio runs the MCP server over the process pipe. Stdout carries the
// protocol; all logging must go to stderr.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
