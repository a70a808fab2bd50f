// Package mcp exposes the quote engine as Model Context Protocol tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the MCP implementation name.
const ServerName = "audit-quote"

// NewServer creates an MCP server with every quote tool and resource registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, version)
	registerResources(s)

	return s
}

// ServeStdio runs the server over stdin and stdout until the client disconnects.
func ServeStdio(version string) error {
	return server.ServeStdio(NewServer(version))
}
