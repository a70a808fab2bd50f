package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI addresses the pricing catalog resource.
const CatalogURI = "audit-quote://catalog"

// registerResources registers the read-only resources on s.
func registerResources(s *server.MCPServer) {
	s.AddResource(
		mcplib.NewResource(
			CatalogURI,
			"Pricing Catalog",
			mcplib.WithResourceDescription("Complexity levels, scopes, multipliers and service packages"),
			mcplib.WithMIMEType("application/json"),
		),
		handleCatalogResource,
	)
}

func handleCatalogResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(newCatalog(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      CatalogURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
