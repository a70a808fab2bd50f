// Package cmd - mcp command
package cmd

import (
	"github.com/spf13/cobra"

	"audit-quote/adapters/mcp"
)

// mcpCmd serves the quote tools over MCP
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve quote tools over the Model Context Protocol on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.ServeStdio(Version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
