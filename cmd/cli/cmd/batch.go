// Package cmd - batch command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audit-quote/adapters/hclbatch"
	"audit-quote/core/output"
	"audit-quote/internal/logging"
)

var batchRender renderFlags

// batchCmd quotes every project in an HCL file
var batchCmd = &cobra.Command{
	Use:   "batch FILE.hcl",
	Short: "Quote several projects from an HCL file",
	Long: `Quote every project block of an HCL batch file.

A batch file holds an optional defaults block followed by project blocks:

  defaults {
    complexity = "complex"
  }

  project "vault" {
    lines_of_code = 4200
    scope         = "defi_protocol"
  }

  project "bridge" {
    lines_of_code = 5000
    complexity    = "very_complex"
    scope         = "bridge"
  }

Any invalid project fails the whole batch.

Examples:
  audit-quote batch projects.hcl
  audit-quote batch projects.hcl --format markdown --timeline
  audit-quote batch projects.hcl --format xlsx --out quotes.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchRender.register(batchCmd)

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	quotes, err := hclbatch.EstimateFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	logging.Debug("batch estimated", zap.String("file", path), zap.Int("projects", len(quotes)))

	items := make([]output.Item, len(quotes))
	for i, q := range quotes {
		items[i] = output.Item{Name: q.Project.Name, Result: q.Result}
	}
	return batchRender.write(cmd, items, path)
}
