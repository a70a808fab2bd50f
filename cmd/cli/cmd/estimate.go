// Package cmd - estimate command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audit-quote/core/output"
	"audit-quote/core/quote"
	"audit-quote/internal/logging"
)

var (
	estimateLOC        string
	estimateComplexity string
	estimateScope      string
	estimateName       string
	estimateRender     renderFlags
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate [lines-of-code]",
	Short: "Quote a single audit",
	Long: `Estimate the price and delivery time of one smart contract audit.

The line count is taken from --loc or the first argument. Unknown complexity
and scope values are accepted and priced at a neutral 1x multiplier.

Examples:
  audit-quote estimate 1000
  audit-quote estimate --loc 5000 --complexity very_complex --scope bridge
  audit-quote estimate --loc 4200 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateLOC, "loc", "l", "", "lines of Solidity code to audit")
	estimateCmd.Flags().StringVarP(&estimateComplexity, "complexity", "c", string(quote.ComplexityMedium), "code complexity (simple, medium, complex, very_complex)")
	estimateCmd.Flags().StringVarP(&estimateScope, "scope", "s", string(quote.ScopeToken), "audit scope (token, nft_collection, defi_protocol, dao, bridge, full_suite)")
	estimateCmd.Flags().StringVarP(&estimateName, "name", "n", "", "project name shown in the report")
	estimateRender.register(estimateCmd)

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	loc := estimateLOC
	if loc == "" && len(args) > 0 {
		loc = args[0]
	}

	req, err := quote.ParseRequest(loc, estimateComplexity, estimateScope)
	if err != nil {
		return err
	}

	result, err := quote.Estimate(req)
	if err != nil {
		return err
	}

	logging.Debug("estimate computed",
		zap.Int64("lines_of_code", req.LinesOfCode),
		zap.String("complexity", string(req.Complexity)),
		zap.String("scope", string(req.Scope)),
		zap.Int64("total_price", result.TotalPrice),
		zap.Int("estimated_days", result.EstimatedDays),
	)

	items := []output.Item{{Name: estimateName, Result: result}}
	return estimateRender.write(cmd, items, "cli")
}
