// Package cmd - catalog command
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"audit-quote/core/contact"
	"audit-quote/core/determinism"
	"audit-quote/core/quote"
)

var catalogJSON bool

// catalogCmd prints the calculator selectors and service packages
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List complexities, scopes and service packages",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "print the catalog as JSON")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if catalogJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"complexities":          quote.ComplexityOptions(),
			"scopes":                quote.ScopeOptions(),
			"packages":              quote.Packages(),
			"project_types":         contact.ProjectTypes(),
			"default_lines_of_code": quote.DefaultLinesOfCode,
			"price_per_100_loc":     quote.PricePer100LOC,
		})
	}

	fmt.Fprintf(w, "Base rate: $%d per 100 lines of code\n\n", quote.PricePer100LOC)

	fmt.Fprintln(w, "Complexity")
	for _, o := range quote.ComplexityOptions() {
		fmt.Fprintf(w, "  %-14s %-34s %.1fx  %s LOC/day\n", o.Value, o.Label, o.Multiplier, determinism.Count(int64(o.LOCPerDay)))
	}

	fmt.Fprintln(w, "\nScope")
	for _, o := range quote.ScopeOptions() {
		fmt.Fprintf(w, "  %-14s %-34s %.1fx\n", o.Value, o.Label, o.Multiplier)
	}

	fmt.Fprintln(w, "\nPackages")
	for _, p := range quote.Packages() {
		writePackage(w, p)
	}
	return nil
}

func writePackage(w io.Writer, p quote.Package) {
	fmt.Fprintf(w, "  %-9s %s\n", p.Name, p.PriceRange)
	fmt.Fprintf(w, "            manual audit: %s, re-audits: %d, MEV/flashloan: %s\n", p.ManualAudit, p.ReAudits, p.MEVFlashloan)
	if len(p.SuitableFor) > 0 {
		fmt.Fprintf(w, "            suitable for: %s\n", strings.Join(p.SuitableFor, ", "))
	}
}
