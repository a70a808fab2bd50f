// Package cmd - interactive command
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"audit-quote/core/output"
	"audit-quote/core/quote"
)

var interactiveRender renderFlags

// interactiveCmd walks through the calculator form
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Fill in the audit calculator form",
	Long: `Prompt for lines of code, complexity and scope, then print the quote.

When stdin is not a terminal the form falls back to plain line prompts.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	interactiveRender.register(interactiveCmd)

	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	req, err := promptRequest(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	result, err := quote.Estimate(req)
	if err != nil {
		return err
	}
	return interactiveRender.write(cmd, []output.Item{{Result: result}}, "interactive")
}

// promptRequest runs the calculator form on in and out.
func promptRequest(in io.Reader, out io.Writer) (quote.Request, error) {
	var (
		loc        = strconv.Itoa(quote.DefaultLinesOfCode)
		complexity = string(quote.ComplexityMedium)
		scope      = string(quote.ScopeToken)
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Lines of code").
				Description("Total Solidity lines to audit").
				Placeholder(strconv.Itoa(quote.DefaultLinesOfCode)).
				Value(&loc).
				Validate(func(s string) error {
					_, err := quote.ParseLinesOfCode(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Complexity").
				Options(optionsFor(quote.ComplexityOptions())...).
				Value(&complexity),
			huh.NewSelect[string]().
				Title("Audit scope").
				Options(optionsFor(quote.ScopeOptions())...).
				Value(&scope),
		),
	).WithInput(in).WithOutput(out)

	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return quote.Request{}, fmt.Errorf("calculator form: %w", err)
	}
	return quote.ParseRequest(loc, complexity, scope)
}

// optionsFor converts selector entries to huh options.
func optionsFor(opts []quote.Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		out[i] = huh.NewOption(fmt.Sprintf("%s (%.1fx)", o.Label, o.Multiplier), o.Value)
	}
	return out
}
