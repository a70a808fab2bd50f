package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audit-quote/core/output"
	"audit-quote/internal/config"
	"audit-quote/internal/logging"
)

// renderFlags are the output flags shared by quoting commands.
type renderFlags struct {
	format   string
	out      string
	timeline bool
	noColor  bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format (cli, json, markdown, xlsx); defaults to the configured format")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&f.timeline, "timeline", false, "include the per-phase timeline")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable terminal styling")
}

// options merges the flags with the output section of the loaded config.
func (f *renderFlags) options(cmd *cobra.Command) (output.Format, output.Options) {
	cfg := config.Get()

	format := output.Format(f.format)
	if format == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}

	opts := output.Options{
		NoColor:      f.noColor || cfg.Output.NoColor,
		ShowTimeline: cfg.Output.ShowTimeline,
	}
	if cmd.Flags().Changed("timeline") {
		opts.ShowTimeline = f.timeline
	}
	return format, opts
}

// write renders items and sends them to stdout or --out.
func (f *renderFlags) write(cmd *cobra.Command, items []output.Item, source string) error {
	format, opts := f.options(cmd)
	formatter, err := output.Get(format, opts)
	if err != nil {
		return err
	}
	if formatter.Format().Binary() && f.out == "" {
		return fmt.Errorf("%s output is binary and requires --out", formatter.Format())
	}

	report, err := output.NewReport(items, Version, source, time.Now())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", f.out, err)
		}
		defer file.Close()
		w = file
	}

	if err := formatter.Render(w, report); err != nil {
		return fmt.Errorf("failed to render %s report: %w", formatter.Format(), err)
	}

	if f.out != "" {
		logging.Debug("report written", zap.String("path", f.out), zap.String("format", string(formatter.Format())))
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", f.out)
	}
	return nil
}
