// Package output renders quote reports for humans and machines.
package output

import (
	"io"
	"strconv"
	"strings"
	"time"

	"audit-quote/core/determinism"
	"audit-quote/core/quote"
	"audit-quote/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable terminal table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"

	// FormatXLSX is an Excel workbook
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatCLI, FormatJSON, FormatMarkdown, FormatXLSX}
}

// Binary reports whether the format writes non-text output.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the report to w
	Render(w io.Writer, r *Report) error
}

// Options tune the human-readable formatters.
type Options struct {
	// NoColor strips terminal styling
	NoColor bool

	// ShowTimeline adds the per-phase schedule
	ShowTimeline bool
}

// Get resolves a formatter by name.
func Get(format Format, opts Options) (Formatter, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatCLI, "":
		return &CLIFormatter{NoColor: opts.NoColor, ShowTimeline: opts.ShowTimeline}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	case FormatMarkdown, "md":
		return &MarkdownFormatter{ShowTimeline: opts.ShowTimeline}, nil
	case FormatXLSX:
		return &XLSXFormatter{}, nil
	default:
		return nil, errors.NotSupported("output format " + string(format)).
			WithContext("supported", Formats())
	}
}

// Item is one named quote in a report.
type Item struct {
	Name   string        `json:"name"`
	Result *quote.Result `json:"result"`
}

// Summary aggregates every item.
type Summary struct {
	Projects    int   `json:"projects"`
	TotalPrice  int64 `json:"total_price"`
	LongestDays int   `json:"longest_days"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the report was produced
	Timestamp string `json:"timestamp"`

	// Version is the tool version
	Version string `json:"version"`

	// InputHash identifies the requests behind the report
	InputHash string `json:"input_hash"`

	// Source names where the requests came from
	Source string `json:"source,omitempty"`
}

// Report is what formatters render.
type Report struct {
	Items    []Item   `json:"items"`
	Summary  Summary  `json:"summary"`
	Metadata Metadata `json:"metadata"`
}

// NewReport builds a report and computes its summary and input hash.
func NewReport(items []Item, version, source string, now time.Time) (*Report, error) {
	requests := make([]quote.Request, 0, len(items))
	summary := Summary{Projects: len(items)}
	for _, it := range items {
		if it.Result == nil {
			return nil, errors.Internal("report item "+it.Name+" has no result", nil)
		}
		requests = append(requests, it.Result.Request)
		summary.TotalPrice += it.Result.TotalPrice
		summary.LongestDays = max(summary.LongestDays, it.Result.EstimatedDays)
	}

	hash, err := determinism.HashJSON(requests)
	if err != nil {
		return nil, errors.Internal("failed to hash report input", err)
	}

	return &Report{
		Items:   items,
		Summary: summary,
		Metadata: Metadata{
			Timestamp: now.UTC().Format(time.RFC3339),
			Version:   version,
			InputHash: hash.Hex(),
			Source:    source,
		},
	}, nil
}

func itemName(it Item, i int) string {
	if it.Name != "" {
		return it.Name
	}
	return "quote-" + strconv.Itoa(i+1)
}
