package output

import (
	"fmt"
	"io"
	"strings"

	"audit-quote/core/determinism"
)

// MarkdownFormatter writes a GitHub-flavoured markdown table.
type MarkdownFormatter struct {
	ShowTimeline bool
}

// Format implements Formatter
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render implements Formatter
func (f *MarkdownFormatter) Render(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("## Smart Contract Audit Quote\n\n")
	b.WriteString("| Project | Lines of code | Complexity | Scope | Price | Days | Package |\n")
	b.WriteString("|---|---:|---|---|---:|---:|---|\n")
	for i, it := range r.Items {
		res := it.Result
		fmt.Fprintf(&b, "| %s | %s | %s (%s) | %s (%s) | %s | %d | %s |\n",
			escapeCell(itemName(it, i)),
			determinism.Count(res.Request.LinesOfCode),
			escapeCell(string(res.Request.Complexity)),
			determinism.FormatMultiplier(res.ComplexityMultiplier),
			escapeCell(string(res.Request.Scope)),
			determinism.FormatMultiplier(res.ScopeMultiplier),
			determinism.USDWhole(res.TotalPrice).Display(),
			res.EstimatedDays,
			res.Package.Name,
		)
	}

	if len(r.Items) > 1 {
		fmt.Fprintf(&b, "\n**Total:** %s across %d projects\n",
			determinism.USDWhole(r.Summary.TotalPrice).Display(), r.Summary.Projects)
	}

	if f.ShowTimeline {
		b.WriteString("\n### Timeline\n\n")
		b.WriteString("| Project | Preparation | Audit | Reporting | Delivery | Total |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|\n")
		for i, it := range r.Items {
			t := it.Result.Timeline
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d |\n",
				escapeCell(itemName(it, i)),
				t.PreparationDays, t.AdjustedAuditDays, t.ReportingDays, t.DeliveryDays, t.TotalDays)
		}
	}

	fmt.Fprintf(&b, "\n<sub>Input `%s` · %s · v%s</sub>\n",
		shortHash(r.Metadata.InputHash), r.Metadata.Timestamp, r.Metadata.Version)

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
