package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"audit-quote/core/determinism"
	"audit-quote/core/quote"
)

var (
	accent  = lipgloss.Color("#D97706")
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")

	tierColors = map[quote.Tier]lipgloss.Color{
		quote.TierBasic:    success,
		quote.TierStandard: lipgloss.Color("#F59E0B"),
		quote.TierPremium:  lipgloss.Color("#EF4444"),
	}
)

// cliColumns are the table headers, left to right.
var cliColumns = []string{"Project", "Lines", "Complexity", "Scope", "Price", "Days", "Package"}

// CLIFormatter renders an aligned terminal table.
type CLIFormatter struct {
	NoColor      bool
	ShowTimeline bool
}

// Format implements Formatter
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render implements Formatter
func (f *CLIFormatter) Render(w io.Writer, r *Report) error {
	re := lipgloss.NewRenderer(w)
	if f.NoColor {
		re.SetColorProfile(termenv.Ascii)
	}

	var (
		titleStyle  = re.NewStyle().Bold(true).Foreground(accent)
		headerStyle = re.NewStyle().Bold(true).Foreground(fg)
		dimStyle    = re.NewStyle().Foreground(dim)
		priceStyle  = re.NewStyle().Bold(true)
	)

	rows := make([][]string, 0, len(r.Items))
	for i, it := range r.Items {
		res := it.Result
		rows = append(rows, []string{
			itemName(it, i),
			determinism.Count(res.Request.LinesOfCode),
			fmt.Sprintf("%s (%s)", res.Request.Complexity, determinism.FormatMultiplier(res.ComplexityMultiplier)),
			fmt.Sprintf("%s (%s)", res.Request.Scope, determinism.FormatMultiplier(res.ScopeMultiplier)),
			determinism.USDWhole(res.TotalPrice).Display(),
			fmt.Sprintf("%d", res.EstimatedDays),
			res.Package.Name,
		})
	}

	widths := make([]int, len(cliColumns))
	for c, h := range cliColumns {
		widths[c] = lipgloss.Width(h)
		for _, row := range rows {
			widths[c] = max(widths[c], lipgloss.Width(row[c]))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Smart Contract Audit Quote"))
	b.WriteString("\n\n")

	header := make([]string, len(cliColumns))
	for c, h := range cliColumns {
		header[c] = headerStyle.Width(widths[c]).Render(h)
	}
	b.WriteString(strings.Join(header, "  "))
	b.WriteString("\n")

	rule := make([]string, len(cliColumns))
	for c := range cliColumns {
		rule[c] = strings.Repeat("─", widths[c])
	}
	b.WriteString(dimStyle.Render(strings.Join(rule, "  ")))
	b.WriteString("\n")

	for i, row := range rows {
		cells := make([]string, len(row))
		for c, v := range row {
			style := re.NewStyle().Width(widths[c])
			switch c {
			case 1, 4, 5:
				style = style.Align(lipgloss.Right)
			}
			if c == 4 {
				style = style.Inherit(priceStyle)
			}
			if c == 6 {
				style = style.Foreground(tierColors[r.Items[i].Result.Package.Tier])
			}
			cells[c] = style.Render(v)
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteString("\n")
	}

	if len(r.Items) > 1 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s across %d projects, longest delivery %d days\n",
			headerStyle.Render("Total:"),
			priceStyle.Render(determinism.USDWhole(r.Summary.TotalPrice).Display()),
			r.Summary.Projects,
			r.Summary.LongestDays,
		)
	}

	if f.ShowTimeline {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Timeline"))
		b.WriteString("\n")
		for i, it := range r.Items {
			t := it.Result.Timeline
			fmt.Fprintf(&b, "  %s  prep %d · audit %d (raw %d at %s LOC/day) · reporting %d · delivery %d\n",
				itemName(it, i),
				t.PreparationDays,
				t.AdjustedAuditDays,
				t.AuditExecutionDays,
				determinism.Count(int64(t.LOCPerDay)),
				t.ReportingDays,
				t.DeliveryDays,
			)
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("input %s · %s", shortHash(r.Metadata.InputHash), r.Metadata.Timestamp)))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
