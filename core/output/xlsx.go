package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	quoteSheet    = "Quotes"
	timelineSheet = "Timeline"
)

var xlsxQuoteHeaders = []string{
	"Project", "Lines of code", "Complexity", "Complexity multiplier",
	"Scope", "Scope multiplier", "Base price (USD)", "Total price (USD)",
	"Estimated days", "Package",
}

var xlsxTimelineHeaders = []string{
	"Project", "LOC per day", "Preparation", "Audit execution",
	"Adjusted audit", "Reporting", "Delivery", "Total",
}

// XLSXFormatter writes an Excel workbook with a quote sheet and a timeline sheet.
type XLSXFormatter struct{}

// Format implements Formatter
func (f *XLSXFormatter) Format() Format {
	return FormatXLSX
}

// Render implements Formatter
func (f *XLSXFormatter) Render(w io.Writer, r *Report) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), quoteSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := wb.NewSheet(timelineSheet); err != nil {
		return fmt.Errorf("create timeline sheet: %w", err)
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D97706"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	moneyFmt := "$#,##0"
	moneyStyle, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	if err := writeHeaderRow(wb, quoteSheet, xlsxQuoteHeaders, headerStyle); err != nil {
		return err
	}
	if err := writeHeaderRow(wb, timelineSheet, xlsxTimelineHeaders, headerStyle); err != nil {
		return err
	}

	for i, it := range r.Items {
		res := it.Result
		base, _ := res.BasePrice.Float64()
		row := []interface{}{
			itemName(it, i),
			res.Request.LinesOfCode,
			string(res.Request.Complexity),
			res.ComplexityMultiplier,
			string(res.Request.Scope),
			res.ScopeMultiplier,
			base,
			res.TotalPrice,
			res.EstimatedDays,
			res.Package.Name,
		}
		if err := writeRow(wb, quoteSheet, i+2, row); err != nil {
			return err
		}
		from, _ := excelize.CoordinatesToCellName(7, i+2)
		to, _ := excelize.CoordinatesToCellName(8, i+2)
		if err := wb.SetCellStyle(quoteSheet, from, to, moneyStyle); err != nil {
			return err
		}

		t := res.Timeline
		if err := writeRow(wb, timelineSheet, i+2, []interface{}{
			itemName(it, i), t.LOCPerDay, t.PreparationDays, t.AuditExecutionDays,
			t.AdjustedAuditDays, t.ReportingDays, t.DeliveryDays, t.TotalDays,
		}); err != nil {
			return err
		}
	}

	totalRow := len(r.Items) + 3
	if err := writeRow(wb, quoteSheet, totalRow, []interface{}{"Total"}); err != nil {
		return err
	}
	if len(r.Items) > 0 {
		totalCell, _ := excelize.CoordinatesToCellName(8, totalRow)
		if err := wb.SetCellValue(quoteSheet, totalCell, r.Summary.TotalPrice); err != nil {
			return err
		}
		if err := wb.SetCellStyle(quoteSheet, totalCell, totalCell, moneyStyle); err != nil {
			return err
		}
	}

	if err := wb.SetColWidth(quoteSheet, "A", "J", 18); err != nil {
		return err
	}
	if err := wb.SetColWidth(timelineSheet, "A", "H", 16); err != nil {
		return err
	}
	if err := wb.SetDocProps(&excelize.DocProperties{
		Title:       "Smart Contract Audit Quote",
		Description: "input " + r.Metadata.InputHash,
		Version:     r.Metadata.Version,
	}); err != nil {
		return err
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeaderRow(wb *excelize.File, sheet string, headers []string, style int) error {
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := wb.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(wb *excelize.File, sheet string, row int, values []interface{}) error {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	return wb.SetSheetRow(sheet, cell, &values)
}
