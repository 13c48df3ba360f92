// Package document renders report tables and reconciliation sheets into
// downloadable files (CSV, XLSX and PDF).
package document

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Column describes one table column
type Column struct {
	Key   string
	Label string
	Width float64
}

// SummaryLine is a labelled total printed below the table
type SummaryLine struct {
	Label string
	Value string
}

// Table is a titled grid of values. Cells may be strings, numbers,
// decimals or times.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]any
	Summary []SummaryLine
}

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// FormatAmount renders a money value with thousands separators and two decimals
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}

// FormatVolume renders a volume with thousands separators and three decimals
func FormatVolume(d decimal.Decimal) string {
	f, _ := d.Round(3).Float64()
	return printer.Sprintf("%.3f", f)
}

// Label turns an identifier such as "full_day" into "Full Day"
func Label(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == '_' {
			b[i] = ' '
		}
	}
	return titler.String(string(b))
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case *decimal.Decimal:
		if x == nil {
			return ""
		}
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// CSV writes the header and rows as comma separated values
func (t *Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = cellText(row[i])
			}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// XLSX renders the table into a single-sheet workbook with a title row,
// styled header and a summary block
func (t *Table) XLSX(generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	numberStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})

	_ = f.SetCellValue(sheet, "A1", t.Title)
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	_ = f.SetRowHeight(sheet, 1, 24)
	_ = f.SetCellValue(sheet, "A2", "Generated: "+generatedAt.Format("2006-01-02 15:04:05"))

	const headerRow = 4
	for i, c := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheet, cell, c.Label)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
		width := c.Width
		if width == 0 {
			width = 18
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, width)
	}

	for r, row := range t.Rows {
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, headerRow+1+r)
			switch x := v.(type) {
			case decimal.Decimal:
				fv, _ := x.Float64()
				_ = f.SetCellValue(sheet, cell, fv)
				_ = f.SetCellStyle(sheet, cell, cell, numberStyle)
			case time.Time:
				_ = f.SetCellValue(sheet, cell, x.UTC().Format("2006-01-02 15:04:05"))
			default:
				_ = f.SetCellValue(sheet, cell, cellText(v))
			}
		}
	}

	if len(t.Summary) > 0 {
		row := headerRow + len(t.Rows) + 2
		boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheet, cell, "Summary")
		_ = f.SetCellStyle(sheet, cell, cell, boldStyle)
		for _, line := range t.Summary {
			row++
			key, _ := excelize.CoordinatesToCellName(1, row)
			val, _ := excelize.CoordinatesToCellName(2, row)
			_ = f.SetCellValue(sheet, key, line.Label)
			_ = f.SetCellValue(sheet, val, line.Value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
