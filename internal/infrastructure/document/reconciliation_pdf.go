package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReconciliationLine is one reading row of the daily sheet
type ReconciliationLine struct {
	Nozzle   string
	FuelType string
	Previous decimal.Decimal
	Current  decimal.Decimal
	Volume   decimal.Decimal
	Price    decimal.Decimal
	Amount   decimal.Decimal
	Method   string
	Recorded time.Time
}

// MethodTotals is the expected and declared amount of one payment method
type MethodTotals struct {
	Method   string
	Expected decimal.Decimal
	Declared decimal.Decimal
}

// ReconciliationSheet is everything printed on a station day sheet
type ReconciliationSheet struct {
	TenantName  string
	StationName string
	Date        time.Time
	Lines       []ReconciliationLine
	Methods     []MethodTotals
	TotalSales  decimal.Decimal
	Collected   decimal.Decimal
	Difference  decimal.Decimal
	Outcome     string
	ApprovedBy  string
	ApprovedAt  *time.Time
}

// ReconciliationPDF renders an A4 day sheet
func ReconciliationPDF(s *ReconciliationSheet) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetTitle(fmt.Sprintf("Reconciliation %s %s", s.StationName, s.Date.Format(time.DateOnly)), false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, "Daily Reconciliation", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if s.TenantName != "" {
		pdf.CellFormat(contentW, 5, s.TenantName, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Station: %s", s.StationName), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Date: %s", s.Date.Format(time.DateOnly)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{0.14, 0.11, 0.14, 0.14, 0.12, 0.10, 0.13, 0.12}
	headers := []string{"Nozzle", "Fuel", "Previous", "Current", "Litres", "Price", "Amount", "Method"}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		align := "R"
		if i < 2 || i == len(headers)-1 {
			align = "L"
		}
		pdf.CellFormat(contentW*widths[i], 6, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range s.Lines {
		cells := []string{
			l.Nozzle,
			Label(l.FuelType),
			FormatVolume(l.Previous),
			FormatVolume(l.Current),
			FormatVolume(l.Volume),
			FormatAmount(l.Price),
			FormatAmount(l.Amount),
			Label(l.Method),
		}
		for i, c := range cells {
			align := "R"
			if i < 2 || i == len(cells)-1 {
				align = "L"
			}
			pdf.CellFormat(contentW*widths[i], 5, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(s.Lines) == 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 6, "No readings recorded", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	colW := contentW / 3
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colW, 6, "Payment method", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colW, 6, "Expected", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colW, 6, "Declared", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, m := range s.Methods {
		pdf.CellFormat(colW, 5, Label(m.Method), "", 0, "L", false, 0, "")
		pdf.CellFormat(colW, 5, FormatAmount(m.Expected), "", 0, "R", false, 0, "")
		pdf.CellFormat(colW, 5, FormatAmount(m.Declared), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colW, 6, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(colW, 6, FormatAmount(s.TotalSales), "T", 0, "R", false, 0, "")
	pdf.CellFormat(colW, 6, FormatAmount(s.Collected), "T", 1, "R", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("Difference: %s (%s)", FormatAmount(s.Difference), Label(s.Outcome)), "", 1, "L", false, 0, "")
	if s.ApprovedAt != nil {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Approved by %s on %s", s.ApprovedBy, s.ApprovedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render reconciliation pdf: %w", err)
	}
	return buf.Bytes(), nil
}
