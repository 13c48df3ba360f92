package document

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() *Table {
	return &Table{
		Title: "Sales Report",
		Columns: []Column{
			{Key: "station", Label: "Station"},
			{Key: "volume", Label: "Volume"},
			{Key: "recorded_at", Label: "Recorded At"},
		},
		Rows: [][]any{
			{"Highway, North", decimal.RequireFromString("12.500"), time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)},
			{"Market Road", decimal.RequireFromString("4"), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		},
		Summary: []SummaryLine{{Label: "Total amount", Value: FormatAmount(decimal.RequireFromString("1650"))}},
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567.50", FormatAmount(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "12.500", FormatVolume(decimal.RequireFromString("12.5")))
	assert.Equal(t, "Full Day", Label("full_day"))
	assert.Equal(t, "Upi", Label("upi"))
}

func TestTable_CSV(t *testing.T) {
	out, err := sampleTable().CSV()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Station,Volume,Recorded At", lines[0])
	assert.Equal(t, `"Highway, North",12.5,2026-03-01T08:30:00Z`, lines[1])
}

func TestTable_XLSX(t *testing.T) {
	out, err := sampleTable().XLSX(time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sales Report", title)
	header, err := f.GetCellValue("Report", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Volume", header)
	station, err := f.GetCellValue("Report", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Market Road", station)
	summary, err := f.GetCellValue("Report", "B9")
	require.NoError(t, err)
	assert.Equal(t, "1,650.00", summary)
}

func TestReconciliationPDF(t *testing.T) {
	approved := time.Now()
	out, err := ReconciliationPDF(&ReconciliationSheet{
		StationName: "Highway",
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []ReconciliationLine{{
			Nozzle: "P1 / 1", FuelType: "petrol",
			Previous: decimal.NewFromInt(100), Current: decimal.NewFromInt(112),
			Volume: decimal.NewFromInt(12), Price: decimal.NewFromInt(100), Amount: decimal.NewFromInt(1200),
			Method: "cash",
		}},
		Methods:    []MethodTotals{{Method: "cash", Expected: decimal.NewFromInt(1200), Declared: decimal.NewFromInt(1150)}},
		TotalSales: decimal.NewFromInt(1200),
		Collected:  decimal.NewFromInt(1150),
		Difference: decimal.NewFromInt(50),
		Outcome:    "shortfall",
		ApprovedBy: "Manager",
		ApprovedAt: &approved,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
