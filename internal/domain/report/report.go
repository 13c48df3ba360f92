package report

import (
	"context"
	"fmt"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is a trailing reporting window
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod validates a period; empty maps to monthly
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodMonthly, nil
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(s), nil
	}
	return "", shared.Errorf(shared.CodeInvalidInput, "Invalid period: %s", s)
}

// Since returns the start of the window ending at now: today, 7 days,
// 30 days or one year back from the start of today
func (p Period) Since(now time.Time) time.Time {
	today := shared.StartOfDay(now)
	switch p {
	case PeriodDaily:
		return today
	case PeriodWeekly:
		return today.AddDate(0, 0, -7)
	case PeriodYearly:
		return today.AddDate(-1, 0, 0)
	default:
		return today.AddDate(0, 0, -30)
	}
}

// SalesFilter selects posted sales
type SalesFilter struct {
	StationID  *uuid.UUID
	StationIDs []uuid.UUID
	From       time.Time
	To         time.Time
}

// SaleRow is one exported sale line
type SaleRow struct {
	ID            uuid.UUID       `json:"id"`
	StationID     uuid.UUID       `json:"station_id"`
	StationName   string          `json:"station_name"`
	FuelType      string          `json:"fuel_type"`
	Volume        decimal.Decimal `json:"volume"`
	FuelPrice     decimal.Decimal `json:"fuel_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Amount        decimal.Decimal `json:"amount"`
	Profit        decimal.Decimal `json:"profit"`
	PaymentMethod string          `json:"payment_method"`
	CreditorName  string          `json:"creditor_name,omitempty"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// FinancialRow totals one station and fuel type over a period
type FinancialRow struct {
	StationName      string          `json:"station_name"`
	FuelType         string          `json:"fuel_type"`
	TotalVolume      decimal.Decimal `json:"total_volume"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	AvgPrice         decimal.Decimal `json:"avg_price"`
	TransactionCount int64           `json:"transaction_count"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
}

// Totals summarises a set of sales
type Totals struct {
	Amount decimal.Decimal `json:"total_amount"`
	Volume decimal.Decimal `json:"total_volume"`
	Profit decimal.Decimal `json:"total_profit"`
	Count  int64           `json:"transaction_count"`
}

// Summarize totals sale rows
func Summarize(rows []SaleRow) Totals {
	t := Totals{Amount: decimal.Zero, Volume: decimal.Zero, Profit: decimal.Zero}
	for _, r := range rows {
		t.Amount = t.Amount.Add(r.Amount)
		t.Volume = t.Volume.Add(r.Volume)
		t.Profit = t.Profit.Add(r.Profit)
		t.Count++
	}
	return t
}

// ProfitMargin returns profit / revenue as a percentage, zero for no revenue
func ProfitMargin(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}

// Bucket is a time grouping for sales trends
type Bucket string

const (
	BucketDay  Bucket = "day"
	BucketHour Bucket = "hour"
)

// TrendPoint totals the sales of one bucket. Key is YYYY-MM-DD for days
// and the two digit UTC hour for hours.
type TrendPoint struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
	Volume decimal.Decimal `json:"volume"`
	Profit decimal.Decimal `json:"profit"`
	Count  int64           `json:"count"`
}

// FillDays returns one point per day from since through until, inserting
// zero points for days without sales
func FillDays(points []TrendPoint, since, until time.Time) []TrendPoint {
	byKey := make(map[string]TrendPoint, len(points))
	for _, p := range points {
		byKey[p.Key] = p
	}
	var out []TrendPoint
	for d := shared.StartOfDay(since); !d.After(until); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		p, ok := byKey[key]
		if !ok {
			p = TrendPoint{Key: key, Amount: decimal.Zero, Volume: decimal.Zero, Profit: decimal.Zero}
		}
		out = append(out, p)
	}
	return out
}

// FillHours returns the 24 hourly points, zero where there were no sales
func FillHours(points []TrendPoint) []TrendPoint {
	byKey := make(map[string]TrendPoint, len(points))
	for _, p := range points {
		byKey[p.Key] = p
	}
	out := make([]TrendPoint, 24)
	for h := range 24 {
		key := fmt.Sprintf("%02d", h)
		p, ok := byKey[key]
		if !ok {
			p = TrendPoint{Key: key, Amount: decimal.Zero, Volume: decimal.Zero, Profit: decimal.Zero}
		}
		out[h] = p
	}
	return out
}

// Repository provides report read models over sales
type Repository interface {
	SaleRows(ctx context.Context, tenantID uuid.UUID, filter SalesFilter) ([]SaleRow, error)
	Financial(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID, since time.Time) ([]FinancialRow, error)
	Totals(ctx context.Context, tenantID uuid.UUID, filter SalesFilter) (Totals, error)
	// Trend totals posted sales per day or hour of day, in key order
	Trend(ctx context.Context, tenantID uuid.UUID, filter SalesFilter, bucket Bucket) ([]TrendPoint, error)
}
