package report

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportInput selects the sales to export
type ExportInput struct {
	StationID *uuid.UUID
	From      time.Time
	To        time.Time
	Format    string
	// Archive stores the file in object storage and returns a download link
	Archive bool
}

// SalesExport is the body of a JSON sales export
type SalesExport struct {
	From    time.Time        `json:"from"`
	To      time.Time        `json:"to"`
	Rows    []report.SaleRow `json:"rows"`
	Summary report.Totals    `json:"summary"`
}

// Export is a rendered export. URL is set when the file was archived.
type Export struct {
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	Rows        int        `json:"rows"`
	Data        []byte     `json:"-"`
	URL         string     `json:"url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// FinancialReport totals sales per station and fuel type over a period
type FinancialReport struct {
	Period report.Period         `json:"period"`
	Since  time.Time             `json:"since"`
	Rows   []report.FinancialRow `json:"rows"`
	Totals report.Totals         `json:"totals"`
}

// DashboardInput scopes the dashboard
type DashboardInput struct {
	StationID *uuid.UUID
	// Days is the length of the daily trend, 7 by default
	Days int
}

// CreditorBalance is an outstanding creditor on the dashboard
type CreditorBalance struct {
	ID          uuid.UUID       `json:"id"`
	PartyName   string          `json:"party_name"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Utilization decimal.Decimal `json:"utilization"`
}

// Dashboard is the landing page summary
type Dashboard struct {
	Today          report.Totals       `json:"today"`
	Month          report.Totals       `json:"month"`
	PaymentMethods []sales.Aggregate   `json:"payment_methods"`
	FuelTypes      []sales.Aggregate   `json:"fuel_types"`
	TopCreditors   []CreditorBalance   `json:"top_creditors"`
	Trend          []report.TrendPoint `json:"trend"`
}

// AnalyticsInput is the window of an analytics query
type AnalyticsInput struct {
	StationID *uuid.UUID
	From      time.Time
	To        time.Time
}

// StationRank is one row of the station comparison
type StationRank struct {
	Rank        int             `json:"rank"`
	StationID   string          `json:"station_id"`
	StationName string          `json:"station_name"`
	Amount      decimal.Decimal `json:"amount"`
	Volume      decimal.Decimal `json:"volume"`
	Profit      decimal.Decimal `json:"profit"`
	Count       int64           `json:"count"`
	// Share is the station's percentage of the total amount
	Share decimal.Decimal `json:"share"`
}

// Analytics is the hourly, fuel and station breakdown of a window
type Analytics struct {
	From            time.Time           `json:"from"`
	To              time.Time           `json:"to"`
	Hourly          []report.TrendPoint `json:"hourly"`
	PeakHours       []report.TrendPoint `json:"peak_hours"`
	FuelPerformance []sales.Aggregate   `json:"fuel_performance"`
	Stations        []StationRank       `json:"stations"`
}

// CreateScheduleInput asks for a recurring report. A nil station covers
// every station the caller can see.
type CreateScheduleInput struct {
	StationID *uuid.UUID
	Type      string
	Frequency string
}

// ScheduleDTO is a report schedule
type ScheduleDTO struct {
	ID        uuid.UUID  `json:"id"`
	StationID *uuid.UUID `json:"station_id,omitempty"`
	Type      string     `json:"type"`
	Frequency string     `json:"frequency"`
	NextRunAt time.Time  `json:"next_run_at"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToScheduleDTO converts a domain schedule
func ToScheduleDTO(s *report.Schedule) ScheduleDTO {
	return ScheduleDTO{
		ID:        s.ID,
		StationID: s.StationID,
		Type:      string(s.Type),
		Frequency: string(s.Frequency),
		NextRunAt: s.NextRunAt,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
	}
}
