package reconciliation

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditEntryInput is a credit sale declared on a cash report. Exactly one
// of Litres and Amount must be positive.
type CreditEntryInput struct {
	CreditorID uuid.UUID
	FuelType   string
	Litres     decimal.Decimal
	Amount     decimal.Decimal
}

// CreateCashReportInput is an attendant's end of shift declaration
type CreateCashReportInput struct {
	StationID     uuid.UUID
	Date          time.Time
	Shift         string
	CashAmount    decimal.Decimal
	CardAmount    decimal.Decimal
	UPIAmount     decimal.Decimal
	Notes         string
	CreditEntries []CreditEntryInput
}

// CashReportDTO is the API representation of a cash report
type CashReportDTO struct {
	ID           uuid.UUID       `json:"id"`
	StationID    uuid.UUID       `json:"station_id"`
	UserID       uuid.UUID       `json:"user_id"`
	Date         string          `json:"date"`
	Shift        string          `json:"shift"`
	CashAmount   decimal.Decimal `json:"cash_amount"`
	CardAmount   decimal.Decimal `json:"card_amount"`
	UPIAmount    decimal.Decimal `json:"upi_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToCashReportDTO converts a domain cash report
func ToCashReportDTO(r *reconciliation.CashReport) CashReportDTO {
	return CashReportDTO{
		ID:           r.ID,
		StationID:    r.StationID,
		UserID:       r.UserID,
		Date:         r.Date.Format(time.DateOnly),
		Shift:        string(r.Shift),
		CashAmount:   r.CashAmount,
		CardAmount:   r.CardAmount,
		UPIAmount:    r.UPIAmount,
		CreditAmount: r.CreditAmount,
		Total:        r.Total(),
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}
}

// CashReportListInput narrows cash report listings
type CashReportListInput struct {
	StationID *uuid.UUID
	// Mine lists only the caller's own reports
	Mine bool
}

// ReconciliationDTO is the API representation of a day reconciliation
type ReconciliationDTO struct {
	ID           uuid.UUID              `json:"id"`
	StationID    uuid.UUID              `json:"station_id"`
	Date         string                 `json:"date"`
	Expected     reconciliation.Totals  `json:"expected"`
	Declared     reconciliation.Totals  `json:"declared"`
	TotalSales   decimal.Decimal        `json:"total_sales"`
	TotalCollect decimal.Decimal        `json:"total_collected"`
	Difference   decimal.Decimal        `json:"difference"`
	Outcome      reconciliation.Outcome `json:"outcome"`
	Finalized    bool                   `json:"finalized"`
	ReconciledBy *uuid.UUID             `json:"reconciled_by,omitempty"`
	ApprovedBy   *uuid.UUID             `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time             `json:"approved_at,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ToReconciliationDTO converts a domain reconciliation
func ToReconciliationDTO(r *reconciliation.DayReconciliation) ReconciliationDTO {
	return ReconciliationDTO{
		ID:           r.ID,
		StationID:    r.StationID,
		Date:         r.Date.Format(time.DateOnly),
		Expected:     r.Expected,
		Declared:     r.Declared,
		TotalSales:   r.TotalSales,
		TotalCollect: r.TotalCollect,
		Difference:   r.Difference,
		Outcome:      r.Outcome,
		Finalized:    r.Finalized,
		ReconciledBy: r.ReconciledBy,
		ApprovedBy:   r.ApprovedBy,
		ApprovedAt:   r.ApprovedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// DailySummary is the reading by reading breakdown of a station day
type DailySummary struct {
	StationID uuid.UUID                   `json:"station_id"`
	Date      string                      `json:"date"`
	Rows      []reconciliation.SummaryRow `json:"rows"`
	Volume    decimal.Decimal             `json:"total_volume"`
	Amount    decimal.Decimal             `json:"total_amount"`
}

// Document is a rendered file ready for download
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}
