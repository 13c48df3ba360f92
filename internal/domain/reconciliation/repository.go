package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists day reconciliations
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*DayReconciliation, error)
	FindByDay(ctx context.Context, tenantID, stationID uuid.UUID, date time.Time) (*DayReconciliation, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID, limit int) ([]DayReconciliation, error)
	// IsFinalized reports whether the station day containing at is closed
	IsFinalized(ctx context.Context, tenantID, stationID uuid.UUID, at time.Time) (bool, error)
	Save(ctx context.Context, r *DayReconciliation) error
	// DailySummary lists the day's non-voided readings with their previous reading and sale
	DailySummary(ctx context.Context, tenantID, stationID uuid.UUID, date time.Time) ([]SummaryRow, error)
}

// CashReportFilter narrows cash report listings
type CashReportFilter struct {
	StationID *uuid.UUID
	UserID    *uuid.UUID
	From      *time.Time
	To        *time.Time
	Limit     int
}

// CashReportRepository persists cash reports
type CashReportRepository interface {
	Save(ctx context.Context, r *CashReport) error
	FindAll(ctx context.Context, tenantID uuid.UUID, filter CashReportFilter) ([]CashReport, error)
	// DeclaredTotals sums the reports of a station day
	DeclaredTotals(ctx context.Context, tenantID, stationID uuid.UUID, date time.Time) (Totals, error)
	// ExistsForDay reports whether any report was filed for the station day
	ExistsForDay(ctx context.Context, tenantID, stationID uuid.UUID, date time.Time) (bool, error)
}
