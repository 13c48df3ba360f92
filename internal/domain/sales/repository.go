package sales

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReadingFilter narrows reading listings
type ReadingFilter struct {
	NozzleID  *uuid.UUID
	StationID *uuid.UUID
	From      *time.Time
	To        *time.Time
	Limit     int
	// StationIDs restricts results to these stations when non-nil
	StationIDs []uuid.UUID
}

// ReadingRepository persists nozzle readings
type ReadingRepository interface {
	Save(ctx context.Context, r *Reading) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Reading, error)
	// LastActive returns the latest non-voided reading of a nozzle, or nil
	LastActive(ctx context.Context, tenantID, nozzleID uuid.UUID) (*Reading, error)
	// PreviousActive returns the non-voided reading recorded before r, or nil
	PreviousActive(ctx context.Context, tenantID uuid.UUID, r *Reading) (*Reading, error)
	FindViews(ctx context.Context, tenantID uuid.UUID, filter ReadingFilter) ([]ReadingView, error)
	CountByNozzle(ctx context.Context, tenantID, nozzleID uuid.UUID) (int64, error)
	// LastRecordedAtByNozzle maps each nozzle of the tenant to its latest reading time
	LastRecordedAtByNozzle(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]time.Time, error)
}

// SaleFilter narrows sale listings
type SaleFilter struct {
	shared.Filter
	StationID     *uuid.UUID
	From          *time.Time
	To            *time.Time
	PaymentMethod PaymentMethod
	StationIDs    []uuid.UUID
}

// SaleView is a sale row with display names
type SaleView struct {
	Sale
	StationName  string
	PumpName     string
	NozzleNumber int
	CreditorName string
}

// GroupBy is an analytics grouping dimension
type GroupBy string

const (
	GroupByStation       GroupBy = "station"
	GroupByPump          GroupBy = "pump"
	GroupByFuelType      GroupBy = "fuel_type"
	GroupByPaymentMethod GroupBy = "payment_method"
)

// ParseGroupBy validates a grouping dimension; empty maps to station
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case "":
		return GroupByStation, nil
	case GroupByStation, GroupByPump, GroupByFuelType, GroupByPaymentMethod:
		return GroupBy(s), nil
	}
	return "", shared.Errorf(shared.CodeInvalidInput, "Invalid group by: %s", s)
}

// Aggregate is a totals row for one group key
type Aggregate struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Volume   decimal.Decimal `json:"volume"`
	Amount   decimal.Decimal `json:"amount"`
	Profit   decimal.Decimal `json:"profit"`
	Count    int64           `json:"count"`
	AvgPrice decimal.Decimal `json:"avg_price"`
}

// SaleRepository persists and aggregates sales
type SaleRepository interface {
	Save(ctx context.Context, s *Sale) error
	FindByReading(ctx context.Context, tenantID, readingID uuid.UUID) (*Sale, error)
	FindViews(ctx context.Context, tenantID uuid.UUID, filter SaleFilter) ([]SaleView, int64, error)
	// Aggregate totals posted sales grouped by a dimension
	Aggregate(ctx context.Context, tenantID uuid.UUID, by GroupBy, from, to time.Time, stationID *uuid.UUID) ([]Aggregate, error)
	// TotalsByPaymentMethod totals posted sales of one station over a range
	TotalsByPaymentMethod(ctx context.Context, tenantID, stationID uuid.UUID, from, to time.Time) (map[PaymentMethod]decimal.Decimal, error)
	// NozzleDeltas returns recent posted sale volumes of a nozzle, newest first
	NozzleDeltas(ctx context.Context, tenantID, nozzleID uuid.UUID, limit int) ([]decimal.Decimal, error)
}
