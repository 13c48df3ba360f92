package pricing

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxPriceAge is how old the effective price may be when a reading is recorded
const MaxPriceAge = 7 * 24 * time.Hour

// FuelPrice is the price of a fuel type at a station from ValidFrom onwards.
// A price has no end date: it is superseded by the next row with a later ValidFrom.
type FuelPrice struct {
	shared.TenantAggregateRoot
	StationID uuid.UUID
	FuelType  station.FuelType
	Price     decimal.Decimal
	CostPrice decimal.Decimal
	ValidFrom time.Time
	CreatedBy *uuid.UUID
}

// NewFuelPrice creates a price; a zero validFrom means now
func NewFuelPrice(tenantID, stationID uuid.UUID, fuel station.FuelType, price, cost decimal.Decimal, validFrom time.Time, createdBy *uuid.UUID) (*FuelPrice, error) {
	if stationID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Station is required")
	}
	if _, err := station.ParseFuelType(string(fuel)); err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Price must be greater than 0")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Cost price cannot be negative")
	}
	if validFrom.IsZero() {
		validFrom = time.Now()
	}
	p := &FuelPrice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StationID:           stationID,
		FuelType:            fuel,
		Price:               shared.RoundMoney(price),
		CostPrice:           shared.RoundMoney(cost),
		ValidFrom:           validFrom.UTC(),
		CreatedBy:           createdBy,
	}
	p.AddDomainEvent(NewFuelPriceCreatedEvent(p))
	return p, nil
}

// CheckFresh rejects a price that took effect more than MaxPriceAge before at
func (p *FuelPrice) CheckFresh(at time.Time) error {
	if at.Sub(p.ValidFrom) > MaxPriceAge {
		return shared.Errorf(shared.CodePriceOutdated,
			"Fuel price outdated: %s price at station was set on %s", p.FuelType, p.ValidFrom.Format(time.DateOnly))
	}
	return nil
}

// Margin returns price minus cost
func (p *FuelPrice) Margin() decimal.Decimal {
	return p.Price.Sub(p.CostPrice)
}

// ErrPriceNotFound is returned when no price is effective for a station and fuel
var ErrPriceNotFound = shared.NewDomainError(shared.CodePriceNotFound, "Fuel price not found")

// PriceFilter narrows price listings
type PriceFilter struct {
	StationID *uuid.UUID
	FuelType  station.FuelType
}

// PriceRepository persists fuel prices
type PriceRepository interface {
	Save(ctx context.Context, price *FuelPrice) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*FuelPrice, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter PriceFilter) ([]FuelPrice, error)
	// PriceAt returns the row with the greatest valid_from <= at, or ErrPriceNotFound
	PriceAt(ctx context.Context, tenantID, stationID uuid.UUID, fuel station.FuelType, at time.Time) (*FuelPrice, error)
	// Current returns the latest effective price per fuel type for a station
	Current(ctx context.Context, tenantID, stationID uuid.UUID) ([]FuelPrice, error)
}
