package pricing

import (
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeFuelPrice = "FuelPrice"

const EventTypeFuelPriceCreated = "FuelPriceCreated"

// FuelPriceCreatedEvent is published when a new price row is added
type FuelPriceCreatedEvent struct {
	shared.BaseDomainEvent
	StationID uuid.UUID        `json:"station_id"`
	FuelType  station.FuelType `json:"fuel_type"`
	Price     decimal.Decimal  `json:"price"`
}

// NewFuelPriceCreatedEvent creates a new FuelPriceCreatedEvent
func NewFuelPriceCreatedEvent(p *FuelPrice) *FuelPriceCreatedEvent {
	return &FuelPriceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFuelPriceCreated, AggregateTypeFuelPrice, p.ID, p.TenantID),
		StationID:       p.StationID,
		FuelType:        p.FuelType,
		Price:           p.Price,
	}
}
