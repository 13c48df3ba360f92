package inventory

import (
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeInventory = "FuelInventory"

const EventTypeInventoryLow = "InventoryLow"

// InventoryLowEvent is published when stock falls to or below the minimum level
type InventoryLowEvent struct {
	shared.BaseDomainEvent
	StationID    uuid.UUID        `json:"station_id"`
	FuelType     station.FuelType `json:"fuel_type"`
	CurrentStock decimal.Decimal  `json:"current_stock"`
	MinimumLevel decimal.Decimal  `json:"minimum_level"`
}

// NewInventoryLowEvent creates a new InventoryLowEvent
func NewInventoryLowEvent(i *Inventory) *InventoryLowEvent {
	return &InventoryLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryLow, AggregateTypeInventory, i.ID, i.TenantID),
		StationID:       i.StationID,
		FuelType:        i.FuelType,
		CurrentStock:    i.CurrentStock,
		MinimumLevel:    i.MinimumLevel,
	}
}
