package inventory

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
)

// InventoryView is an inventory row with its station name
type InventoryView struct {
	Inventory
	StationName string
}

// Repository persists tank inventories
type Repository interface {
	// LockOrCreate loads the tank row for update, creating an empty one if missing
	LockOrCreate(ctx context.Context, tenantID, stationID uuid.UUID, fuel station.FuelType) (*Inventory, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID) ([]InventoryView, error)
	Save(ctx context.Context, inv *Inventory) error
}

// DeliveryRepository persists fuel deliveries
type DeliveryRepository interface {
	Save(ctx context.Context, d *Delivery) error
	FindAll(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID, limit int) ([]Delivery, error)
}
