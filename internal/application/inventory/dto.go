package inventory

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDeliveryInput records fuel received at a station
type CreateDeliveryInput struct {
	StationID     uuid.UUID
	FuelType      string
	Volume        decimal.Decimal
	DeliveredAt   time.Time
	Supplier      string
	InvoiceNumber string
}

// UpdateInventoryInput overrides the tank levels of a station fuel type
type UpdateInventoryInput struct {
	StationID    uuid.UUID
	FuelType     string
	CurrentStock decimal.Decimal
	MinimumLevel decimal.Decimal
	Capacity     *decimal.Decimal
}

// DeliveryDTO is the API representation of a fuel delivery
type DeliveryDTO struct {
	ID            uuid.UUID       `json:"id"`
	StationID     uuid.UUID       `json:"station_id"`
	FuelType      string          `json:"fuel_type"`
	Volume        decimal.Decimal `json:"volume"`
	DeliveredAt   time.Time       `json:"delivered_at"`
	Supplier      string          `json:"supplier,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToDeliveryDTO converts a domain delivery
func ToDeliveryDTO(d *inventory.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:            d.ID,
		StationID:     d.StationID,
		FuelType:      string(d.FuelType),
		Volume:        d.Volume,
		DeliveredAt:   d.DeliveredAt,
		Supplier:      d.Supplier,
		InvoiceNumber: d.InvoiceNumber,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
	}
}

// InventoryDTO is a tank level with its stock classification
type InventoryDTO struct {
	ID           uuid.UUID             `json:"id"`
	StationID    uuid.UUID             `json:"station_id"`
	StationName  string                `json:"station_name,omitempty"`
	FuelType     string                `json:"fuel_type"`
	CurrentStock decimal.Decimal       `json:"current_stock"`
	MinimumLevel decimal.Decimal       `json:"minimum_level"`
	Capacity     decimal.Decimal       `json:"capacity"`
	StockStatus  inventory.StockStatus `json:"stock_status"`
	LastUpdated  time.Time             `json:"last_updated"`
}

// ToInventoryDTO converts a domain tank record
func ToInventoryDTO(i *inventory.Inventory, stationName string) InventoryDTO {
	return InventoryDTO{
		ID:           i.ID,
		StationID:    i.StationID,
		StationName:  stationName,
		FuelType:     string(i.FuelType),
		CurrentStock: i.CurrentStock,
		MinimumLevel: i.MinimumLevel,
		Capacity:     i.Capacity,
		StockStatus:  i.Status(),
		LastUpdated:  i.LastUpdated,
	}
}

// DeliveryResult is a recorded delivery with the resulting tank level
type DeliveryResult struct {
	Delivery  DeliveryDTO  `json:"delivery"`
	Inventory InventoryDTO `json:"inventory"`
}
