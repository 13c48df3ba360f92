package models

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryModel is the persistence model for tank stock
type InventoryModel struct {
	TenantModel
	StationID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_fuel_inventory_station_fuel,priority:1"`
	FuelType     station.FuelType `gorm:"type:varchar(20);not null;uniqueIndex:idx_fuel_inventory_station_fuel,priority:2"`
	CurrentStock decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0"`
	MinimumLevel decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0"`
	Capacity     decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0"`
	LastUpdated  time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryModel) TableName() string {
	return "fuel_inventory"
}

// ToDomain converts the persistence model to a domain Inventory
func (m *InventoryModel) ToDomain() *inventory.Inventory {
	return &inventory.Inventory{
		TenantAggregateRoot: shared.TenantAggregateRoot{TenantEntity: m.ToTenantEntity()},
		StationID:           m.StationID,
		FuelType:            m.FuelType,
		CurrentStock:        m.CurrentStock,
		MinimumLevel:        m.MinimumLevel,
		Capacity:            m.Capacity,
		LastUpdated:         m.LastUpdated.UTC(),
	}
}

// InventoryModelFromDomain creates a persistence model from a domain Inventory
func InventoryModelFromDomain(i *inventory.Inventory) *InventoryModel {
	m := &InventoryModel{
		StationID:    i.StationID,
		FuelType:     i.FuelType,
		CurrentStock: i.CurrentStock,
		MinimumLevel: i.MinimumLevel,
		Capacity:     i.Capacity,
		LastUpdated:  i.LastUpdated,
	}
	m.FromTenantEntity(i.TenantEntity)
	return m
}

// DeliveryModel is the persistence model for fuel deliveries
type DeliveryModel struct {
	TenantModel
	StationID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	FuelType      station.FuelType `gorm:"type:varchar(20);not null"`
	Volume        decimal.Decimal  `gorm:"type:decimal(12,3);not null"`
	DeliveredAt   time.Time        `gorm:"not null"`
	Supplier      string           `gorm:"type:varchar(200)"`
	InvoiceNumber string           `gorm:"type:varchar(100)"`
	CreatedBy     *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "fuel_deliveries"
}

// ToDomain converts the persistence model to a domain Delivery
func (m *DeliveryModel) ToDomain() *inventory.Delivery {
	return &inventory.Delivery{
		TenantEntity:  m.ToTenantEntity(),
		StationID:     m.StationID,
		FuelType:      m.FuelType,
		Volume:        m.Volume,
		DeliveredAt:   m.DeliveredAt.UTC(),
		Supplier:      m.Supplier,
		InvoiceNumber: m.InvoiceNumber,
		CreatedBy:     m.CreatedBy,
	}
}

// DeliveryModelFromDomain creates a persistence model from a domain Delivery
func DeliveryModelFromDomain(d *inventory.Delivery) *DeliveryModel {
	m := &DeliveryModel{
		StationID:     d.StationID,
		FuelType:      d.FuelType,
		Volume:        d.Volume,
		DeliveredAt:   d.DeliveredAt,
		Supplier:      d.Supplier,
		InvoiceNumber: d.InvoiceNumber,
		CreatedBy:     d.CreatedBy,
	}
	m.FromTenantEntity(d.TenantEntity)
	return m
}
