package models

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FuelPriceModel is the persistence model for fuel prices
type FuelPriceModel struct {
	TenantModel
	StationID uuid.UUID        `gorm:"type:uuid;not null;index:idx_fuel_prices_lookup,priority:1"`
	FuelType  station.FuelType `gorm:"type:varchar(20);not null;index:idx_fuel_prices_lookup,priority:2"`
	Price     decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	CostPrice decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	ValidFrom time.Time        `gorm:"not null;index:idx_fuel_prices_lookup,priority:3"`
	CreatedBy *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (FuelPriceModel) TableName() string {
	return "fuel_prices"
}

// ToDomain converts the persistence model to a domain FuelPrice
func (m *FuelPriceModel) ToDomain() *pricing.FuelPrice {
	return &pricing.FuelPrice{
		TenantAggregateRoot: shared.TenantAggregateRoot{TenantEntity: m.ToTenantEntity()},
		StationID:           m.StationID,
		FuelType:            m.FuelType,
		Price:               m.Price,
		CostPrice:           m.CostPrice,
		ValidFrom:           m.ValidFrom.UTC(),
		CreatedBy:           m.CreatedBy,
	}
}

// FuelPriceModelFromDomain creates a persistence model from a domain FuelPrice
func FuelPriceModelFromDomain(p *pricing.FuelPrice) *FuelPriceModel {
	m := &FuelPriceModel{
		StationID: p.StationID,
		FuelType:  p.FuelType,
		Price:     p.Price,
		CostPrice: p.CostPrice,
		ValidFrom: p.ValidFrom,
		CreatedBy: p.CreatedBy,
	}
	m.FromTenantEntity(p.TenantEntity)
	return m
}
