package models

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReadingModel is the persistence model for nozzle readings
type ReadingModel struct {
	TenantModel
	NozzleID      uuid.UUID           `gorm:"type:uuid;not null;index:idx_readings_nozzle_time,priority:1"`
	StationID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	Reading       decimal.Decimal     `gorm:"type:decimal(12,3);not null"`
	RecordedAt    time.Time           `gorm:"not null;index:idx_readings_nozzle_time,priority:2"`
	PaymentMethod sales.PaymentMethod `gorm:"type:varchar(20)"`
	CreditorID    *uuid.UUID          `gorm:"type:uuid"`
	RecordedBy    *uuid.UUID          `gorm:"type:uuid"`
	Voided        bool                `gorm:"not null;default:false"`
	VoidReason    string              `gorm:"type:text"`
	VoidedAt      *time.Time
	VoidedBy      *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ReadingModel) TableName() string {
	return "nozzle_readings"
}

// ToDomain converts the persistence model to a domain Reading
func (m *ReadingModel) ToDomain() *sales.Reading {
	r := &sales.Reading{
		TenantAggregateRoot: shared.TenantAggregateRoot{TenantEntity: m.ToTenantEntity()},
		NozzleID:            m.NozzleID,
		StationID:           m.StationID,
		Reading:             m.Reading,
		RecordedAt:          m.RecordedAt.UTC(),
		PaymentMethod:       m.PaymentMethod,
		CreditorID:          m.CreditorID,
		RecordedBy:          m.RecordedBy,
		Voided:              m.Voided,
		VoidReason:          m.VoidReason,
		VoidedAt:            m.VoidedAt,
		VoidedBy:            m.VoidedBy,
	}
	return r
}

// ReadingModelFromDomain creates a persistence model from a domain Reading
func ReadingModelFromDomain(r *sales.Reading) *ReadingModel {
	m := &ReadingModel{
		NozzleID:      r.NozzleID,
		StationID:     r.StationID,
		Reading:       r.Reading,
		RecordedAt:    r.RecordedAt,
		PaymentMethod: r.PaymentMethod,
		CreditorID:    r.CreditorID,
		RecordedBy:    r.RecordedBy,
		Voided:        r.Voided,
		VoidReason:    r.VoidReason,
		VoidedAt:      r.VoidedAt,
		VoidedBy:      r.VoidedBy,
	}
	m.FromTenantEntity(r.TenantEntity)
	return m
}

// SaleModel is the persistence model for sales
type SaleModel struct {
	TenantModel
	ReadingID     *uuid.UUID          `gorm:"type:uuid;index"`
	NozzleID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	StationID     uuid.UUID           `gorm:"type:uuid;not null;index:idx_sales_station_time,priority:1"`
	FuelType      string              `gorm:"type:varchar(20);not null"`
	Volume        decimal.Decimal     `gorm:"type:decimal(12,3);not null"`
	FuelPrice     decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	CostPrice     decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0"`
	Amount        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Profit        decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod sales.PaymentMethod `gorm:"type:varchar(20);not null"`
	CreditorID    *uuid.UUID          `gorm:"type:uuid;index"`
	RecordedAt    time.Time           `gorm:"not null;index:idx_sales_station_time,priority:2"`
	Status        sales.SaleStatus    `gorm:"type:varchar(20);not null;default:'posted'"`
	CreatedBy     *uuid.UUID          `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		TenantEntity:  m.ToTenantEntity(),
		ReadingID:     m.ReadingID,
		NozzleID:      m.NozzleID,
		StationID:     m.StationID,
		FuelType:      m.FuelType,
		Volume:        m.Volume,
		FuelPrice:     m.FuelPrice,
		CostPrice:     m.CostPrice,
		Amount:        m.Amount,
		Profit:        m.Profit,
		PaymentMethod: m.PaymentMethod,
		CreditorID:    m.CreditorID,
		RecordedAt:    m.RecordedAt.UTC(),
		Status:        m.Status,
		CreatedBy:     m.CreatedBy,
	}
}

// SaleModelFromDomain creates a persistence model from a domain Sale
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{
		ReadingID:     s.ReadingID,
		NozzleID:      s.NozzleID,
		StationID:     s.StationID,
		FuelType:      s.FuelType,
		Volume:        s.Volume,
		FuelPrice:     s.FuelPrice,
		CostPrice:     s.CostPrice,
		Amount:        s.Amount,
		Profit:        s.Profit,
		PaymentMethod: s.PaymentMethod,
		CreditorID:    s.CreditorID,
		RecordedAt:    s.RecordedAt,
		Status:        s.Status,
		CreatedBy:     s.CreatedBy,
	}
	m.FromTenantEntity(s.TenantEntity)
	return m
}
