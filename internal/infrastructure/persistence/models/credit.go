package models

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditorModel is the persistence model for creditors
type CreditorModel struct {
	TenantModel
	StationID   *uuid.UUID            `gorm:"type:uuid;index"`
	PartyName   string                `gorm:"type:varchar(200);not null"`
	ContactName string                `gorm:"type:varchar(200)"`
	Phone       string                `gorm:"type:varchar(50)"`
	Email       string                `gorm:"type:varchar(200)"`
	Address     string                `gorm:"type:text"`
	CreditLimit decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Balance     decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Status      credit.CreditorStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (CreditorModel) TableName() string {
	return "creditors"
}

// ToDomain converts the persistence model to a domain Creditor
func (m *CreditorModel) ToDomain() *credit.Creditor {
	return &credit.Creditor{
		TenantAggregateRoot: shared.TenantAggregateRoot{TenantEntity: m.ToTenantEntity()},
		StationID:           m.StationID,
		PartyName:           m.PartyName,
		ContactName:         m.ContactName,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		CreditLimit:         m.CreditLimit,
		Balance:             m.Balance,
		Status:              m.Status,
	}
}

// CreditorModelFromDomain creates a persistence model from a domain Creditor
func CreditorModelFromDomain(c *credit.Creditor) *CreditorModel {
	m := &CreditorModel{
		StationID:   c.StationID,
		PartyName:   c.PartyName,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		CreditLimit: c.CreditLimit,
		Balance:     c.Balance,
		Status:      c.Status,
	}
	m.FromTenantEntity(c.TenantEntity)
	return m
}

// CreditPaymentModel is the persistence model for credit payments
type CreditPaymentModel struct {
	TenantModel
	CreditorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	ReferenceNo   string          `gorm:"type:varchar(100)"`
	Notes         string          `gorm:"type:text"`
	ReceivedAt    time.Time       `gorm:"not null"`
	ReceivedBy    *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CreditPaymentModel) TableName() string {
	return "credit_payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *CreditPaymentModel) ToDomain() *credit.Payment {
	return &credit.Payment{
		TenantEntity:  m.ToTenantEntity(),
		CreditorID:    m.CreditorID,
		Amount:        m.Amount,
		PaymentMethod: m.PaymentMethod,
		ReferenceNo:   m.ReferenceNo,
		Notes:         m.Notes,
		ReceivedAt:    m.ReceivedAt.UTC(),
		ReceivedBy:    m.ReceivedBy,
	}
}

// CreditPaymentModelFromDomain creates a persistence model from a domain Payment
func CreditPaymentModelFromDomain(p *credit.Payment) *CreditPaymentModel {
	m := &CreditPaymentModel{
		CreditorID:    p.CreditorID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		ReferenceNo:   p.ReferenceNo,
		Notes:         p.Notes,
		ReceivedAt:    p.ReceivedAt,
		ReceivedBy:    p.ReceivedBy,
	}
	m.FromTenantEntity(p.TenantEntity)
	return m
}
