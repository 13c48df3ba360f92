package sales

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus marks whether a sale counts towards totals
type SaleStatus string

const (
	SaleStatusPosted SaleStatus = "posted"
	SaleStatusVoided SaleStatus = "voided"
)

// Sale is the monetary result of a reading delta or a credit entry
type Sale struct {
	shared.TenantEntity
	ReadingID     *uuid.UUID
	NozzleID      uuid.UUID
	StationID     uuid.UUID
	FuelType      string
	Volume        decimal.Decimal
	FuelPrice     decimal.Decimal
	CostPrice     decimal.Decimal
	Amount        decimal.Decimal
	Profit        decimal.Decimal
	PaymentMethod PaymentMethod
	CreditorID    *uuid.UUID
	RecordedAt    time.Time
	Status        SaleStatus
	CreatedBy     *uuid.UUID
}

// SaleInput carries the priced quantities of a sale
type SaleInput struct {
	ReadingID     *uuid.UUID
	NozzleID      uuid.UUID
	StationID     uuid.UUID
	FuelType      string
	Volume        decimal.Decimal
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	PaymentMethod PaymentMethod
	CreditorID    *uuid.UUID
	RecordedAt    time.Time
	CreatedBy     *uuid.UUID
}

// NewSale prices a volume: amount = volume x price rounded to 2 dp
func NewSale(tenantID uuid.UUID, in SaleInput) (*Sale, error) {
	if in.Volume.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Sale volume cannot be negative")
	}
	if in.PaymentMethod == PaymentCredit && in.CreditorID == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Credit sales require a creditor")
	}
	volume := shared.RoundVolume(in.Volume)
	amount := shared.RoundMoney(volume.Mul(in.Price))
	profit := shared.RoundMoney(volume.Mul(in.Price.Sub(in.CostPrice)))
	if in.CostPrice.IsZero() {
		profit = decimal.Zero
	}
	return &Sale{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		ReadingID:     in.ReadingID,
		NozzleID:      in.NozzleID,
		StationID:     in.StationID,
		FuelType:      in.FuelType,
		Volume:        volume,
		FuelPrice:     in.Price,
		CostPrice:     in.CostPrice,
		Amount:        amount,
		Profit:        profit,
		PaymentMethod: in.PaymentMethod,
		CreditorID:    in.CreditorID,
		RecordedAt:    in.RecordedAt.UTC(),
		Status:        SaleStatusPosted,
		CreatedBy:     in.CreatedBy,
	}, nil
}

// Void removes the sale from totals
func (s *Sale) Void() {
	s.Status = SaleStatusVoided
	s.Touch()
}
