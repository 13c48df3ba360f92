package credit

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditorDTO is the API representation of a creditor
type CreditorDTO struct {
	ID          uuid.UUID       `json:"id"`
	StationID   *uuid.UUID      `json:"station_id,omitempty"`
	PartyName   string          `json:"party_name"`
	ContactName string          `json:"contact_name,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Balance     decimal.Decimal `json:"balance"`
	Utilization decimal.Decimal `json:"utilization"`
	NearLimit   bool            `json:"near_limit"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToCreditorDTO converts a domain creditor
func ToCreditorDTO(c *credit.Creditor) CreditorDTO {
	return CreditorDTO{
		ID:          c.ID,
		StationID:   c.StationID,
		PartyName:   c.PartyName,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		CreditLimit: c.CreditLimit,
		Balance:     c.Balance,
		Utilization: c.Utilization(),
		NearLimit:   c.IsNearLimit(),
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateCreditorInput carries a new creditor
type CreateCreditorInput struct {
	StationID   *uuid.UUID
	PartyName   string
	ContactName string
	Phone       string
	Email       string
	Address     string
	CreditLimit decimal.Decimal
}

// UpdateCreditorInput carries a partial creditor update
type UpdateCreditorInput struct {
	PartyName   *string
	ContactName *string
	Phone       *string
	Email       *string
	Address     *string
	CreditLimit *decimal.Decimal
	Status      *string
}

// CreditorListInput narrows creditor listings
type CreditorListInput struct {
	StationID *uuid.UUID
	Status    string
	Search    string
	Page      int
	PageSize  int
}

// PaymentDTO is the API representation of a credit payment
type PaymentDTO struct {
	ID            uuid.UUID       `json:"id"`
	CreditorID    uuid.UUID       `json:"creditor_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	ReferenceNo   string          `json:"reference_number,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	ReceivedAt    time.Time       `json:"received_at"`
	ReceivedBy    *uuid.UUID      `json:"received_by,omitempty"`
}

// ToPaymentDTO converts a domain payment
func ToPaymentDTO(p *credit.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		CreditorID:    p.CreditorID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		ReferenceNo:   p.ReferenceNo,
		Notes:         p.Notes,
		ReceivedAt:    p.ReceivedAt,
		ReceivedBy:    p.ReceivedBy,
	}
}

// CreatePaymentInput records money received from a creditor
type CreatePaymentInput struct {
	CreditorID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	ReferenceNo   string
	Notes         string
	ReceivedAt    time.Time
}

// PaymentResult is a stored payment with the creditor's new balance
type PaymentResult struct {
	Payment  PaymentDTO      `json:"payment"`
	Balance  decimal.Decimal `json:"balance"`
	Creditor uuid.UUID       `json:"creditor_id"`
}
