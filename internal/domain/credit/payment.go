package credit

import (
	"strings"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is money received from a creditor against the outstanding balance
type Payment struct {
	shared.TenantEntity
	CreditorID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	ReferenceNo   string
	Notes         string
	ReceivedAt    time.Time
	ReceivedBy    *uuid.UUID
}

// NewPayment creates a payment; a zero receivedAt means now
func NewPayment(tenantID, creditorID uuid.UUID, amount decimal.Decimal, method, reference, notes string, receivedAt time.Time, by *uuid.UUID) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment amount must be greater than 0")
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = "cash"
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	return &Payment{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		CreditorID:    creditorID,
		Amount:        shared.RoundMoney(amount),
		PaymentMethod: method,
		ReferenceNo:   strings.TrimSpace(reference),
		Notes:         strings.TrimSpace(notes),
		ReceivedAt:    receivedAt.UTC(),
		ReceivedBy:    by,
	}, nil
}
