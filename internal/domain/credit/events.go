package credit

import (
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeCreditor = "Creditor"

const EventTypeCreditorNearLimit = "CreditorNearLimit"

// CreditorNearLimitEvent is published when a charge takes a creditor to 90% of its limit
type CreditorNearLimitEvent struct {
	shared.BaseDomainEvent
	StationID   uuid.UUID       `json:"station_id"`
	PartyName   string          `json:"party_name"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// NewCreditorNearLimitEvent creates a new CreditorNearLimitEvent
func NewCreditorNearLimitEvent(c *Creditor, stationID uuid.UUID) *CreditorNearLimitEvent {
	return &CreditorNearLimitEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditorNearLimit, AggregateTypeCreditor, c.ID, c.TenantID),
		StationID:       stationID,
		PartyName:       c.PartyName,
		Balance:         c.Balance,
		CreditLimit:     c.CreditLimit,
	}
}
