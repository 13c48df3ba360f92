package credit

import (
	"strings"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NearLimitRatio is the share of the credit limit at which an alert is raised
var NearLimitRatio = decimal.RequireFromString("0.9")

// CreditorStatus is the status of a creditor account
type CreditorStatus string

const (
	CreditorActive   CreditorStatus = "active"
	CreditorInactive CreditorStatus = "inactive"
)

// Creditor is a customer buying fuel on credit
type Creditor struct {
	shared.TenantAggregateRoot
	StationID   *uuid.UUID
	PartyName   string
	ContactName string
	Phone       string
	Email       string
	Address     string
	CreditLimit decimal.Decimal
	Balance     decimal.Decimal
	Status      CreditorStatus
}

// NewCreditor creates an active creditor with a zero balance
func NewCreditor(tenantID uuid.UUID, stationID *uuid.UUID, partyName string, limit decimal.Decimal) (*Creditor, error) {
	partyName = strings.TrimSpace(partyName)
	if partyName == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Party name cannot be empty")
	}
	if limit.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Credit limit cannot be negative")
	}
	return &Creditor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StationID:           stationID,
		PartyName:           partyName,
		CreditLimit:         shared.RoundMoney(limit),
		Balance:             decimal.Zero,
		Status:              CreditorActive,
	}, nil
}

// SetContact sets contact details
func (c *Creditor) SetContact(contactName, phone, email, address string) {
	c.ContactName = strings.TrimSpace(contactName)
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	c.Address = strings.TrimSpace(address)
	c.Touch()
}

// Rename changes the party name
func (c *Creditor) Rename(partyName string) error {
	partyName = strings.TrimSpace(partyName)
	if partyName == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Party name cannot be empty")
	}
	c.PartyName = partyName
	c.Touch()
	return nil
}

// SetCreditLimit changes the limit
func (c *Creditor) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Credit limit cannot be negative")
	}
	c.CreditLimit = shared.RoundMoney(limit)
	c.Touch()
	return nil
}

// Deactivate soft-deletes the creditor
func (c *Creditor) Deactivate() {
	c.Status = CreditorInactive
	c.Touch()
}

// Charge adds a credit sale to the balance. It fails when the new balance
// would exceed the limit and raises a near-limit event at 90% or more.
func (c *Creditor) Charge(amount decimal.Decimal, stationID uuid.UUID) error {
	if c.Status != CreditorActive {
		return shared.NewDomainError(shared.CodeInvalidState, "Creditor is inactive")
	}
	if amount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Charge amount cannot be negative")
	}
	next := c.Balance.Add(amount)
	if next.GreaterThan(c.CreditLimit) {
		return shared.Errorf(shared.CodeCreditLimit,
			"Credit limit exceeded for %s: balance %s, limit %s", c.PartyName, next.StringFixed(2), c.CreditLimit.StringFixed(2))
	}
	c.Balance = next
	c.Touch()
	if c.IsNearLimit() {
		c.AddDomainEvent(NewCreditorNearLimitEvent(c, stationID))
	}
	return nil
}

// Refund reverses a charge, e.g. when its sale is voided
func (c *Creditor) Refund(amount decimal.Decimal) {
	c.Balance = c.Balance.Sub(amount)
	if c.Balance.IsNegative() {
		c.Balance = decimal.Zero
	}
	c.Touch()
}

// ApplyPayment reduces the outstanding balance
func (c *Creditor) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Payment amount must be greater than 0")
	}
	if amount.GreaterThan(c.Balance) {
		return shared.Errorf(shared.CodeInvalidInput,
			"Payment %s exceeds outstanding balance %s", amount.StringFixed(2), c.Balance.StringFixed(2))
	}
	c.Balance = c.Balance.Sub(amount)
	c.Touch()
	return nil
}

// IsNearLimit reports whether the balance is at least 90% of a positive limit
func (c *Creditor) IsNearLimit() bool {
	if !c.CreditLimit.IsPositive() {
		return false
	}
	return c.Balance.GreaterThanOrEqual(c.CreditLimit.Mul(NearLimitRatio))
}

// Utilization returns balance / limit as a percentage
func (c *Creditor) Utilization() decimal.Decimal {
	if !c.CreditLimit.IsPositive() {
		return decimal.Zero
	}
	return c.Balance.Div(c.CreditLimit).Mul(decimal.NewFromInt(100)).Round(1)
}
