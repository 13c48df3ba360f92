package reconciliation

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift is the attendant shift a cash report covers
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
	ShiftFullDay   Shift = "full_day"
)

// CashReport is what an attendant declares to have collected for a day or shift
type CashReport struct {
	shared.TenantEntity
	StationID    uuid.UUID
	UserID       uuid.UUID
	Date         time.Time
	Shift        Shift
	CashAmount   decimal.Decimal
	CardAmount   decimal.Decimal
	UPIAmount    decimal.Decimal
	CreditAmount decimal.Decimal
	Notes        string
}

// NewCashReport creates a report; the credit amount is filled in from credit entries
func NewCashReport(tenantID, stationID, userID uuid.UUID, date time.Time, shift Shift, cash, card, upi decimal.Decimal, notes string) (*CashReport, error) {
	if cash.IsNegative() || card.IsNegative() || upi.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Declared amounts cannot be negative")
	}
	if shift == "" {
		shift = ShiftFullDay
	}
	switch shift {
	case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftFullDay:
	default:
		return nil, shared.Errorf(shared.CodeInvalidInput, "Invalid shift: %s", shift)
	}
	return &CashReport{
		TenantEntity: shared.NewTenantEntity(tenantID),
		StationID:    stationID,
		UserID:       userID,
		Date:         shared.StartOfDay(date),
		Shift:        shift,
		CashAmount:   shared.RoundMoney(cash),
		CardAmount:   shared.RoundMoney(card),
		UPIAmount:    shared.RoundMoney(upi),
		CreditAmount: decimal.Zero,
		Notes:        notes,
	}, nil
}

// AddCredit accumulates a credit entry amount
func (c *CashReport) AddCredit(amount decimal.Decimal) {
	c.CreditAmount = shared.RoundMoney(c.CreditAmount.Add(amount))
}

// Totals returns the declared breakdown
func (c *CashReport) Totals() Totals {
	return Totals{Cash: c.CashAmount, Card: c.CardAmount, UPI: c.UPIAmount, Credit: c.CreditAmount}
}

// Total returns the declared total
func (c *CashReport) Total() decimal.Decimal {
	return c.Totals().Sum()
}

// CreditEntry is a credit sale declared on a cash report
type CreditEntry struct {
	CreditorID uuid.UUID
	FuelType   string
	Litres     decimal.Decimal
	Amount     decimal.Decimal
}

// Validate requires exactly one of litres or amount to be positive
func (e CreditEntry) Validate() error {
	if e.CreditorID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Credit entry requires a creditor")
	}
	hasLitres := e.Litres.IsPositive()
	hasAmount := e.Amount.IsPositive()
	if hasLitres == hasAmount {
		return shared.NewDomainError(shared.CodeInvalidInput, "Credit entry requires either litres or amount")
	}
	return nil
}

// Quantities resolves litres and amount at a price per litre
func (e CreditEntry) Quantities(price decimal.Decimal) (litres, amount decimal.Decimal) {
	if e.Litres.IsPositive() {
		litres = shared.RoundVolume(e.Litres)
		return litres, shared.RoundMoney(litres.Mul(price))
	}
	amount = shared.RoundMoney(e.Amount)
	if price.IsPositive() {
		litres = shared.RoundVolume(amount.DivRound(price, shared.VolumeScale))
	}
	return litres, amount
}
