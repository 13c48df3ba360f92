package reconciliation

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Totals is a per payment method breakdown
type Totals struct {
	Cash   decimal.Decimal `json:"cash"`
	Card   decimal.Decimal `json:"card"`
	UPI    decimal.Decimal `json:"upi"`
	Credit decimal.Decimal `json:"credit"`
}

// Sum returns the total across payment methods
func (t Totals) Sum() decimal.Decimal {
	return t.Cash.Add(t.Card).Add(t.UPI).Add(t.Credit)
}

// Add returns the element-wise sum
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Cash:   t.Cash.Add(o.Cash),
		Card:   t.Card.Add(o.Card),
		UPI:    t.UPI.Add(o.UPI),
		Credit: t.Credit.Add(o.Credit),
	}
}

// TotalsFromMethods builds Totals from a payment method map
func TotalsFromMethods(m map[sales.PaymentMethod]decimal.Decimal) Totals {
	return Totals{
		Cash:   m[sales.PaymentCash],
		Card:   m[sales.PaymentCard],
		UPI:    m[sales.PaymentUPI],
		Credit: m[sales.PaymentCredit],
	}
}

// DayReconciliation is the reconciliation of one station for one business day
type DayReconciliation struct {
	shared.TenantAggregateRoot
	StationID    uuid.UUID
	Date         time.Time
	Expected     Totals
	Declared     Totals
	TotalSales   decimal.Decimal
	TotalCollect decimal.Decimal
	Difference   decimal.Decimal
	Outcome      Outcome
	Finalized    bool
	ReconciledBy *uuid.UUID
	ApprovedBy   *uuid.UUID
	ApprovedAt   *time.Time
}

// Run computes a finalized reconciliation for a station day. existing is the
// previously stored row for the same day, if any, and is updated in place.
func Run(tenantID, stationID uuid.UUID, date time.Time, expected, declared Totals, by *uuid.UUID, existing *DayReconciliation) (*DayReconciliation, error) {
	if existing != nil && existing.Finalized {
		return nil, shared.NewDomainError(shared.CodeDayFinalized, "Reconciliation already finalized")
	}
	r := existing
	if r == nil {
		r = &DayReconciliation{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			StationID:           stationID,
			Date:                shared.StartOfDay(date),
		}
	}
	r.Expected = expected
	r.Declared = declared
	r.TotalSales = shared.RoundMoney(expected.Sum())
	r.TotalCollect = shared.RoundMoney(declared.Sum())
	r.Difference = Difference(r.TotalSales, r.TotalCollect)
	r.Outcome = Classify(r.Difference)
	r.Finalized = true
	r.ReconciledBy = by
	r.Touch()
	if r.Outcome == OutcomeShortfall {
		r.AddDomainEvent(NewShortfallEvent(r))
	}
	return r, nil
}

// Approve records the approving manager. Approval also finalizes an open day.
func (r *DayReconciliation) Approve(by uuid.UUID) error {
	if r.ApprovedBy != nil {
		return shared.NewDomainError(shared.CodeInvalidState, "Reconciliation already approved")
	}
	now := time.Now().UTC()
	r.ApprovedBy = &by
	r.ApprovedAt = &now
	r.Finalized = true
	r.Touch()
	return nil
}

// SummaryRow is one reading line of a daily summary
type SummaryRow struct {
	ReadingID       uuid.UUID       `json:"reading_id"`
	NozzleID        uuid.UUID       `json:"nozzle_id"`
	NozzleNumber    int             `json:"nozzle_number"`
	PumpName        string          `json:"pump_name"`
	FuelType        string          `json:"fuel_type"`
	PreviousReading decimal.Decimal `json:"previous_reading"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
	DeltaVolume     decimal.Decimal `json:"delta_volume"`
	PricePerLitre   decimal.Decimal `json:"price_per_litre"`
	SaleValue       decimal.Decimal `json:"sale_value"`
	PaymentMethod   string          `json:"payment_method"`
	RecordedAt      time.Time       `json:"recorded_at"`
}
