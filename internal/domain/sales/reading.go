package sales

import (
	"strings"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reading is a cumulative meter reading of a nozzle. Readings are never
// edited; a wrong entry is voided and re-recorded.
type Reading struct {
	shared.TenantAggregateRoot
	NozzleID      uuid.UUID
	StationID     uuid.UUID
	Reading       decimal.Decimal
	RecordedAt    time.Time
	PaymentMethod PaymentMethod
	CreditorID    *uuid.UUID
	RecordedBy    *uuid.UUID
	Voided        bool
	VoidReason    string
	VoidedAt      *time.Time
	VoidedBy      *uuid.UUID
}

// NewReading validates a reading against the last non-voided reading of the
// same nozzle. last may be nil for the first reading.
func NewReading(tenantID, stationID, nozzleID uuid.UUID, value decimal.Decimal, recordedAt time.Time, method PaymentMethod, creditorID, recordedBy *uuid.UUID, last *Reading) (*Reading, error) {
	if value.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Reading cannot be negative")
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	if last != nil {
		if value.LessThan(last.Reading) {
			return nil, shared.Errorf(shared.CodeReadingRegression,
				"Reading must be >= last reading (%s)", last.Reading.String())
		}
		if recordedAt.Before(last.RecordedAt) {
			return nil, shared.NewDomainError(shared.CodeReadingRegression,
				"Reading time cannot precede the last reading")
		}
	}
	r := &Reading{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		NozzleID:            nozzleID,
		StationID:           stationID,
		Reading:             shared.RoundVolume(value),
		RecordedAt:          recordedAt.UTC(),
		PaymentMethod:       method,
		CreditorID:          creditorID,
		RecordedBy:          recordedBy,
	}
	return r, nil
}

// Delta returns the dispensed volume since last, treating a missing
// previous reading as a meter starting at zero
func (r *Reading) Delta(last *Reading) decimal.Decimal {
	prev := decimal.Zero
	if last != nil {
		prev = last.Reading
	}
	return shared.RoundVolume(r.Reading.Sub(prev))
}

// Void soft-invalidates the reading
func (r *Reading) Void(reason string, by *uuid.UUID) error {
	if r.Voided {
		return shared.NewDomainError(shared.CodeInvalidState, "Reading already voided")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Void reason is required")
	}
	now := time.Now().UTC()
	r.Voided = true
	r.VoidReason = reason
	r.VoidedAt = &now
	r.VoidedBy = by
	r.Touch()
	r.AddDomainEvent(NewReadingVoidedEvent(r))
	return nil
}

// ReadingView is a reading row with its nozzle context and the previous
// non-voided reading of the same nozzle
type ReadingView struct {
	ID              uuid.UUID
	NozzleID        uuid.UUID
	NozzleNumber    int
	FuelType        string
	PumpID          uuid.UUID
	PumpName        string
	StationID       uuid.UUID
	StationName     string
	Reading         decimal.Decimal
	PreviousReading *decimal.Decimal
	RecordedAt      time.Time
	PaymentMethod   PaymentMethod
	Voided          bool
	RecordedBy      string
}
