package sales

import (
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeReading = "NozzleReading"

const (
	EventTypeReadingRecorded = "ReadingRecorded"
	EventTypeReadingVoided   = "ReadingVoided"
)

// ReadingRecordedEvent is published after a reading and its sale are stored
type ReadingRecordedEvent struct {
	shared.BaseDomainEvent
	StationID uuid.UUID       `json:"station_id"`
	NozzleID  uuid.UUID       `json:"nozzle_id"`
	FuelType  string          `json:"fuel_type"`
	Volume    decimal.Decimal `json:"volume"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewReadingRecordedEvent creates a new ReadingRecordedEvent
func NewReadingRecordedEvent(r *Reading, sale *Sale) *ReadingRecordedEvent {
	return &ReadingRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReadingRecorded, AggregateTypeReading, r.ID, r.TenantID),
		StationID:       r.StationID,
		NozzleID:        r.NozzleID,
		FuelType:        sale.FuelType,
		Volume:          sale.Volume,
		Amount:          sale.Amount,
	}
}

// ReadingVoidedEvent is published when a reading is voided
type ReadingVoidedEvent struct {
	shared.BaseDomainEvent
	StationID uuid.UUID `json:"station_id"`
	NozzleID  uuid.UUID `json:"nozzle_id"`
	Reason    string    `json:"reason"`
}

// NewReadingVoidedEvent creates a new ReadingVoidedEvent
func NewReadingVoidedEvent(r *Reading) *ReadingVoidedEvent {
	return &ReadingVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReadingVoided, AggregateTypeReading, r.ID, r.TenantID),
		StationID:       r.StationID,
		NozzleID:        r.NozzleID,
		Reason:          r.VoidReason,
	}
}
