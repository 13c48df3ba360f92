package reconciliation

import (
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeReconciliation = "DayReconciliation"

const EventTypeReconciliationShortfall = "ReconciliationShortfall"

// ShortfallEvent is published when a day closes with less collected than sold
type ShortfallEvent struct {
	shared.BaseDomainEvent
	StationID  uuid.UUID       `json:"station_id"`
	Date       string          `json:"date"`
	Difference decimal.Decimal `json:"difference"`
}

// NewShortfallEvent creates a new ShortfallEvent
func NewShortfallEvent(r *DayReconciliation) *ShortfallEvent {
	return &ShortfallEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReconciliationShortfall, AggregateTypeReconciliation, r.ID, r.TenantID),
		StationID:       r.StationID,
		Date:            r.Date.Format("2006-01-02"),
		Difference:      r.Difference,
	}
}
