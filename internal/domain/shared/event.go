package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate of one tenant.
// Events are raised inside a unit of work and published after it commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent is embedded by concrete events
type BaseDomainEvent struct {
	Meta EventMeta `json:"meta"`
}

// EventMeta is the envelope shared by every event
type EventMeta struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurred_at"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	TenantID      uuid.UUID `json:"tenant_id"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.Meta.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Meta.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Meta.OccurredAt }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Meta.AggregateID }
func (e *BaseDomainEvent) AggregateType() string  { return e.Meta.AggregateType }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.Meta.TenantID }

// NewBaseDomainEvent stamps a new event of eventType raised by the
// aggregate aggID of tenantID
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{Meta: EventMeta{
		ID:            uuid.New(),
		Type:          eventType,
		OccurredAt:    time.Now().UTC(),
		AggregateID:   aggID,
		AggregateType: aggType,
		TenantID:      tenantID,
	}}
}
