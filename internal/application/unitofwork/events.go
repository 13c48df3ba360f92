package unitofwork

import (
	"context"

	"github.com/fuelsync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Events accumulates domain events raised inside a transaction so they can
// be published once it has committed
type Events struct {
	pending []shared.DomainEvent
}

// Collect drains the pending events of each aggregate; nil aggregates are skipped
func (e *Events) Collect(aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		e.pending = append(e.pending, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
}

// Add appends events that are not attached to an aggregate
func (e *Events) Add(events ...shared.DomainEvent) {
	e.pending = append(e.pending, events...)
}

// Len returns the number of pending events
func (e *Events) Len() int {
	return len(e.pending)
}

// Publish hands the pending events to pub and resets the buffer. Events are
// advisory, so a publish failure is logged and not returned.
func (e *Events) Publish(ctx context.Context, pub shared.EventPublisher, logger *zap.Logger) {
	if len(e.pending) == 0 || pub == nil {
		e.pending = nil
		return
	}
	events := e.pending
	e.pending = nil
	if err := pub.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}
