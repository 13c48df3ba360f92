package alert

import (
	"context"
	"fmt"

	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/fuelsync/backend/internal/domain/credit"
	"github.com/fuelsync/backend/internal/domain/inventory"
	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification is an alert forwarded to a delivery channel
type Notification struct {
	TenantID  uuid.UUID
	StationID *uuid.UUID
	Type      alert.Type
	Severity  alert.Severity
	Message   string
}

// Notifier pushes newly raised alerts to staff.
// Implementations can support different channels (in-app, email, SMS).
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// EventHandler turns domain events into alerts
type EventHandler struct {
	alerts   *AlertService
	notifier Notifier
	logger   *zap.Logger
}

// NewEventHandler creates a handler raising alerts through alerts
func NewEventHandler(alerts *AlertService, logger *zap.Logger) *EventHandler {
	return &EventHandler{alerts: alerts, logger: logger}
}

// WithNotifier sets the notifier for newly raised alerts
func (h *EventHandler) WithNotifier(notifier Notifier) *EventHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *EventHandler) EventTypes() []string {
	return []string{
		credit.EventTypeCreditorNearLimit,
		inventory.EventTypeInventoryLow,
		reconciliation.EventTypeReconciliationShortfall,
	}
}

// Handle raises the alert matching event
func (h *EventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var n Notification
	var subject string
	switch e := event.(type) {
	case *credit.CreditorNearLimitEvent:
		stationID := e.StationID
		n = Notification{
			StationID: &stationID,
			Type:      alert.TypeCreditNearLimit,
			Severity:  alert.SeverityWarning,
			Message:   fmt.Sprintf("%s has used %s of a %s credit limit", e.PartyName, e.Balance.StringFixed(2), e.CreditLimit.StringFixed(2)),
		}
		if e.Balance.GreaterThanOrEqual(e.CreditLimit) {
			n.Severity = alert.SeverityCritical
		}
		subject = e.AggregateID().String()
	case *inventory.InventoryLowEvent:
		stationID := e.StationID
		n = Notification{
			StationID: &stationID,
			Type:      alert.TypeLowInventory,
			Severity:  alert.SeverityWarning,
			Message:   fmt.Sprintf("%s stock is low: %s L left, minimum %s L", e.FuelType, e.CurrentStock.StringFixed(3), e.MinimumLevel.StringFixed(3)),
		}
		if e.CurrentStock.IsZero() {
			n.Severity = alert.SeverityCritical
		}
		subject = e.StationID.String() + "/" + string(e.FuelType)
	case *reconciliation.ShortfallEvent:
		stationID := e.StationID
		n = Notification{
			StationID: &stationID,
			Type:      alert.TypeReconciliationShort,
			Severity:  alert.SeverityCritical,
			Message:   fmt.Sprintf("Reconciliation for %s is short by %s", e.Date, e.Difference.StringFixed(2)),
		}
		subject = e.StationID.String() + "/" + e.Date
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	n.TenantID = event.TenantID()

	created, err := h.alerts.Raise(ctx, n.TenantID, n.StationID, n.Type, n.Severity, subject, n.Message)
	if err != nil {
		return err
	}
	if !created || h.notifier == nil {
		return nil
	}
	if err := h.notifier.Notify(ctx, n); err != nil {
		// the alert is stored; a failed push must not fail event handling
		h.logger.Error("failed to send alert notification",
			zap.String("alert_type", string(n.Type)),
			zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*EventHandler)(nil)

// LoggingNotifier writes notifications to the log
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a new logging notifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// Notify logs the notification
func (n *LoggingNotifier) Notify(_ context.Context, note Notification) error {
	fields := []zap.Field{
		zap.String("tenant_id", note.TenantID.String()),
		zap.String("type", string(note.Type)),
		zap.String("severity", string(note.Severity)),
		zap.String("message", note.Message),
	}
	if note.StationID != nil {
		fields = append(fields, zap.String("station_id", note.StationID.String()))
	}
	n.logger.Warn("ALERT", fields...)
	return nil
}

var _ Notifier = (*LoggingNotifier)(nil)
