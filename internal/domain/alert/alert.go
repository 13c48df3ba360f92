package alert

import (
	"context"
	"strings"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Severity ranks alerts
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Type identifies the rule or event that produced an alert
type Type string

const (
	TypeNoReadings          Type = "no_readings_24h"
	TypeMissingPrice        Type = "missing_price"
	TypeCreditNearLimit     Type = "credit_near_limit"
	TypeStationInactive     Type = "station_inactive"
	TypeMaintenanceOverdue  Type = "maintenance_overdue"
	TypeReadingJump         Type = "reading_jump"
	TypeMissingCashReport   Type = "missing_cash_report"
	TypeLowInventory        Type = "low_inventory"
	TypeReconciliationShort Type = "reconciliation_shortfall"
)

// Alert is a notification shown to station staff
type Alert struct {
	shared.TenantEntity
	StationID *uuid.UUID
	Type      Type
	Message   string
	Severity  Severity
	// DedupKey identifies the subject; one alert per type, subject and day
	DedupKey string
	IsRead   bool
	ReadAt   *time.Time
}

// New creates an unread alert
func New(tenantID uuid.UUID, stationID *uuid.UUID, typ Type, message string, severity Severity, subject string) (*Alert, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Alert message cannot be empty")
	}
	switch severity {
	case SeverityInfo, SeverityWarning, SeverityCritical:
	default:
		return nil, shared.Errorf(shared.CodeInvalidInput, "Invalid severity: %s", severity)
	}
	a := &Alert{
		TenantEntity: shared.NewTenantEntity(tenantID),
		StationID:    stationID,
		Type:         typ,
		Message:      message,
		Severity:     severity,
	}
	a.DedupKey = DedupKey(typ, subject, a.CreatedAt)
	return a, nil
}

// DedupKey builds the per type, subject and day key
func DedupKey(typ Type, subject string, at time.Time) string {
	return string(typ) + ":" + subject + ":" + at.UTC().Format("2006-01-02")
}

// Acknowledge marks the alert read
func (a *Alert) Acknowledge() {
	if a.IsRead {
		return
	}
	now := time.Now().UTC()
	a.IsRead = true
	a.ReadAt = &now
	a.Touch()
}

// Filter narrows alert listings
type Filter struct {
	StationID  *uuid.UUID
	UnreadOnly bool
	Limit      int
	StationIDs []uuid.UUID
}

// Repository persists alerts
type Repository interface {
	// Create inserts an alert unless one with the same dedup key exists.
	// It reports whether a row was inserted.
	Create(ctx context.Context, a *Alert) (bool, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Alert, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Alert, error)
	CountUnread(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID) (int64, error)
	Save(ctx context.Context, a *Alert) error
}
