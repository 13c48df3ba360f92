package alert

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// listLimit is how many alerts a listing returns
const listLimit = 50

// AlertDTO is the API representation of an alert
type AlertDTO struct {
	ID        uuid.UUID      `json:"id"`
	StationID *uuid.UUID     `json:"station_id,omitempty"`
	Type      alert.Type     `json:"alert_type"`
	Message   string         `json:"message"`
	Severity  alert.Severity `json:"severity"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToAlertDTO converts a domain alert
func ToAlertDTO(a *alert.Alert) AlertDTO {
	return AlertDTO{
		ID:        a.ID,
		StationID: a.StationID,
		Type:      a.Type,
		Message:   a.Message,
		Severity:  a.Severity,
		IsRead:    a.IsRead,
		ReadAt:    a.ReadAt,
		CreatedAt: a.CreatedAt,
	}
}

// ListInput narrows alert listings
type ListInput struct {
	StationID  *uuid.UUID
	UnreadOnly bool
}

// AlertService lists, raises and acknowledges alerts
type AlertService struct {
	repos  unitofwork.Repositories
	logger *zap.Logger
}

// NewAlertService creates an alert service
func NewAlertService(repos unitofwork.Repositories, logger *zap.Logger) *AlertService {
	return &AlertService{repos: repos, logger: logger}
}

// Raise stores an alert unless the same type and subject already alerted
// today. It reports whether a new alert was created.
func (s *AlertService) Raise(ctx context.Context, tenantID uuid.UUID, stationID *uuid.UUID, typ alert.Type, severity alert.Severity, subject, message string) (bool, error) {
	a, err := alert.New(tenantID, stationID, typ, message, severity, subject)
	if err != nil {
		return false, err
	}
	created, err := s.repos.Alerts().Create(ctx, a)
	if err != nil {
		return false, err
	}
	if created {
		s.logger.Info("Alert raised",
			zap.String("tenant_id", tenantID.String()),
			zap.String("alert_type", string(typ)),
			zap.String("severity", string(severity)),
			zap.String("subject", subject))
	}
	return created, nil
}

// List returns the latest alerts visible to the actor
func (s *AlertService) List(ctx context.Context, actor access.Actor, input ListInput) ([]AlertDTO, error) {
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
	}
	rows, err := s.repos.Alerts().FindAll(ctx, actor.TenantID, alert.Filter{
		StationID:  input.StationID,
		UnreadOnly: input.UnreadOnly,
		Limit:      listLimit,
		StationIDs: actor.StationScope(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]AlertDTO, len(rows))
	for i := range rows {
		out[i] = ToAlertDTO(&rows[i])
	}
	return out, nil
}

// Acknowledge marks an alert read
func (s *AlertService) Acknowledge(ctx context.Context, actor access.Actor, id uuid.UUID) (*AlertDTO, error) {
	a, err := s.repos.Alerts().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if a.StationID != nil {
		if err := actor.CheckStation(*a.StationID); err != nil {
			return nil, err
		}
	}
	if !a.IsRead {
		a.Acknowledge()
		if err := s.repos.Alerts().Save(ctx, a); err != nil {
			return nil, err
		}
	}
	dto := ToAlertDTO(a)
	return &dto, nil
}

// CountUnread counts unread alerts. Restricted actors without a station
// get the sum over their assigned stations.
func (s *AlertService) CountUnread(ctx context.Context, actor access.Actor, stationID *uuid.UUID) (int64, error) {
	if stationID != nil {
		if err := actor.CheckStation(*stationID); err != nil {
			return 0, err
		}
		return s.repos.Alerts().CountUnread(ctx, actor.TenantID, stationID)
	}
	if !actor.Restricted() {
		return s.repos.Alerts().CountUnread(ctx, actor.TenantID, nil)
	}
	var total int64
	for _, id := range actor.StationIDs {
		n, err := s.repos.Alerts().CountUnread(ctx, actor.TenantID, &id)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
