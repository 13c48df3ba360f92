package models

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/alert"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertModel is the persistence model for alerts
type AlertModel struct {
	BaseModel
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_alerts_dedup,priority:1"`
	StationID *uuid.UUID     `gorm:"type:uuid;index"`
	AlertType alert.Type     `gorm:"type:varchar(50);not null"`
	Message   string         `gorm:"type:text;not null"`
	Severity  alert.Severity `gorm:"type:varchar(20);not null"`
	DedupKey  string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_alerts_dedup,priority:2"`
	IsRead    bool           `gorm:"not null;default:false"`
	ReadAt    *time.Time
}

// TableName returns the table name for GORM
func (AlertModel) TableName() string {
	return "alerts"
}

// ToDomain converts the persistence model to a domain Alert
func (m *AlertModel) ToDomain() *alert.Alert {
	return &alert.Alert{
		TenantEntity: shared.TenantEntity{BaseEntity: m.BaseModel.ToDomain(), TenantID: m.TenantID},
		StationID:    m.StationID,
		Type:         m.AlertType,
		Message:      m.Message,
		Severity:     m.Severity,
		DedupKey:     m.DedupKey,
		IsRead:       m.IsRead,
		ReadAt:       m.ReadAt,
	}
}

// AlertModelFromDomain creates a persistence model from a domain Alert
func AlertModelFromDomain(a *alert.Alert) *AlertModel {
	m := &AlertModel{
		StationID: a.StationID,
		AlertType: a.Type,
		Message:   a.Message,
		Severity:  a.Severity,
		DedupKey:  a.DedupKey,
		IsRead:    a.IsRead,
		ReadAt:    a.ReadAt,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	m.TenantID = a.TenantID
	return m
}
