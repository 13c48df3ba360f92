package models

import (
	"time"

	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/google/uuid"
)

// ReportScheduleModel is the persistence model for report schedules
type ReportScheduleModel struct {
	TenantModel
	StationID *uuid.UUID          `gorm:"type:uuid;index"`
	Type      report.ScheduleType `gorm:"column:type;type:varchar(20);not null"`
	Frequency report.Period       `gorm:"type:varchar(20);not null"`
	CreatedBy *uuid.UUID          `gorm:"type:uuid"`
	NextRunAt time.Time           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ReportScheduleModel) TableName() string {
	return "report_schedules"
}

// ToDomain converts the persistence model to a domain Schedule
func (m *ReportScheduleModel) ToDomain() *report.Schedule {
	return &report.Schedule{
		TenantEntity: m.ToTenantEntity(),
		StationID:    m.StationID,
		Type:         m.Type,
		Frequency:    m.Frequency,
		CreatedBy:    m.CreatedBy,
		NextRunAt:    m.NextRunAt,
	}
}

// ReportScheduleModelFromDomain creates a persistence model from a domain Schedule
func ReportScheduleModelFromDomain(s *report.Schedule) *ReportScheduleModel {
	m := &ReportScheduleModel{
		StationID: s.StationID,
		Type:      s.Type,
		Frequency: s.Frequency,
		CreatedBy: s.CreatedBy,
		NextRunAt: s.NextRunAt,
	}
	m.FromTenantEntity(s.TenantEntity)
	return m
}
