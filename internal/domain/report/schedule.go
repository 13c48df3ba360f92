package report

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ScheduleType is the report a schedule produces
type ScheduleType string

const (
	ScheduleSales     ScheduleType = "sales"
	ScheduleFinancial ScheduleType = "financial"
)

// Schedule asks for a report of one station, or of every station when
// StationID is nil, on a fixed cadence
type Schedule struct {
	shared.TenantEntity
	StationID *uuid.UUID
	Type      ScheduleType
	Frequency Period
	CreatedBy *uuid.UUID
	NextRunAt time.Time
}

// NewSchedule validates and creates a schedule due at the next period
// boundary after now. Frequency is daily, weekly or monthly.
func NewSchedule(tenantID uuid.UUID, stationID *uuid.UUID, typ ScheduleType, frequency Period, by *uuid.UUID, now time.Time) (*Schedule, error) {
	switch typ {
	case ScheduleSales, ScheduleFinancial:
	default:
		return nil, shared.Errorf(shared.CodeInvalidInput, "Invalid report type: %s", typ)
	}
	switch frequency {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return nil, shared.Errorf(shared.CodeInvalidInput, "Invalid frequency: %s", frequency)
	}
	return &Schedule{
		TenantEntity: shared.NewTenantEntity(tenantID),
		StationID:    stationID,
		Type:         typ,
		Frequency:    frequency,
		CreatedBy:    by,
		NextRunAt:    frequency.Next(now),
	}, nil
}

// Next returns the first period boundary strictly after t: the next UTC
// midnight, the next Monday or the first of the next month
func (p Period) Next(t time.Time) time.Time {
	today := shared.StartOfDay(t)
	switch p {
	case PeriodWeekly:
		days := (8 - int(today.Weekday())) % 7
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days)
	case PeriodMonthly:
		return time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	case PeriodYearly:
		return time.Date(today.Year()+1, 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return today.AddDate(0, 0, 1)
	}
}

// ScheduleRepository persists report schedules
type ScheduleRepository interface {
	Save(ctx context.Context, s *Schedule) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Schedule, error)
	// FindAll lists schedules by next run; stationIDs limits the result to
	// those stations and tenant-wide schedules when non-nil
	FindAll(ctx context.Context, tenantID uuid.UUID, stationIDs []uuid.UUID) ([]Schedule, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
