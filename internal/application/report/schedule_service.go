package report

import (
	"context"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/report"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateSchedule stores a recurring report request
func (s *ReportService) CreateSchedule(ctx context.Context, actor access.Actor, input CreateScheduleInput) (*ScheduleDTO, error) {
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
		if _, err := s.repos.Stations().FindByID(ctx, actor.TenantID, *input.StationID); err != nil {
			return nil, err
		}
	}
	schedule, err := report.NewSchedule(actor.TenantID, input.StationID,
		report.ScheduleType(input.Type), report.Period(input.Frequency), actor.UserRef(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repos.ReportSchedules().Save(ctx, schedule); err != nil {
		return nil, err
	}
	s.logger.Info("Report scheduled",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("type", string(schedule.Type)),
		zap.String("frequency", string(schedule.Frequency)))
	dto := ToScheduleDTO(schedule)
	return &dto, nil
}

// ListSchedules returns the schedules of the caller's stations and the
// tenant-wide ones, soonest run first
func (s *ReportService) ListSchedules(ctx context.Context, actor access.Actor) ([]ScheduleDTO, error) {
	rows, err := s.repos.ReportSchedules().FindAll(ctx, actor.TenantID, actor.StationScope())
	if err != nil {
		return nil, err
	}
	out := make([]ScheduleDTO, len(rows))
	for i := range rows {
		out[i] = ToScheduleDTO(&rows[i])
	}
	return out, nil
}

// DeleteSchedule removes a schedule
func (s *ReportService) DeleteSchedule(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	schedule, err := s.repos.ReportSchedules().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if schedule.StationID != nil {
		if err := actor.CheckStation(*schedule.StationID); err != nil {
			return err
		}
	}
	return s.repos.ReportSchedules().Delete(ctx, actor.TenantID, id)
}
