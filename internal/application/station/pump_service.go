package station

import (
	"context"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PumpService manages the pumps of a station
type PumpService struct {
	repos   unitofwork.Repositories
	txScope unitofwork.TransactionScope
	logger  *zap.Logger
}

// NewPumpService creates a pump service
func NewPumpService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, logger *zap.Logger) *PumpService {
	return &PumpService{repos: repos, txScope: txScope, logger: logger}
}

// Create adds a pump to a station after checking the plan's pump limit
func (s *PumpService) Create(ctx context.Context, actor access.Actor, input CreatePumpInput) (*PumpDTO, error) {
	if err := actor.CheckStation(input.StationID); err != nil {
		return nil, err
	}
	pump, err := station.NewPump(actor.TenantID, input.StationID, input.Name, input.SerialNumber)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Stations().FindByID(ctx, actor.TenantID, input.StationID); err != nil {
			return err
		}
		if err := BeforeCreatePump(ctx, repos, actor.TenantID, input.StationID); err != nil {
			return err
		}
		return repos.Pumps().Save(ctx, pump)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Pump created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("station_id", input.StationID.String()),
		zap.String("pump_id", pump.ID.String()))
	dto := ToPumpDTO(pump)
	return &dto, nil
}

// ListByStation returns a station's pumps with their nozzle counts
func (s *PumpService) ListByStation(ctx context.Context, actor access.Actor, stationID uuid.UUID) ([]PumpDTO, error) {
	if err := actor.CheckStation(stationID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Stations().FindByID(ctx, actor.TenantID, stationID); err != nil {
		return nil, err
	}
	rows, err := s.repos.Pumps().FindByStation(ctx, actor.TenantID, stationID)
	if err != nil {
		return nil, err
	}
	out := make([]PumpDTO, len(rows))
	for i := range rows {
		out[i] = ToPumpDTO(&rows[i].Pump)
		count := rows[i].NozzleCount
		out[i].NozzleCount = &count
	}
	return out, nil
}

// Get returns one pump
func (s *PumpService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*PumpDTO, error) {
	pump, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repos.Nozzles().CountByPump(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToPumpDTO(pump)
	dto.NozzleCount = &count
	return &dto, nil
}

// Update changes a pump's name, serial number or status
func (s *PumpService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdatePumpInput) (*PumpDTO, error) {
	var status station.Status
	if input.Status != "" {
		parsed, err := station.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	pump, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	pump.Update(input.Name, input.SerialNumber, status)
	if err := s.repos.Pumps().Save(ctx, pump); err != nil {
		return nil, err
	}
	dto := ToPumpDTO(pump)
	return &dto, nil
}

// Delete removes a pump that has no nozzles
func (s *PumpService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		nozzles, err := repos.Nozzles().CountByPump(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if nozzles > 0 {
			return shared.NewDomainError(shared.CodeInvalidState, "Cannot delete pump with nozzles")
		}
		return repos.Pumps().Delete(ctx, actor.TenantID, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Pump deleted", zap.String("tenant_id", actor.TenantID.String()), zap.String("pump_id", id.String()))
	return nil
}

func (s *PumpService) load(ctx context.Context, actor access.Actor, id uuid.UUID) (*station.Pump, error) {
	pump, err := s.repos.Pumps().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStation(pump.StationID); err != nil {
		return nil, err
	}
	return pump, nil
}
