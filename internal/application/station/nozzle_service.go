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

// NozzleService manages the nozzles of a pump
type NozzleService struct {
	repos   unitofwork.Repositories
	txScope unitofwork.TransactionScope
	logger  *zap.Logger
}

// NewNozzleService creates a nozzle service
func NewNozzleService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, logger *zap.Logger) *NozzleService {
	return &NozzleService{repos: repos, txScope: txScope, logger: logger}
}

// Create adds a nozzle to a pump after checking the plan's nozzle limit.
// Nozzle numbers are unique per pump.
func (s *NozzleService) Create(ctx context.Context, actor access.Actor, input CreateNozzleInput) (*NozzleDTO, error) {
	fuel, err := station.ParseFuelType(input.FuelType)
	if err != nil {
		return nil, err
	}
	pump, err := s.repos.Pumps().FindByID(ctx, actor.TenantID, input.PumpID)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStation(pump.StationID); err != nil {
		return nil, err
	}
	nozzle, err := station.NewNozzle(actor.TenantID, pump.ID, input.NozzleNumber, fuel)
	if err != nil {
		return nil, err
	}

	var loc *station.NozzleLocation
	err = s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if err := BeforeCreateNozzle(ctx, repos, actor.TenantID, pump.ID); err != nil {
			return err
		}
		taken, err := repos.Nozzles().ExistsNumber(ctx, actor.TenantID, pump.ID, nozzle.NozzleNumber, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return shared.Errorf(shared.CodeAlreadyExists, "Nozzle number %d already exists on this pump", nozzle.NozzleNumber)
		}
		if err := repos.Nozzles().Save(ctx, nozzle); err != nil {
			return err
		}
		loc, err = repos.Nozzles().FindLocation(ctx, actor.TenantID, nozzle.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Nozzle created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("pump_id", pump.ID.String()),
		zap.String("nozzle_id", nozzle.ID.String()))
	dto := ToNozzleDTO(loc)
	return &dto, nil
}

// List returns nozzles filtered by pump, station, fuel type or status.
// Restricted actors only see nozzles of their stations.
func (s *NozzleService) List(ctx context.Context, actor access.Actor, input NozzleListInput) ([]NozzleDTO, error) {
	if input.StationID != nil {
		if err := actor.CheckStation(*input.StationID); err != nil {
			return nil, err
		}
	}
	filter := station.NozzleFilter{PumpID: input.PumpID, StationID: input.StationID}
	if input.FuelType != "" {
		fuel, err := station.ParseFuelType(input.FuelType)
		if err != nil {
			return nil, err
		}
		filter.FuelType = fuel
	}
	if input.Status != "" {
		status, err := station.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	rows, err := s.repos.Nozzles().FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]NozzleDTO, 0, len(rows))
	for i := range rows {
		if !actor.CanAccess(rows[i].StationID) {
			continue
		}
		out = append(out, ToNozzleDTO(&rows[i]))
	}
	return out, nil
}

// Get returns one nozzle with its location
func (s *NozzleService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*NozzleDTO, error) {
	loc, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	dto := ToNozzleDTO(loc)
	return &dto, nil
}

// Update changes a nozzle's number, fuel type or status
func (s *NozzleService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateNozzleInput) (*NozzleDTO, error) {
	var fuel station.FuelType
	if input.FuelType != "" {
		parsed, err := station.ParseFuelType(input.FuelType)
		if err != nil {
			return nil, err
		}
		fuel = parsed
	}
	var status station.Status
	if input.Status != "" {
		parsed, err := station.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	loc, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input.NozzleNumber > 0 && input.NozzleNumber != loc.NozzleNumber {
		taken, err := s.repos.Nozzles().ExistsNumber(ctx, actor.TenantID, loc.PumpID, input.NozzleNumber, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.Errorf(shared.CodeAlreadyExists, "Nozzle number %d already exists on this pump", input.NozzleNumber)
		}
	}
	nozzle := loc.Nozzle
	if err := nozzle.Update(input.NozzleNumber, fuel, status); err != nil {
		return nil, err
	}
	if err := s.repos.Nozzles().Save(ctx, &nozzle); err != nil {
		return nil, err
	}
	loc.Nozzle = nozzle
	dto := ToNozzleDTO(loc)
	return &dto, nil
}

// Delete removes a nozzle that has never recorded a reading
func (s *NozzleService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		readings, err := repos.Readings().CountByNozzle(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if readings > 0 {
			return shared.NewDomainError(shared.CodeInvalidState, "Cannot delete nozzle with readings")
		}
		return repos.Nozzles().Delete(ctx, actor.TenantID, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Nozzle deleted", zap.String("tenant_id", actor.TenantID.String()), zap.String("nozzle_id", id.String()))
	return nil
}

func (s *NozzleService) load(ctx context.Context, actor access.Actor, id uuid.UUID) (*station.NozzleLocation, error) {
	loc, err := s.repos.Nozzles().FindLocation(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckStation(loc.StationID); err != nil {
		return nil, err
	}
	return loc, nil
}
