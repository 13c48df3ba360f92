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

// StationService manages the stations of a tenant
type StationService struct {
	repos   unitofwork.Repositories
	txScope unitofwork.TransactionScope
	logger  *zap.Logger
}

// NewStationService creates a station service
func NewStationService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, logger *zap.Logger) *StationService {
	return &StationService{repos: repos, txScope: txScope, logger: logger}
}

// Create adds a station after checking the plan's station limit
func (s *StationService) Create(ctx context.Context, actor access.Actor, input CreateStationInput) (*StationDTO, error) {
	st, err := station.NewStation(actor.TenantID, input.Name, input.Address)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if err := BeforeCreateStation(ctx, repos, actor.TenantID); err != nil {
			return err
		}
		exists, err := repos.Stations().ExistsByName(ctx, actor.TenantID, st.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return shared.Errorf(shared.CodeAlreadyExists, "Station %q already exists", st.Name)
		}
		return repos.Stations().Save(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Station created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("station_id", st.ID.String()))
	dto := ToStationDTO(st)
	return &dto, nil
}

// List returns the stations visible to the actor with their pump counts
func (s *StationService) List(ctx context.Context, actor access.Actor, filter shared.Filter) (*shared.Paginated[StationDTO], error) {
	if scope := actor.StationScope(); scope != nil {
		if filter.Filters == nil {
			filter.Filters = map[string]any{}
		}
		filter.Filters["ids"] = scope
	}
	rows, total, err := s.repos.Stations().FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]StationDTO, len(rows))
	for i := range rows {
		items[i] = ToStationDTO(&rows[i].Station)
		count := rows[i].PumpCount
		items[i].PumpCount = &count
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one station
func (s *StationService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*StationDTO, error) {
	if err := actor.CheckStation(id); err != nil {
		return nil, err
	}
	st, err := s.repos.Stations().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repos.Pumps().CountByStation(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToStationDTO(st)
	dto.PumpCount = &count
	return &dto, nil
}

// Update changes a station's name, address or status
func (s *StationService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateStationInput) (*StationDTO, error) {
	if err := actor.CheckStation(id); err != nil {
		return nil, err
	}
	var status station.Status
	if input.Status != "" {
		parsed, err := station.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	st, err := s.repos.Stations().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		exists, err := s.repos.Stations().ExistsByName(ctx, actor.TenantID, input.Name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.Errorf(shared.CodeAlreadyExists, "Station %q already exists", input.Name)
		}
	}
	st.Update(input.Name, input.Address, status)
	if err := s.repos.Stations().Save(ctx, st); err != nil {
		return nil, err
	}
	dto := ToStationDTO(st)
	return &dto, nil
}

// Delete removes a station that has no pumps
func (s *StationService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.CheckStation(id); err != nil {
		return err
	}
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Stations().FindByID(ctx, actor.TenantID, id); err != nil {
			return err
		}
		pumps, err := repos.Pumps().CountByStation(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if pumps > 0 {
			return shared.NewDomainError(shared.CodeInvalidState, "Cannot delete station with pumps")
		}
		return repos.Stations().Delete(ctx, actor.TenantID, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Station deleted", zap.String("tenant_id", actor.TenantID.String()), zap.String("station_id", id.String()))
	return nil
}

// PlanUsage reports station, pump and nozzle usage against the tenant's plan
func (s *StationService) PlanUsage(ctx context.Context, tenantID uuid.UUID) (*PlanUsageDTO, error) {
	tenant, err := s.repos.Tenants().FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	plan, err := s.repos.Plans().FindByID(ctx, tenant.PlanID)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 0
	stations, total, err := s.repos.Stations().FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	usage := &PlanUsageDTO{
		PlanID:   plan.ID,
		PlanName: plan.Name,
		Stations: station.Usage{Used: total, Limit: plan.MaxStations},
		Pumps:    make([]PumpUsage, 0, len(stations)),
		Nozzles:  []NozzleUsage{},
	}
	for _, st := range stations {
		usage.Pumps = append(usage.Pumps, PumpUsage{
			StationID:   st.ID,
			StationName: st.Name,
			Usage:       station.Usage{Used: st.PumpCount, Limit: plan.MaxPumpsPerStation},
		})
		pumps, err := s.repos.Pumps().FindByStation(ctx, tenantID, st.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range pumps {
			usage.Nozzles = append(usage.Nozzles, NozzleUsage{
				PumpID:    p.ID,
				PumpName:  p.Name,
				StationID: st.ID,
				Usage:     station.Usage{Used: p.NozzleCount, Limit: plan.MaxNozzlesPerPump},
			})
		}
	}
	return usage, nil
}
