package identity

import (
	"context"
	"errors"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanService manages subscription plans (superadmin)
type PlanService struct {
	plans    identity.PlanRepository
	defaults identity.PlanLimits
	logger   *zap.Logger
}

// NewPlanService creates a plan service. defaults fill limits left at zero
// on create; zero defaults fall back to the built-in plan defaults.
func NewPlanService(plans identity.PlanRepository, defaults identity.PlanLimits, logger *zap.Logger) *PlanService {
	return &PlanService{plans: plans, defaults: defaults, logger: logger}
}

// Create creates a plan with a unique name
func (s *PlanService) Create(ctx context.Context, input CreatePlanInput) (*PlanDTO, error) {
	if _, err := s.plans.FindByName(ctx, input.Name); err == nil {
		return nil, shared.Errorf(shared.CodeAlreadyExists, "Plan %q already exists", input.Name)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	limits := identity.PlanLimits{
		MaxStations:        firstPositive(input.MaxStations, s.defaults.MaxStations),
		MaxPumpsPerStation: firstPositive(input.MaxPumpsPerStation, s.defaults.MaxPumpsPerStation),
		MaxNozzlesPerPump:  firstPositive(input.MaxNozzlesPerPump, s.defaults.MaxNozzlesPerPump),
	}
	plan, err := identity.NewPlan(input.Name, limits, input.PriceMonthly, input.PriceYearly, input.Features)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Plan created", zap.String("plan_id", plan.ID.String()), zap.String("name", plan.Name))
	dto := ToPlanDTO(plan)
	return &dto, nil
}

// List returns every plan ordered by name
func (s *PlanService) List(ctx context.Context) ([]PlanDTO, error) {
	plans, err := s.plans.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PlanDTO, len(plans))
	for i := range plans {
		out[i] = ToPlanDTO(&plans[i])
	}
	return out, nil
}

// Get returns one plan
func (s *PlanService) Get(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToPlanDTO(plan)
	return &dto, nil
}

// Update applies a partial update. Lowering limits does not affect existing
// hierarchies; the new limits only gate future creations.
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, update identity.PlanUpdate) (*PlanDTO, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil && *update.Name != plan.Name {
		if other, err := s.plans.FindByName(ctx, *update.Name); err == nil && other.ID != plan.ID {
			return nil, shared.Errorf(shared.CodeAlreadyExists, "Plan %q already exists", *update.Name)
		}
	}
	if err := plan.Apply(update); err != nil {
		return nil, err
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	dto := ToPlanDTO(plan)
	return &dto, nil
}

// Delete removes a plan that no tenant is subscribed to
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.plans.FindByID(ctx, id); err != nil {
		return err
	}
	n, err := s.plans.CountTenants(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot delete plan that is in use by tenants")
	}
	if err := s.plans.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Plan deleted", zap.String("plan_id", id.String()))
	return nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
