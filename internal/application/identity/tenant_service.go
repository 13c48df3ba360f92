package identity

import (
	"context"
	"fmt"

	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// provisionedRoles are the accounts created with every tenant
var provisionedRoles = []identity.Role{identity.RoleOwner, identity.RoleManager, identity.RoleAttendant}

// TenantService manages tenants (superadmin)
type TenantService struct {
	repos   unitofwork.Repositories
	txScope unitofwork.TransactionScope
	logger  *zap.Logger
}

// NewTenantService creates a tenant service
func NewTenantService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, logger *zap.Logger) *TenantService {
	return &TenantService{repos: repos, txScope: txScope, logger: logger}
}

// Create creates a tenant and its owner, manager and attendant accounts in
// one transaction. The generated passwords are returned once.
func (s *TenantService) Create(ctx context.Context, input CreateTenantInput) (*CreateTenantResult, error) {
	var result *CreateTenantResult
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		plan, err := repos.Plans().FindByID(ctx, input.PlanID)
		if err != nil {
			return err
		}
		if _, err := repos.Tenants().FindByName(ctx, input.Name); err == nil {
			return shared.Errorf(shared.CodeAlreadyExists, "Tenant %q already exists", input.Name)
		}

		tenant, err := identity.NewTenant(input.Name, plan.ID)
		if err != nil {
			return err
		}
		if err := repos.Tenants().Save(ctx, tenant); err != nil {
			return err
		}

		result = &CreateTenantResult{Tenant: ToTenantDTO(tenant)}
		result.Tenant.PlanName = plan.Name
		for _, role := range provisionedRoles {
			user, password, err := provisionUser(tenant, role, input)
			if err != nil {
				return err
			}
			if err := repos.Users().Save(ctx, user); err != nil {
				return err
			}
			result.Users = append(result.Users, ProvisionedUser{UserDTO: ToUserDTO(user), Password: password})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tenant created",
		zap.String("tenant_id", result.Tenant.ID.String()),
		zap.String("name", result.Tenant.Name),
		zap.Int("users", len(result.Users)))
	return result, nil
}

func provisionUser(tenant *identity.Tenant, role identity.Role, input CreateTenantInput) (*identity.User, string, error) {
	email := fmt.Sprintf("%s@%s.fuelsync.com", role, tenant.Slug())
	name := fmt.Sprintf("%s %s", tenant.Name, roleTitle(role))
	password := ""
	if role == identity.RoleOwner {
		if input.OwnerEmail != "" {
			email = input.OwnerEmail
		}
		if input.OwnerName != "" {
			name = input.OwnerName
		}
		password = input.OwnerPassword
	}
	if password == "" {
		generated, err := identity.GeneratePassword()
		if err != nil {
			return nil, "", fmt.Errorf("generate password: %w", err)
		}
		password = generated
	}
	user, err := identity.NewUser(tenant.ID, email, name, role, password)
	if err != nil {
		return nil, "", err
	}
	return user, password, nil
}

func roleTitle(role identity.Role) string {
	switch role {
	case identity.RoleOwner:
		return "Owner"
	case identity.RoleManager:
		return "Manager"
	default:
		return "Attendant"
	}
}

// List returns tenants matching the filter; deleted tenants are included
// only when the status filter asks for them
func (s *TenantService) List(ctx context.Context, filter identity.TenantFilter) (*shared.Paginated[TenantDTO], error) {
	tenants, total, err := s.repos.Tenants().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	planNames, err := s.planNames(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]TenantDTO, len(tenants))
	for i := range tenants {
		items[i] = ToTenantDTO(&tenants[i])
		items[i].PlanName = planNames[tenants[i].PlanID]
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns a tenant with its user and station counts
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.repos.Tenants().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.repos.Users().CountByTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	stations, err := s.repos.Stations().CountByTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToTenantDTO(tenant)
	dto.UserCount = &users
	dto.StationCount = &stations
	if plan, err := s.repos.Plans().FindByID(ctx, tenant.PlanID); err == nil {
		dto.PlanName = plan.Name
	}
	return &dto, nil
}

// Update renames a tenant or moves it to another plan
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, input UpdateTenantInput) (*TenantDTO, error) {
	tenant, err := s.repos.Tenants().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := tenant.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.PlanID != nil {
		if _, err := s.repos.Plans().FindByID(ctx, *input.PlanID); err != nil {
			return nil, err
		}
		if err := tenant.ChangePlan(*input.PlanID); err != nil {
			return nil, err
		}
	}
	if err := s.repos.Tenants().Save(ctx, tenant); err != nil {
		return nil, err
	}
	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// UpdateStatus changes a tenant's status
func (s *TenantService) UpdateStatus(ctx context.Context, id uuid.UUID, status identity.TenantStatus) (*TenantDTO, error) {
	tenant, err := s.repos.Tenants().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.repos.Tenants().Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.logger.Info("Tenant status changed", zap.String("tenant_id", id.String()), zap.String("status", string(status)))
	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// Delete soft-deletes a tenant by setting its status to deleted
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.UpdateStatus(ctx, id, identity.TenantStatusDeleted)
	return err
}

func (s *TenantService) planNames(ctx context.Context) (map[uuid.UUID]string, error) {
	plans, err := s.repos.Plans().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(plans))
	for _, p := range plans {
		names[p.ID] = p.Name
	}
	return names, nil
}
