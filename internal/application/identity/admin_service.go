package identity

import (
	"context"
	"errors"
	"time"

	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminService manages platform superadmin accounts
type AdminService struct {
	repos     unitofwork.Repositories
	admins    identity.AdminUserRepository
	txScope   unitofwork.TransactionScope
	revoker   SessionRevoker
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewAdminService creates an admin service
func NewAdminService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, logger *zap.Logger) *AdminService {
	return &AdminService{repos: repos, admins: repos.Admins(), txScope: txScope, logger: logger}
}

// WithSessionRevoker revokes an admin's outstanding tokens after a
// password reset
func (s *AdminService) WithSessionRevoker(r SessionRevoker, ttl time.Duration) *AdminService {
	s.revoker = r
	s.revokeTTL = ttl
	return s
}

// Create adds a superadmin account with a unique email
func (s *AdminService) Create(ctx context.Context, input CreateAdminInput) (*UserDTO, error) {
	admin, err := identity.NewAdminUser(input.Email, input.Name, input.Password)
	if err != nil {
		return nil, err
	}
	if _, err := s.admins.FindByEmail(ctx, admin.Email); err == nil {
		return nil, shared.Errorf(shared.CodeAlreadyExists, "Admin with email %s already exists", admin.Email)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if err := s.admins.Save(ctx, admin); err != nil {
		return nil, err
	}
	s.logger.Info("Admin created", zap.String("admin_id", admin.ID.String()))
	dto := ToAdminDTO(admin)
	return &dto, nil
}

// List returns every admin account
func (s *AdminService) List(ctx context.Context) ([]UserDTO, error) {
	admins, err := s.admins.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, len(admins))
	for i := range admins {
		out[i] = ToAdminDTO(&admins[i])
	}
	return out, nil
}

// Get returns one admin account
func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToAdminDTO(admin)
	return &dto, nil
}

// ResetPassword sets a new password for an admin and signs out its
// existing sessions
func (s *AdminService) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.admins.Save(ctx, admin); err != nil {
		return err
	}
	s.revokeSessions(ctx, admin.ID)
	s.logger.Info("Admin password reset", zap.String("admin_id", id.String()))
	return nil
}

// Metrics counts tenants, plans and admins across the platform. Deleted
// tenants are left out of the tenant count.
func (s *AdminService) Metrics(ctx context.Context) (*PlatformMetrics, error) {
	byStatus, err := s.repos.Tenants().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.repos.Plans().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := s.admins.Count(ctx)
	if err != nil {
		return nil, err
	}
	m := &PlatformMetrics{
		ActiveTenantCount:    byStatus[identity.TenantStatusActive],
		SuspendedTenantCount: byStatus[identity.TenantStatusSuspended],
		PlanCount:            int64(len(plans)),
		AdminCount:           admins,
	}
	for status, n := range byStatus {
		if status != identity.TenantStatusDeleted {
			m.TenantCount += n
		}
	}
	return m, nil
}

// Update changes an admin's name, email or password
func (s *AdminService) Update(ctx context.Context, id uuid.UUID, input UpdateAdminInput) (*UserDTO, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		if other, err := s.admins.FindByEmail(ctx, input.Email); err == nil && other.ID != id {
			return nil, shared.Errorf(shared.CodeAlreadyExists, "Admin with email %s already exists", input.Email)
		}
	}
	if err := admin.Update(input.Name, input.Email); err != nil {
		return nil, err
	}
	if input.Password != "" {
		if err := admin.SetPassword(input.Password); err != nil {
			return nil, err
		}
	}
	if err := s.admins.Save(ctx, admin); err != nil {
		return nil, err
	}
	if input.Password != "" {
		s.revokeSessions(ctx, admin.ID)
	}
	dto := ToAdminDTO(admin)
	return &dto, nil
}

// Delete removes an admin account. The last remaining admin cannot be
// deleted; the count and delete share a transaction.
func (s *AdminService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Admins().FindByID(ctx, id); err != nil {
			return err
		}
		n, err := repos.Admins().Count(ctx)
		if err != nil {
			return err
		}
		if n <= 1 {
			return shared.NewDomainError(shared.CodeInvalidState, "Cannot delete the last admin user")
		}
		return repos.Admins().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Admin deleted", zap.String("admin_id", id.String()))
	return nil
}

func (s *AdminService) revokeSessions(ctx context.Context, adminID uuid.UUID) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUser(ctx, adminID.String(), s.revokeTTL); err != nil {
		s.logger.Warn("Failed to revoke admin sessions", zap.String("admin_id", adminID.String()), zap.Error(err))
	}
}
