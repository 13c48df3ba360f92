package identity

import (
	"context"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRevoker invalidates every token issued to a user so far
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
}

// UserService manages the users of the caller's tenant
type UserService struct {
	repos     unitofwork.Repositories
	txScope   unitofwork.TransactionScope
	revoker   SessionRevoker
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewUserService creates a user service
func NewUserService(repos unitofwork.Repositories, txScope unitofwork.TransactionScope, logger *zap.Logger) *UserService {
	return &UserService{repos: repos, txScope: txScope, logger: logger}
}

// WithSessionRevoker revokes outstanding tokens after password changes and
// deletions. ttl should cover the refresh token lifetime.
func (s *UserService) WithSessionRevoker(r SessionRevoker, ttl time.Duration) *UserService {
	s.revoker = r
	s.revokeTTL = ttl
	return s
}

// canManage reports whether actor may create or change a user with role.
// Owners manage everyone; managers manage attendants only.
func canManage(actor access.Actor, role identity.Role) bool {
	switch actor.Role {
	case identity.RoleOwner, identity.RoleSuperAdmin:
		return true
	case identity.RoleManager:
		return role == identity.RoleAttendant
	}
	return false
}

var errCannotManageRole = shared.NewDomainError(shared.CodeForbidden, "You cannot manage users with this role")

// Create adds a user to the actor's tenant with optional station assignments
func (s *UserService) Create(ctx context.Context, actor access.Actor, input CreateUserInput) (*UserDTO, error) {
	if !canManage(actor, input.Role) {
		return nil, errCannotManageRole
	}
	user, err := identity.NewUser(actor.TenantID, input.Email, input.Name, input.Role, input.Password)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		exists, err := repos.Users().ExistsByEmail(ctx, actor.TenantID, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return shared.Errorf(shared.CodeAlreadyExists, "User with email %s already exists", user.Email)
		}
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		if len(input.StationIDs) == 0 {
			return nil
		}
		if err := checkStations(ctx, repos, actor, input.StationIDs); err != nil {
			return err
		}
		return repos.Users().ReplaceStations(ctx, actor.TenantID, user.ID, input.StationIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	dto := ToUserDTO(user)
	dto.StationIDs = input.StationIDs
	return &dto, nil
}

// checkStations verifies every station belongs to the tenant and is visible to the actor
func checkStations(ctx context.Context, repos unitofwork.Repositories, actor access.Actor, ids []uuid.UUID) error {
	found, err := repos.Stations().FindByIDs(ctx, actor.TenantID, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, st := range found {
		known[st.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return shared.Errorf(shared.CodeNotFound, "Station %s not found", id)
		}
		if err := actor.CheckStation(id); err != nil {
			return err
		}
	}
	return nil
}

// List returns the tenant's users
func (s *UserService) List(ctx context.Context, actor access.Actor, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	users, total, err := s.repos.Users().FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UserDTO, len(users))
	for i := range users {
		items[i] = ToUserDTO(&users[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns a user with its station assignments
func (s *UserService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repos.Users().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	stations, err := s.repos.Users().ListStationIDs(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	dto.StationIDs = stations
	return &dto, nil
}

// Update changes a user's profile or role
func (s *UserService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.repos.Users().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if actor.UserID != id && !canManage(actor, user.Role) {
		return nil, errCannotManageRole
	}
	if input.Role != "" && input.Role != user.Role {
		if actor.UserID == id || !canManage(actor, input.Role) {
			return nil, errCannotManageRole
		}
	}
	if input.Email != "" && input.Email != user.Email {
		if existing, err := s.repos.Users().FindByEmail(ctx, actor.TenantID, input.Email); err == nil && existing.ID != id {
			return nil, shared.Errorf(shared.CodeAlreadyExists, "User with email %s already exists", input.Email)
		}
	}
	if err := user.Update(input.Name, input.Email, input.Role); err != nil {
		return nil, err
	}
	if err := s.repos.Users().Save(ctx, user); err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// ChangePassword changes the actor's own password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, actor access.Actor, current, next string) error {
	user, err := s.repos.Users().FindByID(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(current) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Current password is incorrect")
	}
	if err := user.SetPassword(next); err != nil {
		return err
	}
	if err := s.repos.Users().Save(ctx, user); err != nil {
		return err
	}
	s.revokeSessions(ctx, user.ID)
	return nil
}

// ResetPassword sets a new password for another user; an empty password is
// generated and returned
func (s *UserService) ResetPassword(ctx context.Context, actor access.Actor, id uuid.UUID, password string) (string, error) {
	user, err := s.repos.Users().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return "", err
	}
	if !canManage(actor, user.Role) {
		return "", errCannotManageRole
	}
	if password == "" {
		if password, err = identity.GeneratePassword(); err != nil {
			return "", err
		}
	}
	if err := user.SetPassword(password); err != nil {
		return "", err
	}
	if err := s.repos.Users().Save(ctx, user); err != nil {
		return "", err
	}
	s.revokeSessions(ctx, user.ID)
	s.logger.Info("User password reset", zap.String("user_id", id.String()), zap.String("by", actor.UserID.String()))
	return password, nil
}

// Delete removes a user; users cannot delete themselves
func (s *UserService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return shared.NewDomainError(shared.CodeInvalidState, "You cannot delete your own account")
	}
	user, err := s.repos.Users().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if !canManage(actor, user.Role) {
		return errCannotManageRole
	}
	if err := s.repos.Users().Delete(ctx, actor.TenantID, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	s.logger.Info("User deleted", zap.String("user_id", id.String()), zap.String("by", actor.UserID.String()))
	return nil
}

// AssignStations replaces a user's station assignments
func (s *UserService) AssignStations(ctx context.Context, actor access.Actor, id uuid.UUID, stationIDs []uuid.UUID) ([]uuid.UUID, error) {
	err := s.txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
		user, err := repos.Users().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if !canManage(actor, user.Role) {
			return errCannotManageRole
		}
		if err := checkStations(ctx, repos, actor, stationIDs); err != nil {
			return err
		}
		return repos.Users().ReplaceStations(ctx, actor.TenantID, id, stationIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.ListStations(ctx, actor, id)
}

// ListStations returns the stations assigned to a user
func (s *UserService) ListStations(ctx context.Context, actor access.Actor, id uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.repos.Users().FindByID(ctx, actor.TenantID, id); err != nil {
		return nil, err
	}
	return s.repos.Users().ListStationIDs(ctx, actor.TenantID, id)
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUser(ctx, userID.String(), s.revokeTTL); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
