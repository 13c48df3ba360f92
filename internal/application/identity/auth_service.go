package identity

import (
	"context"
	"errors"

	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid email or password")
	errAmbiguousTenant    = shared.NewDomainError(shared.CodeInvalidInput, "This email belongs to several tenants, specify the tenant")
	errTenantInactive     = shared.NewDomainError(shared.CodeForbidden, "Tenant is not active")
	errSessionRevoked     = shared.NewDomainError(shared.CodeUnauthorized, "Session has been revoked")
)

// AuthService logs users in and manages their tokens
type AuthService struct {
	repos     unitofwork.Repositories
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an auth service. blacklist may be nil, in which
// case logout and revocation are no-ops.
func NewAuthService(repos unitofwork.Repositories, jwt *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthService {
	return &AuthService{repos: repos, jwt: jwt, blacklist: blacklist, logger: logger}
}

// Login authenticates by email and password. With an explicit tenant the
// user is looked up in that tenant. Otherwise admin accounts are tried
// first, then the tenant owning the email if there is exactly one.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := s.logger.With(zap.String("email", input.Email))

	tenantID := uuid.Nil
	if input.TenantID != nil {
		tenantID = *input.TenantID
	} else {
		admin, err := s.repos.Admins().FindByEmail(ctx, input.Email)
		switch {
		case err == nil:
			if !identity.CheckPassword(admin.PasswordHash, input.Password) {
				log.Warn("Admin login failed: wrong password")
				return nil, errInvalidCredentials
			}
			log.Info("Admin logged in", zap.String("user_id", admin.ID.String()))
			return s.issue(auth.Subject{UserID: admin.ID, Email: admin.Email, Role: string(identity.RoleSuperAdmin)}, UserInfo{
				ID: admin.ID, Email: admin.Email, Name: admin.Name, Role: string(identity.RoleSuperAdmin),
			})
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}

		tenants, err := s.repos.Users().FindTenantIDsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		switch len(tenants) {
		case 0:
			log.Warn("Login failed: unknown email")
			return nil, errInvalidCredentials
		case 1:
			tenantID = tenants[0]
		default:
			return nil, errAmbiguousTenant
		}
	}

	tenant, err := s.repos.Tenants().FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsActive() {
		log.Warn("Login refused: tenant not active", zap.String("tenant_id", tenant.ID.String()), zap.String("status", string(tenant.Status)))
		return nil, errTenantInactive
	}

	user, err := s.repos.Users().FindByEmail(ctx, tenant.ID, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(input.Password) {
		log.Warn("Login failed: wrong password", zap.String("tenant_id", tenant.ID.String()))
		return nil, errInvalidCredentials
	}

	log.Info("User logged in", zap.String("tenant_id", tenant.ID.String()), zap.String("user_id", user.ID.String()))
	tid := tenant.ID
	return s.issue(
		auth.Subject{TenantID: tenant.ID, UserID: user.ID, Email: user.Email, Role: string(user.Role)},
		UserInfo{ID: user.ID, TenantID: &tid, TenantName: tenant.Name, Email: user.Email, Name: user.Name, Role: string(user.Role)},
	)
}

func (s *AuthService) issue(sub auth.Subject, info UserInfo) (*LoginResult, error) {
	pair, err := s.jwt.Issue(sub)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  info,
	}, nil
}

// Authenticate validates an access token and checks it has not been revoked
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return errSessionRevoked
	}
	return nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token
// is revoked and the account must still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid or expired refresh token")
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	sub, err := claims.ToSubject()
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid or expired refresh token")
	}

	info, err := s.Me(ctx, sub)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errSessionRevoked
		}
		return nil, err
	}
	if info.TenantID != nil {
		tenant, err := s.repos.Tenants().FindByID(ctx, *info.TenantID)
		if err != nil {
			return nil, err
		}
		if !tenant.IsActive() {
			return nil, errTenantInactive
		}
	}
	sub.Role = info.Role

	s.revoke(ctx, claims)
	return s.issue(sub, *info)
}

// Logout revokes the access token and, when given, the caller's refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if access == nil {
		return nil
	}
	s.revoke(ctx, access)
	if refreshToken != "" {
		if claims, err := s.jwt.ValidateRefreshToken(refreshToken); err == nil && claims.UserID == access.UserID {
			s.revoke(ctx, claims)
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", access.UserID))
	return nil
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) {
	if s.blacklist == nil || claims.ID == "" {
		return
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke token", zap.String("user_id", claims.UserID), zap.Error(err))
	}
}

// Me returns the current user as stored, so role changes show up immediately
func (s *AuthService) Me(ctx context.Context, sub auth.Subject) (*UserInfo, error) {
	if sub.TenantID == uuid.Nil {
		admin, err := s.repos.Admins().FindByID(ctx, sub.UserID)
		if err != nil {
			return nil, err
		}
		return &UserInfo{ID: admin.ID, Email: admin.Email, Name: admin.Name, Role: string(identity.RoleSuperAdmin)}, nil
	}
	user, err := s.repos.Users().FindByID(ctx, sub.TenantID, sub.UserID)
	if err != nil {
		return nil, err
	}
	info := &UserInfo{ID: user.ID, TenantID: &user.TenantID, Email: user.Email, Name: user.Name, Role: string(user.Role)}
	if tenant, err := s.repos.Tenants().FindByID(ctx, user.TenantID); err == nil {
		info.TenantName = tenant.Name
	}
	return info, nil
}
