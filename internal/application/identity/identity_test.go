package identity

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/auth"
	"github.com/fuelsync/backend/internal/infrastructure/config"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	repos     *persistence.GormRepositories
	tx        *persistence.GormTransactionScope
	blacklist *auth.InMemoryTokenBlacklist
	plans     *PlanService
	tenants   *TenantService
	users     *UserService
	admins    *AdminService
	auth      *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := persistencetest.OpenSQLite(t)
	repos := persistence.NewRepositories(db)
	tx := persistence.NewGormTransactionScope(db)
	log := zap.NewNop()
	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                 "identity-test-secret-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "fuelsync-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return &testEnv{
		repos:     repos,
		tx:        tx,
		blacklist: blacklist,
		plans:     NewPlanService(repos.Plans(), identity.PlanLimits{MaxStations: 3}, log),
		tenants:   NewTenantService(repos, tx, log),
		users:     NewUserService(repos, tx, log).WithSessionRevoker(blacklist, time.Hour),
		admins:    NewAdminService(repos, tx, log).WithSessionRevoker(blacklist, time.Hour),
		auth:      NewAuthService(repos, jwt, blacklist, log),
	}
}

func (e *testEnv) createTenant(t *testing.T, name string) *CreateTenantResult {
	t.Helper()
	ctx := context.Background()
	plan, err := e.plans.Create(ctx, CreatePlanInput{Name: "Plan " + name})
	require.NoError(t, err)
	res, err := e.tenants.Create(ctx, CreateTenantInput{Name: name, PlanID: plan.ID, OwnerPassword: "owner-pass"})
	require.NoError(t, err)
	return res
}

func ownerActor(res *CreateTenantResult) access.Actor {
	return access.Actor{TenantID: res.Tenant.ID, UserID: res.Users[0].ID, Role: identity.RoleOwner}
}

func TestPlanService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plan, err := env.plans.Create(ctx, CreatePlanInput{Name: "Basic", MaxPumpsPerStation: 2, PriceMonthly: decimal.NewFromInt(999)})
	require.NoError(t, err)
	assert.Equal(t, 3, plan.MaxStations, "configured default")
	assert.Equal(t, 2, plan.MaxPumpsPerStation)
	assert.Equal(t, identity.DefaultMaxNozzlesPerPump, plan.MaxNozzlesPerPump)
	assert.Equal(t, []string{}, plan.Features)

	_, err = env.plans.Create(ctx, CreatePlanInput{Name: "Basic"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	limit := 8
	updated, err := env.plans.Update(ctx, plan.ID, identity.PlanUpdate{MaxStations: &limit})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.MaxStations)

	_, err = env.tenants.Create(ctx, CreateTenantInput{Name: "Acme Fuels", PlanID: plan.ID})
	require.NoError(t, err)

	err = env.plans.Delete(ctx, plan.ID)
	require.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, "Cannot delete plan that is in use by tenants", err.Error())

	unused, err := env.plans.Create(ctx, CreatePlanInput{Name: "Unused"})
	require.NoError(t, err)
	require.NoError(t, env.plans.Delete(ctx, unused.ID))
	_, err = env.plans.Get(ctx, unused.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTenantService_CreateProvisionsUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := env.createTenant(t, "Acme Fuels")

	require.Len(t, res.Users, 3)
	assert.Equal(t, "owner@acme-fuels.fuelsync.com", res.Users[0].Email)
	assert.Equal(t, "owner-pass", res.Users[0].Password)
	assert.Equal(t, "manager@acme-fuels.fuelsync.com", res.Users[1].Email)
	assert.Equal(t, "attendant", res.Users[2].Role)
	assert.NotEmpty(t, res.Users[2].Password)

	got, err := env.tenants.Get(ctx, res.Tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *got.UserCount)
	assert.Equal(t, int64(0), *got.StationCount)
	assert.Equal(t, "Plan Acme Fuels", got.PlanName)

	t.Run("unknown plan rolls back", func(t *testing.T) {
		_, err := env.tenants.Create(ctx, CreateTenantInput{Name: "Ghost", PlanID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		page, err := env.tenants.List(ctx, identity.TenantFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("soft delete hides tenant from default listing", func(t *testing.T) {
		require.NoError(t, env.tenants.Delete(ctx, res.Tenant.ID))
		page, err := env.tenants.List(ctx, identity.TenantFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Zero(t, page.Total)

		_, err = env.tenants.UpdateStatus(ctx, res.Tenant.ID, identity.TenantStatusActive)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := env.createTenant(t, "Acme Fuels")
	_, err := env.admins.Create(ctx, CreateAdminInput{Email: "root@fuelsync.com", Password: "admin-pass"})
	require.NoError(t, err)

	t.Run("tenant user without tenant header", func(t *testing.T) {
		out, err := env.auth.Login(ctx, LoginInput{Email: "OWNER@acme-fuels.fuelsync.com", Password: "owner-pass"})
		require.NoError(t, err)
		assert.Equal(t, "owner", out.User.Role)
		assert.Equal(t, "Acme Fuels", out.User.TenantName)
		assert.Equal(t, res.Tenant.ID, *out.User.TenantID)

		claims, err := env.auth.Authenticate(ctx, out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, res.Tenant.ID.String(), claims.TenantID)
	})

	t.Run("admin", func(t *testing.T) {
		out, err := env.auth.Login(ctx, LoginInput{Email: "root@fuelsync.com", Password: "admin-pass"})
		require.NoError(t, err)
		assert.Equal(t, "superadmin", out.User.Role)
		assert.Nil(t, out.User.TenantID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, LoginInput{Email: "owner@acme-fuels.fuelsync.com", Password: "nope-nope"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		_, err = env.auth.Login(ctx, LoginInput{Email: "nobody@acme.com", Password: "whatever"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("email in two tenants needs a tenant", func(t *testing.T) {
		other := env.createTenant(t, "Beta Petro")
		_, err := env.users.Create(ctx, ownerActor(other), CreateUserInput{
			Email: "owner@acme-fuels.fuelsync.com", Role: identity.RoleManager, Password: "other-pass",
		})
		require.NoError(t, err)

		_, err = env.auth.Login(ctx, LoginInput{Email: "owner@acme-fuels.fuelsync.com", Password: "owner-pass"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		out, err := env.auth.Login(ctx, LoginInput{Email: "owner@acme-fuels.fuelsync.com", Password: "other-pass", TenantID: &other.Tenant.ID})
		require.NoError(t, err)
		assert.Equal(t, "manager", out.User.Role)
	})

	t.Run("suspended tenant", func(t *testing.T) {
		_, err := env.tenants.UpdateStatus(ctx, res.Tenant.ID, identity.TenantStatusSuspended)
		require.NoError(t, err)
		_, err = env.auth.Login(ctx, LoginInput{Email: "owner@acme-fuels.fuelsync.com", Password: "owner-pass", TenantID: &res.Tenant.ID})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createTenant(t, "Acme Fuels")

	login, err := env.auth.Login(ctx, LoginInput{Email: "manager@acme-fuels.fuelsync.com", Password: mustReset(t, env)})
	require.NoError(t, err)

	refreshed, err := env.auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)

	_, err = env.auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized, "refresh tokens are single use")

	claims, err := env.auth.Authenticate(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	require.NoError(t, env.auth.Logout(ctx, claims, refreshed.RefreshToken))

	_, err = env.auth.Authenticate(ctx, refreshed.AccessToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = env.auth.Refresh(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

// mustReset gives the manager of Acme Fuels a known password
func mustReset(t *testing.T, env *testEnv) string {
	t.Helper()
	ctx := context.Background()
	tenant, err := env.repos.Tenants().FindByName(ctx, "Acme Fuels")
	require.NoError(t, err)
	manager, err := env.repos.Users().FindByEmail(ctx, tenant.ID, "manager@acme-fuels.fuelsync.com")
	require.NoError(t, err)
	require.NoError(t, manager.SetPassword("manager-pass"))
	require.NoError(t, env.repos.Users().Save(ctx, manager))
	return "manager-pass"
}

func TestUserService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := env.createTenant(t, "Acme Fuels")
	owner := ownerActor(res)

	st, err := station.NewStation(res.Tenant.ID, "Highway", "")
	require.NoError(t, err)
	require.NoError(t, env.repos.Stations().Save(ctx, st))

	manager := access.Actor{TenantID: res.Tenant.ID, UserID: res.Users[1].ID, Role: identity.RoleManager}

	t.Run("manager creates attendants only", func(t *testing.T) {
		_, err := env.users.Create(ctx, manager, CreateUserInput{Email: "o2@acme.com", Role: identity.RoleOwner, Password: "secret1"})
		assert.ErrorIs(t, err, shared.ErrForbidden)

		u, err := env.users.Create(ctx, manager, CreateUserInput{
			Email: "att2@acme.com", Role: identity.RoleAttendant, Password: "secret1", StationIDs: []uuid.UUID{st.ID},
		})
		require.NoError(t, err)
		got, err := env.users.Get(ctx, owner, u.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{st.ID}, got.StationIDs)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.users.Create(ctx, owner, CreateUserInput{Email: "ATT2@acme.com", Role: identity.RoleAttendant, Password: "secret1"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown station is rejected atomically", func(t *testing.T) {
		_, err := env.users.Create(ctx, owner, CreateUserInput{
			Email: "att3@acme.com", Role: identity.RoleAttendant, Password: "secret1", StationIDs: []uuid.UUID{uuid.New()},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		exists, err := env.repos.Users().ExistsByEmail(ctx, res.Tenant.ID, "att3@acme.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("assign stations", func(t *testing.T) {
		ids, err := env.users.AssignStations(ctx, owner, res.Users[2].ID, []uuid.UUID{st.ID})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{st.ID}, ids)
	})

	t.Run("change password revokes sessions", func(t *testing.T) {
		self := access.Actor{TenantID: res.Tenant.ID, UserID: res.Users[0].ID, Role: identity.RoleOwner}
		err := env.users.ChangePassword(ctx, self, "wrong", "new-owner-pass")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		require.NoError(t, env.users.ChangePassword(ctx, self, "owner-pass", "new-owner-pass"))
		revoked, err := env.blacklist.IsUserRevoked(ctx, res.Users[0].ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, env.users.Delete(ctx, owner, owner.UserID), shared.ErrInvalidState)
		require.NoError(t, env.users.Delete(ctx, owner, res.Users[2].ID))
		_, err := env.users.Get(ctx, owner, res.Users[2].ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAdminService_LastAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.admins.Create(ctx, CreateAdminInput{Email: "a@fuelsync.com", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, "a", first.Name)

	err = env.admins.Delete(ctx, first.ID)
	require.ErrorIs(t, err, shared.ErrInvalidState)

	second, err := env.admins.Create(ctx, CreateAdminInput{Email: "b@fuelsync.com", Password: "admin-pass"})
	require.NoError(t, err)
	require.NoError(t, env.admins.Delete(ctx, first.ID))

	list, err := env.admins.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestAdminService_GetAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.admins.Create(ctx, CreateAdminInput{Email: "ops@fuelsync.com", Name: "Ops", Password: "admin-pass"})
	require.NoError(t, err)

	got, err := env.admins.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops@fuelsync.com", got.Email)
	assert.Equal(t, "Ops", got.Name)

	_, err = env.admins.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	before := time.Now().Add(-time.Minute)
	require.NoError(t, env.admins.ResetPassword(ctx, created.ID, "fresh-pass"))

	admin, err := env.repos.Admins().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, identity.CheckPassword(admin.PasswordHash, "admin-pass"))
	assert.True(t, identity.CheckPassword(admin.PasswordHash, "fresh-pass"))

	revoked, err := env.blacklist.IsUserRevoked(ctx, created.ID.String(), before)
	require.NoError(t, err)
	assert.True(t, revoked, "sessions issued before the reset are revoked")

	assert.Error(t, env.admins.ResetPassword(ctx, created.ID, "short"))
	assert.ErrorIs(t, env.admins.ResetPassword(ctx, uuid.New(), "fresh-pass"), shared.ErrNotFound)
}

func TestAdminService_Metrics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createTenant(t, "Acme Fuels")
	suspended := env.createTenant(t, "Blue Petro")
	gone := env.createTenant(t, "Coast Gas")
	_, err := env.tenants.UpdateStatus(ctx, suspended.Tenant.ID, identity.TenantStatusSuspended)
	require.NoError(t, err)
	require.NoError(t, env.tenants.Delete(ctx, gone.Tenant.ID))
	_, err = env.admins.Create(ctx, CreateAdminInput{Email: "root@fuelsync.com", Password: "admin-pass"})
	require.NoError(t, err)

	m, err := env.admins.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.TenantCount, "deleted tenants are not counted")
	assert.Equal(t, int64(1), m.ActiveTenantCount)
	assert.Equal(t, int64(1), m.SuspendedTenantCount)
	assert.Equal(t, int64(3), m.PlanCount)
	assert.Equal(t, int64(1), m.AdminCount)
}
