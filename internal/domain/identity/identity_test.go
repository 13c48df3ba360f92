package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	t.Run("fills default limits", func(t *testing.T) {
		plan, err := NewPlan("Starter", PlanLimits{}, decimal.NewFromInt(999), decimal.NewFromInt(9990), nil)

		require.NoError(t, err)
		assert.Equal(t, 5, plan.MaxStations)
		assert.Equal(t, 10, plan.MaxPumpsPerStation)
		assert.Equal(t, 4, plan.MaxNozzlesPerPump)
		assert.Empty(t, plan.Features)
	})

	t.Run("keeps explicit limits and dedupes features", func(t *testing.T) {
		plan, err := NewPlan("Pro", PlanLimits{MaxStations: 20, MaxPumpsPerStation: 2, MaxNozzlesPerPump: 6},
			decimal.Zero, decimal.Zero, []string{"reports", "reports", " alerts "})

		require.NoError(t, err)
		assert.Equal(t, 20, plan.MaxStations)
		assert.Equal(t, 2, plan.MaxPumpsPerStation)
		assert.Equal(t, 6, plan.MaxNozzlesPerPump)
		assert.Equal(t, []string{"reports", "alerts"}, plan.Features)
		assert.True(t, plan.HasFeature("alerts"))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewPlan("  ", PlanLimits{}, decimal.Zero, decimal.Zero, nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative limits", func(t *testing.T) {
		_, err := NewPlan("Bad", PlanLimits{MaxStations: -1}, decimal.Zero, decimal.Zero, nil)
		assert.Error(t, err)
	})
}

func TestPlanApply(t *testing.T) {
	plan, err := NewPlan("Starter", PlanLimits{}, decimal.Zero, decimal.Zero, nil)
	require.NoError(t, err)

	pumps := 3
	require.NoError(t, plan.Apply(PlanUpdate{MaxPumpsPerStation: &pumps}))
	assert.Equal(t, 3, plan.MaxPumpsPerStation)
	assert.Equal(t, 5, plan.MaxStations)

	zero := 0
	err = plan.Apply(PlanUpdate{MaxStations: &zero})
	assert.Error(t, err)
	assert.Equal(t, 5, plan.MaxStations, "failed update must not mutate the plan")
}

func TestTenant(t *testing.T) {
	t.Run("creates active tenant", func(t *testing.T) {
		tenant, err := NewTenant("Shell Andheri & Co.", uuid.New())

		require.NoError(t, err)
		assert.Equal(t, TenantStatusActive, tenant.Status)
		assert.Equal(t, "shell-andheri-co", tenant.Slug())
	})

	t.Run("requires plan", func(t *testing.T) {
		_, err := NewTenant("Acme", uuid.Nil)
		assert.Error(t, err)
	})

	t.Run("deleted tenant cannot be reactivated", func(t *testing.T) {
		tenant, err := NewTenant("Acme", uuid.New())
		require.NoError(t, err)

		require.NoError(t, tenant.SetStatus(TenantStatusDeleted))
		assert.Error(t, tenant.SetStatus(TenantStatusActive))
		assert.Error(t, tenant.SetStatus("paused"))
	})
}

func TestUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("hashes password and normalizes email", func(t *testing.T) {
		user, err := NewUser(tenantID, " Owner@Example.COM ", "", RoleOwner, "secret123")

		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", user.Email)
		assert.Equal(t, "owner", user.Name)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.CheckPassword("secret123"))
		assert.False(t, user.CheckPassword("wrong"))
	})

	t.Run("rejects superadmin role for tenant users", func(t *testing.T) {
		_, err := NewUser(tenantID, "a@b.co", "A", RoleSuperAdmin, "secret123")
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(tenantID, "a@b.co", "A", RoleAttendant, "123")
		assert.Error(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewUser(tenantID, "not-an-email", "A", RoleAttendant, "secret123")
		assert.Error(t, err)
	})
}

func TestRoleStationBypass(t *testing.T) {
	assert.True(t, RoleOwner.BypassesStationAccess())
	assert.True(t, RoleSuperAdmin.BypassesStationAccess())
	assert.False(t, RoleManager.BypassesStationAccess())
	assert.False(t, RoleAttendant.BypassesStationAccess())
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword()
	require.NoError(t, err)
	b, err := GeneratePassword()
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
