package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTenantRepository_LockByID(t *testing.T) {
	t.Run("selects the tenant row for update", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		tenantID, planID := uuid.New(), uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY "tenants"."id" LIMIT .+ FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "plan_id", "status", "created_at", "updated_at"}).
				AddRow(tenantID, "Acme Fuels", planID, "active", now, now))

		tn, err := NewGormTenantRepository(db.DB).LockByID(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, tenantID, tn.ID)
		assert.Equal(t, planID, tn.PlanID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing tenant is not found", func(t *testing.T) {
		db := setupTestDB(t)
		_, err := NewGormTenantRepository(db).LockByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTenantRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedHierarchy(t, db, "Acme Fuels")
	seedHierarchy(t, db, "Blue Petro")

	gone, err := a.repos.Tenants().FindByID(ctx, a.tenantID)
	require.NoError(t, err)
	require.NoError(t, gone.SetStatus(identity.TenantStatusDeleted))
	require.NoError(t, a.repos.Tenants().Save(ctx, gone))

	tenants, total, err := a.repos.Tenants().FindAll(ctx, identity.TenantFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tenants, 1)
	assert.Equal(t, "Blue Petro", tenants[0].Name)

	deleted, total, err := a.repos.Tenants().FindAll(ctx, identity.TenantFilter{Filter: shared.DefaultFilter(), Status: identity.TenantStatusDeleted})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.tenantID, deleted[0].ID)

	count, err := a.repos.Plans().CountTenants(ctx, a.plan.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "deleted tenants do not hold a plan")

	ids, err := a.repos.Tenants().FindActiveIDs(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, a.tenantID)
	assert.Len(t, ids, 1)
}

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	h := seedHierarchy(t, db, "Acme Fuels")
	users := h.repos.Users()

	user, err := identity.NewUser(h.tenantID, "Ravi@Acme.com", "Ravi", identity.RoleAttendant, "secret123")
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, user))

	t.Run("finds by email case-insensitively", func(t *testing.T) {
		found, err := users.FindByEmail(ctx, h.tenantID, "RAVI@acme.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.True(t, found.CheckPassword("secret123"))

		_, err = users.FindByEmail(ctx, uuid.New(), "ravi@acme.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("replaces station assignments", func(t *testing.T) {
		second, err := station.NewStation(h.tenantID, "City Centre", "")
		require.NoError(t, err)
		require.NoError(t, h.repos.Stations().Save(ctx, second))

		require.NoError(t, users.ReplaceStations(ctx, h.tenantID, user.ID, []uuid.UUID{h.station.ID, second.ID, h.station.ID}))
		ids, err := users.ListStationIDs(ctx, h.tenantID, user.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{h.station.ID, second.ID}, ids)

		require.NoError(t, users.ReplaceStations(ctx, h.tenantID, user.ID, []uuid.UUID{second.ID}))
		ok, err := users.HasStationAccess(ctx, h.tenantID, user.ID, h.station.ID)
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = users.HasStationAccess(ctx, h.tenantID, user.ID, second.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delete removes assignments", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, h.tenantID, user.ID))
		ids, err := users.ListStationIDs(ctx, h.tenantID, user.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.ErrorIs(t, users.Delete(ctx, h.tenantID, user.ID), shared.ErrNotFound)
	})
}
