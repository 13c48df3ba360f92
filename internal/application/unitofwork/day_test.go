package unitofwork_test

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldOpenDay(t *testing.T) {
	ctx := context.Background()
	db := persistencetest.OpenSQLite(t)
	repos := persistence.NewRepositories(db)
	tenantID := uuid.New()

	st, err := station.NewStation(tenantID, "Highway", "")
	require.NoError(t, err)
	require.NoError(t, repos.Stations().Save(ctx, st))

	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, unitofwork.HoldOpenDay(ctx, repos, tenantID, st.ID, day.Add(9*time.Hour)))

	rec, err := reconciliation.Run(tenantID, st.ID, day, reconciliation.Totals{}, reconciliation.Totals{}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, repos.Reconciliations().Save(ctx, rec))

	err = unitofwork.HoldOpenDay(ctx, repos, tenantID, st.ID, day.Add(23*time.Hour))
	assert.ErrorIs(t, err, shared.ErrDayFinalized)

	assert.NoError(t, unitofwork.HoldOpenDay(ctx, repos, tenantID, st.ID, day.AddDate(0, 0, 1)), "next day stays open")

	err = unitofwork.HoldOpenDay(ctx, repos, uuid.New(), st.ID, day)
	assert.ErrorIs(t, err, shared.ErrNotFound, "other tenants cannot see the station")
}
