//go:build integration

package station

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countWinners fails the test on any error other than a plan limit
func countWinners(t *testing.T, errs []error) int {
	t.Helper()
	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)
	}
	return won
}

func TestPostgres_PumpCreatesAtLimitSerializeOnTenantRow(t *testing.T) {
	db, _ := persistencetest.OpenPostgres(t)
	f := newFixtureOn(t, db, identity.PlanLimits{MaxPumpsPerStation: 3})
	ctx := context.Background()

	st, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Highway"})
	require.NoError(t, err)
	for _, name := range []string{"P1", "P2"} {
		_, err := f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: st.ID, Name: name})
		require.NoError(t, err)
	}

	const workers = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.pumps.Create(ctx, f.actor, CreatePumpInput{StationID: st.ID, Name: fmt.Sprintf("Racer %d", i)})
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, countWinners(t, errs))
	pumps, err := f.repos.Pumps().CountByStation(ctx, f.actor.TenantID, st.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pumps)
}

func TestPostgres_StationCreatesAtLimitSerializeOnTenantRow(t *testing.T) {
	db, _ := persistencetest.OpenPostgres(t)
	f := newFixtureOn(t, db, identity.PlanLimits{MaxStations: 2})
	ctx := context.Background()

	_, err := f.stations.Create(ctx, f.actor, CreateStationInput{Name: "Highway"})
	require.NoError(t, err)

	const workers = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.stations.Create(ctx, f.actor, CreateStationInput{Name: fmt.Sprintf("Branch %d", i)})
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, countWinners(t, errs))
	stations, err := f.repos.Stations().CountByTenant(ctx, f.actor.TenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stations)
}
