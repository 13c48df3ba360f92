//go:build integration

package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/application/unitofwork"
	"github.com/fuelsync/backend/internal/domain/sales"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciliationService_RunWaitsForOpenDayWriters(t *testing.T) {
	db, _ := persistencetest.OpenPostgres(t)
	f := newFixtureOn(t, db)
	ctx := context.Background()
	txScope := persistence.NewGormTransactionScope(db)

	first := f.sell(t, nil, "0", 6, sales.PaymentCash)

	held := make(chan struct{})
	release := make(chan struct{})
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
			at := f.day.Add(9 * time.Hour)
			if err := unitofwork.HoldOpenDay(ctx, repos, f.owner.TenantID, f.station.ID, at); err != nil {
				close(held)
				return err
			}
			close(held)
			<-release

			r, err := sales.NewReading(f.owner.TenantID, f.station.ID, f.nozzle.ID, dec("10"), at, sales.PaymentCash, nil, nil, first)
			if err != nil {
				return err
			}
			if err := repos.Readings().Save(ctx, r); err != nil {
				return err
			}
			id := r.ID
			sale, err := sales.NewSale(f.owner.TenantID, sales.SaleInput{
				ReadingID: &id, NozzleID: f.nozzle.ID, StationID: f.station.ID, FuelType: "petrol",
				Volume: r.Delta(first), Price: dec("100"), PaymentMethod: sales.PaymentCash, RecordedAt: at,
			})
			if err != nil {
				return err
			}
			return repos.Sales().Save(ctx, sale)
		})
	}()

	select {
	case <-held:
	case <-time.After(10 * time.Second):
		t.Fatal("writer never took the station lock")
	}

	type outcome struct {
		rec *ReconciliationDTO
		err error
	}
	runDone := make(chan outcome, 1)
	go func() {
		rec, err := f.recs.Run(ctx, f.owner, f.station.ID, f.day)
		runDone <- outcome{rec, err}
	}()

	select {
	case <-runDone:
		t.Fatal("reconciliation finished while a writer held the day open")
	case <-time.After(500 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-writerDone)

	var res outcome
	select {
	case res = <-runDone:
	case <-time.After(10 * time.Second):
		t.Fatal("reconciliation did not resume after the writer committed")
	}
	require.NoError(t, res.err)
	assert.True(t, res.rec.Finalized)
	assert.True(t, res.rec.Expected.Cash.Equal(dec("1000")), res.rec.Expected.Cash.String())

	t.Run("writers after finalization are rejected", func(t *testing.T) {
		err := txScope.Execute(ctx, func(repos unitofwork.Repositories) error {
			return unitofwork.HoldOpenDay(ctx, repos, f.owner.TenantID, f.station.ID, f.day.Add(20*time.Hour))
		})
		assert.ErrorIs(t, err, shared.ErrDayFinalized)
	})
}
