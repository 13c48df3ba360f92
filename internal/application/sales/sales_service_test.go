package sales

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.record(t, "100", 0)
	f.record(t, "110", time.Minute)
	f.record(t, "125", 2*time.Minute)

	page, err := f.sales.List(ctx, f.owner, SaleListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, DefaultSalesPageSize, page.PageSize)
	require.Len(t, page.Items, 3)
	assert.True(t, page.Items[0].Volume.Equal(dec("15")))
	assert.Equal(t, "Highway", page.Items[0].StationName)

	page, err = f.sales.List(ctx, f.owner, SaleListInput{PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)

	_, err = f.sales.List(ctx, f.owner, SaleListInput{PaymentMethod: "barter"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	attendant := access.Actor{TenantID: f.owner.TenantID, UserID: uuid.New(), Role: identity.RoleAttendant, StationIDs: []uuid.UUID{}}
	page, err = f.sales.List(ctx, attendant, SaleListInput{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestSaleService_Analytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.record(t, "100", 0)
	f.record(t, "110", time.Minute)

	from := f.base.Add(-time.Hour)
	to := f.base.Add(time.Hour)
	res, err := f.sales.Analytics(ctx, f.owner, AnalyticsInput{GroupBy: "fuel_type", From: from, To: to})
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "petrol", res.Groups[0].Key)
	assert.True(t, res.Volume.Equal(dec("110")))
	assert.True(t, res.Amount.Equal(dec("11000")))
	assert.Equal(t, int64(2), res.Count)

	_, err = f.sales.Analytics(ctx, f.owner, AnalyticsInput{GroupBy: "weekday"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = f.sales.Analytics(ctx, f.owner, AnalyticsInput{From: to, To: from})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	t.Run("restricted actors are scoped to their station", func(t *testing.T) {
		manager := access.Actor{TenantID: f.owner.TenantID, UserID: uuid.New(), Role: identity.RoleManager, StationIDs: []uuid.UUID{f.station.ID}}
		res, err := f.sales.Analytics(ctx, manager, AnalyticsInput{From: from, To: to})
		require.NoError(t, err)
		require.Len(t, res.Groups, 1)
		assert.Equal(t, f.station.ID.String(), res.Groups[0].Key)

		manager.StationIDs = []uuid.UUID{f.station.ID, uuid.New()}
		_, err = f.sales.Analytics(ctx, manager, AnalyticsInput{From: from, To: to})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
