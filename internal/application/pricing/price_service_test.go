package pricing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/pricing"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/cache"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func TestPriceService(t *testing.T) {
	ctx := context.Background()
	db := persistencetest.OpenSQLite(t)
	repos := persistence.NewRepositories(db)

	tenantID := uuid.New()
	st, err := station.NewStation(tenantID, "Highway", "")
	require.NoError(t, err)
	require.NoError(t, repos.Stations().Save(ctx, st))

	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()
	pub := &recordingPublisher{}
	svc := NewPriceService(repos, store, pub, zap.NewNop())
	owner := access.Actor{TenantID: tenantID, UserID: uuid.New(), Role: identity.RoleOwner}

	first, err := svc.Create(ctx, owner, CreatePriceInput{
		StationID: st.ID, FuelType: "petrol",
		Price: decimal.RequireFromString("102.50"), CostPrice: decimal.RequireFromString("95"),
		ValidFrom: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, first.Margin.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, owner.UserRef(), first.CreatedBy)
	require.Len(t, pub.events, 1)
	assert.Equal(t, pricing.EventTypeFuelPriceCreated, pub.events[0].EventType())

	current, err := svc.Current(ctx, owner, st.ID)
	require.NoError(t, err)
	require.Len(t, current, 1)
	_, cached, err := store.Get(ctx, currentKey(tenantID, st.ID))
	require.NoError(t, err)
	assert.True(t, cached)

	t.Run("create invalidates the cached current prices", func(t *testing.T) {
		_, err := svc.Create(ctx, owner, CreatePriceInput{
			StationID: st.ID, FuelType: "petrol", Price: decimal.RequireFromString("104"),
		})
		require.NoError(t, err)
		_, cached, err := store.Get(ctx, currentKey(tenantID, st.ID))
		require.NoError(t, err)
		assert.False(t, cached)

		current, err := svc.Current(ctx, owner, st.ID)
		require.NoError(t, err)
		require.Len(t, current, 1)
		assert.True(t, current[0].Price.Equal(decimal.NewFromInt(104)))
	})

	t.Run("price at a past moment", func(t *testing.T) {
		p, err := svc.PriceAt(ctx, owner, st.ID, "petrol", time.Now().Add(-30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, first.ID, p.ID)

		_, err = svc.PriceAt(ctx, owner, st.ID, "diesel", time.Now())
		assert.ErrorIs(t, err, pricing.ErrPriceNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Create(ctx, owner, CreatePriceInput{StationID: st.ID, FuelType: "petrol", Price: decimal.Zero})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = svc.Create(ctx, owner, CreatePriceInput{StationID: uuid.New(), FuelType: "petrol", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("restricted actor", func(t *testing.T) {
		attendant := access.Actor{TenantID: tenantID, UserID: uuid.New(), Role: identity.RoleAttendant, StationIDs: []uuid.UUID{}}
		_, err := svc.Current(ctx, attendant, st.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		list, err := svc.List(ctx, attendant, nil, "")
		require.NoError(t, err)
		assert.Empty(t, list)

		history, err := svc.List(ctx, owner, &st.ID, "petrol")
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})
}
