package credit

import (
	"context"
	"testing"
	"time"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/reconciliation"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/persistence/persistencetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*CreditorService, *persistence.GormRepositories, access.Actor, *station.Station) {
	t.Helper()
	db := persistencetest.OpenSQLite(t)
	repos := persistence.NewRepositories(db)
	owner := access.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: identity.RoleOwner}
	st, err := station.NewStation(owner.TenantID, "Highway", "")
	require.NoError(t, err)
	require.NoError(t, repos.Stations().Save(context.Background(), st))
	return NewCreditorService(repos, persistence.NewGormTransactionScope(db), zap.NewNop()), repos, owner, st
}

func TestCreditorService_CRUD(t *testing.T) {
	svc, _, owner, st := setup(t)
	ctx := context.Background()

	common, err := svc.Create(ctx, owner, CreateCreditorInput{PartyName: "Transport Co", CreditLimit: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	assert.Nil(t, common.StationID)
	bound, err := svc.Create(ctx, owner, CreateCreditorInput{StationID: &st.ID, PartyName: "Farm Coop", Phone: "555-0101", CreditLimit: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, "555-0101", bound.Phone)

	_, err = svc.Create(ctx, owner, CreateCreditorInput{PartyName: " ", CreditLimit: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = svc.Create(ctx, owner, CreateCreditorInput{PartyName: "X", CreditLimit: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	name := "Farm Cooperative"
	limit := decimal.NewFromInt(2000)
	updated, err := svc.Update(ctx, owner, bound.ID, UpdateCreditorInput{PartyName: &name, CreditLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, "Farm Cooperative", updated.PartyName)
	assert.True(t, updated.CreditLimit.Equal(limit))
	assert.Equal(t, "555-0101", updated.Phone)

	require.NoError(t, svc.Delete(ctx, owner, bound.ID))
	got, err := svc.Get(ctx, owner, bound.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", got.Status)

	page, err := svc.List(ctx, owner, CreditorListInput{Status: "active"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Transport Co", page.Items[0].PartyName)

	t.Run("restricted actors see tenant-wide and own-station creditors", func(t *testing.T) {
		manager := access.Actor{TenantID: owner.TenantID, UserID: uuid.New(), Role: identity.RoleManager, StationIDs: []uuid.UUID{uuid.New()}}
		page, err := svc.List(ctx, manager, CreditorListInput{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, common.ID, page.Items[0].ID)

		_, err = svc.Get(ctx, manager, bound.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		_, err = svc.Create(ctx, manager, CreateCreditorInput{PartyName: "Y", CreditLimit: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCreditorService_RecordPayment(t *testing.T) {
	svc, repos, owner, st := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, CreateCreditorInput{StationID: &st.ID, PartyName: "Farm Coop", CreditLimit: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	c, err := repos.Creditors().FindByID(ctx, owner.TenantID, created.ID)
	require.NoError(t, err)
	require.NoError(t, c.Charge(decimal.NewFromInt(600), st.ID))
	require.NoError(t, repos.Creditors().Save(ctx, c))

	res, err := svc.RecordPayment(ctx, owner, CreatePaymentInput{CreditorID: c.ID, Amount: decimal.NewFromInt(250), ReferenceNo: "CHQ-1"})
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, "cash", res.Payment.PaymentMethod)

	_, err = svc.RecordPayment(ctx, owner, CreatePaymentInput{CreditorID: c.ID, Amount: decimal.NewFromInt(400)})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Contains(t, err.Error(), "exceeds outstanding balance")

	_, err = svc.RecordPayment(ctx, owner, CreatePaymentInput{CreditorID: c.ID, Amount: decimal.Zero})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	payments, err := svc.ListPayments(ctx, owner, c.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "CHQ-1", payments[0].ReferenceNo)

	t.Run("finalized day rejects payments", func(t *testing.T) {
		rec, err := reconciliation.Run(owner.TenantID, st.ID, time.Now(), reconciliation.Totals{}, reconciliation.Totals{}, nil, nil)
		require.NoError(t, err)
		require.NoError(t, repos.Reconciliations().Save(ctx, rec))

		_, err = svc.RecordPayment(ctx, owner, CreatePaymentInput{CreditorID: c.ID, Amount: decimal.NewFromInt(50)})
		assert.ErrorIs(t, err, shared.ErrDayFinalized)

		stored, err := repos.Creditors().FindByID(ctx, owner.TenantID, c.ID)
		require.NoError(t, err)
		assert.True(t, stored.Balance.Equal(decimal.NewFromInt(350)))
	})
}
