package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/contexts/finance-core/balance-service/adapters/memory"
	domainerrors "vantage/contexts/finance-core/balance-service/domain/errors"
	authapp "vantage/contexts/identity-access/authguard/application"
	"vantage/internal/shared/identity"
)

func newService(store *memory.Store) Service {
	return Service{
		Balances: store,
		Guard:    authapp.Service{},
		Clock:    store,
		IDGen:    store,
	}
}

func TestReserveThenCredit(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)
	ctx := context.Background()

	require.NoError(t, service.Reserve(ctx, "inf-1", 25, "application:app-1:approved", "app-1"))

	balance, err := store.GetBalance(ctx, "inf-1")
	require.NoError(t, err)
	assert.Equal(t, 25.0, balance.Pending)
	assert.Equal(t, 25.0, balance.TotalEarnings)
	assert.Zero(t, balance.Available)
	assert.True(t, balance.Consistent())

	require.NoError(t, service.Credit(ctx, "inf-1", 25, "submission:sub-1:approved", "sub-1"))

	balance, err = store.GetBalance(ctx, "inf-1")
	require.NoError(t, err)
	assert.Zero(t, balance.Pending)
	assert.Equal(t, 25.0, balance.Available)
	assert.Equal(t, 25.0, balance.TotalEarnings)
	assert.True(t, balance.Consistent())
}

func TestCreditIsExactlyOncePerKey(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)
	ctx := context.Background()

	require.NoError(t, service.Reserve(ctx, "inf-1", 25, "application:app-1:approved", "app-1"))

	// Retried dispatches reuse the idempotency key; the ledger absorbs them.
	for i := 0; i < 3; i++ {
		require.NoError(t, service.Credit(ctx, "inf-1", 25, "submission:sub-1:approved", "sub-1"))
	}

	balance, err := store.GetBalance(ctx, "inf-1")
	require.NoError(t, err)
	assert.Equal(t, 25.0, balance.Available)
	assert.Equal(t, 25.0, balance.TotalEarnings)

	entries, err := store.ListEntries(ctx, "inf-1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCreditRequiresReservedFunds(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	err := service.Credit(context.Background(), "inf-1", 25, "submission:sub-1:approved", "sub-1")
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientPending)
}

func TestReserveRejectsNonPositiveAmounts(t *testing.T) {
	service := newService(memory.NewStore())

	assert.ErrorIs(t, service.Reserve(context.Background(), "inf-1", 0, "k1", ""), domainerrors.ErrInvalidAmount)
	assert.ErrorIs(t, service.Reserve(context.Background(), "inf-1", -5, "k2", ""), domainerrors.ErrInvalidAmount)
	assert.ErrorIs(t, service.Credit(context.Background(), "inf-1", 0, "k3", ""), domainerrors.ErrInvalidAmount)
}

func TestAdminAdjustGuarded(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)
	ctx := context.Background()

	err := service.AdminAdjust(ctx, identity.Actor{ID: "biz-1", Role: identity.RoleBusiness}, "inf-1", 10, "manual bonus")
	assert.ErrorIs(t, err, identity.ErrForbidden)

	admin := identity.Actor{ID: "adm-1", Role: identity.RoleAdmin}
	require.NoError(t, service.AdminAdjust(ctx, admin, "inf-1", 10, "manual bonus"))

	balance, err := store.GetBalance(ctx, "inf-1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, balance.Available)
	assert.Equal(t, 10.0, balance.TotalEarnings)
	assert.True(t, balance.Consistent())

	assert.ErrorIs(t, service.AdminAdjust(ctx, admin, "inf-1", 0, ""), domainerrors.ErrInvalidAmount)
}

func TestGetBalanceScopedToParty(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)
	ctx := context.Background()

	require.NoError(t, service.Reserve(ctx, "inf-1", 25, "application:app-1:approved", "app-1"))

	owner := identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer}
	balance, err := service.GetBalance(ctx, owner, "inf-1")
	require.NoError(t, err)
	assert.Equal(t, 25.0, balance.Pending)

	stranger := identity.Actor{ID: "inf-2", Role: identity.RoleInfluencer}
	_, err = service.GetBalance(ctx, stranger, "inf-1")
	assert.ErrorIs(t, err, identity.ErrForbidden)

	// Unknown influencers read as zero-valued balances, not errors.
	balance, err = service.GetBalance(ctx, identity.Actor{ID: "adm-1", Role: identity.RoleAdmin}, "inf-9")
	require.NoError(t, err)
	assert.Zero(t, balance.TotalEarnings)
}
