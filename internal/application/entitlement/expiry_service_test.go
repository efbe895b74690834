package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/creatorhub/backend/internal/domain/catalog"
	domainentitlement "github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepFixture struct {
	service *ExpirySweepService
	grants  *fakeGrantRepo
	passes  *fakePassRepo
	pass    *catalog.AccessPass
}

func newSweepFixture(t *testing.T, batchSize int) *sweepFixture {
	t.Helper()

	grants := newFakeGrantRepo()
	passes := newFakePassRepo()

	pass, err := catalog.NewAccessPass(uuid.New(), uuid.New(), "Premium", "premium", catalog.PricingTypeMonthly, 999)
	require.NoError(t, err)
	require.NoError(t, passes.Save(context.Background(), pass))

	service := NewExpirySweepService(ExpirySweepServiceConfig{
		TransactionScope: &domainentitlement.NoOpTransactionScope{
			GrantRepo: grants,
			PassRepo:  passes,
		},
		BatchSize: batchSize,
	})

	return &sweepFixture{service: service, grants: grants, passes: passes, pass: pass}
}

func (f *sweepFixture) addGrant(t *testing.T, expiresAt *time.Time) *domainentitlement.AccessGrant {
	t.Helper()
	purchasable, err := domainentitlement.NewPurchasable(domainentitlement.PurchasableTypeSpace, f.pass.SpaceID)
	require.NoError(t, err)
	grant, err := domainentitlement.NewAccessGrant(uuid.New(), f.pass.TeamID, f.pass.ID, purchasable, expiresAt)
	require.NoError(t, err)
	require.NoError(t, f.grants.Save(context.Background(), grant))
	return grant
}

func TestExpirySweepService_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("expires past-expiry grants and releases stock", func(t *testing.T) {
		f := newSweepFixture(t, 10)
		past := time.Now().Add(-time.Hour)
		future := time.Now().Add(time.Hour)

		expired := f.addGrant(t, &past)
		active := f.addGrant(t, &future)
		perpetual := f.addGrant(t, nil)
		f.pass.ActiveGrantsCount = 3

		result, err := f.service.Sweep(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Expired)
		assert.Equal(t, domainentitlement.GrantStatusExpired, expired.Status)
		assert.Equal(t, domainentitlement.GrantStatusActive, active.Status)
		assert.Equal(t, domainentitlement.GrantStatusActive, perpetual.Status)
		assert.Equal(t, 2, f.pass.ActiveGrantsCount)
	})

	t.Run("sweeps across multiple batches", func(t *testing.T) {
		f := newSweepFixture(t, 2)
		past := time.Now().Add(-time.Hour)
		for i := 0; i < 5; i++ {
			f.addGrant(t, &past)
		}
		f.pass.ActiveGrantsCount = 5

		result, err := f.service.Sweep(ctx)
		require.NoError(t, err)

		assert.Equal(t, 5, result.Expired)
		assert.Equal(t, 0, f.pass.ActiveGrantsCount)
	})

	t.Run("empty sweep is a no-op", func(t *testing.T) {
		f := newSweepFixture(t, 10)

		result, err := f.service.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Expired)
	})

	t.Run("cancelled context stops the sweep", func(t *testing.T) {
		f := newSweepFixture(t, 10)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.service.Sweep(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
