package scheduler

import (
	"context"
	"testing"
	"time"

	appentitlement "github.com/creatorhub/backend/internal/application/entitlement"
	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestScheduler(t *testing.T, interval time.Duration) (*GrantExpiryScheduler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))

	sweep := appentitlement.NewExpirySweepService(appentitlement.ExpirySweepServiceConfig{
		TransactionScope: persistence.NewGormTransactionScope(db),
	})

	return NewGrantExpiryScheduler(GrantExpirySchedulerConfig{
		Interval:     interval,
		SweepTimeout: time.Second,
	}, sweep, nil), db
}

func TestGrantExpiryScheduler_StartStop(t *testing.T) {
	scheduler, _ := newTestScheduler(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	// Second start is a no-op.
	require.NoError(t, scheduler.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, scheduler.Stop(stopCtx))
	// Second stop is a no-op.
	require.NoError(t, scheduler.Stop(stopCtx))
}

func TestGrantExpiryScheduler_SweepsOnStartup(t *testing.T) {
	scheduler, db := newTestScheduler(t, time.Hour)
	ctx := context.Background()

	grantRepo := persistence.NewGormAccessGrantRepository(db)
	purchasable, err := entitlement.NewPurchasable(entitlement.PurchasableTypeSpace, uuid.New())
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	grant, err := entitlement.NewAccessGrant(uuid.New(), uuid.New(), uuid.New(), purchasable, &past)
	require.NoError(t, err)
	require.NoError(t, grantRepo.Save(ctx, grant))

	require.NoError(t, scheduler.Start(ctx))

	// The startup sweep runs immediately; poll briefly for its commit.
	deadline := time.Now().Add(5 * time.Second)
	for {
		found, err := grantRepo.FindByID(ctx, grant.ID)
		require.NoError(t, err)
		if found.Status == entitlement.GrantStatusExpired {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("grant not expired by startup sweep, status %s", found.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, scheduler.Stop(stopCtx))

	found, err := grantRepo.FindByID(ctx, grant.ID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.GrantStatusExpired, found.Status)
}
