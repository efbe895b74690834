package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/creatorhub/backend/internal/domain/catalog"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPass(t *testing.T, spaceID uuid.UUID, slug string) *catalog.AccessPass {
	t.Helper()
	pass, err := catalog.NewAccessPass(spaceID, uuid.New(), "Backstage", slug, catalog.PricingTypeOneTime, 2500)
	require.NoError(t, err)
	return pass
}

func TestGormAccessPassRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccessPassRepository(db)
	ctx := context.Background()

	t.Run("round-trips a pass", func(t *testing.T) {
		pass := newPass(t, uuid.New(), "backstage")
		pass.WithStockLimit(50)
		pass.Publish()
		require.NoError(t, repo.Save(ctx, pass))

		found, err := repo.FindByID(ctx, pass.ID)
		require.NoError(t, err)
		assert.Equal(t, pass.Title, found.Title)
		assert.Equal(t, int64(2500), found.PriceCents)
		assert.True(t, found.Published)
		require.NotNil(t, found.StockLimit)
		assert.Equal(t, 50, *found.StockLimit)
	})

	t.Run("missing pass returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("stale snapshot cannot clobber the stock counter", func(t *testing.T) {
		pass := newPass(t, uuid.New(), "edited")
		require.NoError(t, repo.Save(ctx, pass))

		// Two units reserved after the catalog edit loaded its snapshot.
		require.NoError(t, repo.ReserveStock(ctx, pass.ID))
		require.NoError(t, repo.ReserveStock(ctx, pass.ID))

		pass.Title = "Backstage (renamed)"
		require.NoError(t, repo.Save(ctx, pass))

		found, err := repo.FindByID(ctx, pass.ID)
		require.NoError(t, err)
		assert.Equal(t, "Backstage (renamed)", found.Title)
		assert.Equal(t, 2, found.ActiveGrantsCount)
	})
}

func TestGormAccessPassRepository_FindBySpaceAndSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccessPassRepository(db)
	ctx := context.Background()

	spaceID := uuid.New()
	pass := newPass(t, spaceID, "vip")
	require.NoError(t, repo.Save(ctx, pass))

	found, err := repo.FindBySpaceAndSlug(ctx, spaceID, "vip")
	require.NoError(t, err)
	assert.Equal(t, pass.ID, found.ID)

	// The same slug under a different space is a different pass.
	_, err = repo.FindBySpaceAndSlug(ctx, uuid.New(), "vip")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAccessPassRepository_FindBySpace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccessPassRepository(db)
	ctx := context.Background()

	spaceID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, newPass(t, spaceID, fmt.Sprintf("tier-%d", i))))
	}
	require.NoError(t, repo.Save(ctx, newPass(t, uuid.New(), "elsewhere")))

	passes, err := repo.FindBySpace(ctx, spaceID)
	require.NoError(t, err)
	assert.Len(t, passes, 3)
}

func TestGormAccessPassRepository_ReserveStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccessPassRepository(db)
	ctx := context.Background()

	t.Run("limited pass sells out at the limit", func(t *testing.T) {
		pass := newPass(t, uuid.New(), "limited")
		pass.WithStockLimit(2)
		require.NoError(t, repo.Save(ctx, pass))

		require.NoError(t, repo.ReserveStock(ctx, pass.ID))
		require.NoError(t, repo.ReserveStock(ctx, pass.ID))
		assert.ErrorIs(t, repo.ReserveStock(ctx, pass.ID), shared.ErrSoldOut)

		found, err := repo.FindByID(ctx, pass.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, found.ActiveGrantsCount)
	})

	t.Run("unlimited pass always reserves", func(t *testing.T) {
		pass := newPass(t, uuid.New(), "unlimited")
		require.NoError(t, repo.Save(ctx, pass))

		for i := 0; i < 5; i++ {
			require.NoError(t, repo.ReserveStock(ctx, pass.ID))
		}

		found, err := repo.FindByID(ctx, pass.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, found.ActiveGrantsCount)
	})

	t.Run("unknown pass returns not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.ReserveStock(ctx, uuid.New()), shared.ErrNotFound)
	})

	t.Run("zero limit never reserves", func(t *testing.T) {
		pass := newPass(t, uuid.New(), "waitlist-only")
		pass.WithStockLimit(0)
		require.NoError(t, repo.Save(ctx, pass))

		assert.ErrorIs(t, repo.ReserveStock(ctx, pass.ID), shared.ErrSoldOut)
	})
}

func TestGormAccessPassRepository_ReleaseStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccessPassRepository(db)
	ctx := context.Background()

	t.Run("frees a reserved unit", func(t *testing.T) {
		pass := newPass(t, uuid.New(), "churn")
		pass.WithStockLimit(1)
		require.NoError(t, repo.Save(ctx, pass))

		require.NoError(t, repo.ReserveStock(ctx, pass.ID))
		assert.ErrorIs(t, repo.ReserveStock(ctx, pass.ID), shared.ErrSoldOut)

		require.NoError(t, repo.ReleaseStock(ctx, pass.ID))
		assert.NoError(t, repo.ReserveStock(ctx, pass.ID))
	})

	t.Run("never goes below zero", func(t *testing.T) {
		pass := newPass(t, uuid.New(), "floor")
		require.NoError(t, repo.Save(ctx, pass))

		require.NoError(t, repo.ReleaseStock(ctx, pass.ID))

		found, err := repo.FindByID(ctx, pass.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.ActiveGrantsCount)
	})
}
