package persistence

import (
	"context"
	"testing"

	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormWebhookEventRepository_Record(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWebhookEventRepository(db)
	ctx := context.Background()

	event, err := entitlement.NewWebhookEvent("evt_once", "payment_intent.succeeded")
	require.NoError(t, err)
	require.NoError(t, repo.Record(ctx, event))

	t.Run("replayed event is rejected", func(t *testing.T) {
		replay, err := entitlement.NewWebhookEvent("evt_once", "payment_intent.succeeded")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Record(ctx, replay), shared.ErrAlreadyExists)
	})

	t.Run("distinct events coexist", func(t *testing.T) {
		other, err := entitlement.NewWebhookEvent("evt_other", "invoice.paid")
		require.NoError(t, err)
		assert.NoError(t, repo.Record(ctx, other))
	})
}
