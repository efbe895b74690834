package persistence

import (
	"context"
	"testing"

	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	t.Run("round-trips a user", func(t *testing.T) {
		user, err := identity.NewUser("ada@example.com", "Ada")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", found.Email)
		assert.False(t, found.HasStripeCustomer())
	})

	t.Run("persists the gateway customer id", func(t *testing.T) {
		user, err := identity.NewUser("grace@example.com", "Grace")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, user))

		user.SetStripeCustomerID("cus_grace")
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByStripeCustomerID(ctx, "cus_grace")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("empty customer id is never a match", func(t *testing.T) {
		_, err := repo.FindByStripeCustomerID(ctx, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing user returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTeamRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTeamRepository(db)
	ctx := context.Background()

	team, err := identity.NewTeam("Nightshift", "nightshift")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, team))

	found, err := repo.FindByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nightshift", found.Name)
	assert.Equal(t, "nightshift", found.Slug)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMembershipRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMembershipRepository(db)
	ctx := context.Background()

	t.Run("finds by user and team", func(t *testing.T) {
		membership, err := identity.NewMembership(uuid.New(), uuid.New(), identity.MembershipRoleBuyer)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, membership))

		found, err := repo.FindByUserAndTeam(ctx, membership.UserID, membership.TeamID)
		require.NoError(t, err)
		assert.Equal(t, identity.MembershipRoleBuyer, found.Role)

		_, err = repo.FindByUserAndTeam(ctx, membership.UserID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("one membership per user and team", func(t *testing.T) {
		userID := uuid.New()
		teamID := uuid.New()

		first, err := identity.NewMembership(userID, teamID, identity.MembershipRoleBuyer)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, first))

		second, err := identity.NewMembership(userID, teamID, identity.MembershipRoleAdmin)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrAlreadyExists)
	})

	t.Run("lists all memberships of a user", func(t *testing.T) {
		userID := uuid.New()
		for i := 0; i < 2; i++ {
			membership, err := identity.NewMembership(userID, uuid.New(), identity.MembershipRoleBuyer)
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, membership))
		}

		memberships, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, memberships, 2)
	})
}
