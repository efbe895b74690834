package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/creatorhub/backend/internal/domain/content"
	domainentitlement "github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accessFixture struct {
	service     *AccessService
	grants      *fakeGrantRepo
	memberships *fakeMembershipRepo

	teamID     uuid.UUID
	space      *content.Space
	experience *content.Experience
	sibling    *content.Experience
	stream     *content.Stream
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()

	teamID := uuid.New()
	space, err := content.NewSpace(teamID, "Main Space", "main")
	require.NoError(t, err)
	experience, err := content.NewExperience(space.ID, "Course")
	require.NoError(t, err)
	sibling, err := content.NewExperience(space.ID, "Community")
	require.NoError(t, err)
	stream, err := content.NewStream(experience.ID, "Lesson 1")
	require.NoError(t, err)

	resolver := content.NewChainResolver(
		&fakeSpaceRepo{spaces: map[uuid.UUID]*content.Space{space.ID: space}},
		&fakeExperienceRepo{experiences: map[uuid.UUID]*content.Experience{
			experience.ID: experience,
			sibling.ID:    sibling,
		}},
		&fakeStreamRepo{streams: map[uuid.UUID]*content.Stream{stream.ID: stream}},
	)

	grants := newFakeGrantRepo()
	memberships := newFakeMembershipRepo()

	service := NewAccessService(AccessServiceConfig{
		ChainResolver:  resolver,
		GrantRepo:      grants,
		MembershipRepo: memberships,
	})

	return &accessFixture{
		service:     service,
		grants:      grants,
		memberships: memberships,
		teamID:      teamID,
		space:       space,
		experience:  experience,
		sibling:     sibling,
		stream:      stream,
	}
}

func (f *accessFixture) addGrant(t *testing.T, userID uuid.UUID, purchasableType domainentitlement.PurchasableType, nodeID uuid.UUID, expiresAt *time.Time) *domainentitlement.AccessGrant {
	t.Helper()
	purchasable, err := domainentitlement.NewPurchasable(purchasableType, nodeID)
	require.NoError(t, err)
	grant, err := domainentitlement.NewAccessGrant(userID, f.teamID, uuid.New(), purchasable, expiresAt)
	require.NoError(t, err)
	require.NoError(t, f.grants.Save(context.Background(), grant))
	return grant
}

func TestAccessService_GrantCascade(t *testing.T) {
	ctx := context.Background()

	t.Run("space grant covers the space and everything beneath it", func(t *testing.T) {
		f := newAccessFixture(t)
		userID := uuid.New()
		grant := f.addGrant(t, userID, domainentitlement.PurchasableTypeSpace, f.space.ID, nil)

		for _, ref := range []content.ResourceRef{
			f.space.Ref(),
			f.experience.Ref(),
			f.sibling.Ref(),
			f.stream.Ref(),
		} {
			decision, err := f.service.CheckAccess(ctx, userID, ref)
			require.NoError(t, err)
			assert.True(t, decision.Allowed, "expected access to %s", ref.Type)
			assert.Equal(t, ReasonActiveGrant, decision.Reason)
			require.NotNil(t, decision.GrantID)
			assert.Equal(t, grant.ID, *decision.GrantID)
			require.NotNil(t, decision.MatchedNode)
			assert.Equal(t, f.space.Ref(), *decision.MatchedNode)
		}
	})

	t.Run("experience grant does not cover a sibling experience", func(t *testing.T) {
		f := newAccessFixture(t)
		userID := uuid.New()
		f.addGrant(t, userID, domainentitlement.PurchasableTypeExperience, f.experience.ID, nil)

		decision, err := f.service.CheckAccess(ctx, userID, f.experience.Ref())
		require.NoError(t, err)
		assert.True(t, decision.Allowed)

		decision, err = f.service.CheckAccess(ctx, userID, f.sibling.Ref())
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNoGrant, decision.Reason)
	})

	t.Run("experience grant does not cover the parent space", func(t *testing.T) {
		f := newAccessFixture(t)
		userID := uuid.New()
		f.addGrant(t, userID, domainentitlement.PurchasableTypeExperience, f.experience.ID, nil)

		decision, err := f.service.CheckAccess(ctx, userID, f.space.Ref())
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("experience grant covers its streams", func(t *testing.T) {
		f := newAccessFixture(t)
		userID := uuid.New()
		f.addGrant(t, userID, domainentitlement.PurchasableTypeExperience, f.experience.ID, nil)

		decision, err := f.service.CheckAccess(ctx, userID, f.stream.Ref())
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, f.experience.Ref(), *decision.MatchedNode)
	})

	t.Run("team grant covers everything", func(t *testing.T) {
		f := newAccessFixture(t)
		userID := uuid.New()
		f.addGrant(t, userID, domainentitlement.PurchasableTypeTeam, f.teamID, nil)

		decision, err := f.service.CheckAccess(ctx, userID, f.stream.Ref())
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("expired grant confers nothing", func(t *testing.T) {
		f := newAccessFixture(t)
		userID := uuid.New()
		past := time.Now().Add(-time.Minute)
		f.addGrant(t, userID, domainentitlement.PurchasableTypeSpace, f.space.ID, &past)

		decision, err := f.service.CheckAccess(ctx, userID, f.space.Ref())
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("no grant denies access", func(t *testing.T) {
		f := newAccessFixture(t)

		decision, err := f.service.CheckAccess(ctx, uuid.New(), f.space.Ref())
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNoGrant, decision.Reason)
		assert.Nil(t, decision.GrantID)
	})
}

func TestAccessService_PrivilegedRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("owner, admin and moderator bypass grants", func(t *testing.T) {
		for _, role := range []identity.MembershipRole{
			identity.MembershipRoleOwner,
			identity.MembershipRoleAdmin,
			identity.MembershipRoleModerator,
		} {
			f := newAccessFixture(t)
			userID := uuid.New()
			membership, err := identity.NewMembership(userID, f.teamID, role)
			require.NoError(t, err)
			require.NoError(t, f.memberships.Save(ctx, membership))

			decision, err := f.service.CheckAccess(ctx, userID, f.stream.Ref())
			require.NoError(t, err)
			assert.True(t, decision.Allowed, "role %s", role)
			assert.Equal(t, ReasonPrivilegedRole, decision.Reason)
			assert.Nil(t, decision.GrantID)
		}
	})

	t.Run("buyer role alone does not confer access", func(t *testing.T) {
		f := newAccessFixture(t)
		userID := uuid.New()
		membership, err := identity.NewMembership(userID, f.teamID, identity.MembershipRoleBuyer)
		require.NoError(t, err)
		require.NoError(t, f.memberships.Save(ctx, membership))

		decision, err := f.service.CheckAccess(ctx, userID, f.space.Ref())
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})
}

func TestAccessService_UnknownResource(t *testing.T) {
	f := newAccessFixture(t)

	_, err := f.service.CheckAccess(context.Background(), uuid.New(), content.ResourceRef{
		Type: content.ResourceTypeSpace,
		ID:   uuid.New(),
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
