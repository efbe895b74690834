package entitlement

import (
	"context"
	"time"

	"github.com/creatorhub/backend/internal/domain/catalog"
	"github.com/creatorhub/backend/internal/domain/content"
	domainentitlement "github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type fakeSpaceRepo struct {
	spaces map[uuid.UUID]*content.Space
}

func (r *fakeSpaceRepo) FindByID(_ context.Context, id uuid.UUID) (*content.Space, error) {
	if space, ok := r.spaces[id]; ok {
		return space, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSpaceRepo) Save(_ context.Context, space *content.Space) error {
	r.spaces[space.ID] = space
	return nil
}

type fakeExperienceRepo struct {
	experiences map[uuid.UUID]*content.Experience
}

func (r *fakeExperienceRepo) FindByID(_ context.Context, id uuid.UUID) (*content.Experience, error) {
	if experience, ok := r.experiences[id]; ok {
		return experience, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeExperienceRepo) Save(_ context.Context, experience *content.Experience) error {
	r.experiences[experience.ID] = experience
	return nil
}

type fakeStreamRepo struct {
	streams map[uuid.UUID]*content.Stream
}

func (r *fakeStreamRepo) FindByID(_ context.Context, id uuid.UUID) (*content.Stream, error) {
	if stream, ok := r.streams[id]; ok {
		return stream, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStreamRepo) Save(_ context.Context, stream *content.Stream) error {
	r.streams[stream.ID] = stream
	return nil
}

type fakeGrantRepo struct {
	grants map[uuid.UUID]*domainentitlement.AccessGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: make(map[uuid.UUID]*domainentitlement.AccessGrant)}
}

func (r *fakeGrantRepo) FindByID(_ context.Context, id uuid.UUID) (*domainentitlement.AccessGrant, error) {
	if grant, ok := r.grants[id]; ok {
		return grant, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGrantRepo) FindByExternalRef(_ context.Context, externalRef string) (*domainentitlement.AccessGrant, error) {
	for _, grant := range r.grants {
		if externalRef != "" && grant.ExternalRef == externalRef {
			return grant, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGrantRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) ([]*domainentitlement.AccessGrant, error) {
	var result []*domainentitlement.AccessGrant
	for _, grant := range r.grants {
		if grant.UserID == userID && grant.Status == domainentitlement.GrantStatusActive {
			result = append(result, grant)
		}
	}
	return result, nil
}

func (r *fakeGrantRepo) FindActiveByUserAndPass(_ context.Context, userID, accessPassID uuid.UUID) (*domainentitlement.AccessGrant, error) {
	for _, grant := range r.grants {
		if grant.UserID == userID && grant.AccessPassID == accessPassID && grant.Status == domainentitlement.GrantStatusActive {
			return grant, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGrantRepo) FindExpiredActive(_ context.Context, asOf time.Time, limit int) ([]*domainentitlement.AccessGrant, error) {
	var result []*domainentitlement.AccessGrant
	for _, grant := range r.grants {
		if grant.Status == domainentitlement.GrantStatusActive && grant.ExpiresAt != nil && !grant.ExpiresAt.After(asOf) {
			result = append(result, grant)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (r *fakeGrantRepo) Save(_ context.Context, grant *domainentitlement.AccessGrant) error {
	if grant.ExternalRef != "" {
		for _, existing := range r.grants {
			if existing.ID != grant.ID && existing.ExternalRef == grant.ExternalRef {
				return shared.ErrAlreadyExists
			}
		}
	}
	r.grants[grant.ID] = grant
	return nil
}

type fakeMembershipRepo struct {
	memberships map[uuid.UUID]*identity.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{memberships: make(map[uuid.UUID]*identity.Membership)}
}

func (r *fakeMembershipRepo) FindByUserAndTeam(_ context.Context, userID, teamID uuid.UUID) (*identity.Membership, error) {
	for _, membership := range r.memberships {
		if membership.UserID == userID && membership.TeamID == teamID {
			return membership, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMembershipRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*identity.Membership, error) {
	var result []*identity.Membership
	for _, membership := range r.memberships {
		if membership.UserID == userID {
			result = append(result, membership)
		}
	}
	return result, nil
}

func (r *fakeMembershipRepo) Save(_ context.Context, membership *identity.Membership) error {
	r.memberships[membership.ID] = membership
	return nil
}

type fakePassRepo struct {
	passes map[uuid.UUID]*catalog.AccessPass
}

func newFakePassRepo() *fakePassRepo {
	return &fakePassRepo{passes: make(map[uuid.UUID]*catalog.AccessPass)}
}

func (r *fakePassRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.AccessPass, error) {
	if pass, ok := r.passes[id]; ok {
		return pass, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakePassRepo) FindBySpaceAndSlug(_ context.Context, spaceID uuid.UUID, slug string) (*catalog.AccessPass, error) {
	for _, pass := range r.passes {
		if pass.SpaceID == spaceID && pass.Slug == slug {
			return pass, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePassRepo) FindBySpace(_ context.Context, spaceID uuid.UUID) ([]*catalog.AccessPass, error) {
	var result []*catalog.AccessPass
	for _, pass := range r.passes {
		if pass.SpaceID == spaceID {
			result = append(result, pass)
		}
	}
	return result, nil
}

func (r *fakePassRepo) Save(_ context.Context, pass *catalog.AccessPass) error {
	r.passes[pass.ID] = pass
	return nil
}

func (r *fakePassRepo) ReserveStock(_ context.Context, id uuid.UUID) error {
	pass, ok := r.passes[id]
	if !ok {
		return shared.ErrNotFound
	}
	if pass.StockLimit != nil && pass.ActiveGrantsCount >= *pass.StockLimit {
		return shared.ErrSoldOut
	}
	pass.ActiveGrantsCount++
	return nil
}

func (r *fakePassRepo) ReleaseStock(_ context.Context, id uuid.UUID) error {
	pass, ok := r.passes[id]
	if !ok {
		return shared.ErrNotFound
	}
	if pass.ActiveGrantsCount > 0 {
		pass.ActiveGrantsCount--
	}
	return nil
}
