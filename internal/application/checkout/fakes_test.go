package checkout

import (
	"context"
	"time"

	"github.com/creatorhub/backend/internal/domain/catalog"
	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
)

// In-memory repository fakes mirroring the persistence layer's contracts,
// including the unique external reference and the stock counter.

type fakeUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindByStripeCustomerID(_ context.Context, customerID string) (*identity.User, error) {
	for _, user := range r.users {
		if user.StripeCustomerID == customerID {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users[user.ID] = user
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

type fakePurchaseRepo struct {
	purchases map[uuid.UUID]*entitlement.Purchase
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[uuid.UUID]*entitlement.Purchase)}
}

func (r *fakePurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*entitlement.Purchase, error) {
	if purchase, ok := r.purchases[id]; ok {
		return purchase, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseRepo) FindByExternalRef(_ context.Context, externalRef string) (*entitlement.Purchase, error) {
	if externalRef == "" {
		return nil, shared.ErrNotFound
	}
	for _, purchase := range r.purchases {
		if purchase.ExternalRef == externalRef {
			return purchase, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseRepo) FindPendingByUserAndPass(_ context.Context, userID, accessPassID uuid.UUID) (*entitlement.Purchase, error) {
	var latest *entitlement.Purchase
	for _, purchase := range r.purchases {
		if purchase.UserID == userID && purchase.AccessPassID == accessPassID && purchase.Pending() {
			if latest == nil || purchase.CreatedAt.After(latest.CreatedAt) {
				latest = purchase
			}
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
}

func (r *fakePurchaseRepo) Save(_ context.Context, purchase *entitlement.Purchase) error {
	if purchase.ExternalRef != "" {
		for _, existing := range r.purchases {
			if existing.ID != purchase.ID && existing.ExternalRef == purchase.ExternalRef {
				return shared.ErrAlreadyExists
			}
		}
	}
	r.purchases[purchase.ID] = purchase
	return nil
}

type fakeGrantRepo struct {
	grants map[uuid.UUID]*entitlement.AccessGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: make(map[uuid.UUID]*entitlement.AccessGrant)}
}

func (r *fakeGrantRepo) FindByID(_ context.Context, id uuid.UUID) (*entitlement.AccessGrant, error) {
	if grant, ok := r.grants[id]; ok {
		return grant, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGrantRepo) FindByExternalRef(_ context.Context, externalRef string) (*entitlement.AccessGrant, error) {
	if externalRef == "" {
		return nil, shared.ErrNotFound
	}
	for _, grant := range r.grants {
		if grant.ExternalRef == externalRef {
			return grant, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGrantRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) ([]*entitlement.AccessGrant, error) {
	var result []*entitlement.AccessGrant
	for _, grant := range r.grants {
		if grant.UserID == userID && grant.Status == entitlement.GrantStatusActive {
			result = append(result, grant)
		}
	}
	return result, nil
}

func (r *fakeGrantRepo) FindActiveByUserAndPass(_ context.Context, userID, accessPassID uuid.UUID) (*entitlement.AccessGrant, error) {
	for _, grant := range r.grants {
		if grant.UserID == userID && grant.AccessPassID == accessPassID && grant.Status == entitlement.GrantStatusActive {
			return grant, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeGrantRepo) FindExpiredActive(_ context.Context, asOf time.Time, limit int) ([]*entitlement.AccessGrant, error) {
	var result []*entitlement.AccessGrant
	for _, grant := range r.grants {
		if grant.Status == entitlement.GrantStatusActive && grant.ExpiresAt != nil && !grant.ExpiresAt.After(asOf) {
			result = append(result, grant)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (r *fakeGrantRepo) Save(_ context.Context, grant *entitlement.AccessGrant) error {
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

type fakeWebhookEventRepo struct {
	events map[string]*entitlement.WebhookEvent
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{events: make(map[string]*entitlement.WebhookEvent)}
}

func (r *fakeWebhookEventRepo) Record(_ context.Context, event *entitlement.WebhookEvent) error {
	if _, ok := r.events[event.EventID]; ok {
		return shared.ErrAlreadyExists
	}
	r.events[event.EventID] = event
	return nil
}

// mockGateway scripts the payment gateway per call.
type mockGateway struct {
	createCustomer      func(ctx context.Context, input billing.CreateCustomerInput) (*billing.CreateCustomerOutput, error)
	createPaymentIntent func(ctx context.Context, input billing.CreatePaymentIntentInput) (*billing.PaymentIntentOutput, error)
	createSubscription  func(ctx context.Context, input billing.CreateSubscriptionInput) (*billing.CreateSubscriptionOutput, error)

	customerCalls     int
	intentCalls       int
	subscriptionCalls int
}

func (g *mockGateway) CreateCustomer(ctx context.Context, input billing.CreateCustomerInput) (*billing.CreateCustomerOutput, error) {
	g.customerCalls++
	if g.createCustomer != nil {
		return g.createCustomer(ctx, input)
	}
	return &billing.CreateCustomerOutput{CustomerID: "cus_test"}, nil
}

func (g *mockGateway) CreatePaymentIntent(ctx context.Context, input billing.CreatePaymentIntentInput) (*billing.PaymentIntentOutput, error) {
	g.intentCalls++
	if g.createPaymentIntent != nil {
		return g.createPaymentIntent(ctx, input)
	}
	return &billing.PaymentIntentOutput{
		PaymentIntentID: "pi_test",
		Status:          billing.PaymentIntentStatusSucceeded,
		AmountCents:     input.AmountCents,
	}, nil
}

func (g *mockGateway) CreateSubscription(ctx context.Context, input billing.CreateSubscriptionInput) (*billing.CreateSubscriptionOutput, error) {
	g.subscriptionCalls++
	if g.createSubscription != nil {
		return g.createSubscription(ctx, input)
	}
	return &billing.CreateSubscriptionOutput{
		SubscriptionID:   "sub_test",
		Status:           billing.SubscriptionStatusActive,
		CurrentPeriodEnd: time.Now().Add(30 * 24 * time.Hour),
	}, nil
}
