package entitlement

import (
	"context"

	"github.com/creatorhub/backend/internal/domain/catalog"
	"github.com/creatorhub/backend/internal/domain/identity"
)

// TransactionScope runs a function against the entitlement store atomically.
// Purchase completion, stock reservation and grant creation must share one
// transaction: that single commit, together with the unique index on the
// grant's external reference, is what guarantees exactly one grant per
// successful payment even when the orchestrator and the webhook reconciler
// race to complete the same purchase.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the entitlement-store
// repositories within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	Purchases() PurchaseRepository
	Grants() AccessGrantRepository
	Passes() catalog.AccessPassRepository
	Memberships() identity.MembershipRepository
	WebhookEvents() WebhookEventRepository
}

// NoOpTransactionScope runs the function without a real transaction. Used in
// tests where repositories are in-memory.
type NoOpTransactionScope struct {
	PurchaseRepo     PurchaseRepository
	GrantRepo        AccessGrantRepository
	PassRepo         catalog.AccessPassRepository
	MembershipRepo   identity.MembershipRepository
	WebhookEventRepo WebhookEventRepository
}

// Execute runs the function directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Purchases returns the purchase repository
func (s *NoOpTransactionScope) Purchases() PurchaseRepository { return s.PurchaseRepo }

// Grants returns the access grant repository
func (s *NoOpTransactionScope) Grants() AccessGrantRepository { return s.GrantRepo }

// Passes returns the access pass repository
func (s *NoOpTransactionScope) Passes() catalog.AccessPassRepository { return s.PassRepo }

// Memberships returns the membership repository
func (s *NoOpTransactionScope) Memberships() identity.MembershipRepository { return s.MembershipRepo }

// WebhookEvents returns the webhook event repository
func (s *NoOpTransactionScope) WebhookEvents() WebhookEventRepository { return s.WebhookEventRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
