package persistence

import (
	"context"

	"github.com/creatorhub/backend/internal/domain/catalog"
	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormTransactionScope implements the entitlement TransactionScope using GORM
// transactions. It provides atomic execution of multiple repository
// operations: purchase completion, stock reservation, grant creation and the
// durable webhook event record all commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos entitlement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all entitlement-store
// repositories scoped to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Purchases returns the purchase repository scoped to the current transaction
func (r *gormTransactionalRepositories) Purchases() entitlement.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

// Grants returns the access grant repository scoped to the current transaction
func (r *gormTransactionalRepositories) Grants() entitlement.AccessGrantRepository {
	return NewGormAccessGrantRepository(r.tx)
}

// Passes returns the access pass repository scoped to the current transaction
func (r *gormTransactionalRepositories) Passes() catalog.AccessPassRepository {
	return NewGormAccessPassRepository(r.tx)
}

// Memberships returns the membership repository scoped to the current transaction
func (r *gormTransactionalRepositories) Memberships() identity.MembershipRepository {
	return NewGormMembershipRepository(r.tx)
}

// WebhookEvents returns the webhook event repository scoped to the current transaction
func (r *gormTransactionalRepositories) WebhookEvents() entitlement.WebhookEventRepository {
	return NewGormWebhookEventRepository(r.tx)
}

var _ entitlement.TransactionScope = (*GormTransactionScope)(nil)
var _ entitlement.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
