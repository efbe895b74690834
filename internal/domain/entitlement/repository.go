package entitlement

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PurchaseRepository provides access to purchase audit records
type PurchaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByExternalRef looks a purchase up by its gateway payment-intent or
	// subscription ID, or returns shared.ErrNotFound.
	FindByExternalRef(ctx context.Context, externalRef string) (*Purchase, error)

	// FindPendingByUserAndPass returns the most recent pending purchase for
	// the user and pass. The reconciler falls back to it when a gateway
	// timeout left a purchase without an external reference.
	FindPendingByUserAndPass(ctx context.Context, userID, accessPassID uuid.UUID) (*Purchase, error)

	Save(ctx context.Context, purchase *Purchase) error
}

// AccessGrantRepository provides access to entitlement grants
type AccessGrantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccessGrant, error)
	FindByExternalRef(ctx context.Context, externalRef string) (*AccessGrant, error)

	// FindActiveByUser returns the user's grants with status active; callers
	// still apply the computed expiry check via AccessGrant.Active.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*AccessGrant, error)

	// FindActiveByUserAndPass returns the user's active grant for a pass, or
	// shared.ErrNotFound. Used to make repeated free purchases idempotent.
	FindActiveByUserAndPass(ctx context.Context, userID, accessPassID uuid.UUID) (*AccessGrant, error)

	// FindExpiredActive returns grants still marked active whose expiry has
	// passed, for the sweep job.
	FindExpiredActive(ctx context.Context, asOf time.Time, limit int) ([]*AccessGrant, error)

	// Save persists a grant. Inserting a second grant with an already-used
	// external reference fails with shared.ErrAlreadyExists.
	Save(ctx context.Context, grant *AccessGrant) error
}

// WebhookEventRepository records processed gateway events
type WebhookEventRepository interface {
	// Record inserts the processed-event row, returning
	// shared.ErrAlreadyExists if the event was processed before.
	Record(ctx context.Context, event *WebhookEvent) error
}
