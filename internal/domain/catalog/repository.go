package catalog

import (
	"context"

	"github.com/google/uuid"
)

// AccessPassRepository provides access to access passes
type AccessPassRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccessPass, error)
	FindBySpaceAndSlug(ctx context.Context, spaceID uuid.UUID, slug string) (*AccessPass, error)
	FindBySpace(ctx context.Context, spaceID uuid.UUID) ([]*AccessPass, error)
	Save(ctx context.Context, pass *AccessPass) error

	// ReserveStock atomically increments the active grant counter, failing
	// with shared.ErrSoldOut when a stock-limited pass has no units left.
	// It must run inside the same transaction that creates the grant so two
	// concurrent buyers cannot both take the last unit.
	ReserveStock(ctx context.Context, id uuid.UUID) error

	// ReleaseStock decrements the active grant counter after a refund,
	// cancellation or expiry.
	ReleaseStock(ctx context.Context, id uuid.UUID) error
}
