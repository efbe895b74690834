package entitlement

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/content"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GrantStatus represents the lifecycle of an access grant
type GrantStatus string

const (
	// GrantStatusActive means the grant currently confers access
	GrantStatusActive GrantStatus = "active"

	// GrantStatusCancelled means the grant was explicitly revoked
	GrantStatusCancelled GrantStatus = "cancelled"

	// GrantStatusRefunded means the payment behind the grant was refunded
	GrantStatusRefunded GrantStatus = "refunded"

	// GrantStatusExpired is written by the sweep job for grants whose
	// expiry has long passed; Active already computes expiry on read.
	GrantStatusExpired GrantStatus = "expired"
)

// String returns the string representation of GrantStatus
func (s GrantStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is known
func (s GrantStatus) IsValid() bool {
	switch s {
	case GrantStatusActive, GrantStatusCancelled, GrantStatusRefunded, GrantStatusExpired:
		return true
	}
	return false
}

// AccessGrant is the durable entitlement record scoping a user's access to a
// Team, Space or Experience. Scope cascades downward only: a grant on a node
// covers everything beneath that node and nothing beside it.
type AccessGrant struct {
	shared.BaseEntity
	UserID       uuid.UUID
	TeamID       uuid.UUID
	AccessPassID uuid.UUID
	Purchasable  Purchasable
	Status       GrantStatus

	// ExpiresAt is nil for perpetual (free/one-time) grants and set to the
	// billing period end for subscriptions.
	ExpiresAt *time.Time

	// ExternalRef mirrors the purchase's gateway reference. A unique index
	// on it guarantees at most one grant per gateway payment.
	ExternalRef string
}

// NewAccessGrant creates an active grant
func NewAccessGrant(userID, teamID, accessPassID uuid.UUID, purchasable Purchasable, expiresAt *time.Time) (*AccessGrant, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEAM", "Team ID cannot be empty")
	}
	if accessPassID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCESS_PASS", "Access pass ID cannot be empty")
	}
	if !purchasable.Type.IsValid() || purchasable.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PURCHASABLE", "Invalid purchasable reference")
	}

	return &AccessGrant{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		TeamID:       teamID,
		AccessPassID: accessPassID,
		Purchasable:  purchasable,
		Status:       GrantStatusActive,
		ExpiresAt:    expiresAt,
	}, nil
}

// Active returns true if the grant currently confers access. A past
// expires_at makes the grant inactive regardless of status.
func (g *AccessGrant) Active() bool {
	if g.Status != GrantStatusActive {
		return false
	}
	if g.ExpiresAt != nil && !g.ExpiresAt.After(time.Now()) {
		return false
	}
	return true
}

// GrantsAccessTo returns true if the grant confers access to exactly the
// given hierarchy node. Cascading to descendants is the resolver's job; the
// grant itself only answers exact-node questions.
func (g *AccessGrant) GrantsAccessTo(node content.ResourceRef) bool {
	return g.Active() && g.Purchasable.Matches(node)
}

// SetExternalRef records the gateway reference backing the grant
func (g *AccessGrant) SetExternalRef(ref string) {
	g.ExternalRef = ref
	g.Touch()
}

// ExtendUntil pushes the expiry forward after a successful renewal. It never
// shortens an existing expiry.
func (g *AccessGrant) ExtendUntil(expiresAt time.Time) error {
	if g.Status != GrantStatusActive {
		return shared.ErrInvalidState
	}
	if g.ExpiresAt != nil && expiresAt.Before(*g.ExpiresAt) {
		return nil
	}
	g.ExpiresAt = &expiresAt
	g.Touch()
	return nil
}

// Cancel revokes the grant immediately
func (g *AccessGrant) Cancel() error {
	if g.Status != GrantStatusActive {
		return shared.ErrInvalidState
	}
	g.Status = GrantStatusCancelled
	g.Touch()
	return nil
}

// CancelAtPeriodEnd keeps the grant active until the end of the current
// billing period, after which expiry makes it inactive.
func (g *AccessGrant) CancelAtPeriodEnd(periodEnd time.Time) error {
	if g.Status != GrantStatusActive {
		return shared.ErrInvalidState
	}
	g.ExpiresAt = &periodEnd
	g.Touch()
	return nil
}

// Refund marks the grant as refunded
func (g *AccessGrant) Refund() error {
	if g.Status != GrantStatusActive {
		return shared.ErrInvalidState
	}
	g.Status = GrantStatusRefunded
	g.Touch()
	return nil
}

// MarkExpired is used by the sweep job to persist computed expiry for query
// efficiency. It only applies to grants that are actually past expiry.
func (g *AccessGrant) MarkExpired() error {
	if g.Status != GrantStatusActive {
		return shared.ErrInvalidState
	}
	if g.ExpiresAt == nil || g.ExpiresAt.After(time.Now()) {
		return shared.ErrInvalidState
	}
	g.Status = GrantStatusExpired
	g.Touch()
	return nil
}
