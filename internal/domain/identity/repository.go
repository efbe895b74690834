package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository provides access to users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// TeamRepository provides access to teams
type TeamRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Team, error)
	Save(ctx context.Context, team *Team) error
}

// MembershipRepository provides access to team memberships
type MembershipRepository interface {
	// FindByUserAndTeam returns the user's membership on the team, or
	// shared.ErrNotFound if none exists.
	FindByUserAndTeam(ctx context.Context, userID, teamID uuid.UUID) (*Membership, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Membership, error)
	Save(ctx context.Context, membership *Membership) error
}
