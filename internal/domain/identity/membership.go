package identity

import (
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MembershipRole represents a user's role on a team
type MembershipRole string

const (
	// MembershipRoleOwner is the team creator
	MembershipRoleOwner MembershipRole = "owner"

	// MembershipRoleAdmin can manage the team's catalog and content
	MembershipRoleAdmin MembershipRole = "admin"

	// MembershipRoleModerator can moderate the team's streams and chats
	MembershipRoleModerator MembershipRole = "moderator"

	// MembershipRoleBuyer is granted automatically on first purchase
	MembershipRoleBuyer MembershipRole = "buyer"
)

// String returns the string representation of MembershipRole
func (r MembershipRole) String() string {
	return string(r)
}

// IsValid returns true if the role is a known role
func (r MembershipRole) IsValid() bool {
	switch r {
	case MembershipRoleOwner, MembershipRoleAdmin, MembershipRoleModerator, MembershipRoleBuyer:
		return true
	}
	return false
}

// Privileged returns true for roles whose holders can always view the team's
// content regardless of billing state.
func (r MembershipRole) Privileged() bool {
	switch r {
	case MembershipRoleOwner, MembershipRoleAdmin, MembershipRoleModerator:
		return true
	}
	return false
}

// Membership links a user to a team with a role
type Membership struct {
	shared.BaseEntity
	UserID uuid.UUID
	TeamID uuid.UUID
	Role   MembershipRole
}

// NewMembership creates a new membership
func NewMembership(userID, teamID uuid.UUID, role MembershipRole) (*Membership, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEAM", "Team ID cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid membership role")
	}

	return &Membership{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		TeamID:     teamID,
		Role:       role,
	}, nil
}
