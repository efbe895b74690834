package entitlement

import (
	"github.com/creatorhub/backend/internal/domain/content"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchasableType is the closed set of hierarchy nodes a grant may reference.
// Streams are deliberately excluded: stream access is always inherited from
// an ancestor grant.
type PurchasableType string

const (
	// PurchasableTypeTeam scopes a grant to everything under a team
	PurchasableTypeTeam PurchasableType = "team"

	// PurchasableTypeSpace scopes a grant to everything under a space
	PurchasableTypeSpace PurchasableType = "space"

	// PurchasableTypeExperience scopes a grant to one experience's streams
	PurchasableTypeExperience PurchasableType = "experience"
)

// String returns the string representation of PurchasableType
func (t PurchasableType) String() string {
	return string(t)
}

// IsValid returns true if the purchasable type is known
func (t PurchasableType) IsValid() bool {
	switch t {
	case PurchasableTypeTeam, PurchasableTypeSpace, PurchasableTypeExperience:
		return true
	}
	return false
}

// Purchasable is a tagged reference to exactly one Team, Space or Experience
type Purchasable struct {
	Type PurchasableType
	ID   uuid.UUID
}

// NewPurchasable creates a validated purchasable reference
func NewPurchasable(purchasableType PurchasableType, id uuid.UUID) (Purchasable, error) {
	if !purchasableType.IsValid() {
		return Purchasable{}, shared.NewDomainError("INVALID_PURCHASABLE", "Invalid purchasable type")
	}
	if id == uuid.Nil {
		return Purchasable{}, shared.NewDomainError("INVALID_PURCHASABLE", "Purchasable ID cannot be empty")
	}
	return Purchasable{Type: purchasableType, ID: id}, nil
}

// PurchasableFromResource converts a resource reference into a purchasable.
// Streams cannot be purchased directly.
func PurchasableFromResource(ref content.ResourceRef) (Purchasable, error) {
	switch ref.Type {
	case content.ResourceTypeTeam:
		return NewPurchasable(PurchasableTypeTeam, ref.ID)
	case content.ResourceTypeSpace:
		return NewPurchasable(PurchasableTypeSpace, ref.ID)
	case content.ResourceTypeExperience:
		return NewPurchasable(PurchasableTypeExperience, ref.ID)
	default:
		return Purchasable{}, shared.NewDomainError("INVALID_PURCHASABLE", "Streams cannot be sold directly")
	}
}

// Matches returns true if the purchasable references exactly the given
// hierarchy node. Matching is by type and ID; a grant on one experience never
// matches a sibling experience.
func (p Purchasable) Matches(node content.ResourceRef) bool {
	switch node.Type {
	case content.ResourceTypeTeam:
		return p.Type == PurchasableTypeTeam && p.ID == node.ID
	case content.ResourceTypeSpace:
		return p.Type == PurchasableTypeSpace && p.ID == node.ID
	case content.ResourceTypeExperience:
		return p.Type == PurchasableTypeExperience && p.ID == node.ID
	default:
		return false
	}
}
