package content

import (
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Space groups experiences and streams under a team. It is the unit an
// access pass is sold against.
type Space struct {
	shared.BaseEntity
	TeamID uuid.UUID
	Name   string
	Slug   string
}

// NewSpace creates a new space under a team
func NewSpace(teamID uuid.UUID, name, slug string) (*Space, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEAM", "Team ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Space name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Space slug cannot be empty")
	}

	return &Space{
		BaseEntity: shared.NewBaseEntity(),
		TeamID:     teamID,
		Name:       name,
		Slug:       slug,
	}, nil
}

// Ref returns the resource reference for the space
func (s *Space) Ref() ResourceRef {
	return ResourceRef{Type: ResourceTypeSpace, ID: s.ID}
}
