package content

import (
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Experience is a piece of grouped content inside a space (a course, a
// community area, a download). Streams hang off experiences.
type Experience struct {
	shared.BaseEntity
	SpaceID uuid.UUID
	Name    string
}

// NewExperience creates a new experience under a space
func NewExperience(spaceID uuid.UUID, name string) (*Experience, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE", "Space ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Experience name cannot be empty")
	}

	return &Experience{
		BaseEntity: shared.NewBaseEntity(),
		SpaceID:    spaceID,
		Name:       name,
	}, nil
}

// Ref returns the resource reference for the experience
func (e *Experience) Ref() ResourceRef {
	return ResourceRef{Type: ResourceTypeExperience, ID: e.ID}
}
