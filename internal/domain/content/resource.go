package content

import (
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResourceType identifies a node in the ownership hierarchy
type ResourceType string

const (
	// ResourceTypeTeam is the root of the hierarchy
	ResourceTypeTeam ResourceType = "team"

	// ResourceTypeSpace groups experiences under a team
	ResourceTypeSpace ResourceType = "space"

	// ResourceTypeExperience groups streams under a space
	ResourceTypeExperience ResourceType = "experience"

	// ResourceTypeStream is a leaf; never sold directly
	ResourceTypeStream ResourceType = "stream"
)

// String returns the string representation of ResourceType
func (t ResourceType) String() string {
	return string(t)
}

// IsValid returns true if the resource type is known
func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceTypeTeam, ResourceTypeSpace, ResourceTypeExperience, ResourceTypeStream:
		return true
	}
	return false
}

// ResourceRef is a typed reference to one node in the ownership hierarchy
type ResourceRef struct {
	Type ResourceType
	ID   uuid.UUID
}

// NewResourceRef creates a validated resource reference
func NewResourceRef(resourceType ResourceType, id uuid.UUID) (ResourceRef, error) {
	if !resourceType.IsValid() {
		return ResourceRef{}, shared.NewDomainError("INVALID_RESOURCE_TYPE", "Invalid resource type")
	}
	if id == uuid.Nil {
		return ResourceRef{}, shared.NewDomainError("INVALID_RESOURCE", "Resource ID cannot be empty")
	}
	return ResourceRef{Type: resourceType, ID: id}, nil
}

// Chain is a resource's static ownership chain, ordered leaf first and
// terminating at the owning team. Walking it upward cannot cycle because the
// hierarchy is fixed: Stream -> Experience -> Space -> Team.
type Chain struct {
	TeamID uuid.UUID
	Nodes  []ResourceRef
}
