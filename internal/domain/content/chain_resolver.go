package content

import (
	"context"
	"fmt"
)

// ChainResolver resolves a resource's static ownership chain by walking
// upward through the fixed hierarchy. It is a read-only domain service; it
// never touches the payment gateway or the entitlement store.
type ChainResolver struct {
	spaces      SpaceRepository
	experiences ExperienceRepository
	streams     StreamRepository
}

// NewChainResolver creates a new chain resolver
func NewChainResolver(spaces SpaceRepository, experiences ExperienceRepository, streams StreamRepository) *ChainResolver {
	return &ChainResolver{
		spaces:      spaces,
		experiences: experiences,
		streams:     streams,
	}
}

// Resolve returns the ownership chain for the given resource, ordered leaf
// first and ending at the owning team.
func (r *ChainResolver) Resolve(ctx context.Context, ref ResourceRef) (*Chain, error) {
	switch ref.Type {
	case ResourceTypeTeam:
		return &Chain{
			TeamID: ref.ID,
			Nodes:  []ResourceRef{ref},
		}, nil

	case ResourceTypeSpace:
		space, err := r.spaces.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve space: %w", err)
		}
		return &Chain{
			TeamID: space.TeamID,
			Nodes: []ResourceRef{
				space.Ref(),
				{Type: ResourceTypeTeam, ID: space.TeamID},
			},
		}, nil

	case ResourceTypeExperience:
		experience, err := r.experiences.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve experience: %w", err)
		}
		space, err := r.spaces.FindByID(ctx, experience.SpaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve space: %w", err)
		}
		return &Chain{
			TeamID: space.TeamID,
			Nodes: []ResourceRef{
				experience.Ref(),
				space.Ref(),
				{Type: ResourceTypeTeam, ID: space.TeamID},
			},
		}, nil

	case ResourceTypeStream:
		stream, err := r.streams.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream: %w", err)
		}
		experience, err := r.experiences.FindByID(ctx, stream.ExperienceID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve experience: %w", err)
		}
		space, err := r.spaces.FindByID(ctx, experience.SpaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve space: %w", err)
		}
		return &Chain{
			TeamID: space.TeamID,
			Nodes: []ResourceRef{
				experience.Ref(),
				space.Ref(),
				{Type: ResourceTypeTeam, ID: space.TeamID},
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown resource type: %s", ref.Type)
	}
}
