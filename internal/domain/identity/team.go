package identity

import (
	"github.com/creatorhub/backend/internal/domain/shared"
)

// Team is the top of the ownership hierarchy. Every space, experience and
// stream ultimately belongs to a team, and team-scoped grants cover all of
// them.
type Team struct {
	shared.BaseEntity
	Name string
	Slug string
}

// NewTeam creates a new team
func NewTeam(name, slug string) (*Team, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Team name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Team slug cannot be empty")
	}

	return &Team{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
	}, nil
}
