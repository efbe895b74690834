package content

import (
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Stream is a live or recorded session inside an experience. Streams are
// never sold directly; access is always inherited from an ancestor grant.
type Stream struct {
	shared.BaseEntity
	ExperienceID uuid.UUID
	Title        string
}

// NewStream creates a new stream under an experience
func NewStream(experienceID uuid.UUID, title string) (*Stream, error) {
	if experienceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPERIENCE", "Experience ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Stream title cannot be empty")
	}

	return &Stream{
		BaseEntity:   shared.NewBaseEntity(),
		ExperienceID: experienceID,
		Title:        title,
	}, nil
}

// Ref returns the resource reference for the stream
func (s *Stream) Ref() ResourceRef {
	return ResourceRef{Type: ResourceTypeStream, ID: s.ID}
}
