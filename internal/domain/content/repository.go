package content

import (
	"context"

	"github.com/google/uuid"
)

// SpaceRepository provides access to spaces
type SpaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Space, error)
	Save(ctx context.Context, space *Space) error
}

// ExperienceRepository provides access to experiences
type ExperienceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Experience, error)
	Save(ctx context.Context, experience *Experience) error
}

// StreamRepository provides access to streams
type StreamRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Stream, error)
	Save(ctx context.Context, stream *Stream) error
}
