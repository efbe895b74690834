package persistence

import (
	"context"
	"testing"

	"github.com/creatorhub/backend/internal/domain/content"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	spaceRepo := NewGormSpaceRepository(db)
	experienceRepo := NewGormExperienceRepository(db)
	streamRepo := NewGormStreamRepository(db)

	teamID := uuid.New()

	space, err := content.NewSpace(teamID, "Workshop", "workshop")
	require.NoError(t, err)
	require.NoError(t, spaceRepo.Save(ctx, space))

	experience, err := content.NewExperience(space.ID, "Live Build")
	require.NoError(t, err)
	require.NoError(t, experienceRepo.Save(ctx, experience))

	stream, err := content.NewStream(experience.ID, "Session One")
	require.NoError(t, err)
	require.NoError(t, streamRepo.Save(ctx, stream))

	t.Run("round-trips the hierarchy", func(t *testing.T) {
		foundSpace, err := spaceRepo.FindByID(ctx, space.ID)
		require.NoError(t, err)
		assert.Equal(t, teamID, foundSpace.TeamID)
		assert.Equal(t, "workshop", foundSpace.Slug)

		foundExperience, err := experienceRepo.FindByID(ctx, experience.ID)
		require.NoError(t, err)
		assert.Equal(t, space.ID, foundExperience.SpaceID)

		foundStream, err := streamRepo.FindByID(ctx, stream.ID)
		require.NoError(t, err)
		assert.Equal(t, experience.ID, foundStream.ExperienceID)
	})

	t.Run("missing nodes return not found", func(t *testing.T) {
		_, err := spaceRepo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = experienceRepo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = streamRepo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
