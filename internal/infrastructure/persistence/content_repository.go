package persistence

import (
	"context"
	"errors"

	"github.com/creatorhub/backend/internal/domain/content"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSpaceRepository implements SpaceRepository using GORM
type GormSpaceRepository struct {
	db *gorm.DB
}

// NewGormSpaceRepository creates a new GormSpaceRepository
func NewGormSpaceRepository(db *gorm.DB) *GormSpaceRepository {
	return &GormSpaceRepository{db: db}
}

// FindByID finds a space by its ID
func (r *GormSpaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Space, error) {
	var model models.SpaceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a space
func (r *GormSpaceRepository) Save(ctx context.Context, space *content.Space) error {
	model := models.SpaceModelFromDomain(space)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormExperienceRepository implements ExperienceRepository using GORM
type GormExperienceRepository struct {
	db *gorm.DB
}

// NewGormExperienceRepository creates a new GormExperienceRepository
func NewGormExperienceRepository(db *gorm.DB) *GormExperienceRepository {
	return &GormExperienceRepository{db: db}
}

// FindByID finds an experience by its ID
func (r *GormExperienceRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Experience, error) {
	var model models.ExperienceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an experience
func (r *GormExperienceRepository) Save(ctx context.Context, experience *content.Experience) error {
	model := models.ExperienceModelFromDomain(experience)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormStreamRepository implements StreamRepository using GORM
type GormStreamRepository struct {
	db *gorm.DB
}

// NewGormStreamRepository creates a new GormStreamRepository
func NewGormStreamRepository(db *gorm.DB) *GormStreamRepository {
	return &GormStreamRepository{db: db}
}

// FindByID finds a stream by its ID
func (r *GormStreamRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Stream, error) {
	var model models.StreamModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a stream
func (r *GormStreamRepository) Save(ctx context.Context, stream *content.Stream) error {
	model := models.StreamModelFromDomain(stream)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ content.SpaceRepository = (*GormSpaceRepository)(nil)
var _ content.ExperienceRepository = (*GormExperienceRepository)(nil)
var _ content.StreamRepository = (*GormStreamRepository)(nil)
