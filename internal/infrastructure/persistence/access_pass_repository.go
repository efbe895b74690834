package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/creatorhub/backend/internal/domain/catalog"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccessPassRepository implements AccessPassRepository using GORM
type GormAccessPassRepository struct {
	db *gorm.DB
}

// NewGormAccessPassRepository creates a new GormAccessPassRepository
func NewGormAccessPassRepository(db *gorm.DB) *GormAccessPassRepository {
	return &GormAccessPassRepository{db: db}
}

// FindByID finds an access pass by its ID
func (r *GormAccessPassRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.AccessPass, error) {
	var model models.AccessPassModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySpaceAndSlug finds an access pass by its slug within a space
func (r *GormAccessPassRepository) FindBySpaceAndSlug(ctx context.Context, spaceID uuid.UUID, slug string) (*catalog.AccessPass, error) {
	var model models.AccessPassModel
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND slug = ?", spaceID, slug).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySpace finds all access passes in a space
func (r *GormAccessPassRepository) FindBySpace(ctx context.Context, spaceID uuid.UUID) ([]*catalog.AccessPass, error) {
	var passModels []models.AccessPassModel
	if err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("created_at ASC").
		Find(&passModels).Error; err != nil {
		return nil, err
	}

	passes := make([]*catalog.AccessPass, len(passModels))
	for i := range passModels {
		passes[i] = passModels[i].ToDomain()
	}
	return passes, nil
}

// Save creates or updates an access pass. The counter cache column is owned
// by ReserveStock/ReleaseStock and is excluded here, so saving a stale
// domain snapshot cannot clobber it.
func (r *GormAccessPassRepository) Save(ctx context.Context, pass *catalog.AccessPass) error {
	model := models.AccessPassModelFromDomain(pass)
	if err := r.db.WithContext(ctx).Omit("active_grants_count").Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ReserveStock atomically takes one stock unit. The guard lives in the WHERE
// clause so two concurrent buyers can never both take the last unit: the
// second conditional update affects zero rows and fails with ErrSoldOut.
func (r *GormAccessPassRepository) ReserveStock(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.AccessPassModel{}).
		Where("id = ? AND (stock_limit IS NULL OR active_grants_count < stock_limit)", id).
		Updates(map[string]interface{}{
			"active_grants_count": gorm.Expr("active_grants_count + 1"),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.AccessPassModel{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrSoldOut
	}
	return nil
}

// ReleaseStock returns one stock unit after a refund, cancellation or expiry.
// The counter never goes below zero.
func (r *GormAccessPassRepository) ReleaseStock(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.AccessPassModel{}).
		Where("id = ? AND active_grants_count > 0", id).
		Updates(map[string]interface{}{
			"active_grants_count": gorm.Expr("active_grants_count - 1"),
			"updated_at":          time.Now(),
		})
	return result.Error
}

var _ catalog.AccessPassRepository = (*GormAccessPassRepository)(nil)
