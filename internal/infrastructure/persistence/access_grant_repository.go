package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccessGrantRepository implements AccessGrantRepository using GORM
type GormAccessGrantRepository struct {
	db *gorm.DB
}

// NewGormAccessGrantRepository creates a new GormAccessGrantRepository
func NewGormAccessGrantRepository(db *gorm.DB) *GormAccessGrantRepository {
	return &GormAccessGrantRepository{db: db}
}

// FindByID finds a grant by its ID
func (r *GormAccessGrantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entitlement.AccessGrant, error) {
	var model models.AccessGrantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalRef finds a grant by its gateway reference
func (r *GormAccessGrantRepository) FindByExternalRef(ctx context.Context, externalRef string) (*entitlement.AccessGrant, error) {
	if externalRef == "" {
		return nil, shared.ErrNotFound
	}
	var model models.AccessGrantModel
	if err := r.db.WithContext(ctx).
		Where("external_ref = ?", externalRef).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByUser finds the user's grants with status active. Expiry is
// still computed on read by AccessGrant.Active.
func (r *GormAccessGrantRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entitlement.AccessGrant, error) {
	var grantModels []models.AccessGrantModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, entitlement.GrantStatusActive).
		Find(&grantModels).Error; err != nil {
		return nil, err
	}

	grants := make([]*entitlement.AccessGrant, len(grantModels))
	for i := range grantModels {
		grants[i] = grantModels[i].ToDomain()
	}
	return grants, nil
}

// FindActiveByUserAndPass finds the user's active grant for a pass
func (r *GormAccessGrantRepository) FindActiveByUserAndPass(ctx context.Context, userID, accessPassID uuid.UUID) (*entitlement.AccessGrant, error) {
	var model models.AccessGrantModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND access_pass_id = ? AND status = ?",
			userID, accessPassID, entitlement.GrantStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindExpiredActive finds grants still marked active whose expiry has passed
func (r *GormAccessGrantRepository) FindExpiredActive(ctx context.Context, asOf time.Time, limit int) ([]*entitlement.AccessGrant, error) {
	var grantModels []models.AccessGrantModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?",
			entitlement.GrantStatusActive, asOf).
		Order("expires_at ASC").
		Limit(limit).
		Find(&grantModels).Error; err != nil {
		return nil, err
	}

	grants := make([]*entitlement.AccessGrant, len(grantModels))
	for i := range grantModels {
		grants[i] = grantModels[i].ToDomain()
	}
	return grants, nil
}

// Save creates or updates a grant. A second grant with an already-used
// external reference fails with shared.ErrAlreadyExists.
func (r *GormAccessGrantRepository) Save(ctx context.Context, grant *entitlement.AccessGrant) error {
	model := models.AccessGrantModelFromDomain(grant)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

var _ entitlement.AccessGrantRepository = (*GormAccessGrantRepository)(nil)
