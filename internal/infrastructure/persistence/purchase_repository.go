package persistence

import (
	"context"
	"errors"

	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entitlement.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalRef finds a purchase by its gateway reference
func (r *GormPurchaseRepository) FindByExternalRef(ctx context.Context, externalRef string) (*entitlement.Purchase, error) {
	if externalRef == "" {
		return nil, shared.ErrNotFound
	}
	var model models.PurchaseModel
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

// FindPendingByUserAndPass finds the most recent pending purchase for the
// user and pass
func (r *GormPurchaseRepository) FindPendingByUserAndPass(ctx context.Context, userID, accessPassID uuid.UUID) (*entitlement.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND access_pass_id = ? AND status = ?",
			userID, accessPassID, entitlement.PurchaseStatusPending).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a purchase
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *entitlement.Purchase) error {
	model := models.PurchaseModelFromDomain(purchase)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

var _ entitlement.PurchaseRepository = (*GormPurchaseRepository)(nil)
