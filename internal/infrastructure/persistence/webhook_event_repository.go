package persistence

import (
	"context"
	"errors"

	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWebhookEventRepository implements WebhookEventRepository using GORM
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new GormWebhookEventRepository
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// Record inserts the processed-event row. The unique index on event_id makes
// a replayed event fail with shared.ErrAlreadyExists, rolling back whatever
// transaction it is part of.
func (r *GormWebhookEventRepository) Record(ctx context.Context, event *entitlement.WebhookEvent) error {
	model := models.WebhookEventModelFromDomain(event)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

var _ entitlement.WebhookEventRepository = (*GormWebhookEventRepository)(nil)
