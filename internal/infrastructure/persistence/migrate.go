package persistence

import (
	"github.com/creatorhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AllModels lists every persistence model for schema migration
func AllModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.TeamModel{},
		&models.MembershipModel{},
		&models.SpaceModel{},
		&models.ExperienceModel{},
		&models.StreamModel{},
		&models.AccessPassModel{},
		&models.PurchaseModel{},
		&models.AccessGrantModel{},
		&models.WebhookEventModel{},
	}
}

// AutoMigrate creates or updates the schema for all persistence models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
