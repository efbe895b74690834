package models

import (
	"github.com/creatorhub/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// AccessPassModel is the persistence model for the AccessPass domain entity.
// ActiveGrantsCount is a counter cache maintained by the atomic stock
// reservation queries, never written from the domain entity directly.
type AccessPassModel struct {
	BaseModel
	SpaceID           uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_pass_space_slug,priority:1"`
	TeamID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	Title             string              `gorm:"type:varchar(200);not null"`
	Slug              string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_pass_space_slug,priority:2"`
	PricingType       catalog.PricingType `gorm:"type:varchar(20);not null"`
	PriceCents        int64               `gorm:"not null;default:0"`
	StripeProductID   string              `gorm:"type:varchar(100)"`
	StripePriceID     string              `gorm:"type:varchar(100)"`
	StockLimit        *int                `gorm:""`
	WaitlistEnabled   bool                `gorm:"not null;default:false"`
	Published         bool                `gorm:"not null;default:false"`
	ActiveGrantsCount int                 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (AccessPassModel) TableName() string {
	return "access_passes"
}

// ToDomain converts the persistence model to a domain AccessPass entity.
func (m *AccessPassModel) ToDomain() *catalog.AccessPass {
	return &catalog.AccessPass{
		BaseEntity:        m.BaseModel.ToDomain(),
		SpaceID:           m.SpaceID,
		TeamID:            m.TeamID,
		Title:             m.Title,
		Slug:              m.Slug,
		PricingType:       m.PricingType,
		PriceCents:        m.PriceCents,
		StripeProductID:   m.StripeProductID,
		StripePriceID:     m.StripePriceID,
		StockLimit:        m.StockLimit,
		WaitlistEnabled:   m.WaitlistEnabled,
		Published:         m.Published,
		ActiveGrantsCount: m.ActiveGrantsCount,
	}
}

// AccessPassModelFromDomain converts a domain AccessPass entity to a persistence model.
func AccessPassModelFromDomain(p *catalog.AccessPass) *AccessPassModel {
	model := &AccessPassModel{
		SpaceID:           p.SpaceID,
		TeamID:            p.TeamID,
		Title:             p.Title,
		Slug:              p.Slug,
		PricingType:       p.PricingType,
		PriceCents:        p.PriceCents,
		StripeProductID:   p.StripeProductID,
		StripePriceID:     p.StripePriceID,
		StockLimit:        p.StockLimit,
		WaitlistEnabled:   p.WaitlistEnabled,
		Published:         p.Published,
		ActiveGrantsCount: p.ActiveGrantsCount,
	}
	model.FromDomainBaseEntity(p.BaseEntity)
	return model
}
