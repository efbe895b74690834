package models

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/google/uuid"
)

// PurchaseModel is the persistence model for the Purchase domain entity.
// ExternalRef is nullable because free purchases and not-yet-confirmed paid
// purchases have no gateway reference; the partial uniqueness comes from the
// index ignoring NULLs.
type PurchaseModel struct {
	BaseModel
	UserID       uuid.UUID                  `gorm:"type:uuid;not null;index:idx_purchase_user_pass,priority:1"`
	TeamID       uuid.UUID                  `gorm:"type:uuid;not null;index"`
	AccessPassID uuid.UUID                  `gorm:"type:uuid;not null;index:idx_purchase_user_pass,priority:2"`
	AmountCents  int64                      `gorm:"not null;default:0"`
	ExternalRef  *string                    `gorm:"type:varchar(100);uniqueIndex"`
	Status       entitlement.PurchaseStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the persistence model to a domain Purchase entity.
func (m *PurchaseModel) ToDomain() *entitlement.Purchase {
	externalRef := ""
	if m.ExternalRef != nil {
		externalRef = *m.ExternalRef
	}
	return &entitlement.Purchase{
		BaseEntity:   m.BaseModel.ToDomain(),
		UserID:       m.UserID,
		TeamID:       m.TeamID,
		AccessPassID: m.AccessPassID,
		AmountCents:  m.AmountCents,
		ExternalRef:  externalRef,
		Status:       m.Status,
	}
}

// PurchaseModelFromDomain converts a domain Purchase entity to a persistence model.
func PurchaseModelFromDomain(p *entitlement.Purchase) *PurchaseModel {
	model := &PurchaseModel{
		UserID:       p.UserID,
		TeamID:       p.TeamID,
		AccessPassID: p.AccessPassID,
		AmountCents:  p.AmountCents,
		Status:       p.Status,
	}
	if p.ExternalRef != "" {
		ref := p.ExternalRef
		model.ExternalRef = &ref
	}
	model.FromDomainBaseEntity(p.BaseEntity)
	return model
}

// AccessGrantModel is the persistence model for the AccessGrant domain
// entity. The unique index on ExternalRef is the durable half of the
// exactly-one-grant-per-payment invariant.
type AccessGrantModel struct {
	BaseModel
	UserID          uuid.UUID                   `gorm:"type:uuid;not null;index:idx_grant_user_status,priority:1"`
	TeamID          uuid.UUID                   `gorm:"type:uuid;not null;index"`
	AccessPassID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	PurchasableType entitlement.PurchasableType `gorm:"type:varchar(20);not null"`
	PurchasableID   uuid.UUID                   `gorm:"type:uuid;not null"`
	Status          entitlement.GrantStatus     `gorm:"type:varchar(20);not null;index:idx_grant_user_status,priority:2"`
	ExpiresAt       *time.Time                  `gorm:"index"`
	ExternalRef     *string                     `gorm:"type:varchar(100);uniqueIndex"`
}

// TableName returns the table name for GORM
func (AccessGrantModel) TableName() string {
	return "access_grants"
}

// ToDomain converts the persistence model to a domain AccessGrant entity.
func (m *AccessGrantModel) ToDomain() *entitlement.AccessGrant {
	externalRef := ""
	if m.ExternalRef != nil {
		externalRef = *m.ExternalRef
	}
	return &entitlement.AccessGrant{
		BaseEntity:   m.BaseModel.ToDomain(),
		UserID:       m.UserID,
		TeamID:       m.TeamID,
		AccessPassID: m.AccessPassID,
		Purchasable: entitlement.Purchasable{
			Type: m.PurchasableType,
			ID:   m.PurchasableID,
		},
		Status:      m.Status,
		ExpiresAt:   m.ExpiresAt,
		ExternalRef: externalRef,
	}
}

// AccessGrantModelFromDomain converts a domain AccessGrant entity to a persistence model.
func AccessGrantModelFromDomain(g *entitlement.AccessGrant) *AccessGrantModel {
	model := &AccessGrantModel{
		UserID:          g.UserID,
		TeamID:          g.TeamID,
		AccessPassID:    g.AccessPassID,
		PurchasableType: g.Purchasable.Type,
		PurchasableID:   g.Purchasable.ID,
		Status:          g.Status,
		ExpiresAt:       g.ExpiresAt,
	}
	if g.ExternalRef != "" {
		ref := g.ExternalRef
		model.ExternalRef = &ref
	}
	model.FromDomainBaseEntity(g.BaseEntity)
	return model
}

// WebhookEventModel is the persistence model for processed gateway events.
type WebhookEventModel struct {
	BaseModel
	EventID     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	EventType   string    `gorm:"type:varchar(100);not null"`
	ProcessedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WebhookEventModel) TableName() string {
	return "webhook_events"
}

// ToDomain converts the persistence model to a domain WebhookEvent entity.
func (m *WebhookEventModel) ToDomain() *entitlement.WebhookEvent {
	return &entitlement.WebhookEvent{
		BaseEntity:  m.BaseModel.ToDomain(),
		EventID:     m.EventID,
		EventType:   m.EventType,
		ProcessedAt: m.ProcessedAt,
	}
}

// WebhookEventModelFromDomain converts a domain WebhookEvent entity to a persistence model.
func WebhookEventModelFromDomain(e *entitlement.WebhookEvent) *WebhookEventModel {
	model := &WebhookEventModel{
		EventID:     e.EventID,
		EventType:   e.EventType,
		ProcessedAt: e.ProcessedAt,
	}
	model.FromDomainBaseEntity(e.BaseEntity)
	return model
}
