package catalog

import (
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PricingType represents how an access pass is charged
type PricingType string

const (
	// PricingTypeFree grants access without a gateway call
	PricingTypeFree PricingType = "free"

	// PricingTypeOneTime is a single payment for perpetual access
	PricingTypeOneTime PricingType = "one_time"

	// PricingTypeMonthly is a monthly recurring subscription
	PricingTypeMonthly PricingType = "monthly"

	// PricingTypeYearly is a yearly recurring subscription
	PricingTypeYearly PricingType = "yearly"
)

// String returns the string representation of PricingType
func (p PricingType) String() string {
	return string(p)
}

// IsValid returns true if the pricing type is known
func (p PricingType) IsValid() bool {
	switch p {
	case PricingTypeFree, PricingTypeOneTime, PricingTypeMonthly, PricingTypeYearly:
		return true
	}
	return false
}

// IsRecurring returns true for subscription pricing
func (p PricingType) IsRecurring() bool {
	return p == PricingTypeMonthly || p == PricingTypeYearly
}

// AccessPass is a space's sellable catalog entry defining price and
// recurrence. Slug is unique within the owning space.
type AccessPass struct {
	shared.BaseEntity
	SpaceID     uuid.UUID
	TeamID      uuid.UUID
	Title       string
	Slug        string
	PricingType PricingType
	PriceCents  int64

	// StripeProductID and StripePriceID hold the gateway catalog objects
	// backing recurring passes. Empty for free passes.
	StripeProductID string
	StripePriceID   string

	// StockLimit caps the number of simultaneously active grants.
	// nil means unlimited.
	StockLimit        *int
	WaitlistEnabled   bool
	Published         bool
	ActiveGrantsCount int
}

// NewAccessPass creates a new access pass. Price must be zero exactly when
// the pass is free.
func NewAccessPass(spaceID, teamID uuid.UUID, title, slug string, pricingType PricingType, priceCents int64) (*AccessPass, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE", "Space ID cannot be empty")
	}
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEAM", "Team ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if !pricingType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRICING_TYPE", "Invalid pricing type")
	}
	if priceCents < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if pricingType == PricingTypeFree && priceCents != 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Free passes must have a zero price")
	}
	if pricingType != PricingTypeFree && priceCents == 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Paid passes must have a non-zero price")
	}

	return &AccessPass{
		BaseEntity:  shared.NewBaseEntity(),
		SpaceID:     spaceID,
		TeamID:      teamID,
		Title:       title,
		Slug:        slug,
		PricingType: pricingType,
		PriceCents:  priceCents,
	}, nil
}

// WithStockLimit caps the number of active grants
func (p *AccessPass) WithStockLimit(limit int) *AccessPass {
	if limit >= 0 {
		p.StockLimit = &limit
	}
	return p
}

// WithWaitlist enables the waitlist for sold-out passes
func (p *AccessPass) WithWaitlist() *AccessPass {
	p.WaitlistEnabled = true
	return p
}

// SetStripeCatalog records the gateway product and price backing the pass
func (p *AccessPass) SetStripeCatalog(productID, priceID string) {
	p.StripeProductID = productID
	p.StripePriceID = priceID
	p.Touch()
}

// Publish makes the pass purchasable
func (p *AccessPass) Publish() {
	p.Published = true
	p.Touch()
}

// Unpublish withdraws the pass from sale
func (p *AccessPass) Unpublish() {
	p.Published = false
	p.Touch()
}

// Unlimited returns true if the pass has no stock limit
func (p *AccessPass) Unlimited() bool {
	return p.StockLimit == nil
}

// Available returns true if the pass can currently be purchased
func (p *AccessPass) Available() bool {
	if p.StockLimit == nil {
		return true
	}
	if p.ActiveGrantsCount < *p.StockLimit {
		return true
	}
	return p.WaitlistEnabled
}
