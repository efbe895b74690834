package entitlement

import (
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseStatus represents the lifecycle of a payment attempt
type PurchaseStatus string

const (
	// PurchaseStatusPending means the gateway has not confirmed the payment
	PurchaseStatusPending PurchaseStatus = "pending"

	// PurchaseStatusCompleted means the payment succeeded and a grant exists
	PurchaseStatusCompleted PurchaseStatus = "completed"

	// PurchaseStatusFailed means the payment definitively failed
	PurchaseStatusFailed PurchaseStatus = "failed"
)

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is known
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusCompleted, PurchaseStatusFailed:
		return true
	}
	return false
}

// Purchase is the audit record of one payment attempt, successful or not.
// For paid flows it is written before the gateway call completes, so a failed
// or timed-out call still leaves a trail.
type Purchase struct {
	shared.BaseEntity
	UserID       uuid.UUID
	TeamID       uuid.UUID
	AccessPassID uuid.UUID
	AmountCents  int64

	// ExternalRef is the gateway payment-intent or subscription ID. A unique
	// index on it is what stops the orchestrator and the webhook reconciler
	// from both completing the same purchase.
	ExternalRef string
	Status      PurchaseStatus
}

// NewPurchase creates a pending purchase
func NewPurchase(userID, teamID, accessPassID uuid.UUID, amountCents int64) (*Purchase, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if teamID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEAM", "Team ID cannot be empty")
	}
	if accessPassID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCESS_PASS", "Access pass ID cannot be empty")
	}
	if amountCents < 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	return &Purchase{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		TeamID:       teamID,
		AccessPassID: accessPassID,
		AmountCents:  amountCents,
		Status:       PurchaseStatusPending,
	}, nil
}

// SetExternalRef records the gateway reference as soon as it is known, even
// if the payment has not resolved yet.
func (p *Purchase) SetExternalRef(ref string) {
	p.ExternalRef = ref
	p.Touch()
}

// Pending returns true if the purchase has not resolved
func (p *Purchase) Pending() bool {
	return p.Status == PurchaseStatusPending
}

// Completed returns true if the payment succeeded
func (p *Purchase) Completed() bool {
	return p.Status == PurchaseStatusCompleted
}

// Complete marks the purchase as paid and records the gateway reference
func (p *Purchase) Complete(externalRef string) error {
	if p.Status == PurchaseStatusCompleted {
		return shared.ErrInvalidState
	}
	if externalRef != "" {
		p.ExternalRef = externalRef
	}
	p.Status = PurchaseStatusCompleted
	p.Touch()
	return nil
}

// Fail marks the purchase as definitively failed
func (p *Purchase) Fail() error {
	if p.Status == PurchaseStatusCompleted {
		return shared.ErrInvalidState
	}
	p.Status = PurchaseStatusFailed
	p.Touch()
	return nil
}
