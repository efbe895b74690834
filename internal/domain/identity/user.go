package identity

import (
	"github.com/creatorhub/backend/internal/domain/shared"
)

// User represents a person who can buy access passes and view content.
// The Stripe customer ID is persisted on the user after the first paid
// checkout so subsequent purchases reuse the same gateway customer.
type User struct {
	shared.BaseEntity
	Email            string
	Name             string
	StripeCustomerID string
}

// NewUser creates a new user
func NewUser(email, name string) (*User, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}

	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Name:       name,
	}, nil
}

// HasStripeCustomer returns true if a gateway customer already exists for the user
func (u *User) HasStripeCustomer() bool {
	return u.StripeCustomerID != ""
}

// SetStripeCustomerID records the gateway customer ID on the user
func (u *User) SetStripeCustomerID(customerID string) {
	u.StripeCustomerID = customerID
	u.Touch()
}
