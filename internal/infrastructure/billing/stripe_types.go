package billing

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the status of a Stripe subscription
type SubscriptionStatus string

const (
	// SubscriptionStatusActive indicates an active subscription
	SubscriptionStatusActive SubscriptionStatus = "active"

	// SubscriptionStatusPastDue indicates payment is past due
	SubscriptionStatusPastDue SubscriptionStatus = "past_due"

	// SubscriptionStatusCanceled indicates the subscription is canceled
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"

	// SubscriptionStatusIncomplete indicates initial payment has not resolved,
	// e.g. the card requires additional authentication
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"

	// SubscriptionStatusIncompleteExpired indicates an incomplete subscription expired
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"

	// SubscriptionStatusTrialing indicates subscription is in trial period
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"

	// SubscriptionStatusUnpaid indicates subscription is unpaid
	SubscriptionStatusUnpaid SubscriptionStatus = "unpaid"

	// SubscriptionStatusPaused indicates subscription is paused
	SubscriptionStatusPaused SubscriptionStatus = "paused"
)

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsActive returns true if the subscription is in an active state
func (s SubscriptionStatus) IsActive() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

// PaymentIntentStatus represents the status of a Stripe payment intent
type PaymentIntentStatus string

const (
	// PaymentIntentStatusSucceeded indicates the payment completed
	PaymentIntentStatusSucceeded PaymentIntentStatus = "succeeded"

	// PaymentIntentStatusProcessing indicates the payment is in flight
	PaymentIntentStatusProcessing PaymentIntentStatus = "processing"

	// PaymentIntentStatusRequiresPaymentMethod indicates the attempt failed
	// and a new payment method is needed
	PaymentIntentStatusRequiresPaymentMethod PaymentIntentStatus = "requires_payment_method"

	// PaymentIntentStatusRequiresAction indicates additional authentication is needed
	PaymentIntentStatusRequiresAction PaymentIntentStatus = "requires_action"

	// PaymentIntentStatusRequiresConfirmation indicates the intent was created but not confirmed
	PaymentIntentStatusRequiresConfirmation PaymentIntentStatus = "requires_confirmation"

	// PaymentIntentStatusCanceled indicates the intent was canceled
	PaymentIntentStatusCanceled PaymentIntentStatus = "canceled"
)

// String returns the string representation of PaymentIntentStatus
func (s PaymentIntentStatus) String() string {
	return string(s)
}

// Succeeded returns true if the payment completed
func (s PaymentIntentStatus) Succeeded() bool {
	return s == PaymentIntentStatusSucceeded
}

// CreateCustomerInput contains input for creating a Stripe customer
type CreateCustomerInput struct {
	UserID   uuid.UUID
	Email    string
	Name     string
	Metadata map[string]string
}

// CreateCustomerOutput contains the result of creating a Stripe customer
type CreateCustomerOutput struct {
	CustomerID string
	Email      string
	Name       string
	CreatedAt  time.Time
}

// CreatePaymentIntentInput contains input for creating a payment intent.
// Confirmation happens inline when PaymentMethodID is set.
type CreatePaymentIntentInput struct {
	CustomerID      string
	AmountCents     int64
	Currency        string // empty = adapter default
	PaymentMethodID string
	Metadata        map[string]string
}

// PaymentIntentOutput contains the result of a payment intent call
type PaymentIntentOutput struct {
	PaymentIntentID string
	Status          PaymentIntentStatus
	AmountCents     int64
	ClientSecret    string
}

// CreateSetupIntentInput contains input for creating a setup intent
type CreateSetupIntentInput struct {
	CustomerID string
	Metadata   map[string]string
}

// SetupIntentOutput contains the result of creating a setup intent
type SetupIntentOutput struct {
	SetupIntentID string
	ClientSecret  string
	Status        string
}

// AttachPaymentMethodInput contains input for attaching a payment method to a customer
type AttachPaymentMethodInput struct {
	PaymentMethodID string
	CustomerID      string
	SetAsDefault    bool
}

// CreateSubscriptionInput contains input for creating a Stripe subscription
type CreateSubscriptionInput struct {
	CustomerID      string
	PriceID         string
	PaymentMethodID string
	Metadata        map[string]string
}

// CreateSubscriptionOutput contains the result of creating a Stripe subscription
type CreateSubscriptionOutput struct {
	SubscriptionID     string
	CustomerID         string
	Status             SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	ClientSecret       string // For incomplete subscriptions requiring authentication
	LatestInvoiceID    string
}

// CancelSubscriptionInput contains input for canceling a Stripe subscription
type CancelSubscriptionInput struct {
	SubscriptionID    string
	CancelAtPeriodEnd bool // If true, cancel at end of billing period; if false, cancel immediately
	Reason            string
}

// CancelSubscriptionOutput contains the result of canceling a Stripe subscription
type CancelSubscriptionOutput struct {
	SubscriptionID    string
	Status            SubscriptionStatus
	CancelAtPeriodEnd bool
	CurrentPeriodEnd  time.Time
	CanceledAt        *time.Time
}

// CreateProductInput contains input for creating a gateway product
type CreateProductInput struct {
	Name     string
	Metadata map[string]string
}

// ProductOutput contains the result of creating a gateway product
type ProductOutput struct {
	ProductID string
	Name      string
}

// PriceInterval is the recurrence of a gateway price
type PriceInterval string

const (
	// PriceIntervalNone creates a one-time price
	PriceIntervalNone PriceInterval = ""

	// PriceIntervalMonth creates a monthly recurring price
	PriceIntervalMonth PriceInterval = "month"

	// PriceIntervalYear creates a yearly recurring price
	PriceIntervalYear PriceInterval = "year"
)

// CreatePriceInput contains input for creating a gateway price
type CreatePriceInput struct {
	ProductID       string
	UnitAmountCents int64
	Currency        string // empty = adapter default
	Interval        PriceInterval
}

// PriceOutput contains the result of creating a gateway price
type PriceOutput struct {
	PriceID string
}
