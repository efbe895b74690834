package checkout

import (
	"context"

	"github.com/creatorhub/backend/internal/infrastructure/billing"
)

// PaymentGateway is the slice of the gateway adapter the orchestrator needs.
// It is satisfied by billing.StripeAdapter and by test doubles.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, input billing.CreateCustomerInput) (*billing.CreateCustomerOutput, error)
	CreatePaymentIntent(ctx context.Context, input billing.CreatePaymentIntentInput) (*billing.PaymentIntentOutput, error)
	CreateSubscription(ctx context.Context, input billing.CreateSubscriptionInput) (*billing.CreateSubscriptionOutput, error)
}
