package billing

import (
	"context"
	"maps"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/paymentmethod"
	"github.com/stripe/stripe-go/v81/price"
	"github.com/stripe/stripe-go/v81/product"
	"github.com/stripe/stripe-go/v81/setupintent"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"
)

// StripeAdapter is a thin pass-through to Stripe. It injects defaults
// (currency, automatic payment-method discovery) and forwards everything else
// unchanged; it holds no business rules and no durable state.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	if logger == nil {
		logger = zap.NewNop()
	}

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// currency returns the given currency or the configured default
func (a *StripeAdapter) currency(c string) string {
	if c != "" {
		return c
	}
	return a.config.DefaultCurrency
}

// CreateCustomer creates a new customer in Stripe
func (a *StripeAdapter) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CreateCustomerOutput, error) {
	a.logger.Debug("Creating Stripe customer",
		zap.String("user_id", input.UserID.String()),
		zap.String("email", input.Email))

	params := &stripe.CustomerParams{
		Email: stripe.String(input.Email),
		Name:  stripe.String(input.Name),
	}
	params.Context = ctx

	params.Metadata = map[string]string{
		"user_id": input.UserID.String(),
	}
	maps.Copy(params.Metadata, input.Metadata)

	cust, err := customer.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	a.logger.Info("Created Stripe customer",
		zap.String("user_id", input.UserID.String()),
		zap.String("customer_id", cust.ID))

	return &CreateCustomerOutput{
		CustomerID: cust.ID,
		Email:      cust.Email,
		Name:       cust.Name,
		CreatedAt:  time.Unix(cust.Created, 0),
	}, nil
}

// GetCustomer retrieves a customer from Stripe
func (a *StripeAdapter) GetCustomer(ctx context.Context, customerID string) (*CreateCustomerOutput, error) {
	a.logger.Debug("Getting Stripe customer", zap.String("customer_id", customerID))

	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err := customer.Get(customerID, params)
	if err != nil {
		a.logger.Error("Failed to get Stripe customer",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	return &CreateCustomerOutput{
		CustomerID: cust.ID,
		Email:      cust.Email,
		Name:       cust.Name,
		CreatedAt:  time.Unix(cust.Created, 0),
	}, nil
}

// CreatePaymentIntent creates a payment intent and, when a payment method is
// provided, confirms it synchronously in the same call.
func (a *StripeAdapter) CreatePaymentIntent(ctx context.Context, input CreatePaymentIntentInput) (*PaymentIntentOutput, error) {
	a.logger.Debug("Creating Stripe payment intent",
		zap.String("customer_id", input.CustomerID),
		zap.Int64("amount_cents", input.AmountCents))

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(input.AmountCents),
		Currency: stripe.String(a.currency(input.Currency)),
		Customer: stripe.String(input.CustomerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	if input.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(input.PaymentMethodID)
		params.Confirm = stripe.Bool(true)
	}

	if len(input.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(input.Metadata))
		maps.Copy(params.Metadata, input.Metadata)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe payment intent",
			zap.String("customer_id", input.CustomerID),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	a.logger.Info("Created Stripe payment intent",
		zap.String("payment_intent_id", intent.ID),
		zap.String("status", string(intent.Status)))

	return &PaymentIntentOutput{
		PaymentIntentID: intent.ID,
		Status:          mapStripePaymentIntentStatus(intent.Status),
		AmountCents:     intent.Amount,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

// ConfirmPaymentIntent confirms a previously created payment intent
func (a *StripeAdapter) ConfirmPaymentIntent(ctx context.Context, paymentIntentID, paymentMethodID string) (*PaymentIntentOutput, error) {
	a.logger.Debug("Confirming Stripe payment intent",
		zap.String("payment_intent_id", paymentIntentID))

	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx
	if paymentMethodID != "" {
		params.PaymentMethod = stripe.String(paymentMethodID)
	}

	intent, err := paymentintent.Confirm(paymentIntentID, params)
	if err != nil {
		a.logger.Error("Failed to confirm Stripe payment intent",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	return &PaymentIntentOutput{
		PaymentIntentID: intent.ID,
		Status:          mapStripePaymentIntentStatus(intent.Status),
		AmountCents:     intent.Amount,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

// CreateSetupIntent creates a setup intent for collecting a payment method
// without charging it.
func (a *StripeAdapter) CreateSetupIntent(ctx context.Context, input CreateSetupIntentInput) (*SetupIntentOutput, error) {
	a.logger.Debug("Creating Stripe setup intent",
		zap.String("customer_id", input.CustomerID))

	params := &stripe.SetupIntentParams{
		Customer: stripe.String(input.CustomerID),
		AutomaticPaymentMethods: &stripe.SetupIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	if len(input.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(input.Metadata))
		maps.Copy(params.Metadata, input.Metadata)
	}

	intent, err := setupintent.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe setup intent",
			zap.String("customer_id", input.CustomerID),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	return &SetupIntentOutput{
		SetupIntentID: intent.ID,
		ClientSecret:  intent.ClientSecret,
		Status:        string(intent.Status),
	}, nil
}

// AttachPaymentMethod attaches a payment method to a customer
func (a *StripeAdapter) AttachPaymentMethod(ctx context.Context, input AttachPaymentMethodInput) error {
	a.logger.Debug("Attaching Stripe payment method",
		zap.String("payment_method_id", input.PaymentMethodID),
		zap.String("customer_id", input.CustomerID))

	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(input.CustomerID),
	}
	params.Context = ctx

	if _, err := paymentmethod.Attach(input.PaymentMethodID, params); err != nil {
		a.logger.Error("Failed to attach Stripe payment method",
			zap.String("payment_method_id", input.PaymentMethodID),
			zap.Error(err))
		return newGatewayError(err)
	}

	if input.SetAsDefault {
		custParams := &stripe.CustomerParams{
			InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
				DefaultPaymentMethod: stripe.String(input.PaymentMethodID),
			},
		}
		custParams.Context = ctx
		if _, err := customer.Update(input.CustomerID, custParams); err != nil {
			a.logger.Error("Failed to set default payment method",
				zap.String("customer_id", input.CustomerID),
				zap.Error(err))
			return newGatewayError(err)
		}
	}

	return nil
}

// CreateSubscription creates a new subscription in Stripe
func (a *StripeAdapter) CreateSubscription(ctx context.Context, input CreateSubscriptionInput) (*CreateSubscriptionOutput, error) {
	a.logger.Debug("Creating Stripe subscription",
		zap.String("customer_id", input.CustomerID),
		zap.String("price_id", input.PriceID))

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(input.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price: stripe.String(input.PriceID),
			},
		},
	}
	params.Context = ctx

	// Attempt payment immediately; an authentication-required card leaves
	// the subscription incomplete rather than failing the call.
	params.PaymentBehavior = stripe.String("allow_incomplete")
	params.AddExpand("latest_invoice.payment_intent")

	if input.PaymentMethodID != "" {
		params.DefaultPaymentMethod = stripe.String(input.PaymentMethodID)
	}

	if len(input.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(input.Metadata))
		maps.Copy(params.Metadata, input.Metadata)
	}

	sub, err := subscription.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe subscription",
			zap.String("customer_id", input.CustomerID),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	a.logger.Info("Created Stripe subscription",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)))

	output := &CreateSubscriptionOutput{
		SubscriptionID:     sub.ID,
		CustomerID:         sub.Customer.ID,
		Status:             mapStripeSubscriptionStatus(sub.Status),
		CurrentPeriodStart: time.Unix(sub.CurrentPeriodStart, 0),
		CurrentPeriodEnd:   time.Unix(sub.CurrentPeriodEnd, 0),
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
	}

	if sub.LatestInvoice != nil {
		output.LatestInvoiceID = sub.LatestInvoice.ID
		if sub.LatestInvoice.PaymentIntent != nil {
			output.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
		}
	}

	return output, nil
}

// CancelSubscription cancels a subscription, either immediately or at the
// end of the current billing period.
func (a *StripeAdapter) CancelSubscription(ctx context.Context, input CancelSubscriptionInput) (*CancelSubscriptionOutput, error) {
	a.logger.Debug("Canceling Stripe subscription",
		zap.String("subscription_id", input.SubscriptionID),
		zap.Bool("cancel_at_period_end", input.CancelAtPeriodEnd))

	var sub *stripe.Subscription
	var err error

	if input.CancelAtPeriodEnd {
		params := &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		}
		params.Context = ctx
		if input.Reason != "" {
			params.CancellationDetails = &stripe.SubscriptionCancellationDetailsParams{
				Comment: stripe.String(input.Reason),
			}
		}
		sub, err = subscription.Update(input.SubscriptionID, params)
	} else {
		params := &stripe.SubscriptionCancelParams{}
		params.Context = ctx
		if input.Reason != "" {
			params.CancellationDetails = &stripe.SubscriptionCancelCancellationDetailsParams{
				Comment: stripe.String(input.Reason),
			}
		}
		sub, err = subscription.Cancel(input.SubscriptionID, params)
	}

	if err != nil {
		a.logger.Error("Failed to cancel Stripe subscription",
			zap.String("subscription_id", input.SubscriptionID),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	a.logger.Info("Canceled Stripe subscription",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)),
		zap.Bool("cancel_at_period_end", sub.CancelAtPeriodEnd))

	output := &CancelSubscriptionOutput{
		SubscriptionID:    sub.ID,
		Status:            mapStripeSubscriptionStatus(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CurrentPeriodEnd:  time.Unix(sub.CurrentPeriodEnd, 0),
	}

	if sub.CanceledAt > 0 {
		t := time.Unix(sub.CanceledAt, 0)
		output.CanceledAt = &t
	}

	return output, nil
}

// CreateProduct creates a gateway product backing an access pass
func (a *StripeAdapter) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductOutput, error) {
	a.logger.Debug("Creating Stripe product", zap.String("name", input.Name))

	params := &stripe.ProductParams{
		Name: stripe.String(input.Name),
	}
	params.Context = ctx

	if len(input.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(input.Metadata))
		maps.Copy(params.Metadata, input.Metadata)
	}

	prod, err := product.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe product",
			zap.String("name", input.Name),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	return &ProductOutput{
		ProductID: prod.ID,
		Name:      prod.Name,
	}, nil
}

// CreatePrice creates a gateway price for a product
func (a *StripeAdapter) CreatePrice(ctx context.Context, input CreatePriceInput) (*PriceOutput, error) {
	a.logger.Debug("Creating Stripe price",
		zap.String("product_id", input.ProductID),
		zap.Int64("unit_amount_cents", input.UnitAmountCents))

	params := &stripe.PriceParams{
		Product:    stripe.String(input.ProductID),
		UnitAmount: stripe.Int64(input.UnitAmountCents),
		Currency:   stripe.String(a.currency(input.Currency)),
	}
	params.Context = ctx

	if input.Interval != PriceIntervalNone {
		params.Recurring = &stripe.PriceRecurringParams{
			Interval: stripe.String(string(input.Interval)),
		}
	}

	pr, err := price.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe price",
			zap.String("product_id", input.ProductID),
			zap.Error(err))
		return nil, newGatewayError(err)
	}

	return &PriceOutput{PriceID: pr.ID}, nil
}

// mapStripeSubscriptionStatus maps Stripe subscription status to our internal status
func mapStripeSubscriptionStatus(status stripe.SubscriptionStatus) SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue:
		return SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled:
		return SubscriptionStatusCanceled
	case stripe.SubscriptionStatusIncomplete:
		return SubscriptionStatusIncomplete
	case stripe.SubscriptionStatusIncompleteExpired:
		return SubscriptionStatusIncompleteExpired
	case stripe.SubscriptionStatusTrialing:
		return SubscriptionStatusTrialing
	case stripe.SubscriptionStatusUnpaid:
		return SubscriptionStatusUnpaid
	case stripe.SubscriptionStatusPaused:
		return SubscriptionStatusPaused
	default:
		return SubscriptionStatus(status)
	}
}

// mapStripePaymentIntentStatus maps Stripe payment intent status to our internal status
func mapStripePaymentIntentStatus(status stripe.PaymentIntentStatus) PaymentIntentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return PaymentIntentStatusSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return PaymentIntentStatusProcessing
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return PaymentIntentStatusRequiresPaymentMethod
	case stripe.PaymentIntentStatusRequiresAction:
		return PaymentIntentStatusRequiresAction
	case stripe.PaymentIntentStatusRequiresConfirmation:
		return PaymentIntentStatusRequiresConfirmation
	case stripe.PaymentIntentStatusCanceled:
		return PaymentIntentStatusCanceled
	default:
		return PaymentIntentStatus(status)
	}
}
