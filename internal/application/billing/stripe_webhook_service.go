package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// errDuplicateEvent aborts a handler transaction when the durable event
// record already exists. It is mapped to a duplicate no-op result, not an
// error response.
var errDuplicateEvent = errors.New("webhook event already processed")

// StripeWebhookService reconciles gateway lifecycle events with entitlement
// state. Delivery is at-least-once and out-of-order, so every mutation runs
// in a transaction that also records the event ID: a redelivery either sees
// the record and no-ops or loses the insert race and rolls back.
type StripeWebhookService struct {
	config      *billing.StripeConfig
	tx          entitlement.TransactionScope
	idempotency shared.IdempotencyStore
	logger      *zap.Logger
}

// StripeWebhookServiceConfig contains configuration for StripeWebhookService
type StripeWebhookServiceConfig struct {
	Config           *billing.StripeConfig
	TransactionScope entitlement.TransactionScope
	IdempotencyStore shared.IdempotencyStore
	Logger           *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StripeWebhookService{
		config:      cfg.Config,
		tx:          cfg.TransactionScope,
		idempotency: cfg.IdempotencyStore,
		logger:      logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies and processes a Stripe webhook event. Signature
// verification happens before any business logic; an unverifiable payload is
// rejected without side effects.
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	// Fast-path dedupe. The durable check is the unique event record
	// written inside each handler's transaction.
	if s.idempotency != nil {
		processed, err := s.idempotency.IsProcessed(ctx, event.ID)
		if err != nil {
			s.logger.Warn("Idempotency pre-check failed, relying on durable dedupe", zap.Error(err))
		} else if processed {
			result.Duplicate = true
			result.Message = "Event already processed"
			return result, nil
		}
	}

	switch event.Type {
	case "payment_intent.succeeded":
		err = s.handlePaymentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		err = s.handlePaymentFailed(ctx, event)
	case "invoice.paid":
		err = s.handleInvoicePaid(ctx, event)
	case "customer.subscription.updated":
		err = s.handleSubscriptionUpdated(ctx, event)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, event)
	case "charge.refunded":
		err = s.handleChargeRefunded(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
		return result, nil
	}

	if errors.Is(err, errDuplicateEvent) {
		result.Duplicate = true
		result.Message = "Event already processed"
		return result, nil
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	if s.idempotency != nil {
		if _, err := s.idempotency.MarkProcessed(ctx, event.ID, shared.DefaultIdempotencyConfig().TTL); err != nil {
			s.logger.Warn("Failed to mark event in idempotency cache", zap.Error(err))
		}
	}

	return result, nil
}

// recordEvent writes the durable processed-event row, translating a unique
// violation into errDuplicateEvent so the surrounding transaction rolls back
// without mutating anything.
func recordEvent(ctx context.Context, repos entitlement.TransactionalRepositories, event stripe.Event) error {
	record, err := entitlement.NewWebhookEvent(event.ID, string(event.Type))
	if err != nil {
		return err
	}
	if err := repos.WebhookEvents().Record(ctx, record); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return errDuplicateEvent
		}
		return err
	}
	return nil
}

// handlePaymentSucceeded completes the matching purchase and creates its
// grant if the orchestrator left it pending, which happens on gateway
// timeouts and asynchronous confirmation. Already-completed purchases are a
// no-op.
func (s *StripeWebhookService) handlePaymentSucceeded(ctx context.Context, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	s.logger.Info("Handling payment succeeded",
		zap.String("payment_intent_id", intent.ID))

	return s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
		if err := recordEvent(ctx, repos, event); err != nil {
			return err
		}

		purchase, err := findPurchase(ctx, repos, intent.ID, intent.Metadata)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// Events can arrive for payments this system did not
				// originate. Acknowledge so the gateway stops retrying.
				s.logger.Warn("No purchase found for payment intent",
					zap.String("payment_intent_id", intent.ID))
				return nil
			}
			return err
		}

		if purchase.Completed() {
			return nil
		}

		return s.completePendingPurchase(ctx, repos, purchase, intent.ID, nil)
	})
}

// handlePaymentFailed marks the matching purchase failed. No grant is ever
// created on this path.
func (s *StripeWebhookService) handlePaymentFailed(ctx context.Context, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	s.logger.Info("Handling payment failed",
		zap.String("payment_intent_id", intent.ID))

	return s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
		if err := recordEvent(ctx, repos, event); err != nil {
			return err
		}

		purchase, err := findPurchase(ctx, repos, intent.ID, intent.Metadata)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("No purchase found for failed payment",
					zap.String("payment_intent_id", intent.ID))
				return nil
			}
			return err
		}

		if !purchase.Pending() {
			return nil
		}

		purchase.SetExternalRef(intent.ID)
		if err := purchase.Fail(); err != nil {
			return err
		}
		if err := repos.Purchases().Save(ctx, purchase); err != nil {
			return err
		}

		s.logger.Warn("Purchase marked failed from webhook",
			zap.String("purchase_id", purchase.ID.String()),
			zap.String("payment_intent_id", intent.ID))
		return nil
	})
}

// handleInvoicePaid extends an existing subscription grant to the new period
// end, or performs the initial activation for a subscription the orchestrator
// left incomplete.
func (s *StripeWebhookService) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	if invoice.Subscription == nil {
		s.logger.Debug("Invoice is not for a subscription, skipping",
			zap.String("invoice_id", invoice.ID))
		return nil
	}
	subscriptionID := invoice.Subscription.ID

	s.logger.Info("Handling invoice paid",
		zap.String("invoice_id", invoice.ID),
		zap.String("subscription_id", subscriptionID))

	periodEnd := invoicePeriodEnd(&invoice)

	return s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
		if err := recordEvent(ctx, repos, event); err != nil {
			return err
		}

		grant, err := repos.Grants().FindByExternalRef(ctx, subscriptionID)
		if err == nil {
			if periodEnd == nil {
				return nil
			}
			if err := grant.ExtendUntil(*periodEnd); err != nil {
				// Cancelled or refunded grants are not revived by renewals.
				s.logger.Warn("Could not extend grant for paid invoice",
					zap.String("grant_id", grant.ID.String()),
					zap.Error(err))
				return nil
			}
			return repos.Grants().Save(ctx, grant)
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		// No grant yet: this is the first invoice of a subscription that
		// required payment action at checkout.
		purchase, err := repos.Purchases().FindByExternalRef(ctx, subscriptionID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("No purchase found for subscription invoice",
					zap.String("subscription_id", subscriptionID))
				return nil
			}
			return err
		}
		if purchase.Completed() {
			return nil
		}

		return s.completePendingPurchase(ctx, repos, purchase, subscriptionID, periodEnd)
	})
}

// handleSubscriptionUpdated reacts to cancellation scheduling. A subscription
// flagged cancel_at_period_end keeps its grant active until the period ends;
// clearing the flag restores the rolling expiry.
func (s *StripeWebhookService) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	s.logger.Info("Handling subscription updated",
		zap.String("subscription_id", sub.ID),
		zap.Bool("cancel_at_period_end", sub.CancelAtPeriodEnd))

	if sub.CurrentPeriodEnd <= 0 {
		return nil
	}
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)

	return s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
		if err := recordEvent(ctx, repos, event); err != nil {
			return err
		}

		grant, err := repos.Grants().FindByExternalRef(ctx, sub.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("No grant found for updated subscription",
					zap.String("subscription_id", sub.ID))
				return nil
			}
			return err
		}

		if sub.CancelAtPeriodEnd {
			if err := grant.CancelAtPeriodEnd(periodEnd); err != nil {
				return nil
			}
		} else {
			if err := grant.ExtendUntil(periodEnd); err != nil {
				return nil
			}
		}
		return repos.Grants().Save(ctx, grant)
	})
}

// handleSubscriptionDeleted cancels the grant immediately and releases its
// stock unit.
func (s *StripeWebhookService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	s.logger.Info("Handling subscription deleted",
		zap.String("subscription_id", sub.ID))

	return s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
		if err := recordEvent(ctx, repos, event); err != nil {
			return err
		}

		grant, err := repos.Grants().FindByExternalRef(ctx, sub.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("No grant found for deleted subscription",
					zap.String("subscription_id", sub.ID))
				return nil
			}
			return err
		}

		if err := grant.Cancel(); err != nil {
			// Already cancelled, refunded or expired.
			return nil
		}
		if err := repos.Grants().Save(ctx, grant); err != nil {
			return err
		}
		return repos.Passes().ReleaseStock(ctx, grant.AccessPassID)
	})
}

// handleChargeRefunded moves the grant behind the refunded payment to
// refunded and releases its stock unit.
func (s *StripeWebhookService) handleChargeRefunded(ctx context.Context, event stripe.Event) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return fmt.Errorf("failed to unmarshal charge: %w", err)
	}

	if charge.PaymentIntent == nil {
		s.logger.Debug("Refunded charge has no payment intent, skipping",
			zap.String("charge_id", charge.ID))
		return nil
	}
	intentID := charge.PaymentIntent.ID

	s.logger.Info("Handling charge refunded",
		zap.String("payment_intent_id", intentID))

	return s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
		if err := recordEvent(ctx, repos, event); err != nil {
			return err
		}

		grant, err := repos.Grants().FindByExternalRef(ctx, intentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("No grant found for refunded charge",
					zap.String("payment_intent_id", intentID))
				return nil
			}
			return err
		}

		if err := grant.Refund(); err != nil {
			return nil
		}
		if err := repos.Grants().Save(ctx, grant); err != nil {
			return err
		}
		return repos.Passes().ReleaseStock(ctx, grant.AccessPassID)
	})
}

// findPurchase locates the purchase for a payment intent: first by external
// reference, then by the metadata the orchestrator tagged the intent with.
// The fallback covers purchases that timed out before learning their ref.
func findPurchase(ctx context.Context, repos entitlement.TransactionalRepositories, externalRef string, metadata map[string]string) (*entitlement.Purchase, error) {
	purchase, err := repos.Purchases().FindByExternalRef(ctx, externalRef)
	if err == nil {
		return purchase, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	userID, uerr := uuid.Parse(metadata["user_id"])
	passID, perr := uuid.Parse(metadata["access_pass_id"])
	if uerr != nil || perr != nil {
		return nil, shared.ErrNotFound
	}
	return repos.Purchases().FindPendingByUserAndPass(ctx, userID, passID)
}

// completePendingPurchase performs the shared completion step inside the
// caller's transaction: mark the purchase completed, reserve stock, create
// the grant and ensure a buyer membership.
func (s *StripeWebhookService) completePendingPurchase(ctx context.Context, repos entitlement.TransactionalRepositories, purchase *entitlement.Purchase, externalRef string, expiresAt *time.Time) error {
	pass, err := repos.Passes().FindByID(ctx, purchase.AccessPassID)
	if err != nil {
		return fmt.Errorf("failed to load access pass: %w", err)
	}

	if err := purchase.Complete(externalRef); err != nil {
		return err
	}
	if err := repos.Purchases().Save(ctx, purchase); err != nil {
		return err
	}

	purchasable, err := entitlement.NewPurchasable(entitlement.PurchasableTypeSpace, pass.SpaceID)
	if err != nil {
		return err
	}
	grant, err := entitlement.NewAccessGrant(purchase.UserID, purchase.TeamID, pass.ID, purchasable, expiresAt)
	if err != nil {
		return err
	}
	grant.SetExternalRef(externalRef)

	// The grant insert comes before the stock reservation: when the
	// orchestrator already committed a grant for this payment, its unit is
	// already counted and reserving again would leak one.
	if err := repos.Grants().Save(ctx, grant); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	if err := repos.Passes().ReserveStock(ctx, pass.ID); err != nil {
		return err
	}

	if err := ensureBuyerMembership(ctx, repos.Memberships(), purchase.UserID, purchase.TeamID); err != nil {
		return err
	}

	s.logger.Info("Purchase completed from webhook",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("external_ref", externalRef))
	return nil
}

// ensureBuyerMembership gives the user at least a buyer role on the team
// without downgrading an existing role.
func ensureBuyerMembership(ctx context.Context, memberships identity.MembershipRepository, userID, teamID uuid.UUID) error {
	_, err := memberships.FindByUserAndTeam(ctx, userID, teamID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	membership, err := identity.NewMembership(userID, teamID, identity.MembershipRoleBuyer)
	if err != nil {
		return err
	}
	return memberships.Save(ctx, membership)
}

// invoicePeriodEnd picks the covered period end from an invoice, preferring
// the subscription line item's period over the invoice-level one.
func invoicePeriodEnd(invoice *stripe.Invoice) *time.Time {
	var end int64
	if invoice.PeriodEnd > 0 {
		end = invoice.PeriodEnd
	}
	if invoice.Lines != nil {
		for _, line := range invoice.Lines.Data {
			if line.Period != nil && line.Period.End > end {
				end = line.Period.End
			}
		}
	}
	if end == 0 {
		return nil
	}
	t := time.Unix(end, 0)
	return &t
}
