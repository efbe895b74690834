package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creatorhub/backend/internal/domain/catalog"
	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User-facing failure messages. Gateway card errors are surfaced verbatim
// where safe; everything else maps to one of these.
const (
	msgPaymentFailed       = "Payment failed"
	msgPaymentProcessing   = "Payment is still processing"
	msgSubscriptionPending = "Subscription requires payment method"
)

// PurchaseResult is the outcome of one checkout attempt. A false Success
// with a non-empty Error is a normal business outcome (declined card, sold
// out); transport and persistence failures are returned as errors instead.
type PurchaseResult struct {
	Success     bool
	Purchase    *entitlement.Purchase
	AccessGrant *entitlement.AccessGrant
	Error       string
}

// PurchaseService is the single entry point that turns "user wants access
// pass X" into gateway calls plus entitlement-store writes. It runs inside a
// synchronous request cycle; the webhook reconciler resolves whatever the
// gateway leaves unresolved (timeouts, incomplete subscriptions).
type PurchaseService struct {
	gateway        PaymentGateway
	users          identity.UserRepository
	passes         catalog.AccessPassRepository
	grants         entitlement.AccessGrantRepository
	purchases      entitlement.PurchaseRepository
	tx             entitlement.TransactionScope
	gatewayTimeout time.Duration
	logger         *zap.Logger
}

// PurchaseServiceConfig contains configuration for PurchaseService
type PurchaseServiceConfig struct {
	Gateway          PaymentGateway
	UserRepo         identity.UserRepository
	PassRepo         catalog.AccessPassRepository
	GrantRepo        entitlement.AccessGrantRepository
	PurchaseRepo     entitlement.PurchaseRepository
	TransactionScope entitlement.TransactionScope
	GatewayTimeout   time.Duration
	Logger           *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(cfg PurchaseServiceConfig) *PurchaseService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.GatewayTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &PurchaseService{
		gateway:        cfg.Gateway,
		users:          cfg.UserRepo,
		passes:         cfg.PassRepo,
		grants:         cfg.GrantRepo,
		purchases:      cfg.PurchaseRepo,
		tx:             cfg.TransactionScope,
		gatewayTimeout: timeout,
		logger:         logger,
	}
}

// Execute processes one purchase attempt for the given user and access pass.
// paymentMethodID may be empty for free passes.
func (s *PurchaseService) Execute(ctx context.Context, userID, accessPassID uuid.UUID, paymentMethodID string) (*PurchaseResult, error) {
	pass, err := s.passes.FindByID(ctx, accessPassID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &PurchaseResult{Success: false, Error: "Access pass not found"}, nil
		}
		return nil, fmt.Errorf("failed to load access pass: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &PurchaseResult{Success: false, Error: "User not found"}, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !pass.Published {
		return &PurchaseResult{Success: false, Error: "Access pass is not available"}, nil
	}
	if !pass.Available() {
		return &PurchaseResult{Success: false, Error: "Access pass is sold out"}, nil
	}

	s.logger.Info("Processing purchase",
		zap.String("user_id", userID.String()),
		zap.String("access_pass_id", accessPassID.String()),
		zap.String("pricing_type", pass.PricingType.String()))

	switch pass.PricingType {
	case catalog.PricingTypeFree:
		return s.executeFree(ctx, user, pass)
	case catalog.PricingTypeOneTime:
		return s.executeOneTime(ctx, user, pass, paymentMethodID)
	case catalog.PricingTypeMonthly, catalog.PricingTypeYearly:
		return s.executeSubscription(ctx, user, pass, paymentMethodID)
	default:
		return &PurchaseResult{Success: false, Error: "Unsupported pricing type"}, nil
	}
}

// executeFree grants access without any gateway call. Attempting it twice for
// the same user is safe: the existing grant is returned and no duplicate
// membership is created.
func (s *PurchaseService) executeFree(ctx context.Context, user *identity.User, pass *catalog.AccessPass) (*PurchaseResult, error) {
	existing, err := s.grants.FindActiveByUserAndPass(ctx, user.ID, pass.ID)
	if err == nil && existing.Active() {
		return &PurchaseResult{Success: true, AccessGrant: existing}, nil
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing grant: %w", err)
	}

	purchase, err := entitlement.NewPurchase(user.ID, pass.TeamID, pass.ID, 0)
	if err != nil {
		return &PurchaseResult{Success: false, Error: err.Error()}, nil
	}
	if err := purchase.Complete(""); err != nil {
		return nil, err
	}

	purchasable, err := entitlement.NewPurchasable(entitlement.PurchasableTypeSpace, pass.SpaceID)
	if err != nil {
		return nil, err
	}
	grant, err := entitlement.NewAccessGrant(user.ID, pass.TeamID, pass.ID, purchasable, nil)
	if err != nil {
		return nil, err
	}

	err = s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
		if err := repos.Passes().ReserveStock(ctx, pass.ID); err != nil {
			return err
		}
		if err := repos.Purchases().Save(ctx, purchase); err != nil {
			return err
		}
		if err := repos.Grants().Save(ctx, grant); err != nil {
			return err
		}
		return ensureBuyerMembership(ctx, repos.Memberships(), user.ID, pass.TeamID)
	})
	if err != nil {
		if errors.Is(err, shared.ErrSoldOut) {
			return &PurchaseResult{Success: false, Error: "Access pass is sold out"}, nil
		}
		return nil, fmt.Errorf("failed to persist free purchase: %w", err)
	}

	s.logger.Info("Free purchase completed",
		zap.String("user_id", user.ID.String()),
		zap.String("grant_id", grant.ID.String()))

	return &PurchaseResult{Success: true, Purchase: purchase, AccessGrant: grant}, nil
}

// executeOneTime charges a payment intent synchronously and grants perpetual
// access on success.
func (s *PurchaseService) executeOneTime(ctx context.Context, user *identity.User, pass *catalog.AccessPass, paymentMethodID string) (*PurchaseResult, error) {
	customerID, result, err := s.ensureCustomer(ctx, user)
	if result != nil || err != nil {
		return result, err
	}

	// Written before the gateway call so a failed or timed-out charge still
	// leaves an audit trail.
	purchase, err := entitlement.NewPurchase(user.ID, pass.TeamID, pass.ID, pass.PriceCents)
	if err != nil {
		return &PurchaseResult{Success: false, Error: err.Error()}, nil
	}
	if err := s.purchases.Save(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	intent, err := s.gateway.CreatePaymentIntent(gwCtx, billing.CreatePaymentIntentInput{
		CustomerID:      customerID,
		AmountCents:     pass.PriceCents,
		PaymentMethodID: paymentMethodID,
		Metadata:        purchaseMetadata(user.ID, pass),
	})
	if err != nil {
		return s.handleGatewayFailure(ctx, purchase, err)
	}

	purchase.SetExternalRef(intent.PaymentIntentID)

	switch {
	case intent.Status.Succeeded():
		return s.completePurchase(ctx, user, pass, purchase, intent.PaymentIntentID, nil)

	case intent.Status == billing.PaymentIntentStatusProcessing:
		// Leave the purchase pending; the reconciler completes it when the
		// payment_intent.succeeded event arrives.
		if err := s.purchases.Save(ctx, purchase); err != nil {
			return nil, fmt.Errorf("failed to save purchase: %w", err)
		}
		return &PurchaseResult{Success: false, Purchase: purchase, Error: msgPaymentProcessing}, nil

	default:
		if err := purchase.Fail(); err != nil {
			return nil, err
		}
		if err := s.purchases.Save(ctx, purchase); err != nil {
			return nil, fmt.Errorf("failed to save purchase: %w", err)
		}
		return &PurchaseResult{Success: false, Purchase: purchase, Error: msgPaymentFailed}, nil
	}
}

// executeSubscription creates a gateway subscription against the pass's
// stored recurring price. An active subscription grants access until the end
// of the current billing period; an incomplete one stays pending until the
// reconciler sees its first paid invoice.
func (s *PurchaseService) executeSubscription(ctx context.Context, user *identity.User, pass *catalog.AccessPass, paymentMethodID string) (*PurchaseResult, error) {
	if pass.StripePriceID == "" {
		return &PurchaseResult{Success: false, Error: "Access pass has no recurring price configured"}, nil
	}

	customerID, result, err := s.ensureCustomer(ctx, user)
	if result != nil || err != nil {
		return result, err
	}

	purchase, err := entitlement.NewPurchase(user.ID, pass.TeamID, pass.ID, pass.PriceCents)
	if err != nil {
		return &PurchaseResult{Success: false, Error: err.Error()}, nil
	}
	if err := s.purchases.Save(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	sub, err := s.gateway.CreateSubscription(gwCtx, billing.CreateSubscriptionInput{
		CustomerID:      customerID,
		PriceID:         pass.StripePriceID,
		PaymentMethodID: paymentMethodID,
		Metadata:        purchaseMetadata(user.ID, pass),
	})
	if err != nil {
		return s.handleGatewayFailure(ctx, purchase, err)
	}

	purchase.SetExternalRef(sub.SubscriptionID)

	switch {
	case sub.Status.IsActive():
		periodEnd := sub.CurrentPeriodEnd
		return s.completePurchase(ctx, user, pass, purchase, sub.SubscriptionID, &periodEnd)

	case sub.Status == billing.SubscriptionStatusIncomplete:
		// The card needs additional authentication. Keep the purchase
		// pending; invoice.paid completes the grant if the user finishes.
		if err := s.purchases.Save(ctx, purchase); err != nil {
			return nil, fmt.Errorf("failed to save purchase: %w", err)
		}
		return &PurchaseResult{Success: false, Purchase: purchase, Error: msgSubscriptionPending}, nil

	default:
		if err := purchase.Fail(); err != nil {
			return nil, err
		}
		if err := s.purchases.Save(ctx, purchase); err != nil {
			return nil, fmt.Errorf("failed to save purchase: %w", err)
		}
		return &PurchaseResult{Success: false, Purchase: purchase, Error: msgPaymentFailed}, nil
	}
}

// completePurchase atomically marks the purchase completed, reserves stock,
// creates the grant and ensures a buyer membership. A duplicate external
// reference means the webhook reconciler won the race; the existing grant is
// returned instead of a second one.
func (s *PurchaseService) completePurchase(ctx context.Context, user *identity.User, pass *catalog.AccessPass, purchase *entitlement.Purchase, externalRef string, expiresAt *time.Time) (*PurchaseResult, error) {
	purchasable, err := entitlement.NewPurchasable(entitlement.PurchasableTypeSpace, pass.SpaceID)
	if err != nil {
		return nil, err
	}
	grant, err := entitlement.NewAccessGrant(user.ID, pass.TeamID, pass.ID, purchasable, expiresAt)
	if err != nil {
		return nil, err
	}
	grant.SetExternalRef(externalRef)

	if err := purchase.Complete(externalRef); err != nil {
		return nil, err
	}

	err = s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
		if err := repos.Purchases().Save(ctx, purchase); err != nil {
			return err
		}
		// The grant insert comes before the stock reservation: when the
		// reconciler already committed a grant for this payment, its unit is
		// already counted and reserving again would leak one.
		if err := repos.Grants().Save(ctx, grant); err != nil {
			return err
		}
		if err := repos.Passes().ReserveStock(ctx, pass.ID); err != nil {
			return err
		}
		return ensureBuyerMembership(ctx, repos.Memberships(), user.ID, pass.TeamID)
	})
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			existing, findErr := s.grants.FindByExternalRef(ctx, externalRef)
			if findErr != nil {
				return nil, fmt.Errorf("grant exists but could not be loaded: %w", findErr)
			}
			return &PurchaseResult{Success: true, Purchase: purchase, AccessGrant: existing}, nil
		}
		return nil, fmt.Errorf("failed to complete purchase: %w", err)
	}

	s.logger.Info("Purchase completed",
		zap.String("user_id", user.ID.String()),
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("external_ref", externalRef))

	return &PurchaseResult{Success: true, Purchase: purchase, AccessGrant: grant}, nil
}

// handleGatewayFailure normalizes gateway errors at the orchestrator
// boundary. A timeout leaves the purchase pending so the reconciler can still
// resolve a charge that actually went through; a definitive gateway error
// marks it failed. Anything else propagates.
func (s *PurchaseService) handleGatewayFailure(ctx context.Context, purchase *entitlement.Purchase, err error) (*PurchaseResult, error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.Warn("Gateway call timed out, leaving purchase pending",
			zap.String("purchase_id", purchase.ID.String()))
		return &PurchaseResult{Success: false, Purchase: purchase, Error: msgPaymentProcessing}, nil
	}

	if gwErr, ok := billing.AsGatewayError(err); ok {
		if failErr := purchase.Fail(); failErr != nil {
			return nil, failErr
		}
		if saveErr := s.purchases.Save(ctx, purchase); saveErr != nil {
			return nil, fmt.Errorf("failed to save failed purchase: %w", saveErr)
		}
		s.logger.Warn("Gateway rejected payment",
			zap.String("purchase_id", purchase.ID.String()),
			zap.String("code", gwErr.Code),
			zap.String("message", gwErr.Message))
		return &PurchaseResult{Success: false, Purchase: purchase, Error: gwErr.Message}, nil
	}

	return nil, err
}

// ensureCustomer lazily creates a gateway customer for the user and persists
// the returned ID so subsequent purchases never create a second customer.
func (s *PurchaseService) ensureCustomer(ctx context.Context, user *identity.User) (string, *PurchaseResult, error) {
	if user.HasStripeCustomer() {
		return user.StripeCustomerID, nil, nil
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	out, err := s.gateway.CreateCustomer(gwCtx, billing.CreateCustomerInput{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		if gwErr, ok := billing.AsGatewayError(err); ok {
			return "", &PurchaseResult{Success: false, Error: gwErr.Message}, nil
		}
		return "", nil, err
	}

	user.SetStripeCustomerID(out.CustomerID)
	if err := s.users.Save(ctx, user); err != nil {
		return "", nil, fmt.Errorf("failed to persist customer ID: %w", err)
	}

	return out.CustomerID, nil, nil
}

// ensureBuyerMembership gives the user at least a buyer role on the team.
// Existing memberships are kept as-is so staff roles are never downgraded.
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

// purchaseMetadata tags gateway objects so webhook events can be traced back
// to the purchase context.
func purchaseMetadata(userID uuid.UUID, pass *catalog.AccessPass) map[string]string {
	return map[string]string{
		"access_pass_id": pass.ID.String(),
		"user_id":        userID.String(),
		"team_id":        pass.TeamID.String(),
	}
}
