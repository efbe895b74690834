package handler

import (
	"time"

	"github.com/creatorhub/backend/internal/application/checkout"
	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the purchase endpoint
type CheckoutHandler struct {
	BaseHandler
	purchases *checkout.PurchaseService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(purchases *checkout.PurchaseService) *CheckoutHandler {
	return &CheckoutHandler{purchases: purchases}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Purchase)
}

// PurchaseRequest is the checkout request body
type PurchaseRequest struct {
	AccessPassID    string `json:"access_pass_id" binding:"required,uuid"`
	PaymentMethodID string `json:"payment_method_id"`
}

// PurchaseResponse is the checkout response body
type PurchaseResponse struct {
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`
	Purchase    *PurchaseView    `json:"purchase,omitempty"`
	AccessGrant *AccessGrantView `json:"access_grant,omitempty"`
}

// PurchaseView is the wire representation of a purchase
type PurchaseView struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
}

// AccessGrantView is the wire representation of a grant
type AccessGrantView struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	PurchasableType string     `json:"purchasable_type"`
	PurchasableID   string     `json:"purchasable_id"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// Purchase handles POST /checkout
func (h *CheckoutHandler) Purchase(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing or invalid user ID")
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	passID, err := uuid.Parse(req.AccessPassID)
	if err != nil {
		h.BadRequest(c, "Invalid access pass ID")
		return
	}

	result, err := h.purchases.Execute(c.Request.Context(), userID, passID, req.PaymentMethodID)
	if err != nil {
		logger.GetGinLogger(c).Error("Checkout failed",
			zap.String("access_pass_id", passID.String()),
			zap.Error(err))
		h.DomainError(c, err)
		return
	}

	h.Success(c, toPurchaseResponse(result))
}

func toPurchaseResponse(result *checkout.PurchaseResult) PurchaseResponse {
	resp := PurchaseResponse{
		Success: result.Success,
		Error:   result.Error,
	}
	if result.Purchase != nil {
		resp.Purchase = &PurchaseView{
			ID:          result.Purchase.ID.String(),
			Status:      result.Purchase.Status.String(),
			AmountCents: result.Purchase.AmountCents,
		}
	}
	if result.AccessGrant != nil {
		resp.AccessGrant = toGrantView(result.AccessGrant)
	}
	return resp
}

func toGrantView(grant *entitlement.AccessGrant) *AccessGrantView {
	return &AccessGrantView{
		ID:              grant.ID.String(),
		Status:          grant.Status.String(),
		PurchasableType: grant.Purchasable.Type.String(),
		PurchasableID:   grant.Purchasable.ID.String(),
		ExpiresAt:       grant.ExpiresAt,
	}
}
