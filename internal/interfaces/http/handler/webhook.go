package handler

import (
	"io"
	"net/http"

	appbilling "github.com/creatorhub/backend/internal/application/billing"
	"github.com/creatorhub/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBodyBytes bounds the webhook payload size. Stripe events are
// small; anything larger is not a legitimate event.
const maxWebhookBodyBytes = 1 << 20

// WebhookHandler exposes the payment gateway webhook endpoint
type WebhookHandler struct {
	BaseHandler
	webhooks *appbilling.StripeWebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *appbilling.StripeWebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.HandleStripeWebhook)
}

// HandleStripeWebhook handles POST /webhooks/stripe. The raw body is needed
// for signature verification, so the request is never bound to a struct.
// Processing errors return 5xx so the gateway redelivers; verification
// failures return 400 because redelivery cannot fix a bad signature.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.BadRequest(c, "Missing Stripe-Signature header")
		return
	}

	result, err := h.webhooks.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		if result == nil {
			// Signature verification failed before any processing.
			h.BadRequest(c, "Webhook signature verification failed")
			return
		}
		logger.GetGinLogger(c).Error("Webhook processing failed",
			zap.String("event_id", result.EventID),
			zap.Error(err))
		h.Error(c, http.StatusInternalServerError, "ERR_INTERNAL", "Failed to process webhook event")
		return
	}

	h.Success(c, result)
}
