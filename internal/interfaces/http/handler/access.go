package handler

import (
	appentitlement "github.com/creatorhub/backend/internal/application/entitlement"
	"github.com/creatorhub/backend/internal/domain/content"
	"github.com/creatorhub/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessHandler exposes the resource access check endpoint
type AccessHandler struct {
	BaseHandler
	access *appentitlement.AccessService
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(access *appentitlement.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

// RegisterRoutes registers access check routes
func (h *AccessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/access/:resource_type/:resource_id", h.CheckAccess)
}

// AccessCheckResponse is the access check response body
type AccessCheckResponse struct {
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason"`
	MatchedType string `json:"matched_type,omitempty"`
	MatchedID   string `json:"matched_id,omitempty"`
	GrantID     string `json:"grant_id,omitempty"`
}

// CheckAccess handles GET /access/:resource_type/:resource_id
func (h *AccessHandler) CheckAccess(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing or invalid user ID")
		return
	}

	resourceType := content.ResourceType(c.Param("resource_type"))
	if !resourceType.IsValid() {
		h.BadRequest(c, "Invalid resource type")
		return
	}

	resourceID, err := uuid.Parse(c.Param("resource_id"))
	if err != nil {
		h.BadRequest(c, "Invalid resource ID")
		return
	}

	decision, err := h.access.CheckAccess(c.Request.Context(), userID, content.ResourceRef{
		Type: resourceType,
		ID:   resourceID,
	})
	if err != nil {
		logger.GetGinLogger(c).Error("Access check failed",
			zap.String("resource_type", resourceType.String()),
			zap.String("resource_id", resourceID.String()),
			zap.Error(err))
		h.DomainError(c, err)
		return
	}

	resp := AccessCheckResponse{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
	}
	if decision.MatchedNode != nil {
		resp.MatchedType = decision.MatchedNode.Type.String()
		resp.MatchedID = decision.MatchedNode.ID.String()
	}
	if decision.GrantID != nil {
		resp.GrantID = decision.GrantID.String()
	}

	h.Success(c, resp)
}
