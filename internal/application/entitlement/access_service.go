package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorhub/backend/internal/domain/content"
	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Access decision reasons
const (
	ReasonPrivilegedRole = "privileged_role"
	ReasonActiveGrant    = "active_grant"
	ReasonNoGrant        = "no_grant"
)

// AccessDecision is the outcome of an access check. MatchedNode and GrantID
// are set only when access came from a grant; Reason distinguishes role-based
// access from grant-based access for audit logging.
type AccessDecision struct {
	Allowed     bool                 `json:"allowed"`
	Reason      string               `json:"reason"`
	MatchedNode *content.ResourceRef `json:"matched_node,omitempty"`
	GrantID     *uuid.UUID           `json:"grant_id,omitempty"`
}

// AccessService answers "may this user view this resource". It is strictly
// read-only: checks never mutate grants, purchases or memberships.
type AccessService struct {
	chains      *content.ChainResolver
	grants      entitlement.AccessGrantRepository
	memberships identity.MembershipRepository
	logger      *zap.Logger
}

// AccessServiceConfig contains configuration for AccessService
type AccessServiceConfig struct {
	ChainResolver  *content.ChainResolver
	GrantRepo      entitlement.AccessGrantRepository
	MembershipRepo identity.MembershipRepository
	Logger         *zap.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(cfg AccessServiceConfig) *AccessService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AccessService{
		chains:      cfg.ChainResolver,
		grants:      cfg.GrantRepo,
		memberships: cfg.MembershipRepo,
		logger:      logger,
	}
}

// CheckAccess resolves the resource's ownership chain and decides whether the
// user may view it. Privileged team roles short-circuit before any grant
// lookup; otherwise the user's active grants are matched against every node
// in the chain, so a grant on an ancestor covers all of its descendants.
func (s *AccessService) CheckAccess(ctx context.Context, userID uuid.UUID, ref content.ResourceRef) (*AccessDecision, error) {
	chain, err := s.chains.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve ownership chain: %w", err)
	}

	membership, err := s.memberships.FindByUserAndTeam(ctx, userID, chain.TeamID)
	if err == nil && membership.Role.Privileged() {
		s.logger.Debug("Access allowed by role",
			zap.String("user_id", userID.String()),
			zap.String("team_id", chain.TeamID.String()),
			zap.String("role", membership.Role.String()))
		return &AccessDecision{Allowed: true, Reason: ReasonPrivilegedRole}, nil
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}

	grants, err := s.grants.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grants: %w", err)
	}

	for _, grant := range grants {
		for i := range chain.Nodes {
			if grant.GrantsAccessTo(chain.Nodes[i]) {
				node := chain.Nodes[i]
				grantID := grant.ID
				s.logger.Debug("Access allowed by grant",
					zap.String("user_id", userID.String()),
					zap.String("grant_id", grantID.String()),
					zap.String("matched_type", node.Type.String()))
				return &AccessDecision{
					Allowed:     true,
					Reason:      ReasonActiveGrant,
					MatchedNode: &node,
					GrantID:     &grantID,
				}, nil
			}
		}
	}

	return &AccessDecision{Allowed: false, Reason: ReasonNoGrant}, nil
}
