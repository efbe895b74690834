package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/creatorhub/backend/internal/domain/entitlement"
	"github.com/creatorhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultSweepBatchSize = 100

// ExpirySweepService persists computed expiry for grants whose expires_at has
// passed. Access checks already treat expired grants as inactive on read; the
// sweep exists so listing queries can filter on status alone and so released
// stock units become available again.
type ExpirySweepService struct {
	tx        entitlement.TransactionScope
	batchSize int
	logger    *zap.Logger
}

// ExpirySweepServiceConfig contains configuration for ExpirySweepService
type ExpirySweepServiceConfig struct {
	TransactionScope entitlement.TransactionScope
	BatchSize        int
	Logger           *zap.Logger
}

// NewExpirySweepService creates a new ExpirySweepService
func NewExpirySweepService(cfg ExpirySweepServiceConfig) *ExpirySweepService {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ExpirySweepService{
		tx:        cfg.TransactionScope,
		batchSize: batchSize,
		logger:    logger,
	}
}

// SweepResult reports one sweep run
type SweepResult struct {
	Expired int `json:"expired"`
}

// Sweep transitions all past-expiry active grants to expired, in batches,
// releasing each grant's stock unit in the same transaction. It keeps going
// until a batch comes back short or the context is cancelled.
func (s *ExpirySweepService) Sweep(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{}
	asOf := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var batchLen int
		err := s.tx.Execute(ctx, func(repos entitlement.TransactionalRepositories) error {
			grants, err := repos.Grants().FindExpiredActive(ctx, asOf, s.batchSize)
			if err != nil {
				return err
			}
			batchLen = len(grants)

			for _, grant := range grants {
				if err := grant.MarkExpired(); err != nil {
					// Raced with a renewal that pushed the expiry forward.
					if errors.Is(err, shared.ErrInvalidState) {
						continue
					}
					return err
				}
				if err := repos.Grants().Save(ctx, grant); err != nil {
					return err
				}
				if err := repos.Passes().ReleaseStock(ctx, grant.AccessPassID); err != nil {
					return err
				}
				result.Expired++
			}
			return nil
		})
		if err != nil {
			return result, err
		}

		if batchLen < s.batchSize {
			break
		}
	}

	if result.Expired > 0 {
		s.logger.Info("Expired grants swept", zap.Int("count", result.Expired))
	}
	return result, nil
}
