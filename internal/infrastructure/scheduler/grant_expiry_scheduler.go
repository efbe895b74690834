package scheduler

import (
	"context"
	"sync"
	"time"

	appentitlement "github.com/creatorhub/backend/internal/application/entitlement"
	"go.uber.org/zap"
)

// GrantExpirySchedulerConfig holds configuration for the grant expiry scheduler
type GrantExpirySchedulerConfig struct {
	// Interval is how often the sweep runs
	Interval time.Duration

	// SweepTimeout bounds a single sweep run
	SweepTimeout time.Duration
}

// DefaultGrantExpirySchedulerConfig returns default scheduler configuration
func DefaultGrantExpirySchedulerConfig() GrantExpirySchedulerConfig {
	return GrantExpirySchedulerConfig{
		Interval:     15 * time.Minute,
		SweepTimeout: 5 * time.Minute,
	}
}

// GrantExpiryScheduler periodically runs the grant expiry sweep. Access
// checks already compute expiry on read, so a missed run never grants stale
// access; the scheduler only keeps statuses and stock counters tidy.
type GrantExpiryScheduler struct {
	config GrantExpirySchedulerConfig
	sweep  *appentitlement.ExpirySweepService
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewGrantExpiryScheduler creates a new grant expiry scheduler
func NewGrantExpiryScheduler(
	config GrantExpirySchedulerConfig,
	sweep *appentitlement.ExpirySweepService,
	logger *zap.Logger,
) *GrantExpiryScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrantExpiryScheduler{
		config: config,
		sweep:  sweep,
		logger: logger,
	}
}

// Start starts the scheduler
func (s *GrantExpiryScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Grant expiry scheduler started",
		zap.Duration("interval", s.config.Interval))

	return nil
}

// Stop stops the scheduler, waiting for an in-flight sweep to finish
func (s *GrantExpiryScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Grant expiry scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop runs the sweep on every tick until the context is cancelled
func (s *GrantExpiryScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// One sweep at startup so a long-stopped instance catches up immediately.
	s.runSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

// runSweep executes one bounded sweep run
func (s *GrantExpiryScheduler) runSweep(ctx context.Context) {
	sweepCtx := ctx
	if s.config.SweepTimeout > 0 {
		var cancel context.CancelFunc
		sweepCtx, cancel = context.WithTimeout(ctx, s.config.SweepTimeout)
		defer cancel()
	}

	result, err := s.sweep.Sweep(sweepCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("Grant expiry sweep failed", zap.Error(err))
		return
	}

	if result.Expired > 0 {
		s.logger.Info("Grant expiry sweep completed",
			zap.Int("expired", result.Expired))
	}
}
