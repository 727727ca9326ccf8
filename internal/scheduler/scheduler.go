// Package scheduler drives the periodic revenue movement batch.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cirrusops/revenue/internal/clock"
	"github.com/cirrusops/revenue/internal/metrics"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	Log         *zap.Logger
	MovementSvc movementdomain.Service
	Clock       clock.Clock
	Config      Config `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	movementSvc movementdomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.MovementSvc == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler"),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		movementSvc: p.MovementSvc,
	}, nil
}

// runJob wraps one job with a timeout, duration metrics, and soft-timeout
// semantics: a deadline hit is logged and counted but does not fail the run.
func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	schedMetrics := metrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, s.clock.Now().Sub(start))
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		schedMetrics.IncJobTimeout(name)
		schedMetrics.IncJobError(name, err)
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	schedMetrics.IncJobError(name, err)
	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes one movement batch for every organization as of now.
func (s *Scheduler) RunOnce(parent context.Context) error {
	return s.runJob(parent, "movement_batch", s.cfg.JobTimeout, func(ctx context.Context) error {
		report, err := s.movementSvc.RunAll(ctx, s.clock.Now(), s.cfg.BatchSize)
		if err != nil {
			return err
		}

		processed := 0
		failed := 0
		for _, org := range report.Orgs {
			processed += org.Snapshots
			failed += len(org.Errors)
		}
		metrics.Scheduler().AddAccountsProcessed("movement_batch", processed)

		s.log.Info("movement batch complete",
			zap.Time("date", report.Date),
			zap.Int("organizations", len(report.Orgs)),
			zap.Int("snapshots", processed),
			zap.Int("account_errors", failed),
		)
		return nil
	})
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)

	for {
		if lag := s.clock.Now().Sub(nextRun); lag > 0 {
			metrics.Scheduler().ObserveRunLoopLag(lag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
