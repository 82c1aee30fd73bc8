// Package jobs runs periodic maintenance.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"vehicle-reservation/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

type TokenSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Scheduler wraps a cron runner; entries never overlap themselves.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		timeout: time.Minute,
	}
}

// AddTokenSweep schedules deletion of expired refresh tokens.
func (s *Scheduler) AddTokenSweep(spec string, sweeper TokenSweeper) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.runTokenSweep(sweeper)
	})
	if err != nil {
		return errs.Wrapf(err, "schedule token sweep %q", spec)
	}
	return nil
}

func (s *Scheduler) runTokenSweep(sweeper TokenSweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	deleted, err := sweeper.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("token sweep failed", "error", err.Error())
		return
	}
	s.logger.Info("token sweep finished",
		"deleted", deleted,
		"duration_ms", time.Since(start).Milliseconds())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or ctx, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
