package scheduler

import (
	"context"
	"log/slog"
	"time"

	"xedule/internal/domain"
)

// runTimeout bounds one publish run, backoff waits included.
const runTimeout = 5 * time.Minute

// Runner defines the interface for one publishing run.
type Runner interface {
	Run(ctx context.Context) (*domain.PublishStats, error)
}

// Scheduler triggers runs on a fixed period. Runs never overlap: the next
// tick is not handled until the previous run returns.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	stats, err := s.runner.Run(runCtx)
	if err != nil {
		s.logger.Error("publish run failed", "error", err)
		return
	}

	s.logger.Info(stats.Summary())
}
