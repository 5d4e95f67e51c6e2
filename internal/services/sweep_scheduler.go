package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/usecase/sweep"
)

// SweepRunner is the part of the sweeper the scheduler needs.
type SweepRunner interface {
	Run(ctx context.Context) (sweep.Result, error)
}

// SweepScheduler is an opt-in external trigger for the overdue sweep. Each
// tick calls the same Sweeper.Run behind GET /api/tasks/update-overdue and
// `taskctl sweep`; it adds no semantics of its own, and the board never
// sweeps implicitly when SWEEP_SCHEDULE is unset. The schedule uses the
// standard five-field syntax (or descriptors such as @daily).
type SweepScheduler struct {
	runner  SweepRunner
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

// NewSweepScheduler parses spec and registers the job. The scheduler runs in
// loc so that "midnight" means the same day boundary the sweep uses.
func NewSweepScheduler(spec string, loc *time.Location, runner SweepRunner, timeout time.Duration, logger *zap.Logger) (*SweepScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	if timeout <= 0 {
		timeout = time.Minute
	}

	s := &SweepScheduler{
		runner:  runner,
		cron:    cron.New(cron.WithLocation(loc)),
		timeout: timeout,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, err
	}
	return s, nil
}

// RunOnce executes a single sweep with the configured timeout.
func (s *SweepScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.runner.Run(ctx); err != nil {
		s.logger.Error("scheduled sweep failed", zap.Error(err))
	}
}

func (s *SweepScheduler) Start() {
	s.cron.Start()
	s.logger.Info("sweep scheduler started")
}

func (s *SweepScheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("sweep scheduler stopped")
}
