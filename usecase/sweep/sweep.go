// Package sweep reconciles stored task statuses with the current calendar
// date: open tasks whose due date has passed are moved to VENCIDA.
package sweep

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/calendar"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Result is what a sweep reports back to its caller.
type Result struct {
	UpdatedCount int `json:"updatedCount"`
}

type Sweeper struct {
	tasks     repository.TaskStatusStore
	cache     repository.ProjectCache
	clock     calendar.Clock
	publisher usecase.StatusPublisher
	observer  usecase.SweepObserver
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Sweeper)

func WithPublisher(p usecase.StatusPublisher) Option {
	return func(s *Sweeper) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithCache drops the cached project listing after a sweep that moved tasks.
func WithCache(c repository.ProjectCache) Option {
	return func(s *Sweeper) { s.cache = c }
}

func WithObserver(o usecase.SweepObserver) Option {
	return func(s *Sweeper) { s.observer = o }
}

func New(tasks repository.TaskStatusStore, clock calendar.Clock, logger *zap.Logger, opts ...Option) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = &calendar.SystemClock{}
	}
	s := &Sweeper{
		tasks:     tasks,
		clock:     clock,
		publisher: usecase.NopPublisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run loads every task not marked CONCLUIDA and moves the overdue ones to
// VENCIDA. Each update stands alone; a failure stops the sweep and is
// returned without a count, but updates already written stay written.
// Running it again converges, so callers may retry freely.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	log := logger.WithRequestID(ctx, s.logger)

	updated, err := s.run(ctx, log)
	if updated > 0 {
		s.invalidate(ctx, log)
	}
	if err != nil {
		s.observe(ResultError, updated, time.Since(started))
		log.Error("overdue sweep failed", zap.Int("updated_before_failure", updated), zap.Error(err))
		return Result{}, err
	}

	s.observe(ResultOK, updated, time.Since(started))
	log.Info("overdue sweep finished", zap.Int("updated", updated), zap.Duration("elapsed", time.Since(started)))
	return Result{UpdatedCount: updated}, nil
}

func (s *Sweeper) run(ctx context.Context, log *zap.Logger) (int, error) {
	tasks, err := s.tasks.FindNotDone(ctx)
	if err != nil {
		return 0, storeError(err)
	}

	today := s.clock.Today()
	updated := 0

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return updated, domain.Unavailable(err)
		}
		// DONE tasks are never touched; VENCIDA ones need no write.
		if task.Status == domain.StatusCompleted || task.Status == domain.StatusOverdue {
			continue
		}
		if !domain.OverdueOn(task.DueDate, today) {
			continue
		}

		moved, err := s.tasks.MarkOverdue(ctx, task.ID)
		if err != nil {
			if errors.Is(err, domain.ErrTaskNotFound) {
				log.Debug("task vanished during sweep", zap.String("task_id", task.ID))
				continue
			}
			return updated, storeError(err)
		}
		if !moved {
			// Completed, reopened or deleted since it was loaded.
			log.Debug("task changed during sweep", zap.String("task_id", task.ID))
			continue
		}
		updated++

		change := domain.StatusChange{
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
			From:      task.Status,
			To:        domain.StatusOverdue,
			Source:    domain.ChangeSourceSweep,
			At:        s.now(),
		}
		if err := s.publisher.PublishStatusChange(ctx, change); err != nil {
			log.Warn("failed to publish status change", zap.String("task_id", task.ID), zap.Error(err))
		}
	}
	return updated, nil
}

func (s *Sweeper) invalidate(ctx context.Context, log *zap.Logger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn("project cache invalidation failed", zap.Error(err))
	}
}

func (s *Sweeper) observe(result string, updated int, elapsed time.Duration) {
	if s.observer != nil {
		s.observer.ObserveSweep(result, updated, elapsed)
	}
}

// storeError makes sure every failure the sweep reports is classified as a
// store outage unless the store already gave it a domain meaning.
func storeError(err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.Unavailable(err)
}
