package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/buffer"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor replays buffered writes against the primary store once it
// is reachable again.
type BufferProcessor struct {
	store    *buffer.Store
	monitor  ConnectionHealth
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	cache    repository.ProjectCache
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ProcessorConfig
	now      func() time.Time
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	cache repository.ProjectCache,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:    store,
		monitor:  monitor,
		projects: projects,
		tasks:    tasks,
		cache:    cache,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
		now:      time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started")
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays buffered items in order. Items the store rejects for good
// (missing rows, invalid data) are dropped; an outage stops the drain so
// later writes never overtake earlier ones.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	if bp.cfg.Retention > 0 {
		if removed, err := bp.store.Purge(bp.now().Add(-bp.cfg.Retention)); err != nil {
			bp.logger.Warn("buffer retention purge failed", zap.Error(err))
		} else if removed > 0 {
			bp.logger.Warn("expired buffered writes dropped", zap.Int("count", removed))
		}
	}

	items, err := bp.store.Batch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	applied := 0
	defer func() {
		if applied > 0 {
			bp.invalidate(ctx)
		}
	}()

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		log := bp.logger.With(
			zap.String("item_id", item.ID),
			zap.String("entity", item.Entity),
			zap.String("operation", item.Operation),
			zap.String("request_id", item.RequestID),
		)

		err := bp.processItem(ctx, item)
		if err == nil {
			applied++
			if err := bp.store.Remove(item); err != nil {
				log.Warn("failed to purge processed buffer item", zap.Error(err))
			}
			continue
		}

		if permanent(err) {
			log.Warn("dropping buffer item rejected by store", zap.Error(err))
			_ = bp.store.Remove(item)
			continue
		}

		bumped, markErr := bp.store.MarkAttempt(item)
		if markErr != nil {
			log.Error("failed to record buffer attempt", zap.Error(markErr))
		}
		if bumped.Attempts >= bp.cfg.MaxRetries {
			log.Warn("dropping buffer item (max retries reached)", zap.Int("attempts", bumped.Attempts), zap.Error(err))
			_ = bp.store.Remove(bumped)
			continue
		}
		log.Error("failed to process buffer item", zap.Int("attempts", bumped.Attempts), zap.Error(err))
		return nil
	}
	return nil
}

// BufferOperation tries the write once more when the monitor reports the
// store online and persists it otherwise.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	if bp.monitor != nil && bp.monitor.IsOnline() {
		err := bp.processItem(ctx, item)
		if err == nil {
			bp.invalidate(ctx)
			return nil
		}
		if permanent(err) {
			return err
		}
		bp.logger.Warn("immediate processing failed, buffering", zap.Error(err))
	}
	return bp.store.Enqueue(item)
}

// invalidate drops the cached project listing once replayed writes landed.
func (bp *BufferProcessor) invalidate(ctx context.Context) {
	if bp.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := bp.cache.Invalidate(ctx); err != nil {
		bp.logger.Warn("project cache invalidation failed", zap.Error(err))
	}
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Len()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch item.Entity {
	case buffer.EntityProject:
		var project domain.Project
		if err := json.Unmarshal(item.Data, &project); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "corrupt buffer item", err)
		}
		switch item.Operation {
		case usecase.OperationCreate:
			_, err := bp.projects.Create(ctx, &project)
			return err
		case usecase.OperationUpdate:
			_, err := bp.projects.Rename(ctx, project.ID, project.Name)
			return err
		case usecase.OperationDelete:
			return bp.projects.Delete(ctx, project.ID)
		}

	case buffer.EntityTask:
		var task domain.Task
		if err := json.Unmarshal(item.Data, &task); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "corrupt buffer item", err)
		}
		switch item.Operation {
		case usecase.OperationCreate:
			_, err := bp.tasks.Create(ctx, &task)
			return err
		case usecase.OperationUpdate:
			return bp.tasks.Update(ctx, &task)
		case usecase.OperationDelete:
			return bp.tasks.Delete(ctx, task.ID)
		}

	default:
		return domain.Invalid(fmt.Sprintf("unsupported buffer entity %s", item.Entity))
	}
	return domain.Invalid(fmt.Sprintf("unsupported buffer operation %s", item.Operation))
}

// permanent reports whether retrying err can never succeed.
func permanent(err error) bool {
	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return false
	}
	return dErr.Code == domain.ErrCodeNotFound || dErr.Code == domain.ErrCodeInvalid
}
