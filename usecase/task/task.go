package task

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

type UseCase struct {
	tasks     repository.TaskRepository
	buffer    usecase.OperationBuffer
	cache     repository.ProjectCache
	publisher usecase.StatusPublisher
	clock     calendar.Clock
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*UseCase)

func WithCache(c repository.ProjectCache) Option {
	return func(uc *UseCase) { uc.cache = c }
}

func WithPublisher(p usecase.StatusPublisher) Option {
	return func(uc *UseCase) {
		if p != nil {
			uc.publisher = p
		}
	}
}

func WithClock(c calendar.Clock) Option {
	return func(uc *UseCase) {
		if c != nil {
			uc.clock = c
		}
	}
}

func New(tasks repository.TaskRepository, buffer usecase.OperationBuffer, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:     tasks,
		buffer:    buffer,
		publisher: usecase.NopPublisher,
		clock:     &calendar.SystemClock{},
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// UpdateInput carries a partial edit; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Responsible *string
	DueDate     *calendar.Date
	Status      *domain.TaskStatus
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// ListTasks returns a project's tasks narrowed by a board filter.
func (uc *UseCase) ListTasks(ctx context.Context, projectID string, filter domain.TaskListFilter) ([]domain.Task, error) {
	status, err := filter.Status()
	if err != nil {
		return nil, err
	}
	return uc.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID, Status: status})
}

// CreateTask stores a new task. New tasks always start as PENDENTE.
func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.Normalize()
	task.Status = domain.StatusPending
	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, err, usecase.OperationCreate, task) {
			return task, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	return created, nil
}

// UpdateTask applies a partial edit. The owning project never changes. When
// the edit names a status it is resolved like SetStatus; an edit without a
// status keeps the stored one, even if the due date moved.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, in UpdateInput) (*domain.Task, error) {
	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := existing.Status

	task := *existing
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Responsible != nil {
		task.Responsible = *in.Responsible
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	task.Normalize()
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		task.Status = uc.resolveStatus(*in.Status, task.DueDate)
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tasks.Update(ctx, &task); err != nil {
		if uc.shouldBuffer(ctx, err, usecase.OperationUpdate, &task) {
			return &task, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	uc.announce(ctx, &task, previous)
	return &task, nil
}

// SetStatus is the explicit user transition. CONCLUIDA is stored as is; any
// other request reopens the task and lands on PENDENTE or VENCIDA depending
// on today's date.
func (uc *UseCase) SetStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := uc.resolveStatus(status, existing.DueDate)
	updated, err := uc.tasks.UpdateStatus(ctx, id, next)
	if err != nil {
		pending := *existing
		pending.Status = next
		if uc.shouldBuffer(ctx, err, usecase.OperationUpdate, &pending) {
			return &pending, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	uc.announce(ctx, updated, existing.Status)
	return updated, nil
}

// CompleteTask marks the task CONCLUIDA unless the caller names another
// status, which is how the board toggles a task back open.
func (uc *UseCase) CompleteTask(ctx context.Context, id string, status string) (*domain.Task, error) {
	if status == "" {
		return uc.SetStatus(ctx, id, domain.StatusCompleted)
	}
	parsed, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}
	return uc.SetStatus(ctx, id, parsed)
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		if uc.shouldBuffer(ctx, err, usecase.OperationDelete, &domain.Task{ID: id}) {
			return nil
		}
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *UseCase) resolveStatus(requested domain.TaskStatus, due calendar.Date) domain.TaskStatus {
	return domain.DueStatus(due, requested == domain.StatusCompleted, uc.clock.Today())
}

func (uc *UseCase) announce(ctx context.Context, task *domain.Task, previous domain.TaskStatus) {
	if task == nil || task.Status == previous {
		return
	}
	change := domain.StatusChange{
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		From:      previous,
		To:        task.Status,
		Source:    domain.ChangeSourceUser,
		At:        uc.now(),
	}
	if err := uc.publisher.PublishStatusChange(ctx, change); err != nil {
		logger.WithRequestID(ctx, uc.logger).Warn("failed to publish status change",
			zap.String("task_id", task.ID), zap.Error(err))
	}
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		logger.WithRequestID(ctx, uc.logger).Warn("project cache invalidation failed", zap.Error(err))
	}
}

// shouldBuffer parks the write in the offline buffer when the store is down.
// Any other failure is returned to the caller.
func (uc *UseCase) shouldBuffer(ctx context.Context, cause error, operation string, task *domain.Task) bool {
	if uc.buffer == nil || !errors.Is(cause, domain.ErrStoreUnavailable) {
		return false
	}
	log := logger.WithRequestID(ctx, uc.logger)
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		log.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	log.Warn("task operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
