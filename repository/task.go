package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

type TaskFilter struct {
	ProjectID string
	Status    domain.TaskStatus
	Limit     int
	Offset    int
}

// TaskStatusStore is the slice of the task store the overdue sweep needs.
type TaskStatusStore interface {
	FindNotDone(ctx context.Context) ([]domain.Task, error)
	// MarkOverdue moves the task to VENCIDA only if it is still PENDENTE.
	// It reports false, without error, when the task is gone or was moved
	// to another status in the meantime.
	MarkOverdue(ctx context.Context, id string) (bool, error)
}

type TaskRepository interface {
	TaskStatusStore
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
