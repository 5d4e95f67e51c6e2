package usecase

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferProject(ctx context.Context, operation string, project *domain.Project) error
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
}
