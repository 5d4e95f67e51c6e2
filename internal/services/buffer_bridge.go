package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/buffer"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/usecase"
)

// BufferBridge turns use-case writes into buffer items.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferProject(ctx context.Context, operation string, project *domain.Project) error {
	if b == nil || b.processor == nil || project == nil {
		return domain.ErrInvalidPayload
	}
	// Creates get their id now so the caller can reference the project
	// before the buffer is replayed.
	if operation == usecase.OperationCreate && project.ID == "" {
		project.ID = uuid.NewString()
	}
	stored := *project
	stored.Tasks = nil
	stored.Summary = nil
	payload, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		Entity:    buffer.EntityProject,
		Operation: operation,
		EntityID:  project.ID,
		RequestID: logger.RequestID(ctx),
		Data:      payload,
	})
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b == nil || b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	if operation == usecase.OperationCreate && task.ID == "" {
		task.ID = uuid.NewString()
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		Entity:    buffer.EntityTask,
		Operation: operation,
		EntityID:  task.ID,
		RequestID: logger.RequestID(ctx),
		Data:      payload,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
