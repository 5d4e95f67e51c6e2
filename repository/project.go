package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// ProjectRepository persists projects. Reads return projects with their
// tasks; Delete removes the project's tasks as well.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Rename(ctx context.Context, id, name string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
