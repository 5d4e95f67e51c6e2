package project

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

const listKey = "projects"

type UseCase struct {
	projects repository.ProjectRepository
	cache    repository.ProjectCache
	buffer   usecase.OperationBuffer
	logger   *zap.Logger
	group    singleflight.Group
}

// New wires the project use case. cache and buffer are optional.
func New(projects repository.ProjectRepository, cache repository.ProjectCache, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects: projects,
		cache:    cache,
		buffer:   buffer,
		logger:   logger,
	}
}

// ListProjects returns every project with its tasks and counters. The
// listing is served from the cache when possible; concurrent misses share a
// single store read.
func (uc *UseCase) ListProjects(ctx context.Context) ([]domain.Project, error) {
	log := logger.WithRequestID(ctx, uc.logger)

	if uc.cache != nil {
		cached, ok, err := uc.cache.GetProjects(ctx)
		if err != nil {
			log.Warn("project cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	v, err, _ := uc.group.Do(listKey, func() (interface{}, error) {
		projects, err := uc.projects.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range projects {
			summarize(&projects[i])
		}
		if uc.cache != nil {
			if err := uc.cache.SetProjects(ctx, projects); err != nil {
				log.Warn("project cache write failed", zap.Error(err))
			}
		}
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Project), nil
}

func (uc *UseCase) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summarize(project)
	return project, nil
}

func (uc *UseCase) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	name, err := domain.NormalizeProjectName(name)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{Name: name}
	created, err := uc.projects.Create(ctx, project)
	if err != nil {
		if uc.shouldBuffer(ctx, err, usecase.OperationCreate, project) {
			return project, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	summarize(created)
	return created, nil
}

func (uc *UseCase) RenameProject(ctx context.Context, id, name string) (*domain.Project, error) {
	name, err := domain.NormalizeProjectName(name)
	if err != nil {
		return nil, err
	}

	renamed, err := uc.projects.Rename(ctx, id, name)
	if err != nil {
		pending := &domain.Project{ID: id, Name: name}
		if uc.shouldBuffer(ctx, err, usecase.OperationUpdate, pending) {
			return pending, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	summarize(renamed)
	return renamed, nil
}

// DeleteProject removes the project and, with it, all of its tasks.
func (uc *UseCase) DeleteProject(ctx context.Context, id string) error {
	if err := uc.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return err
		}
		if uc.shouldBuffer(ctx, err, usecase.OperationDelete, &domain.Project{ID: id}) {
			return nil
		}
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func summarize(p *domain.Project) {
	if p == nil {
		return
	}
	if p.Tasks == nil {
		p.Tasks = []domain.Task{}
	}
	s := domain.Summarize(p.Tasks)
	p.Summary = &s
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		logger.WithRequestID(ctx, uc.logger).Warn("project cache invalidation failed", zap.Error(err))
	}
}

func (uc *UseCase) shouldBuffer(ctx context.Context, cause error, operation string, project *domain.Project) bool {
	if uc.buffer == nil || !errors.Is(cause, domain.ErrStoreUnavailable) {
		return false
	}
	log := logger.WithRequestID(ctx, uc.logger)
	if err := uc.buffer.BufferProject(ctx, operation, project); err != nil {
		log.Error("failed to buffer project operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	log.Warn("project operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
