// Package memory keeps projects and tasks in process memory. It backs
// STORE_DRIVER=memory for local runs and the use-case tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

// Store owns both entity maps so that project deletion can cascade.
type Store struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
	tasks    map[string]domain.Task
	now      func() time.Time
}

func New() *Store {
	return &Store{
		projects: make(map[string]domain.Project),
		tasks:    make(map[string]domain.Task),
		now:      time.Now,
	}
}

// Projects returns the project repository view of the store.
func (s *Store) Projects() repository.ProjectRepository { return projectRepository{s} }

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() repository.TaskRepository { return taskRepository{s} }

type projectRepository struct{ s *Store }

func (r projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.Tasks = r.s.tasksOf(id)
	return &p, nil
}

func (r projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		p.Tasks = r.s.tasksOf(p.ID)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := r.s.now()
	project.CreatedAt, project.UpdatedAt = now, now
	project.Tasks = []domain.Task{}

	stored := *project
	stored.Tasks = nil
	r.s.projects[project.ID] = stored
	return project, nil
}

func (r projectRepository) Rename(ctx context.Context, id, name string) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.Name = name
	p.UpdatedAt = r.s.now()
	r.s.projects[id] = p

	p.Tasks = r.s.tasksOf(id)
	return &p, nil
}

func (r projectRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.s.projects, id)
	for taskID, t := range r.s.tasks {
		if t.ProjectID == id {
			delete(r.s.tasks, taskID)
		}
	}
	return nil
}

type taskRepository struct{ s *Store }

func (r taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Task
	for _, t := range r.s.sortedTasks() {
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

func (r taskRepository) FindNotDone(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Task
	for _, t := range r.s.sortedTasks() {
		if t.Status != domain.StatusCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[task.ProjectID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := r.s.now()
	task.CreatedAt, task.UpdatedAt = now, now
	r.s.tasks[task.ID] = *task
	return task, nil
}

func (r taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Responsible = task.Responsible
	existing.DueDate = task.DueDate
	existing.Status = task.Status
	existing.UpdatedAt = r.s.now()
	r.s.tasks[task.ID] = existing

	*task = existing
	return nil
}

func (r taskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.Status = status
	t.UpdatedAt = r.s.now()
	r.s.tasks[id] = t
	return &t, nil
}

func (r taskRepository) MarkOverdue(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.Status != domain.StatusPending {
		return false, nil
	}
	t.Status = domain.StatusOverdue
	t.UpdatedAt = r.s.now()
	r.s.tasks[id] = t
	return true, nil
}

func (r taskRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

// tasksOf must be called with the lock held.
func (s *Store) tasksOf(projectID string) []domain.Task {
	out := []domain.Task{}
	for _, t := range s.sortedTasks() {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) sortedTasks() []domain.Task {
	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func page(tasks []domain.Task, limit, offset int) []domain.Task {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(tasks) {
		return nil
	}
	tasks = tasks[offset:]
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks
}
