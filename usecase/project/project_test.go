package project

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/calendar"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/repository/memory"
)

type mapCache struct {
	mu          sync.Mutex
	projects    []domain.Project
	set         bool
	invalidated int
	readErr     error
}

func (c *mapCache) GetProjects(context.Context) ([]domain.Project, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	return c.projects, c.set, nil
}

func (c *mapCache) SetProjects(_ context.Context, p []domain.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects, c.set = p, true
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects, c.set = nil, false
	c.invalidated++
	return nil
}

// countingRepo counts List calls so cache hits can be observed.
type countingRepo struct {
	repository.ProjectRepository
	lists atomic.Int32
}

func (r *countingRepo) List(ctx context.Context) ([]domain.Project, error) {
	r.lists.Add(1)
	return r.ProjectRepository.List(ctx)
}

type downRepo struct {
	repository.ProjectRepository
}

func (downRepo) Create(context.Context, *domain.Project) (*domain.Project, error) {
	return nil, domain.Unavailable(errors.New("connection refused"))
}

type recordingBuffer struct {
	ops []string
}

func (b *recordingBuffer) BufferProject(_ context.Context, op string, _ *domain.Project) error {
	b.ops = append(b.ops, op)
	return nil
}

func (b *recordingBuffer) BufferTask(context.Context, string, *domain.Task) error { return nil }

func TestCreateProjectValidatesName(t *testing.T) {
	uc := New(memory.New().Projects(), nil, nil, nil)
	ctx := context.Background()

	p, err := uc.CreateProject(ctx, "  Launch  ")
	require.NoError(t, err)
	assert.Equal(t, "Launch", p.Name)
	assert.NotEmpty(t, p.ID)
	require.NotNil(t, p.Summary)
	assert.Equal(t, 0, p.Summary.Total)

	for _, name := range []string{"", "ab", "   ab   ", strings.Repeat("x", 51)} {
		_, err := uc.CreateProject(ctx, name)
		assert.ErrorIs(t, err, domain.ErrInvalidProjectName, "name %q", name)
	}
}

func TestListProjectsUsesCache(t *testing.T) {
	store := memory.New()
	repo := &countingRepo{ProjectRepository: store.Projects()}
	cache := &mapCache{}
	uc := New(repo, cache, nil, nil)
	ctx := context.Background()

	p, err := uc.CreateProject(ctx, "Launch")
	require.NoError(t, err)
	_, err = store.Tasks().Create(ctx, &domain.Task{
		ProjectID: p.ID, Title: "a", Responsible: "Ana",
		DueDate: calendar.MustParse("2026-02-20"), Status: domain.StatusOverdue,
	})
	require.NoError(t, err)

	first, err := uc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.NotNil(t, first[0].Summary)
	assert.Equal(t, domain.TaskSummary{Total: 1, Overdue: 1}, *first[0].Summary)

	_, err = uc.ListProjects(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, repo.lists.Load())

	_, err = uc.RenameProject(ctx, p.ID, "Relaunch")
	require.NoError(t, err)

	renamed, err := uc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Relaunch", renamed[0].Name)
	assert.EqualValues(t, 2, repo.lists.Load())
}

func TestListProjectsFallsBackOnCacheError(t *testing.T) {
	store := memory.New()
	cache := &mapCache{readErr: domain.Unavailable(errors.New("redis down"))}
	uc := New(store.Projects(), cache, nil, nil)
	ctx := context.Background()

	_, err := store.Projects().Create(ctx, &domain.Project{Name: "Launch"})
	require.NoError(t, err)

	projects, err := uc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestDeleteProjectCascades(t *testing.T) {
	store := memory.New()
	cache := &mapCache{}
	uc := New(store.Projects(), cache, nil, nil)
	ctx := context.Background()

	p, err := uc.CreateProject(ctx, "Launch")
	require.NoError(t, err)
	task, err := store.Tasks().Create(ctx, &domain.Task{
		ProjectID: p.ID, Title: "a", Responsible: "Ana", DueDate: calendar.MustParse("2026-02-20"),
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProject(ctx, p.ID))
	assert.Equal(t, 2, cache.invalidated)

	_, err = uc.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	_, err = store.Tasks().GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	assert.ErrorIs(t, uc.DeleteProject(ctx, p.ID), domain.ErrProjectNotFound)
	_, err = uc.RenameProject(ctx, p.ID, "Other")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestCreateProjectBuffersWhenStoreIsDown(t *testing.T) {
	buf := &recordingBuffer{}
	uc := New(downRepo{memory.New().Projects()}, nil, buf, nil)

	p, err := uc.CreateProject(context.Background(), "Launch")
	require.NoError(t, err)
	assert.Equal(t, "Launch", p.Name)
	assert.Equal(t, []string{"create"}, buf.ops)
}
