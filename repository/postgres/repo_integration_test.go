package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/calendar"
	"github.com/fastygo/taskboard/repository"
)

// setupTestPool connects to TEST_DATABASE_URL and recreates the schema.
// Tests are skipped when no database is configured.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Postgres not available: %v", err)
	}

	down, err := os.ReadFile("../../assets/migrations/000001_create_projects_tasks.down.sql")
	require.NoError(t, err)
	up, err := os.ReadFile("../../assets/migrations/000001_create_projects_tasks.up.sql")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(down))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(up))
	require.NoError(t, err)

	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	projects := NewProjectRepository(pool)
	tasks := NewTaskRepository(pool)

	project, err := projects.Create(ctx, &domain.Project{Name: "Integration"})
	require.NoError(t, err)

	due := calendar.MustParse("2026-02-23")
	task, err := tasks.Create(ctx, &domain.Task{
		ProjectID:   project.ID,
		Title:       "Write tests",
		Responsible: "Ana",
		DueDate:     due,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, task.Status)

	stored, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, due, stored.DueDate)

	_, err = tasks.Create(ctx, &domain.Task{ProjectID: "missing", Title: "x", Responsible: "y", DueDate: due})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	notDone, err := tasks.FindNotDone(ctx)
	require.NoError(t, err)
	assert.Len(t, notDone, 1)

	moved, err := tasks.MarkOverdue(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = tasks.MarkOverdue(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = tasks.UpdateStatus(ctx, task.ID, domain.StatusCompleted)
	require.NoError(t, err)
	moved, err = tasks.MarkOverdue(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, moved, "completed tasks are never marked overdue")

	updated, err := tasks.UpdateStatus(ctx, task.ID, domain.StatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOverdue, updated.Status)

	_, err = tasks.UpdateStatus(ctx, "missing", domain.StatusOverdue)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	listed, err := tasks.List(ctx, repository.TaskFilter{ProjectID: project.ID, Status: domain.StatusOverdue})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	loaded, err := projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Tasks, 1)

	require.NoError(t, projects.Delete(ctx, project.ID))
	_, err = tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
