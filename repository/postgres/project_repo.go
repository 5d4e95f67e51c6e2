package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `SELECT id, name, created_at, updated_at FROM projects WHERE id = $1`

	project, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	tasks, err := r.tasks(ctx, `WHERE project_id = $1`, id)
	if err != nil {
		return nil, err
	}
	project.Tasks = tasks[id]
	if project.Tasks == nil {
		project.Tasks = []domain.Task{}
	}
	return project, nil
}

// List returns every project with its tasks using two queries.
func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const query = `SELECT id, name, created_at, updated_at FROM projects ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, classify(err, domain.ErrProjectNotFound)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, domain.ErrProjectNotFound)
	}

	byProject, err := r.tasks(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Tasks = byProject[projects[i].ID]
		if projects[i].Tasks == nil {
			projects[i].Tasks = []domain.Task{}
		}
	}
	return projects, nil
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO projects (id, name)
	VALUES ($1, $2)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query, project.ID, project.Name).
		Scan(&project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, classify(err, domain.ErrProjectNotFound)
	}
	project.Tasks = []domain.Task{}
	return project, nil
}

func (r *projectRepository) Rename(ctx context.Context, id, name string) (*domain.Project, error) {
	const query = `
	UPDATE projects
	SET name = $2,
		updated_at = NOW()
	WHERE id = $1
	RETURNING id, name, created_at, updated_at
	`
	if _, err := scanProject(r.pool.QueryRow(ctx, query, id, name)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the project; tasks go with it through ON DELETE CASCADE.
func (r *projectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return classify(err, domain.ErrProjectNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepository) tasks(ctx context.Context, where string, args ...interface{}) (map[string][]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ` + where + ` ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, domain.ErrTaskNotFound)
	}
	defer rows.Close()

	out := make(map[string][]domain.Task)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out[task.ProjectID] = append(out[task.ProjectID], *task)
	}
	return out, classify(rows.Err(), domain.ErrTaskNotFound)
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(&project.ID, &project.Name, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, classify(err, domain.ErrProjectNotFound)
	}
	return &project, nil
}
