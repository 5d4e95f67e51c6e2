package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

const taskColumns = `id, project_id, title, responsible, due_date, status, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR project_id = $1)
	  AND ($2 = '' OR status = $2)
	ORDER BY created_at ASC, id ASC
	LIMIT $3 OFFSET $4
	`
	return r.query(ctx, query, filter.ProjectID, string(filter.Status), clampLimit(filter.Limit), filter.Offset)
}

func (r *taskRepository) FindNotDone(ctx context.Context) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE status <> $1
	ORDER BY due_date ASC, id ASC
	`
	return r.query(ctx, query, string(domain.StatusCompleted))
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}

	const query = `
	INSERT INTO tasks (id, project_id, title, responsible, due_date, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Responsible,
		toPgDate(task.DueDate),
		string(task.Status),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, classify(err, domain.ErrTaskNotFound)
	}

	return task, nil
}

// Update writes the editable fields. project_id is never touched.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		responsible = $3,
		due_date = $4,
		status = $5,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Responsible,
		toPgDate(task.DueDate),
		string(task.Status),
	)
	updated, err := scanTask(row)
	if err != nil {
		return err
	}
	*task = *updated
	return nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET status = $2,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + taskColumns

	return scanTask(r.pool.QueryRow(ctx, query, id, string(status)))
}

func (r *taskRepository) MarkOverdue(ctx context.Context, id string) (bool, error) {
	const query = `
	UPDATE tasks
	SET status = $2,
		updated_at = NOW()
	WHERE id = $1 AND status = $3`

	tag, err := r.pool.Exec(ctx, query, id, string(domain.StatusOverdue), string(domain.StatusPending))
	if err != nil {
		return false, classify(err, domain.ErrTaskNotFound)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return classify(err, domain.ErrTaskNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, domain.ErrTaskNotFound)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, classify(rows.Err(), domain.ErrTaskNotFound)
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task   domain.Task
		due    pgtype.Date
		status string
	)

	if err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Responsible,
		&due,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, classify(err, domain.ErrTaskNotFound)
	}

	task.DueDate = fromPgDate(due)
	task.Status = domain.TaskStatus(status)
	return &task, nil
}
