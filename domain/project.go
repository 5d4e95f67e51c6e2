package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	ProjectNameMinLen = 3
	ProjectNameMaxLen = 50
)

// Project groups tasks. Deleting a project deletes its tasks.
type Project struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Tasks     []Task       `json:"tasks"`
	Summary   *TaskSummary `json:"summary,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NormalizeProjectName trims name and checks its length and characters.
func NormalizeProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < ProjectNameMinLen || n > ProjectNameMaxLen {
		return "", ErrInvalidProjectName
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return "", ErrInvalidProjectName
		}
	}
	return name, nil
}

// TaskSummary holds the per-status counters shown next to a project.
type TaskSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// Summarize counts tasks by stored status.
func Summarize(tasks []Task) TaskSummary {
	s := TaskSummary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		case StatusOverdue:
			s.Overdue++
		default:
			s.Pending++
		}
	}
	return s
}

// TaskListFilter is the list filter used by the board (TODAS, PENDENTES, ...).
type TaskListFilter string

const (
	FilterAll       TaskListFilter = "TODAS"
	FilterPending   TaskListFilter = "PENDENTES"
	FilterCompleted TaskListFilter = "CONCLUIDAS"
	FilterOverdue   TaskListFilter = "VENCIDAS"
)

// Status maps the filter to the stored status it selects; "" means all.
func (f TaskListFilter) Status() (TaskStatus, error) {
	switch f {
	case "", FilterAll:
		return "", nil
	case FilterPending:
		return StatusPending, nil
	case FilterCompleted:
		return StatusCompleted, nil
	case FilterOverdue:
		return StatusOverdue, nil
	default:
		if st, err := ParseTaskStatus(string(f)); err == nil {
			return st, nil
		}
		return "", Invalid("unknown task filter " + string(f))
	}
}

// FilterTasks keeps the tasks matching f, preserving order.
func FilterTasks(tasks []Task, f TaskListFilter) ([]Task, error) {
	status, err := f.Status()
	if err != nil {
		return nil, err
	}
	if status == "" {
		return tasks, nil
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}
