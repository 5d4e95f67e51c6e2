package domain

import (
	"strings"
	"time"

	"github.com/fastygo/taskboard/pkg/calendar"
)

// TaskStatus is the stored state of a task. The string values are part of
// the wire format and must not change.
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDENTE"
	StatusCompleted TaskStatus = "CONCLUIDA"
	StatusOverdue   TaskStatus = "VENCIDA"
)

// ParseTaskStatus validates a wire status value.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusCompleted, StatusOverdue:
		return TaskStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s TaskStatus) Valid() bool {
	_, err := ParseTaskStatus(string(s))
	return err == nil
}

// Task is a unit of work owned by exactly one project.
type Task struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"projectId"`
	Title       string        `json:"title"`
	Responsible string        `json:"responsible"`
	DueDate     calendar.Date `json:"dueDate"`
	Status      TaskStatus    `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsCompleted reports whether the user marked the task as done.
func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// Normalize trims the free-text fields.
func (t *Task) Normalize() {
	if t == nil {
		return
	}
	t.Title = strings.TrimSpace(t.Title)
	t.Responsible = strings.TrimSpace(t.Responsible)
	t.ProjectID = strings.TrimSpace(t.ProjectID)
}

// Validate checks the fields every stored task must carry.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	switch {
	case t.Title == "":
		return Invalid("title is required")
	case t.Responsible == "":
		return Invalid("responsible is required")
	case t.ProjectID == "":
		return Invalid("projectId is required")
	case t.DueDate.IsZero():
		return Invalid("dueDate is required")
	}
	if t.Status != "" && !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// StatusChange records a task moving from one status to another.
type StatusChange struct {
	TaskID    string     `json:"taskId"`
	ProjectID string     `json:"projectId"`
	From      TaskStatus `json:"from"`
	To        TaskStatus `json:"to"`
	Source    string     `json:"source"`
	At        time.Time  `json:"at"`
}

const (
	ChangeSourceSweep = "sweep"
	ChangeSourceUser  = "user"
)
