package transport

import "github.com/fastygo/taskboard/domain"

// TaskView is a task as rendered to the board, with the due date already
// formatted for the requested locale.
type TaskView struct {
	domain.Task
	DueDateDisplay string `json:"dueDateDisplay,omitempty"`
}

func NewTaskView(t domain.Task, locale string) TaskView {
	v := TaskView{Task: t}
	if !t.DueDate.IsZero() {
		v.DueDateDisplay = t.DueDate.Format(locale)
	}
	return v
}

func NewTaskViews(tasks []domain.Task, locale string) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskView(t, locale))
	}
	return out
}

type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type SweepResponse struct {
	UpdatedCount int `json:"updatedCount"`
}
