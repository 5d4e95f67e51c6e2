package domain

import "fmt"

// NotificationKind distinguishes the alerts raised for a task.
type NotificationKind string

const (
	NotificationOverdue NotificationKind = "overdue"
	NotificationNearDue NotificationKind = "nearDue"
)

// Notification is a one-off alert about a task's due date.
type Notification struct {
	ID      string           `json:"id"`
	TaskID  string           `json:"taskId"`
	Kind    NotificationKind `json:"type"`
	Message string           `json:"message"`
}

// NotificationKey identifies a (task, kind) pair already shown to a session.
func NotificationKey(taskID string, kind NotificationKind) string {
	return fmt.Sprintf("%s-%s", taskID, kind)
}
