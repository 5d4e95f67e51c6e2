package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// ProjectCache holds the rendered project listing between writes.
type ProjectCache interface {
	GetProjects(ctx context.Context) ([]domain.Project, bool, error)
	SetProjects(ctx context.Context, projects []domain.Project) error
	Invalidate(ctx context.Context) error
}

// NotificationLedger remembers which (task, kind) notifications a session
// has already been shown.
type NotificationLedger interface {
	Shown(ctx context.Context, sessionID string) (map[string]bool, error)
	MarkShown(ctx context.Context, sessionID string, keys ...string) error
}
