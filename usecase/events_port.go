package usecase

import (
	"context"
	"time"

	"github.com/fastygo/taskboard/domain"
)

// StatusPublisher announces task status transitions to other services.
// Publishing is best-effort; callers log failures and carry on.
type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, change domain.StatusChange) error
}

// SweepObserver records sweep outcomes (metrics).
type SweepObserver interface {
	ObserveSweep(result string, updated int, elapsed time.Duration)
}

type nopPublisher struct{}

func (nopPublisher) PublishStatusChange(context.Context, domain.StatusChange) error { return nil }

// NopPublisher discards every event.
var NopPublisher StatusPublisher = nopPublisher{}
