// Package notification raises one-off due-date alerts for a browser session.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/calendar"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
)

type UseCase struct {
	tasks   repository.TaskRepository
	ledger  repository.NotificationLedger
	clock   calendar.Clock
	horizon int
	logger  *zap.Logger
	now     func() time.Time
}

// New builds the use case. A negative horizon falls back to
// domain.DefaultNearDueHorizon; zero limits near-due alerts to tasks due today.
func New(tasks repository.TaskRepository, ledger repository.NotificationLedger, clock calendar.Clock, horizon int, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = &calendar.SystemClock{}
	}
	if horizon < 0 {
		horizon = domain.DefaultNearDueHorizon
	}
	return &UseCase{
		tasks:   tasks,
		ledger:  ledger,
		clock:   clock,
		horizon: horizon,
		logger:  logger,
		now:     time.Now,
	}
}

// Check returns the notifications the session has not seen yet and records
// them as shown. Each open task yields at most one overdue and one near-due
// alert per session. projectID narrows the check to one project.
func (uc *UseCase) Check(ctx context.Context, sessionID, projectID string) ([]domain.Notification, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domain.Invalid("session id is required")
	}

	tasks, err := uc.openTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	shown, err := uc.ledger.Shown(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	today := uc.clock.Today()
	stamp := uc.now().UnixMilli()
	out := []domain.Notification{}
	var keys []string

	raise := func(task domain.Task, kind domain.NotificationKind, message string) {
		key := domain.NotificationKey(task.ID, kind)
		if shown[key] {
			return
		}
		shown[key] = true
		keys = append(keys, key)
		out = append(out, domain.Notification{
			ID:      fmt.Sprintf("%s-%d", key, stamp),
			TaskID:  task.ID,
			Kind:    kind,
			Message: message,
		})
	}

	for _, task := range tasks {
		if task.IsCompleted() {
			continue
		}
		if domain.OverdueOn(task.DueDate, today) {
			raise(task, domain.NotificationOverdue, fmt.Sprintf("Tarefa %q está VENCIDA!", task.Title))
		}
		if domain.NearDueOn(task.DueDate, today, uc.horizon) {
			raise(task, domain.NotificationNearDue, uc.nearDueMessage(task.Title))
		}
	}

	if len(keys) == 0 {
		return out, nil
	}
	if err := uc.ledger.MarkShown(ctx, sessionID, keys...); err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Debug("notifications raised", zap.Int("count", len(out)))
	return out, nil
}

func (uc *UseCase) openTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	if projectID = strings.TrimSpace(projectID); projectID == "" {
		return uc.tasks.FindNotDone(ctx)
	}
	return uc.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
}

func (uc *UseCase) nearDueMessage(title string) string {
	if uc.horizon == 0 {
		return fmt.Sprintf("Tarefa %q vence hoje!", title)
	}
	return fmt.Sprintf("Tarefa %q vence em até %d dias!", title, uc.horizon)
}
