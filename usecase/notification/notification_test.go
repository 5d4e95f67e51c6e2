package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/calendar"
	"github.com/fastygo/taskboard/repository/memory"
)

var today = calendar.MustParse("2026-02-23")

func seed(t *testing.T) (*memory.Store, string, map[string]string) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	project, err := store.Projects().Create(ctx, &domain.Project{Name: "Board"})
	require.NoError(t, err)

	ids := map[string]string{}
	add := func(title string, due calendar.Date, status domain.TaskStatus) {
		task, err := store.Tasks().Create(ctx, &domain.Task{
			ProjectID: project.ID, Title: title, Responsible: "Ana", DueDate: due, Status: status,
		})
		require.NoError(t, err)
		ids[title] = task.ID
	}
	add("late", today.AddDays(-1), domain.StatusOverdue)
	add("today", today, domain.StatusPending)
	add("in-two", today.AddDays(2), domain.StatusPending)
	add("in-three", today.AddDays(3), domain.StatusPending)
	add("done", today.AddDays(-1), domain.StatusCompleted)
	return store, project.ID, ids
}

func kinds(ns []domain.Notification) map[string]domain.NotificationKind {
	out := make(map[string]domain.NotificationKind, len(ns))
	for _, n := range ns {
		out[n.TaskID] = n.Kind
	}
	return out
}

func TestCheckRaisesEachAlertOncePerSession(t *testing.T) {
	store, projectID, ids := seed(t)
	uc := New(store.Tasks(), memory.NewLedger(), calendar.FixedClock(today), -1, nil)
	ctx := context.Background()

	first, err := uc.Check(ctx, "tab-1", projectID)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, map[string]domain.NotificationKind{
		ids["late"]:   domain.NotificationOverdue,
		ids["today"]:  domain.NotificationNearDue,
		ids["in-two"]: domain.NotificationNearDue,
	}, kinds(first))
	for _, n := range first {
		if n.TaskID == ids["late"] {
			assert.Contains(t, n.Message, "VENCIDA")
			assert.Contains(t, n.ID, ids["late"]+"-overdue-")
		}
	}

	again, err := uc.Check(ctx, "tab-1", projectID)
	require.NoError(t, err)
	assert.Empty(t, again)

	other, err := uc.Check(ctx, "tab-2", "")
	require.NoError(t, err)
	assert.Len(t, other, 3)
}

func TestCheckHorizon(t *testing.T) {
	store, _, ids := seed(t)
	uc := New(store.Tasks(), memory.NewLedger(), calendar.FixedClock(today), 3, nil)

	got, err := uc.Check(context.Background(), "tab-1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationNearDue, kinds(got)[ids["in-three"]])
}

func TestCheckZeroHorizonOnlyToday(t *testing.T) {
	store, _, ids := seed(t)
	uc := New(store.Tasks(), memory.NewLedger(), calendar.FixedClock(today), 0, nil)

	got, err := uc.Check(context.Background(), "tab-1", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.NotificationKind{
		ids["late"]:  domain.NotificationOverdue,
		ids["today"]: domain.NotificationNearDue,
	}, kinds(got))
	for _, n := range got {
		if n.TaskID == ids["today"] {
			assert.Contains(t, n.Message, "vence hoje")
		}
	}
}

func TestCheckRequiresSession(t *testing.T) {
	store, _, _ := seed(t)
	uc := New(store.Tasks(), memory.NewLedger(), calendar.FixedClock(today), -1, nil)

	_, err := uc.Check(context.Background(), "  ", "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestLedgerCopiesState(t *testing.T) {
	ledger := memory.NewLedger()
	ctx := context.Background()

	require.NoError(t, ledger.MarkShown(ctx, "s", "a-overdue"))
	shown, err := ledger.Shown(ctx, "s")
	require.NoError(t, err)
	shown["b-nearDue"] = true

	again, err := ledger.Shown(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a-overdue": true}, again)
}
