package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/calendar"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redislib.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func TestNotificationLedger(t *testing.T) {
	srv, client := setupTestRedis(t)
	ledger := NewNotificationLedger(client, time.Hour)
	ctx := context.Background()

	shown, err := ledger.Shown(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, shown)

	require.NoError(t, ledger.MarkShown(ctx, "s1", "t1-overdue", "t2-nearDue"))
	require.NoError(t, ledger.MarkShown(ctx, "s1"))

	shown, err = ledger.Shown(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"t1-overdue": true, "t2-nearDue": true}, shown)

	other, err := ledger.Shown(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other)

	assert.Equal(t, time.Hour, srv.TTL("notified:s1"))
	srv.FastForward(2 * time.Hour)

	shown, err = ledger.Shown(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, shown)

	_, err = ledger.Shown(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestNotificationLedgerUnavailable(t *testing.T) {
	srv, client := setupTestRedis(t)
	ledger := NewNotificationLedger(client, time.Hour)
	srv.Close()

	_, err := ledger.Shown(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestProjectCache(t *testing.T) {
	srv, client := setupTestRedis(t)
	cache := NewProjectCache(client, "taskboard:", time.Minute)
	ctx := context.Background()

	_, hit, err := cache.GetProjects(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	projects := []domain.Project{{
		ID:   "p1",
		Name: "Launch",
		Tasks: []domain.Task{{
			ID:          "t1",
			ProjectID:   "p1",
			Title:       "Ship",
			Responsible: "Ana",
			DueDate:     calendar.MustParse("2026-02-23"),
			Status:      domain.StatusOverdue,
		}},
	}}
	require.NoError(t, cache.SetProjects(ctx, projects))
	assert.True(t, srv.Exists("taskboard:projects:all"))

	cached, hit, err := cache.GetProjects(ctx)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, cached, 1)
	assert.Equal(t, calendar.MustParse("2026-02-23"), cached[0].Tasks[0].DueDate)
	assert.Equal(t, domain.StatusOverdue, cached[0].Tasks[0].Status)

	require.NoError(t, cache.Invalidate(ctx))
	_, hit, err = cache.GetProjects(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
}
