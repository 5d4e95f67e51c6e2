package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/internal/config"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppName: "taskboard-test",
		Store:   config.StoreConfig{Driver: config.StoreMemory},
		Buffer: config.BufferConfig{
			Enabled:      true,
			Path:         filepath.Join(t.TempDir(), "buffer.db"),
			SyncInterval: time.Minute,
		},
		Context: config.ContextConfig{
			RequestTimeout:  time.Second,
			ShutdownTimeout: time.Second,
		},
		Sweep:         config.SweepConfig{Timezone: "UTC", Schedule: "@daily"},
		Notifications: config.NotificationsConfig{NearDueDays: 2, Locale: "pt-BR"},
		Metrics:       config.MetricsConfig{Enabled: true, Namespace: "taskboard_test"},
	}
}

func serve(h fasthttp.RequestHandler, method, uri string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	h(ctx)
	return ctx
}

func TestBuildMemoryBoard(t *testing.T) {
	board, err := Build(context.Background(), memoryConfig(t), nil, Options{Background: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = board.Manager.Shutdown(context.Background()) })

	assert.Nil(t, board.Pool)
	assert.Nil(t, board.Redis)
	assert.NotNil(t, board.Processor)
	assert.NotNil(t, board.Scheduler)
	assert.True(t, board.Monitor.IsOnline())

	h := board.Handler()

	ctx := serve(h, fasthttp.MethodGet, "/health")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.NotEmpty(t, ctx.Response.Header.Peek("Access-Control-Allow-Origin"))

	ctx = serve(h, fasthttp.MethodGet, "/api/tasks/update-overdue")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx = serve(h, fasthttp.MethodGet, "/metrics")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	body := string(ctx.Response.Body())
	assert.Contains(t, body, "taskboard_test_sweep_runs_total")
	assert.Contains(t, body, "taskboard_test_buffer_pending_writes")

	ctx = serve(h, fasthttp.MethodOptions, "/api/tasks")
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
}

func TestBuildRejectsBadSchedule(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Sweep.Schedule = "every now and then"

	board, err := Build(context.Background(), cfg, nil, Options{})
	require.Error(t, err)
	require.NotNil(t, board)
	assert.NoError(t, board.Manager.Shutdown(context.Background()))
}

func TestZoneName(t *testing.T) {
	assert.Equal(t, "", zoneName("Local"))
	assert.Equal(t, "America/Sao_Paulo", zoneName("America/Sao_Paulo"))
}
