package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

func runServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS server failed to start")
	}
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestPublishStatusChange(t *testing.T) {
	ns := runServer(t)
	nc, err := Connect(ns.ClientURL(), "test", nil)
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	sub, err := nc.SubscribeSync("taskboard.task.status.>")
	require.NoError(t, err)

	pub := NewPublisher(nc, "")
	change := domain.StatusChange{
		TaskID:    "t1",
		ProjectID: "p1",
		From:      domain.StatusPending,
		To:        domain.StatusOverdue,
		Source:    domain.ChangeSourceSweep,
		At:        time.Date(2026, 2, 23, 0, 5, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishStatusChange(context.Background(), change))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "taskboard.task.status.vencida", msg.Subject)
	assert.Equal(t, "t1", msg.Header.Get(HeaderTaskID))

	var got domain.StatusChange
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, change, got)
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	ns := runServer(t)
	nc, err := Connect(ns.ClientURL(), "test", nil)
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewPublisher(nc, "x").PublishStatusChange(ctx, domain.StatusChange{To: domain.StatusCompleted})
	assert.ErrorIs(t, err, context.Canceled)
}
