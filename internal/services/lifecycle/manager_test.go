package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)
	var order []string

	m.Register("postgres", func(context.Context) error {
		order = append(order, "postgres")
		return nil
	})
	m.RegisterCloser("buffer", func() error {
		order = append(order, "buffer")
		return errors.New("already closed")
	})
	m.Register("http", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		order = append(order, "http")
		return nil
	})
	m.Register("ignored", nil)

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
	assert.Equal(t, []string{"http", "buffer", "postgres"}, order)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 3)
}

func TestListenStopsWithParent(t *testing.T) {
	m := New(0, nil)
	parent, cancelParent := context.WithCancel(context.Background())

	ctx, cancel := m.Listen(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("listen context not cancelled")
	}
}
