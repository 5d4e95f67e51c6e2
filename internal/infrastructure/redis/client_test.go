package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/internal/config"
)

func TestNewClient(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(context.Background(), config.RedisConfig{URL: "redis://" + srv.Addr(), DB: 2})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	assert.Equal(t, 2, client.Options().DB)

	_, err = NewClient(context.Background(), config.RedisConfig{URL: "://bad"})
	assert.Error(t, err)
}
