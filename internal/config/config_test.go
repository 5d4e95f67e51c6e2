package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "STORE_DRIVER", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME", "DB_SSLMODE", "SERVER_HOST", "SERVER_PORT", "NEAR_DUE_DAYS", "DISPLAY_LOCALE", "SWEEP_SCHEDULE"} {
		t.Setenv(key, "")
	}
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, 2, cfg.Notifications.NearDueDays)
	assert.Equal(t, "pt-BR", cfg.Notifications.Locale)
	assert.Equal(t, "postgres://taskboard:@localhost:5432/taskboard?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "0.0.0.0:3001", cfg.Address())
	assert.Empty(t, cfg.Sweep.Schedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("APP_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("NEAR_DUE_DAYS", "5")
	t.Setenv("SYNC_INTERVAL_SECONDS", "45")
	t.Setenv("NOTIFICATION_TTL", "2h")
	t.Setenv("SWEEP_SCHEDULE", "5 0 * * *")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, 5, cfg.Notifications.NearDueDays)
	assert.Equal(t, 45*time.Second, cfg.Buffer.SyncInterval)
	assert.Equal(t, 2*time.Hour, cfg.Notifications.TTL)
	assert.Equal(t, "5 0 * * *", cfg.Sweep.Schedule)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := map[string]map[string]string{
		"driver":   {"STORE_DRIVER": "sqlite"},
		"near due": {"NEAR_DUE_DAYS": "-1"},
		"timezone": {"APP_TIMEZONE": "Mars/Olympus_Mons"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_TIMEZONE", "UTC")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
