package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 160, cfg.Report.DefaultMonthlyTargetHours)
	assert.Equal(t, time.Hour, cfg.Cron.NameBackfillInterval)
	assert.Equal(t, time.UTC, cfg.App.Location())
	assert.Empty(t, cfg.JWT.Secret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("APP_TIMEZONE", "Europe/Bucharest")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("NAME_BACKFILL_INTERVAL", "15m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://postgres:secret@db:5432/remedium?sslmode=disable", cfg.DatabaseURL())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Cron.NameBackfillInterval)
	assert.Equal(t, "Europe/Bucharest", cfg.App.Location().String())
	assert.Equal(t, slog.LevelDebug, cfg.App.SlogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without password", map[string]string{"STORAGE_DRIVER": "postgres", "DB_PASSWORD": ""}},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mongo"}},
		{"bad timezone", map[string]string{"STORAGE_DRIVER": "memory", "APP_TIMEZONE": "Mars/Olympus"}},
		{"bad duration", map[string]string{"STORAGE_DRIVER": "memory", "NAME_BACKFILL_INTERVAL": "soon"}},
		{"bad port", map[string]string{"STORAGE_DRIVER": "memory", "APP_PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
