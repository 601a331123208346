package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "hours.db", cfg.Store.DBPath)
	assert.Equal(t, "America/Sao_Paulo", cfg.Engine.Timezone)
	assert.Equal(t, "pt-BR", cfg.Engine.Locale)
	assert.Equal(t, 4, cfg.Engine.ReportWorkers)
	assert.True(t, cfg.Engine.DayCloseEnabled)
	assert.Equal(t, time.Hour, cfg.Engine.DayCloseInterval)
	assert.Len(t, cfg.Server.AllowedOrigins, 2)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HOURS_PORT", "9090")
	t.Setenv("HOURS_DB_PATH", "/tmp/test.db")
	t.Setenv("HOURS_HOLIDAYS_FILE", "holidays.yaml")
	t.Setenv("HOURS_TIMEZONE", "UTC")
	t.Setenv("HOURS_LOCALE", "en")
	t.Setenv("HOURS_REPORT_WORKERS", "8")
	t.Setenv("HOURS_DAY_CLOSE_ENABLED", "false")
	t.Setenv("HOURS_DAY_CLOSE_INTERVAL", "15m")
	t.Setenv("HOURS_ALLOWED_ORIGINS", "https://hr.example.com")

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Store.DBPath)
	assert.Equal(t, "holidays.yaml", cfg.Store.HolidaysFile)
	assert.Equal(t, "en", cfg.Engine.Locale)
	assert.Equal(t, 8, cfg.Engine.ReportWorkers)
	assert.False(t, cfg.Engine.DayCloseEnabled)
	assert.Equal(t, 15*time.Minute, cfg.Engine.DayCloseInterval)
	assert.Equal(t, []string{"https://hr.example.com"}, cfg.Server.AllowedOrigins)

	loc, err := cfg.Engine.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown timezone", "HOURS_TIMEZONE", "Mars/Olympus_Mons"},
		{"zero interval", "HOURS_DAY_CLOSE_INTERVAL", "0s"},
		{"bad port", "HOURS_PORT", "eighty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load(context.Background())
			assert.Error(t, err)
		})
	}
}
