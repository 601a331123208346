// Package config loads server settings from HOURS_* environment variables.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Server struct {
	Port           int      `env:"PORT, default=8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:5173,http://localhost:8080"`
}

type Store struct {
	DBPath       string `env:"DB_PATH, default=hours.db"`
	HolidaysFile string `env:"HOLIDAYS_FILE"`
}

type Engine struct {
	Timezone      string `env:"TIMEZONE, default=America/Sao_Paulo"`
	Locale        string `env:"LOCALE, default=pt-BR"`
	ReportWorkers int    `env:"REPORT_WORKERS, default=4"`

	DayCloseEnabled  bool          `env:"DAY_CLOSE_ENABLED, default=true"`
	DayCloseInterval time.Duration `env:"DAY_CLOSE_INTERVAL, default=1h"`
}

type Config struct {
	Server Server `env:",prefix=HOURS_"`
	Store  Store  `env:",prefix=HOURS_"`
	Engine Engine `env:",prefix=HOURS_"`
}

// Load reads the environment and validates the timezone.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Engine.Location(); err != nil {
		return nil, err
	}
	if cfg.Engine.DayCloseInterval <= 0 {
		return nil, fmt.Errorf("HOURS_DAY_CLOSE_INTERVAL must be positive, got %s", cfg.Engine.DayCloseInterval)
	}
	return &cfg, nil
}

// Location resolves the configured timezone. Punches are grouped into
// calendar days in this zone.
func (e Engine) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid HOURS_TIMEZONE %q: %w", e.Timezone, err)
	}
	return loc, nil
}
