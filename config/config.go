package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	// TrainSlotFillDays is how many days ahead of "tomorrow" a bootstrap
	// or horizon reseed lays down fixed train slots.
	TrainSlotFillDays int `env:"TRAIN_SLOT_FILL_DAYS" envDefault:"380" validate:"min=1"`

	// HorizonCronExpr schedules HorizonMaintainer's recurring reseed —
	// standard 5-field cron, same convention as the teacher's schedule
	// cron expressions.
	HorizonCronExpr string `env:"HORIZON_CRON_EXPR" envDefault:"@daily"`

	// SectionLockTimeoutSec bounds how long a scheduling batch waits to
	// acquire its section's advisory lock before giving up.
	SectionLockTimeoutSec int `env:"SECTION_LOCK_TIMEOUT_SEC" envDefault:"30" validate:"min=1,max=300"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"required,oneof=debug info warn error"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SlogLevel converts the LOG_LEVEL string to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
