package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":3000"`
	Port     string `env:"PORT"`
	AdminKey string `env:"ADMIN_KEY" envDefault:"VIM-STAFF-2025" validate:"required"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"file" validate:"oneof=file sqlite"`
	DataFile    string `env:"DATA_FILE" envDefault:"data.json"`
	DBPath      string `env:"DB_PATH" envDefault:"data/league.db"`

	SessionDriver string        `env:"SESSION_DRIVER" envDefault:"memory" validate:"oneof=memory redis"`
	RedisURL      string        `env:"REDIS_URL" validate:"required_if=SessionDriver redis"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h" validate:"gt=0"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m" validate:"gt=0"`
	CookieSecure  bool          `env:"COOKIE_SECURE"`

	PublicDir string     `env:"PUBLIC_DIR" envDefault:"public"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.Port != "" {
		cfg.HTTPAddr = ":" + cfg.Port
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
