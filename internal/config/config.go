package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server settings read from RUMMY_* environment variables
type Config struct {
	Host string `env:"RUMMY_HOST"`
	Port int    `env:"RUMMY_PORT" envDefault:"8080"`

	// StorageType is one of memory, redis or sqlite
	StorageType      string        `env:"RUMMY_STORAGE_TYPE" envDefault:"memory"`
	RedisURL         string        `env:"RUMMY_REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisMaxLedger   int           `env:"RUMMY_REDIS_MAX_LEDGER_ENTRIES" envDefault:"500"`
	SQLitePath       string        `env:"RUMMY_SQLITE_PATH" envDefault:"data/rummy.db"`
	JWTSecret        string        `env:"RUMMY_JWT_SECRET"`
	SessionTTL       time.Duration `env:"RUMMY_SESSION_TTL" envDefault:"24h"`
	SessionSweep     time.Duration `env:"RUMMY_SESSION_SWEEP_INTERVAL" envDefault:"10m"`
	SeedDemoAccounts bool          `env:"RUMMY_SEED_DEMO" envDefault:"true"`
	LogLevel         string        `env:"RUMMY_LOG_LEVEL" envDefault:"info"`
	StaticDir        string        `env:"RUMMY_STATIC_DIR"`
}

// Load parses the environment into a Config
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the given variables instead of the process environment.
// A nil map reads the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageType {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("invalid RUMMY_STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid RUMMY_PORT %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid RUMMY_SESSION_TTL %s", c.SessionTTL)
	}
	if c.SessionSweep <= 0 {
		return fmt.Errorf("invalid RUMMY_SESSION_SWEEP_INTERVAL %s", c.SessionSweep)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
