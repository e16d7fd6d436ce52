package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Storage
	Storage  string `env:"STORAGE" envDefault:"file"`
	SavePath string `env:"SAVE_PATH" envDefault:"saves/career.save.json"`
	CareerID string `env:"CAREER_ID"`

	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"postgres"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"postgres"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"league_simulator"`

	// HTTP
	HTTPAddr           string `env:"HTTP_ADDR" envDefault:":8080"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// World generation
	ClubsPerState int `env:"CLUBS_PER_STATE" envDefault:"6"`
	SquadSize     int `env:"SQUAD_SIZE" envDefault:"28"`
	YouthSize     int `env:"YOUTH_SIZE" envDefault:"18"`
	OddsRuns      int `env:"ODDS_RUNS" envDefault:"1000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile, StoragePostgres:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StorageFile, StoragePostgres, c.Storage)
	}
	if c.Storage == StorageFile && c.SavePath == "" {
		return fmt.Errorf("SAVE_PATH is required with file storage")
	}
	if c.ClubsPerState < 2 {
		return fmt.Errorf("CLUBS_PER_STATE must be at least 2, got %d", c.ClubsPerState)
	}
	if c.SquadSize < 1 {
		return fmt.Errorf("SQUAD_SIZE must be positive, got %d", c.SquadSize)
	}
	if c.YouthSize < 0 {
		return fmt.Errorf("YOUTH_SIZE must not be negative, got %d", c.YouthSize)
	}
	if c.OddsRuns < 1 {
		return fmt.Errorf("ODDS_RUNS must be positive, got %d", c.OddsRuns)
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// Level maps LOG_LEVEL onto slog; unknown values mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Origins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
