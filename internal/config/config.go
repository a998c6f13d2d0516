// Package config loads the service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the enrollment service.
type Config struct {
	Addr   string `env:"COURSEDESK_ADDR" envDefault:":8080"`
	DBPath string `env:"COURSEDESK_DB" envDefault:"coursedesk.db"`

	// Geocoding. An empty RedisAddr disables the geocode cache; an empty
	// GeocodeURL targets the public Nominatim instance.
	GeocodeURL      string        `env:"COURSEDESK_GEOCODE_URL"`
	RedisAddr       string        `env:"COURSEDESK_REDIS_ADDR"`
	RedisPassword   string        `env:"COURSEDESK_REDIS_PASSWORD"`
	GeocodeCacheTTL time.Duration `env:"COURSEDESK_GEOCODE_CACHE_TTL" envDefault:"720h"`

	// Background archival of completed sessions.
	ArchiveEnabled  bool          `env:"COURSEDESK_ARCHIVE_ENABLED" envDefault:"true"`
	ArchiveInterval time.Duration `env:"COURSEDESK_ARCHIVE_INTERVAL" envDefault:"24h"`
	ArchiveDwell    time.Duration `env:"COURSEDESK_ARCHIVE_DWELL" envDefault:"720h"`

	// Email delivery. An empty ResendKey selects the noop sender.
	ResendKey string `env:"COURSEDESK_RESEND_KEY"`
	EmailFrom string `env:"COURSEDESK_EMAIL_FROM" envDefault:"Coursedesk <noreply@coursedesk.example>"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("config_event", "event", "no_dotenv_file")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ArchiveInterval <= 0 {
		return fmt.Errorf("archive interval must be positive, got %s", c.ArchiveInterval)
	}
	if c.ArchiveDwell <= 0 {
		return fmt.Errorf("archive dwell must be positive, got %s", c.ArchiveDwell)
	}
	return nil
}
