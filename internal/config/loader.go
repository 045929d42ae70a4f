package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config captures environment driven configuration values for the service.
//
// All variables carry the SMARTMEETING_ prefix, e.g. SMARTMEETING_HTTP_PORT.
type Config struct {
	HTTPPort   int           `envconfig:"HTTP_PORT" default:"8080"`
	SQLiteDSN  string        `envconfig:"SQLITE_DSN" default:"file:smartmeeting.db"`
	AuthSecret string        `envconfig:"AUTH_SECRET"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load parses configuration from the process environment, reading an
// optional .env file first. Defaults cover every optional field; missing and
// invalid values are reported together.
func Load() (Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("smartmeeting", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if strings.TrimSpace(cfg.AuthSecret) == "" {
		missing = append(missing, "SMARTMEETING_AUTH_SECRET")
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		invalid = append(invalid, "SMARTMEETING_HTTP_PORT")
	}
	if cfg.TokenTTL <= 0 {
		invalid = append(invalid, "SMARTMEETING_TOKEN_TTL")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "SMARTMEETING_LOG_LEVEL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
