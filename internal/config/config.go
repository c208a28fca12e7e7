package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the chat service.
// Environment variables are parsed from the PARLEY_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage: "auto" derives sqlite for development, postgres otherwise.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/parley.db"`

	// Agent runtime. An empty RuntimeURL selects the in-process runtime.
	AppName               string `envconfig:"APP_NAME" default:"parley"`
	RuntimeURL            string `envconfig:"RUNTIME_URL" default:""`
	RuntimeTimeoutSeconds int    `envconfig:"RUNTIME_TIMEOUT_SECONDS" default:"120"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates the environment and derives DBDriver when set to
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	switch c.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("unsupported ENVIRONMENT: %s", c.Environment)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.Environment == EnvProduction {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("PARLEY_POSTGRES_DSN is required when DB_DRIVER=postgres")
	}
	return nil
}

// New creates a Config by parsing PARLEY_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("PARLEY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// RuntimeTimeout returns the bounded runtime invocation timeout.
func (c *Config) RuntimeTimeout() time.Duration {
	return time.Duration(c.RuntimeTimeoutSeconds) * time.Second
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }
