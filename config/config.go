package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// available environment variables:
//   - vau.go: VAU handshake configuration
//   - database.go: Database and session store configuration
//   - http.go: HTTP server configuration
type AppConfig struct {
	// IsDev enables development behavior (the dev VAU provider route).
	// Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// VAU handshake configuration
	VAU VauConfig `envPrefix:"VAU_"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.VAU.Sanitize()
	c.detectDevMode()
}

// Validate checks for deployment defects that must abort startup, as
// opposed to per-request denials.
func (c *AppConfig) Validate() error {
	return c.VAU.Validate()
}

// detectDevMode checks APP_ENV as a fallback for the DEV flag.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
