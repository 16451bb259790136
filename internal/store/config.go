package store

import (
	"time"

	"tokq/internal/config"
)

// Config holds all configuration for the store package.
type Config struct {
	Path      string
	DBTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Path:      "views.db",
		DBTimeout: config.DefaultTimeouts().DB,
	}
}

// WithPath sets the database path.
func (c *Config) WithPath(path string) *Config {
	c.Path = path
	return c
}

// WithDBTimeout sets how long Open waits for the database file lock.
func (c *Config) WithDBTimeout(timeout time.Duration) *Config {
	c.DBTimeout = timeout
	return c
}
