// Package clickhouse provides the ClickHouse execution engine client
package clickhouse

import (
	"errors"
	"time"
)

// Static errors for configuration validation
var (
	ErrURLRequired = errors.New("URL is required")
)

// Config contains ClickHouse connection settings
type Config struct {
	URL          string        `yaml:"url" validate:"required,url"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`
	ExecTimeout  time.Duration `yaml:"execTimeout"`
	KeepAlive    time.Duration `yaml:"keepAlive"`
	Debug        bool          `yaml:"debug"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrURLRequired
	}

	return nil
}

// SetDefaults sets default values for the configuration
func (c *Config) SetDefaults() {
	if c.QueryTimeout == 0 {
		c.QueryTimeout = 30 * time.Second
	}

	if c.ExecTimeout == 0 {
		c.ExecTimeout = 10 * time.Minute
	}

	if c.KeepAlive == 0 {
		c.KeepAlive = 30 * time.Second
	}
}
