package cmd

import (
	"os"

	"github.com/creasty/defaults"
	"github.com/siftlabs/sift/pkg/catalog"
	"github.com/siftlabs/sift/pkg/clickhouse"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/redis"
	"github.com/siftlabs/sift/pkg/worker"
	"gopkg.in/yaml.v3"
)

// CLIConfig represents the project configuration loaded from sift.yaml
type CLIConfig struct {
	// Logging level
	Logging string `yaml:"logging" default:"info" validate:"oneof=panic fatal warn info debug trace"`

	// Dialect is the SQL dialect rendered queries target
	Dialect string `yaml:"dialect" default:"clickhouse"`

	// Catalog configuration (dataset definitions)
	Catalog catalog.Config `yaml:"catalog"`

	// Models configuration (templated SQL)
	Models models.Config `yaml:"models"`

	// ClickHouse execution engine (only needed for run)
	ClickHouse clickhouse.Config `yaml:"clickhouse,omitempty"`

	// Redis configuration (only needed for run)
	Redis redis.Config `yaml:"redis,omitempty"`

	// Worker configuration (only needed for run)
	Worker worker.Config `yaml:"worker,omitempty"`

	// MetricsAddr exposes Prometheus metrics when set (e.g. ":9090")
	MetricsAddr string `yaml:"metricsAddr,omitempty"`
}

// Validate validates the configuration common to all commands
func (c *CLIConfig) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return err
	}

	return c.Models.Validate()
}

// LoadCLIConfig loads configuration from a YAML file
func LoadCLIConfig(path string) (*CLIConfig, error) {
	if path == "" {
		path = "sift.yaml"
	}

	config := &CLIConfig{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	// Try to read the file, but allow it to not exist
	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, nil
}
