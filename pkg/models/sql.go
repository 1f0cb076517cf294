// Package models handles model discovery, parsing, rendering, and the
// dependency graph between models and catalog datasets.
package models

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// ModelConfig is the YAML frontmatter of a model file
type ModelConfig struct {
	Name     string   `yaml:"name,omitempty"`
	Database string   `yaml:"database" validate:"required"`
	Table    string   `yaml:"table" validate:"required"`
	// EventTime declares the model's own time axis so downstream models
	// can sample references to it
	EventTime string   `yaml:"event_time,omitempty"`
	Schedule  string   `yaml:"schedule,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
}

// Model represents a templated SQL model with YAML frontmatter
type Model struct {
	ModelConfig `yaml:",inline"`
	Content     string `yaml:"-"`
	FilePath    string `yaml:"-"`
}

// NewModel creates a model from file content. The logical name defaults
// to the file's base name when the frontmatter omits it.
func NewModel(content []byte, filePath string) (*Model, error) {
	parts := bytes.SplitN(content, []byte("\n---\n"), 2)
	if len(parts) != 2 || !bytes.HasPrefix(parts[0], []byte("---\n")) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFrontmatter, filePath)
	}

	var model Model
	// Parse YAML frontmatter (skip "---\n" prefix)
	if err := yaml.Unmarshal(parts[0][4:], &model); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter in %s: %w", filePath, err)
	}

	model.Content = string(parts[1])
	model.FilePath = filePath

	if strings.TrimSpace(model.Content) == "" {
		return nil, fmt.Errorf("%w: %s", ErrSQLContentRequired, filePath)
	}

	if model.Name == "" {
		base := filepath.Base(filePath)
		model.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &model, nil
}

// SetDefaults applies the default database and derives the table name
// from the logical name when not declared
func (m *Model) SetDefaults(defaultDB string) {
	if m.Database == "" && defaultDB != "" {
		m.Database = defaultDB
	}

	if m.Table == "" {
		m.Table = m.Name
	}
}

// Validate checks if the model is valid
func (m *Model) Validate() error {
	if m.Content == "" {
		return ErrSQLContentRequired
	}

	if m.Database == "" {
		return fmt.Errorf("%w: model %s", ErrDatabaseRequired, m.Name)
	}

	if m.Table == "" {
		return fmt.Errorf("%w: model %s", ErrTableRequired, m.Name)
	}

	if m.Schedule != "" {
		if err := ValidateScheduleFormat(m.Schedule); err != nil {
			return fmt.Errorf("model %s: %w", m.Name, err)
		}
	}

	return nil
}

// GetID returns the unique identifier for the model
func (m *Model) GetID() string {
	return m.Name
}

// PhysicalIdentifier returns the fully qualified table the model
// materializes into
func (m *Model) PhysicalIdentifier() string {
	return fmt.Sprintf("%s.%s", m.Database, m.Table)
}

// GetValue returns the templated SQL content
func (m *Model) GetValue() string {
	return m.Content
}

// ValidateScheduleFormat validates a cron schedule expression.
func ValidateScheduleFormat(schedule string) error {
	_, err := cron.ParseStandard(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	return nil
}
