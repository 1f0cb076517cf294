// Package catalog resolves logical dataset names to physical database
// objects and their declared event-time columns.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNameRequired is returned when a dataset has no logical name and no table
	ErrNameRequired = errors.New("dataset name is required")
	// ErrDatabaseRequired is returned when database is not specified
	ErrDatabaseRequired = errors.New("database is required")
	// ErrTableRequired is returned when table is not specified
	ErrTableRequired = errors.New("table is required")
	// ErrInvalidCatalogType is returned when catalog_type is not recognized
	ErrInvalidCatalogType = errors.New("invalid catalog type")
	// ErrInvalidColumn is returned when a column entry is missing its name or type
	ErrInvalidColumn = errors.New("column requires a name and a type")
)

// CatalogType selects the DDL variant used when materializing a dataset
type CatalogType string

const (
	// CatalogTypeNative represents engine-native tables
	CatalogTypeNative CatalogType = "native"
	// CatalogTypeIceberg represents Iceberg tables in the engine's own catalog
	CatalogTypeIceberg CatalogType = "iceberg"
	// CatalogTypeGlueIceberg represents Iceberg tables registered in AWS Glue
	CatalogTypeGlueIceberg CatalogType = "glue_iceberg"
)

// Valid reports whether the catalog type is recognized
func (t CatalogType) Valid() bool {
	switch t {
	case CatalogTypeNative, CatalogTypeIceberg, CatalogTypeGlueIceberg:
		return true
	default:
		return false
	}
}

// Column defines one column of a dataset's physical table
type Column struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required"`
}

// Dataset defines a logical dataset and its physical location. The
// logical name is the handle used by ref/source calls in templated SQL;
// it defaults to the table name when omitted. Columns are optional and
// only needed when the dataset's table is materialized through sift.
type Dataset struct {
	Name        string      `yaml:"name,omitempty"`
	Database    string      `yaml:"database" validate:"required"`
	Table       string      `yaml:"table" validate:"required"`
	EventTime   string      `yaml:"event_time,omitempty"`
	CatalogType CatalogType `yaml:"catalog_type,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Columns     []Column    `yaml:"columns,omitempty"`
}

// Validate checks if the dataset definition is valid
func (d *Dataset) Validate() error {
	if d.Database == "" {
		return ErrDatabaseRequired
	}

	if d.Table == "" {
		return ErrTableRequired
	}

	if d.CatalogType != "" && !d.CatalogType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCatalogType, d.CatalogType)
	}

	for _, col := range d.Columns {
		if col.Name == "" || col.Type == "" {
			return fmt.Errorf("%w: %s", ErrInvalidColumn, d.Name)
		}
	}

	return nil
}

// SetDefaults applies the default database and derives the logical name
// from the table when not declared explicitly
func (d *Dataset) SetDefaults(defaultDB string) {
	if d.Database == "" && defaultDB != "" {
		d.Database = defaultDB
	}

	if d.Name == "" {
		d.Name = d.Table
	}

	if d.CatalogType == "" {
		d.CatalogType = CatalogTypeNative
	}
}

// PhysicalIdentifier returns the fully qualified database object name
func (d *Dataset) PhysicalIdentifier() string {
	return fmt.Sprintf("%s.%s", d.Database, d.Table)
}

// GetID returns the unique identifier for the dataset
func (d *Dataset) GetID() string {
	return d.Name
}
