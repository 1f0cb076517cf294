package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnsRequired is returned when DDL is requested for a dataset
// that declares no columns
var ErrColumnsRequired = errors.New("dataset declares no columns")

// ddlTemplates maps each catalog type to its CREATE TABLE form. Each
// variant owns its full DDL template rather than sharing a parameterized
// grammar, so engine-specific clauses stay local to the variant.
var ddlTemplates = map[CatalogType]string{
	CatalogTypeNative:      "CREATE TABLE IF NOT EXISTS %s (%s)",
	CatalogTypeIceberg:     "CREATE ICEBERG TABLE IF NOT EXISTS %s (%s)",
	CatalogTypeGlueIceberg: "CREATE GLUE ICEBERG TABLE IF NOT EXISTS %s (%s)",
}

// CreateTableSQL returns the DDL statement materializing the dataset,
// selecting the variant owned by the dataset's catalog type.
func CreateTableSQL(d *Dataset) (string, error) {
	if len(d.Columns) == 0 {
		return "", fmt.Errorf("%w: %s", ErrColumnsRequired, d.Name)
	}

	catalogType := d.CatalogType
	if catalogType == "" {
		catalogType = CatalogTypeNative
	}

	tmpl, ok := ddlTemplates[catalogType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCatalogType, catalogType)
	}

	cols := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		cols[i] = fmt.Sprintf("%s %s", col.Name, col.Type)
	}

	return fmt.Sprintf(tmpl, d.PhysicalIdentifier(), strings.Join(cols, ", ")), nil
}
