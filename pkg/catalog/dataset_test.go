package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetValidate(t *testing.T) {
	tests := []struct {
		name    string
		dataset *Dataset
		wantErr error
	}{
		{
			name: "valid minimal dataset",
			dataset: &Dataset{
				Database: "my_db",
				Table:    "fct_orders",
			},
		},
		{
			name: "valid dataset with event time",
			dataset: &Dataset{
				Name:      "fct_orders",
				Database:  "my_db",
				Table:     "fct_orders",
				EventTime: "order_at",
			},
		},
		{
			name: "missing database",
			dataset: &Dataset{
				Table: "fct_orders",
			},
			wantErr: ErrDatabaseRequired,
		},
		{
			name: "missing table",
			dataset: &Dataset{
				Database: "my_db",
			},
			wantErr: ErrTableRequired,
		},
		{
			name: "invalid catalog type",
			dataset: &Dataset{
				Database:    "my_db",
				Table:       "fct_orders",
				CatalogType: CatalogType("hive"),
			},
			wantErr: ErrInvalidCatalogType,
		},
		{
			name: "glue iceberg catalog type accepted",
			dataset: &Dataset{
				Database:    "my_db",
				Table:       "fct_orders",
				CatalogType: CatalogTypeGlueIceberg,
			},
		},
		{
			name: "column missing type",
			dataset: &Dataset{
				Database: "my_db",
				Table:    "fct_orders",
				Columns:  []Column{{Name: "order_id"}},
			},
			wantErr: ErrInvalidColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dataset.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestDatasetSetDefaults(t *testing.T) {
	tests := []struct {
		name            string
		dataset         *Dataset
		defaultDatabase string
		expectedDB      string
		expectedName    string
	}{
		{
			name: "apply default when database is empty",
			dataset: &Dataset{
				Table: "fct_orders",
			},
			defaultDatabase: "default_db",
			expectedDB:      "default_db",
			expectedName:    "fct_orders",
		},
		{
			name: "keep existing database when already set",
			dataset: &Dataset{
				Database: "existing_db",
				Table:    "fct_orders",
			},
			defaultDatabase: "default_db",
			expectedDB:      "existing_db",
			expectedName:    "fct_orders",
		},
		{
			name: "explicit logical name preserved",
			dataset: &Dataset{
				Name:     "orders",
				Database: "my_db",
				Table:    "fct_orders",
			},
			expectedDB:   "my_db",
			expectedName: "orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.dataset.SetDefaults(tt.defaultDatabase)
			assert.Equal(t, tt.expectedDB, tt.dataset.Database)
			assert.Equal(t, tt.expectedName, tt.dataset.Name)
			assert.Equal(t, CatalogTypeNative, tt.dataset.CatalogType)
		})
	}
}

func TestPhysicalIdentifier(t *testing.T) {
	d := &Dataset{Database: "my_db", Table: "fct_orders"}
	assert.Equal(t, "my_db.fct_orders", d.PhysicalIdentifier())
}
