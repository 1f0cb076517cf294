package dialect

import (
	"testing"

	"github.com/siftlabs/sift/pkg/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		dialect  string
		wantName string
		wantErr  error
	}{
		{
			name:     "generic by name",
			dialect:  "generic",
			wantName: NameGeneric,
		},
		{
			name:     "empty selects generic",
			dialect:  "",
			wantName: NameGeneric,
		},
		{
			name:     "clickhouse",
			dialect:  "clickhouse",
			wantName: NameClickHouse,
		},
		{
			name:     "case insensitive",
			dialect:  "ClickHouse",
			wantName: NameClickHouse,
		},
		{
			name:     "postgres",
			dialect:  "postgres",
			wantName: NamePostgres,
		},
		{
			name:     "duckdb",
			dialect:  "duckdb",
			wantName: NameDuckDB,
		},
		{
			name:    "unknown dialect",
			dialect: "oracle",
			wantErr: ErrUnknownDialect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.dialect)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Name())
		})
	}
}

func TestWindowPredicate(t *testing.T) {
	day3, err := sample.NewWindow(sample.UnitDay, 3)
	require.NoError(t, err)

	hour12, err := sample.NewWindow(sample.UnitHour, 12)
	require.NoError(t, err)

	tests := []struct {
		name    string
		dialect string
		column  string
		window  *sample.Window
		want    string
	}{
		{
			name:    "generic day window",
			dialect: NameGeneric,
			column:  "order_at",
			window:  day3,
			want:    "order_at > current_date - 3 day",
		},
		{
			name:    "generic hour window uses timestamp source",
			dialect: NameGeneric,
			column:  "event_at",
			window:  hour12,
			want:    "event_at > current_timestamp - 12 hour",
		},
		{
			name:    "clickhouse day window",
			dialect: NameClickHouse,
			column:  "order_at",
			window:  day3,
			want:    "order_at > today() - INTERVAL 3 DAY",
		},
		{
			name:    "clickhouse hour window",
			dialect: NameClickHouse,
			column:  "event_at",
			window:  hour12,
			want:    "event_at > now() - INTERVAL 12 HOUR",
		},
		{
			name:    "postgres day window",
			dialect: NamePostgres,
			column:  "order_at",
			window:  day3,
			want:    "order_at > current_date - INTERVAL '3 day'",
		},
		{
			name:    "duckdb day window",
			dialect: NameDuckDB,
			column:  "order_at",
			window:  day3,
			want:    "order_at > current_date - INTERVAL '3 day'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.WindowPredicate(tt.column, tt.window))
		})
	}
}

func TestNamesCoversRegistry(t *testing.T) {
	for _, name := range Names() {
		d, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}
}
