// Package dialect provides SQL dialect variants for date arithmetic
// and DDL generation.
package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/siftlabs/sift/pkg/sample"
)

var (
	// ErrUnknownDialect is returned when a dialect name is not registered
	ErrUnknownDialect = errors.New("unknown dialect")
)

// Dialect names accepted in configuration
const (
	NameGeneric    = "generic"
	NameClickHouse = "clickhouse"
	NamePostgres   = "postgres"
	NameDuckDB     = "duckdb"
)

// Dialect renders the dialect-specific pieces of a sampled query. The
// current-timestamp source is always a deferred SQL expression, never a
// literal captured at compile time, so two executions of the same
// compiled query see consistent bounds.
type Dialect interface {
	// Name returns the registered dialect name
	Name() string

	// CurrentTimestamp returns the expression providing "now" at the
	// granularity of the given unit
	CurrentTimestamp(unit sample.Unit) string

	// WindowPredicate returns the trailing-window comparison for the
	// given event time column, e.g. "order_at > current_date - 3 day"
	WindowPredicate(column string, w *sample.Window) string
}

// New returns the dialect registered under the given name. The empty
// name selects the generic dialect.
func New(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", NameGeneric:
		return generic{}, nil
	case NameClickHouse:
		return clickhouse{}, nil
	case NamePostgres:
		return postgres{}, nil
	case NameDuckDB:
		return duckdb{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// Names returns all registered dialect names
func Names() []string {
	return []string{NameGeneric, NameClickHouse, NamePostgres, NameDuckDB}
}

// generic emits portable date arithmetic matching the documented
// sample-mode contract: "column > current_date - N unit"
type generic struct{}

func (generic) Name() string { return NameGeneric }

func (generic) CurrentTimestamp(unit sample.Unit) string {
	if unit == sample.UnitMinute || unit == sample.UnitHour {
		return "current_timestamp"
	}
	return "current_date"
}

func (g generic) WindowPredicate(column string, w *sample.Window) string {
	return fmt.Sprintf("%s > %s - %d %s", column, g.CurrentTimestamp(w.Unit), w.Lookback, w.Unit)
}

// clickhouse uses now()/today() and ClickHouse INTERVAL syntax
type clickhouse struct{}

func (clickhouse) Name() string { return NameClickHouse }

func (clickhouse) CurrentTimestamp(unit sample.Unit) string {
	if unit == sample.UnitMinute || unit == sample.UnitHour {
		return "now()"
	}
	return "today()"
}

func (c clickhouse) WindowPredicate(column string, w *sample.Window) string {
	return fmt.Sprintf("%s > %s - INTERVAL %d %s", column, c.CurrentTimestamp(w.Unit), w.Lookback, strings.ToUpper(string(w.Unit)))
}

// postgres uses quoted INTERVAL literals
type postgres struct{}

func (postgres) Name() string { return NamePostgres }

func (postgres) CurrentTimestamp(unit sample.Unit) string {
	if unit == sample.UnitMinute || unit == sample.UnitHour {
		return "current_timestamp"
	}
	return "current_date"
}

func (p postgres) WindowPredicate(column string, w *sample.Window) string {
	return fmt.Sprintf("%s > %s - INTERVAL '%d %s'", column, p.CurrentTimestamp(w.Unit), w.Lookback, w.Unit)
}

// duckdb shares the postgres interval grammar
type duckdb struct{}

func (duckdb) Name() string { return NameDuckDB }

func (duckdb) CurrentTimestamp(unit sample.Unit) string {
	if unit == sample.UnitMinute || unit == sample.UnitHour {
		return "current_timestamp"
	}
	return "current_date"
}

func (d duckdb) WindowPredicate(column string, w *sample.Window) string {
	return fmt.Sprintf("%s > %s - INTERVAL '%d %s'", column, d.CurrentTimestamp(w.Unit), w.Lookback, w.Unit)
}
