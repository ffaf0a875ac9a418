// Package dialect captures the SQL differences between the engines
// reachable through pkg/sqlrel. Each engine registers a dialect in
// its init function; the lazy SQL backend consults the dialect when
// compiling expressions, so that unsupported constructs are rejected
// before any query is sent.
package dialect

import (
	"strconv"
	"strings"
)

// Dialect describes one SQL engine's syntax and aggregate surface.
// Formatter fields left nil mark the construct as unsupported by the
// engine, which surfaces as a capability mismatch at compile time.
type Dialect struct {
	// Name is the dialect key ("duckdb", "sqlite", "postgres").
	Name string

	// DriverName is the database/sql driver name to open.
	DriverName string

	// PlaceholderDollar selects $N placeholders instead of ?.
	PlaceholderDollar bool

	// FormatQuantile renders a continuous-quantile aggregate over the
	// column expression. Nil if the engine has no quantile aggregate.
	FormatQuantile func(col string, q float64) string

	// FormatStdDev renders a standard-deviation aggregate for the
	// given delta degrees of freedom. The second result is false when
	// the engine cannot honor that ddof.
	FormatStdDev func(col string, ddof int) (string, bool)

	// FormatVariance is the variance counterpart of FormatStdDev.
	FormatVariance func(col string, ddof int) (string, bool)
}

// QuoteIdent quotes an identifier with double quotes, escaping any
// embedded quote. All supported engines accept this form.
func (d *Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// FormatPlaceholder returns the parameter placeholder for position i
// (1-based).
func (d *Dialect) FormatPlaceholder(i int) string {
	if d.PlaceholderDollar {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}
