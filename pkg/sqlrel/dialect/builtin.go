package dialect

import (
	"fmt"
)

func init() {
	Register(duckdb())
	Register(sqlite())
	Register(postgres())
}

func duckdb() *Dialect {
	return &Dialect{
		Name:           "duckdb",
		DriverName:     "duckdb",
		FormatQuantile: func(col string, q float64) string { return fmt.Sprintf("quantile_cont(%s, %g)", col, q) },
		FormatStdDev:   sampPop("stddev_samp", "stddev_pop"),
		FormatVariance: sampPop("var_samp", "var_pop"),
	}
}

func sqlite() *Dialect {
	// SQLite ships no quantile, stddev or variance aggregates.
	return &Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
	}
}

func postgres() *Dialect {
	return &Dialect{
		Name:              "postgres",
		DriverName:        "pgx",
		PlaceholderDollar: true,
		FormatQuantile: func(col string, q float64) string {
			return fmt.Sprintf("percentile_cont(%g) WITHIN GROUP (ORDER BY %s)", q, col)
		},
		FormatStdDev:   sampPop("stddev_samp", "stddev_pop"),
		FormatVariance: sampPop("var_samp", "var_pop"),
	}
}

// sampPop builds a ddof formatter for engines with sample/population
// aggregate pairs. Only ddof 1 (sample) and 0 (population) exist in
// SQL; anything else is unsupported.
func sampPop(samp, pop string) func(string, int) (string, bool) {
	return func(col string, ddof int) (string, bool) {
		switch ddof {
		case 1:
			return fmt.Sprintf("%s(%s)", samp, col), true
		case 0:
			return fmt.Sprintf("%s(%s)", pop, col), true
		default:
			return "", false
		}
	}
}
