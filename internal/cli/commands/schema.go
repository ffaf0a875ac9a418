package commands

import (
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <csv-file-or-table>",
		Short: "Show the schema of a CSV file or SQL table",
		Example: `  # Schema of a CSV file via the in-memory arrow backend
  crossframe schema data.csv

  # Schema of a table in a DuckDB database
  crossframe schema -b sql --db warehouse.duckdb sales`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			ctx := cmd.Context()

			src, cleanup, err := openSource(ctx, cc, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			schema, err := src.schema(ctx)
			if err != nil {
				return err
			}

			cols := []string{"column", "type"}
			rows := make([][]any, len(schema))
			for i, col := range schema {
				rows[i] = []any{col.Name, col.Type.String()}
			}
			return renderRows(cmd.OutOrStdout(), cols, rows, cc.Format)
		},
	}
}
