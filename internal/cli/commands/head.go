package commands

import (
	"github.com/spf13/cobra"
)

// NewHeadCommand creates the head command.
func NewHeadCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "head <csv-file-or-table>",
		Short: "Show the first rows of a CSV file or SQL table",
		Example: `  # First 10 rows of a CSV file
  crossframe head data.csv

  # First 5 rows of a table, lazily collected from DuckDB
  crossframe head -b sql --db warehouse.duckdb sales -n 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			ctx := cmd.Context()

			src, cleanup, err := openSource(ctx, cc, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			df, err := src.collect(ctx)
			if err != nil {
				return err
			}

			cols, err := df.Columns()
			if err != nil {
				return err
			}
			rows, err := df.Rows()
			if err != nil {
				return err
			}
			if limit >= 0 && len(rows) > limit {
				rows = rows[:limit]
			}
			return renderRows(cmd.OutOrStdout(), cols, rows, cc.Format)
		},
	}

	cmd.Flags().IntVarP(&limit, "rows", "n", 10, "Number of rows to show")
	return cmd
}
