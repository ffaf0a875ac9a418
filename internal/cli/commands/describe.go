package commands

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/crossframe/pkg/expr"
	"github.com/leapstack-labs/crossframe/pkg/frame"
	"github.com/spf13/cobra"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <csv-file-or-table>",
		Short: "Show summary statistics for the numeric columns of a source",
		Long: `Compute count, mean, min, max and sample standard deviation for
every numeric column. The statistics are expressed once and evaluated
by whichever backend owns the data; on the sql backend they compile
to a single aggregation query per column.`,
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

			cols := []string{"column", "count", "mean", "min", "max", "std"}
			var rows [][]any
			for _, col := range schema {
				if !col.Type.Numeric() {
					continue
				}
				stats, err := describeColumn(ctx, src, col.Name)
				if err != nil {
					return fmt.Errorf("describe %s: %w", col.Name, err)
				}
				rows = append(rows, append([]any{col.Name}, stats...))
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no numeric columns)")
				return nil
			}
			return renderRows(cmd.OutOrStdout(), cols, rows, cc.Format)
		},
	}
}

// describeColumn evaluates the summary aggregations for one column.
func describeColumn(ctx context.Context, src *openedFrame, name string) ([]any, error) {
	exprs := []expr.Expr{
		expr.Col(name).Count().Alias("count"),
		expr.Col(name).Mean().Alias("mean"),
		expr.Col(name).Min().Alias("min"),
		expr.Col(name).Max().Alias("max"),
		expr.Col(name).Std(1).Alias("std"),
	}

	var (
		out frame.DataFrame
		err error
	)
	if src.eager {
		out, err = src.df.Select(exprs...)
	} else {
		var lf frame.LazyFrame
		lf, err = src.lf.Select(exprs...)
		if err == nil {
			out, err = lf.Collect(ctx)
		}
	}
	if err != nil {
		return nil, err
	}

	rows, err := out.Rows()
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("expected one aggregate row, got %d", len(rows))
	}
	return rows[0], nil
}
