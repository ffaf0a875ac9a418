package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/crossframe/pkg/backend"
	"github.com/spf13/cobra"
)

// NewBackendsCommand creates the backends command.
func NewBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered backends",
		Long: `List every registered backend with its version and the native
types it claims. Backends register themselves on import; this tool
links the arrow and sql backends.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			cols := []string{"id", "version", "native types"}
			var rows [][]any
			for _, id := range backend.List() {
				reg, ok := backend.Lookup(id)
				if !ok {
					continue
				}
				natives := make([]string, len(reg.Natives))
				for i, nt := range reg.Natives {
					natives[i] = fmt.Sprintf("%s (%s)", nt.Marker, nt.Kind)
				}
				rows = append(rows, []any{string(reg.ID), reg.Version, strings.Join(natives, ", ")})
			}

			return renderRows(cmd.OutOrStdout(), cols, rows, cc.Format)
		},
	}
}
