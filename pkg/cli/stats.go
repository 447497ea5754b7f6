package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/brep/pkg/topo"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <script>",
		Short: "Print entity counts of the emitted model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rootOpts.evaluate(cmd, args[0])
			if err != nil {
				return err
			}
			m := res.Model
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "entities\t%d\n", m.Len())
			if res.Root.IsZero() {
				fmt.Fprintln(w, "root\tnone")
				return w.Flush()
			}
			fmt.Fprintf(w, "root\t%s %d\n", m.Kind(res.Root), res.Root)
			closure := m.Closure(res.Root, false, true)
			for d, name := range []string{"points", "edges", "faces", "volumes"} {
				fmt.Fprintf(w, "%s\t%d\n", name, m.CountOfDim(closure, d))
			}
			for k := topo.KindPoint; int(k) < topo.NumKinds; k++ {
				if n := m.CountOfKind(closure, k); n > 0 {
					fmt.Fprintf(w, "  %s\t%d\n", k, n)
				}
			}
			return w.Flush()
		},
	}
}
