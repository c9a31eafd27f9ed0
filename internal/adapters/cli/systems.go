package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newSystemsCommand lists every charted system and how many waypoints
// each holds, the offline equivalent of §4.C's LoadSystems.
func newSystemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List charted systems",
		Long: `List every system the controller has charted in this reset,
with its waypoint count.

Example:
  fleetctl systems --reset reset-2026-01-15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			systems, err := store.LoadSystems(context.Background())
			if err != nil {
				return fmt.Errorf("load systems: %w", err)
			}
			if len(systems) == 0 {
				fmt.Println("(no systems charted for this reset)")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "SYSTEM\tX\tY\tWAYPOINTS")
			for _, sys := range systems {
				fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%d\n", sys.Symbol, sys.X, sys.Y, len(sys.Waypoints))
			}
			return nil
		},
	}
}
