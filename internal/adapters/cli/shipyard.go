package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newShipyardCommand() *cobra.Command {
	var waypoint string
	cmd := &cobra.Command{
		Use:   "shipyard",
		Short: "Show the cached shipyard listings for a waypoint",
		Long: `Show the most recently cached ship listings for a shipyard waypoint.

Example:
  fleetctl shipyard --waypoint X1-GZ7-A1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if waypoint == "" {
				return fmt.Errorf("--waypoint is required")
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			sy, ts, err := store.LoadShipyard(context.Background(), waypoint)
			if err != nil {
				return fmt.Errorf("load shipyard %s: %w", waypoint, err)
			}
			if sy == nil {
				fmt.Printf("(no cached shipyard for %s)\n", waypoint)
				return nil
			}

			fmt.Printf("Shipyard %s (last seen %s)\n", sy.WaypointSymbol, ts.Format("2006-01-02 15:04:05"))
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "SHIP TYPE\tPRICE\tFRAME\tREACTOR\tENGINE")
			for _, l := range sy.Listings {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", l.ShipType, l.Price, l.FrameSymbol, l.ReactorSymbol, l.EngineSymbol)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&waypoint, "waypoint", "", "waypoint symbol to inspect")
	return cmd
}
