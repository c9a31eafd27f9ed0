package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSurveysCommand() *cobra.Command {
	var waypoint string
	cmd := &cobra.Command{
		Use:   "surveys",
		Short: "List the Survey Manager's pool for a waypoint",
		Long: `List every survey stored for a waypoint, in storage order. Expired
surveys still in the table are included.

Example:
  fleetctl surveys --waypoint X1-GZ7-B2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if waypoint == "" {
				return fmt.Errorf("--waypoint is required")
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			surveys, err := store.LoadByWaypoint(context.Background(), waypoint)
			if err != nil {
				return fmt.Errorf("load surveys %s: %w", waypoint, err)
			}
			if len(surveys) == 0 {
				fmt.Printf("(no surveys held for %s)\n", waypoint)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tSIZE\tSCORE\tDEPOSITS\tEXPIRES")
			for _, ks := range surveys {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\n",
					ks.ID, ks.Survey.Size, ks.Survey.Score(), len(ks.Survey.Deposits),
					ks.Survey.Expiration.Format("15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&waypoint, "waypoint", "", "waypoint symbol to inspect")
	return cmd
}
