package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newScheduleCommand() *cobra.Command {
	var ship string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show a ship's persisted schedule and progress",
		Long: `Show the route a logistics ship last had planned and how far through
it the ship had progressed when state was last saved.

Example:
  fleetctl schedule --ship VOIDFLEET-2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ship == "" {
				return fmt.Errorf("--ship is required")
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			schedule, progress, ok, err := store.LoadSchedule(context.Background(), ship)
			if err != nil {
				return fmt.Errorf("load schedule %s: %w", ship, err)
			}
			if !ok {
				fmt.Printf("(no saved schedule for %s)\n", ship)
				return nil
			}

			fmt.Printf("Ship %s: step %d/%d\n", schedule.Ship.Symbol, progress, len(schedule.Actions))
			for i, a := range schedule.Actions {
				marker := "  "
				if i == progress {
					marker = "->"
				}
				fmt.Printf("%s %2d. %s @ %s\n", marker, i, a.Action, a.Waypoint)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ship, "ship", "", "ship symbol to inspect")
	return cmd
}
