package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTasksCommand() *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the Logistic Task Manager's in-progress assignments",
		Long: `List every task currently taken by a ship in one system, per the
task_manager persisted state (§4.B "task_manager/{system}").

Example:
  fleetctl tasks --system X1-GZ7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if system == "" {
				return fmt.Errorf("--system is required")
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			entries, err := store.LoadInProgress(context.Background(), system)
			if err != nil {
				return fmt.Errorf("load in-progress tasks %s: %w", system, err)
			}
			if len(entries) == 0 {
				fmt.Printf("(no in-progress tasks for %s)\n", system)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "TASK ID\tSHIP\tKIND\tVALUE\tTAKEN AT")
			for taskID, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					taskID, e.ShipSymbol, e.Task.Kind, e.Task.Value, e.TakenAt.Format("15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "system symbol to inspect")
	return cmd
}
