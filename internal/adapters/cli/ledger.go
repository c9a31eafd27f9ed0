package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Financial ledger operations",
		Long: `View the recorded cash-flow transaction log.

Examples:
  fleetctl ledger list
  fleetctl ledger list --ship VOIDFLEET-1`,
	}
	cmd.AddCommand(newLedgerListCommand())
	return cmd
}

func newLedgerListCommand() *cobra.Command {
	var ship string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded transactions, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			txs, err := store.Transactions(context.Background(), ship)
			if err != nil {
				return fmt.Errorf("load transactions: %w", err)
			}
			if len(txs) == 0 {
				fmt.Println("(no transactions recorded)")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "TIME\tSHIP\tTYPE\tCATEGORY\tAMOUNT")
			var total int64
			for _, tx := range txs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					tx.Timestamp.Format("2006-01-02 15:04:05"), tx.ShipSymbol, tx.Type, tx.Category, tx.Amount)
				total += tx.Amount
			}
			fmt.Fprintf(w, "\t\t\tTOTAL\t%d\n", total)
			return nil
		},
	}
	cmd.Flags().StringVar(&ship, "ship", "", "restrict to one ship's transactions")
	return cmd
}
