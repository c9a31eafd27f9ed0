package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newMarketCommand groups market inspection subcommands, mirroring the
// teacher's "market get"/"market list" split but reading the snapshot
// straight out of the markets table instead of a live API call.
func newMarketCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Inspect cached market snapshots",
	}
	cmd.AddCommand(newMarketGetCommand())
	return cmd
}

func newMarketGetCommand() *cobra.Command {
	var waypoint string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the cached market snapshot for a waypoint",
		Long: `Show the most recently cached trade goods for a market waypoint.

Example:
  fleetctl market get --waypoint X1-GZ7-A1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if waypoint == "" {
				return fmt.Errorf("--waypoint is required")
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			market, ts, err := store.LoadMarket(context.Background(), waypoint)
			if err != nil {
				return fmt.Errorf("load market %s: %w", waypoint, err)
			}
			if market == nil {
				fmt.Printf("(no cached market for %s)\n", waypoint)
				return nil
			}

			fmt.Printf("Market %s (last seen %s)\n", market.Symbol, ts.Format("2006-01-02 15:04:05"))
			if len(market.Imports) > 0 {
				fmt.Printf("  Imports: %v\n", market.Imports)
			}
			if len(market.Exports) > 0 {
				fmt.Printf("  Exports: %v\n", market.Exports)
			}
			if len(market.Exchange) > 0 {
				fmt.Printf("  Exchange: %v\n", market.Exchange)
			}

			if len(market.TradeGoods) == 0 {
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "GOOD\tTYPE\tSUPPLY\tVOLUME\tBUY\tSELL")
			for _, g := range market.TradeGoods {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
					g.Symbol, g.Type, g.Supply, g.TradeVolume, g.PurchasePrice, g.SellPrice)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&waypoint, "waypoint", "", "waypoint symbol to inspect")
	return cmd
}
