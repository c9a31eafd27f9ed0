// Package cli implements fleetctl, the offline inspection CLI (§1: "CLI
// binaries for offline inspection"). Grounded on the teacher's
// internal/adapters/cli command-group layout (one file per noun, each
// exposing New<Noun>Command(), assembled under a root command with
// persistent flags), but every subcommand here reads straight from the
// persistence adapter instead of round-tripping through a running
// daemon's socket: the spec describes this CLI as a read-only
// collaborator, never a control surface for the live decision loop.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voidfleet/controller/internal/adapters/persistence"
	"github.com/voidfleet/controller/internal/infrastructure/config"
	"github.com/voidfleet/controller/internal/infrastructure/database"
)

var (
	// resetIdentifier scopes every command to one game reset (§4.B:
	// "multiple game resets coexist"); defaults to the most recently
	// configured reset via the environment when unset.
	resetIdentifier string
)

// NewRootCommand builds the fleetctl command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fleetctl",
		Short: "fleetctl inspects a fleet controller's persisted state",
		Long: `fleetctl is a read-only inspection tool for a running or stopped
fleet controller. It opens the same database the controller writes to
and reports what it finds; it never issues game API requests and never
talks to a running controller process.

Examples:
  fleetctl systems
  fleetctl market get --waypoint X1-GZ7-A1
  fleetctl ledger list --ship VOIDFLEET-1
  fleetctl surveys --waypoint X1-GZ7-B2
  fleetctl tasks --system X1-GZ7`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&resetIdentifier, "reset", os.Getenv("FLEET_RESET_IDENTIFIER"),
		"reset identifier to inspect (defaults to $FLEET_RESET_IDENTIFIER)")

	rootCmd.AddCommand(newSystemsCommand())
	rootCmd.AddCommand(newMarketCommand())
	rootCmd.AddCommand(newShipyardCommand())
	rootCmd.AddCommand(newSurveysCommand())
	rootCmd.AddCommand(newLedgerCommand())
	rootCmd.AddCommand(newTasksCommand())
	rootCmd.AddCommand(newScheduleCommand())

	return rootCmd
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore connects to the configured database and binds a
// persistence.Store to --reset, failing loudly if --reset was never
// given since every table is namespaced by it.
func openStore() (*persistence.Store, error) {
	if resetIdentifier == "" {
		return nil, fmt.Errorf("no --reset given and $FLEET_RESET_IDENTIFIER is unset")
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return persistence.New(db, resetIdentifier), nil
}
