package shipscripts

import (
	"context"

	"github.com/voidfleet/controller/internal/domain/universe"
)

// ConstructionPhase is the persistent {Buying, Delivering, Completed,
// TerminalState} state of a ConstructionHauler (§4.J).
type ConstructionPhase string

const (
	ConstructionPhaseBuying      ConstructionPhase = "BUYING"
	ConstructionPhaseDelivering  ConstructionPhase = "DELIVERING"
	ConstructionPhaseCompleted   ConstructionPhase = "COMPLETED"
	ConstructionPhaseTerminal    ConstructionPhase = "TERMINAL_STATE"
)

const advancedCircuitryBuffer = 1_000_000

// ConstructionStore persists the hauler's phase.
type ConstructionStore interface {
	LoadConstructionPhase(ctx context.Context, ship string) (ConstructionPhase, error)
	SaveConstructionPhase(ctx context.Context, ship string, phase ConstructionPhase) error
}

// ConstructionWorld is the world-state port the hauler consults: candidate
// export markets for FAB_MATS/ADVANCED_CIRCUITRY, the gate's construction
// state, and a probe shipyard to retire to.
type ConstructionWorld interface {
	BestConstructionExport(ctx context.Context, systemSymbol, good string) (waypoint string, market *universe.Market, ok bool, err error)
	Construction(ctx context.Context, gateWaypoint string) (*universe.Construction, error)
	SupplyConstruction(ctx context.Context, ship ShipAPI, good string, units int) error
	AvailableCredits() int64
	ProbeShipyardInCapital(ctx context.Context) (waypoint string, jumpNeeded bool, err error)
}

// Buyer performs the buy RPC.
type Buyer interface {
	Buy(ctx context.Context, ship ShipAPI, good string, units int) error
}

var constructionGoods = []string{"FAB_MATS", "ADVANCED_CIRCUITRY"}

// RunConstructionHauler buys FAB_MATS/ADVANCED_CIRCUITRY at their export
// markets (only when outflow is strong enough) and delivers them to the
// gate until construction completes, then retires to a probe shipyard in
// the capital system (§4.J ConstructionHauler).
func RunConstructionHauler(
	ctx context.Context,
	ship ShipAPI,
	router Router,
	gateWaypoint, systemSymbol string,
	world ConstructionWorld,
	buyer Buyer,
	store ConstructionStore,
) error {
	phase, err := store.LoadConstructionPhase(ctx, ship.Symbol())
	if err != nil {
		return err
	}
	if phase == "" {
		phase = ConstructionPhaseBuying
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch phase {
		case ConstructionPhaseBuying:
			con, err := world.Construction(ctx, gateWaypoint)
			if err != nil {
				return err
			}
			if con.IsComplete {
				phase = ConstructionPhaseCompleted
				break
			}

			bought := false
			for _, good := range constructionGoods {
				wp, mkt, ok, err := world.BestConstructionExport(ctx, systemSymbol, good)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				tg, _ := mkt.Good(good)
				strongEnough := tg.Activity != nil && *tg.Activity == universe.ActivityStrong && tg.Supply >= universe.SupplyHigh
				moderateEnough := (tg.Activity == nil || *tg.Activity != universe.ActivityStrong) && tg.Supply >= universe.SupplyModerate
				if !strongEnough && !moderateEnough {
					continue
				}
				buffer := int64(0)
				if good == "ADVANCED_CIRCUITRY" {
					buffer = advancedCircuitryBuffer
				}
				snap := ship.Snapshot()
				space := snap.CargoSpaceRemaining()
				if space <= 0 {
					continue
				}
				units := space
				if tg.TradeVolume > 0 && units > tg.TradeVolume {
					units = tg.TradeVolume
				}
				cost := int64(units) * int64(tg.PurchasePrice)
				if world.AvailableCredits() < cost+buffer {
					continue
				}
				if err := GotoWaypoint(ctx, ship, router, wp); err != nil {
					return err
				}
				if err := ship.Dock(ctx); err != nil {
					return err
				}
				if err := buyer.Buy(ctx, ship, good, units); err != nil {
					return err
				}
				bought = true
			}

			if ship.Snapshot().CargoSpaceRemaining() == 0 || !bought {
				phase = ConstructionPhaseDelivering
			}

		case ConstructionPhaseDelivering:
			if err := GotoWaypoint(ctx, ship, router, gateWaypoint); err != nil {
				return err
			}
			if err := ship.Dock(ctx); err != nil {
				return err
			}
			snap := ship.Snapshot()
			for good, units := range snap.Cargo.Inventory {
				if units <= 0 {
					continue
				}
				if err := world.SupplyConstruction(ctx, ship, good, units); err != nil {
					return err
				}
			}
			phase = ConstructionPhaseBuying

		case ConstructionPhaseCompleted:
			// the capital-system destination already accounts for whether a
			// jump is needed; goto_waypoint's router resolves the path.
			wp, _, err := world.ProbeShipyardInCapital(ctx)
			if err != nil {
				return err
			}
			if err := GotoWaypoint(ctx, ship, router, wp); err != nil {
				return err
			}
			phase = ConstructionPhaseTerminal

		case ConstructionPhaseTerminal:
			return nil
		}

		if err := store.SaveConstructionPhase(ctx, ship.Symbol(), phase); err != nil {
			return err
		}
	}
}
