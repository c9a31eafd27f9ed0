package shipscripts

import (
	"context"

	"github.com/voidfleet/controller/internal/application/broker"
)

// Siphoner performs the in-game siphon RPC against a gas giant; unlike
// mining there is no survey step (§4.J SiphonDrone).
type Siphoner interface {
	Siphon(ctx context.Context, ship ShipAPI) (good string, units int, err error)
	Jettison(ctx context.Context, ship ShipAPI, good string, units int) error
}

// RunSiphonDrone mirrors RunMiningDrone against a gas giant with no survey
// step: siphon while cargo space remains, jettisoning unwanted byproducts,
// then hand full cargo to the broker (§4.J).
func RunSiphonDrone(ctx context.Context, ship ShipAPI, router Router, gasGiant string, siphon Siphoner, jettison JettisonList, cargoBroker *broker.Broker) error {
	if err := GotoWaypoint(ctx, ship, router, gasGiant); err != nil {
		return err
	}
	if err := ship.Orbit(ctx); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		snap := ship.Snapshot()
		if snap.CargoSpaceRemaining() > 0 {
			if err := ship.WaitForCooldown(ctx); err != nil {
				return err
			}
			good, units, err := siphon.Siphon(ctx, ship)
			if err != nil {
				return err
			}
			if jettison[good] {
				if err := siphon.Jettison(ctx, ship, good, units); err != nil {
					return err
				}
			}
			continue
		}

		goods := make([]broker.Good, 0, len(snap.Cargo.Inventory))
		for g, u := range snap.Cargo.Inventory {
			if u > 0 {
				goods = append(goods, broker.Good{Symbol: g, Units: u})
			}
		}
		if err := cargoBroker.TransferCargo(ctx, ship.Symbol(), gasGiant, goods); err != nil {
			return err
		}
	}
}

// SiphonSellGoods is the fixed set of liquid byproducts SiphonShuttle sells
// at importing markets (§4.J).
var SiphonSellGoods = map[string]bool{
	"LIQUID_NITROGEN":  true,
	"LIQUID_HYDROGEN":  true,
	"HYDROCARBON":      true,
}

// RunSiphonShuttle is RunShuttle specialized to SiphonSellGoods; the shared
// Loading/Selling state machine is identical between mining and siphon
// shuttles (§4.J).
func RunSiphonShuttle(
	ctx context.Context,
	ship ShipAPI,
	router Router,
	gasGiant string,
	systemSymbol string,
	jettisonList map[string]bool,
	cargoBroker *broker.Broker,
	markets MarketView,
	trader Trader,
	store ShuttleStore,
) error {
	return RunShuttle(ctx, ship, router, gasGiant, systemSymbol, SiphonSellGoods, jettisonList, cargoBroker, markets, trader, store)
}
