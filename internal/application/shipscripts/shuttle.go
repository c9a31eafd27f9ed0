package shipscripts

import (
	"context"

	"github.com/voidfleet/controller/internal/application/broker"
	"github.com/voidfleet/controller/internal/domain/universe"
)

// ShuttlePhase is the persistent {Loading, Selling} state for mining and
// siphon shuttles (§4.J).
type ShuttlePhase string

const (
	ShuttlePhaseLoading ShuttlePhase = "LOADING"
	ShuttlePhaseSelling ShuttlePhase = "SELLING"
)

// ShuttleStore persists the shuttle's current phase across restarts.
type ShuttleStore interface {
	LoadPhase(ctx context.Context, ship string) (ShuttlePhase, error)
	SavePhase(ctx context.Context, ship string, phase ShuttlePhase) error
}

// MarketView is the market-lookup port trade decisions consult.
type MarketView interface {
	BestSellMarket(ctx context.Context, systemSymbol, good string) (waypoint string, market *universe.Market, ok bool, err error)
	RefreshMarket(ctx context.Context, waypoint string) error
}

// Trader performs the in-game sell/jettison RPCs.
type Trader interface {
	Sell(ctx context.Context, ship ShipAPI, good string, units int) error
	Jettison(ctx context.Context, ship ShipAPI, good string, units int) error
}

// RunShuttle drives a mining/siphon shuttle through Loading (receive cargo
// at the extraction site until full) and Selling (route each held good to
// its best-sell market in trade-volume batches, or jettison it) (§4.J
// MiningShuttle/SiphonShuttle — identical pattern against an asteroid or a
// gas giant).
func RunShuttle(
	ctx context.Context,
	ship ShipAPI,
	router Router,
	siteWaypoint string,
	systemSymbol string,
	sellList map[string]bool,
	jettisonList map[string]bool,
	cargoBroker *broker.Broker,
	markets MarketView,
	trader Trader,
	store ShuttleStore,
) error {
	phase, err := store.LoadPhase(ctx, ship.Symbol())
	if err != nil {
		return err
	}
	if phase == "" {
		phase = ShuttlePhaseLoading
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch phase {
		case ShuttlePhaseLoading:
			if err := GotoWaypoint(ctx, ship, router, siteWaypoint); err != nil {
				return err
			}
			if err := ship.Orbit(ctx); err != nil {
				return err
			}
			snap := ship.Snapshot()
			if err := cargoBroker.ReceiveCargo(ctx, ship.Symbol(), siteWaypoint, snap.CargoSpaceRemaining()); err != nil {
				return err
			}
			phase = ShuttlePhaseSelling

		case ShuttlePhaseSelling:
			snap := ship.Snapshot()
			sold := false
			for good, units := range snap.Cargo.Inventory {
				if units <= 0 {
					continue
				}
				if jettisonList[good] {
					if err := trader.Jettison(ctx, ship, good, units); err != nil {
						return err
					}
					sold = true
					continue
				}
				if !sellList[good] {
					continue
				}
				wp, mkt, ok, err := markets.BestSellMarket(ctx, systemSymbol, good)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				if err := GotoWaypoint(ctx, ship, router, wp); err != nil {
					return err
				}
				if err := ship.Dock(ctx); err != nil {
					return err
				}
				if err := markets.RefreshMarket(ctx, wp); err != nil {
					return err
				}
				tg, _ := mkt.Good(good)
				remaining := units
				for remaining > 0 {
					batch := remaining
					if tg.TradeVolume > 0 && batch > tg.TradeVolume {
						batch = tg.TradeVolume
					}
					if err := trader.Sell(ctx, ship, good, batch); err != nil {
						return err
					}
					remaining -= batch
				}
				sold = true
			}
			if !sold {
				phase = ShuttlePhaseLoading
			} else {
				// re-check inventory next loop; phase stays Selling until
				// every held good is disposed of.
			}
		}

		if err := store.SavePhase(ctx, ship.Symbol(), phase); err != nil {
			return err
		}
	}
}
