package fleetops

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	appledger "github.com/voidfleet/controller/internal/application/ledger"
	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/application/universe"
	domainuniverse "github.com/voidfleet/controller/internal/domain/universe"
)

// ConstructionWorld implements shipscripts.ConstructionWorld over the
// Universe cache, the Ledger service, and a fixed home (capital) system —
// the ConstructionHauler only ever retires to one capital once its gate is
// finished, so that system is configuration, not something to discover.
type ConstructionWorld struct {
	client       *apiclient.Client
	token        string
	cache        *universe.Cache
	ledger       *appledger.Service
	homeSystem   string
	haulerSystem string
}

// NewConstructionWorld constructs a ConstructionWorld adapter. haulerSystem
// is the system this hauler's gate is under construction in; homeSystem is
// the capital it retires to once that gate is built.
func NewConstructionWorld(client *apiclient.Client, token string, cache *universe.Cache, ledger *appledger.Service, haulerSystem, homeSystem string) *ConstructionWorld {
	return &ConstructionWorld{client: client, token: token, cache: cache, ledger: ledger, haulerSystem: haulerSystem, homeSystem: homeSystem}
}

// BestConstructionExport implements shipscripts.ConstructionWorld: the
// export market for good with the highest trade volume in systemSymbol —
// the biggest single buy the hauler could make there.
func (w *ConstructionWorld) BestConstructionExport(ctx context.Context, systemSymbol, good string) (string, *domainuniverse.Market, bool, error) {
	waypoints, err := w.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return "", nil, false, fmt.Errorf("fleetops: load waypoints %s: %w", systemSymbol, err)
	}
	var bestWP string
	var bestMarket *domainuniverse.Market
	bestVolume := -1
	for symbol, wp := range waypoints {
		if !wp.IsMarket {
			continue
		}
		market, _, err := w.cache.GetMarket(ctx, symbol)
		if err != nil || market == nil {
			continue
		}
		tg, ok := market.Good(good)
		if !ok || tg.Type != domainuniverse.TradeGoodTypeExport {
			continue
		}
		if tg.TradeVolume > bestVolume {
			bestWP, bestMarket, bestVolume = symbol, market, tg.TradeVolume
		}
	}
	return bestWP, bestMarket, bestVolume >= 0, nil
}

// Construction implements shipscripts.ConstructionWorld.
func (w *ConstructionWorld) Construction(ctx context.Context, gateWaypoint string) (*domainuniverse.Construction, error) {
	con, _, err := w.cache.GetConstruction(ctx, gateWaypoint)
	if err != nil {
		return nil, fmt.Errorf("fleetops: get construction %s: %w", gateWaypoint, err)
	}
	return con, nil
}

// SupplyConstruction implements shipscripts.ConstructionWorld.
func (w *ConstructionWorld) SupplyConstruction(ctx context.Context, ship shipscripts.ShipAPI, good string, units int) error {
	snap := ship.Snapshot()
	if err := w.client.SupplyConstruction(ctx, w.token, w.haulerSystem, snap.Nav.WaypointSymbol, ship.Symbol(), good, units); err != nil {
		return fmt.Errorf("fleetops: supply construction %s x%d via %s: %w", good, units, ship.Symbol(), err)
	}
	return nil
}

// AvailableCredits implements shipscripts.ConstructionWorld.
func (w *ConstructionWorld) AvailableCredits() int64 {
	return w.ledger.AvailableCredits()
}

// ProbeShipyardInCapital implements shipscripts.ConstructionWorld: the
// first charted shipyard in the home system, and whether reaching it from
// the hauler's own system requires a jump.
func (w *ConstructionWorld) ProbeShipyardInCapital(ctx context.Context) (string, bool, error) {
	waypoints, err := w.cache.Waypoints(ctx, w.homeSystem)
	if err != nil {
		return "", false, fmt.Errorf("fleetops: load waypoints %s: %w", w.homeSystem, err)
	}
	for symbol, wp := range waypoints {
		if wp.IsShipyard {
			return symbol, w.haulerSystem != w.homeSystem, nil
		}
	}
	return "", false, fmt.Errorf("fleetops: no shipyard charted in capital %s", w.homeSystem)
}
