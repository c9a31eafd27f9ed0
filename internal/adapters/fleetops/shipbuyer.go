package fleetops

import (
	"context"

	"github.com/voidfleet/controller/internal/application/agentcontroller"
	"github.com/voidfleet/controller/internal/application/universe"
	domainuniverse "github.com/voidfleet/controller/internal/domain/universe"
)

// ShipyardBuyer implements taskmanager.ShipyardBuyer by driving the Agent
// Controller's agent-wide try_buy_ships with no requested purchaser, then
// reporting whether it stopped needing one at shipyardWP specifically —
// the per-waypoint question task generation step 1 asks (§4.H), answered
// from the same call the Controller already serializes under its own
// dedicated mutex (§4.K).
type ShipyardBuyer struct {
	controller   *agentcontroller.Controller
	cache        *universe.Cache
	homeSystem   string
}

// NewShipyardBuyer constructs a ShipyardBuyer adapter. homeSystem is the
// starting system whose jumpgate construction status gates the
// StartingSystem2 -> InterSystem1 era advance.
func NewShipyardBuyer(controller *agentcontroller.Controller, cache *universe.Cache, homeSystem string) *ShipyardBuyer {
	return &ShipyardBuyer{controller: controller, cache: cache, homeSystem: homeSystem}
}

// TryBuyShipsAt implements taskmanager.ShipyardBuyer.
func (b *ShipyardBuyer) TryBuyShipsAt(ctx context.Context, shipyardWP string) (bool, error) {
	complete, err := b.jumpgateComplete(ctx)
	if err != nil {
		return false, err
	}
	_, waypointToVisit, err := b.controller.TryBuyShips(ctx, "", complete)
	if err != nil {
		return false, err
	}
	return waypointToVisit == shipyardWP, nil
}

// jumpgateComplete reports whether the home system's jump gate
// construction has finished. The SpaceTraders API stops serving a
// construction site once it's complete, so "not found" is treated the
// same as "complete" rather than as "still building".
func (b *ShipyardBuyer) jumpgateComplete(ctx context.Context) (bool, error) {
	waypoints, err := b.cache.Waypoints(ctx, b.homeSystem)
	if err != nil {
		return false, err
	}
	for symbol, wp := range waypoints {
		if wp.Type != domainuniverse.WaypointTypeJumpGate {
			continue
		}
		con, _, err := b.cache.GetConstruction(ctx, symbol)
		if err != nil || con == nil {
			return true, nil
		}
		return con.IsComplete, nil
	}
	return false, nil
}
