// Package fleetops implements the narrow Agent Controller collaborator
// ports (ShipyardLister, ShipBuyer, TransferAPI, ContractAPI, ContractWorld,
// PurchaserFinder, StaticProbe) over the API Client and the Universe cache,
// the way the teacher's internal/application/shipyard and
// internal/application/contract command handlers wrap the same HTTP
// endpoints with a thin domain-facing method. Where a port needs the Agent
// Controller's own ship/assignment data (PurchaserFinder, StaticProbe),
// the adapter is late-bound to the Controller after construction — the
// "set_agent_controller hand-off stored behind a one-shot init" the
// agentcontroller package doc already names as the chosen way to avoid a
// Controller<->collaborator construction cycle.
package fleetops

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/application/agentcontroller"
	"github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/fleet"
)

// Shipyards implements agentcontroller.ShipyardLister and .ShipBuyer by
// scanning the Universe cache's charted waypoints for shipyard listings
// matching a model's name.
type Shipyards struct {
	client *apiclient.Client
	token  string
	cache  *universe.Cache
}

// NewShipyards constructs a Shipyards adapter.
func NewShipyards(client *apiclient.Client, token string, cache *universe.Cache) *Shipyards {
	return &Shipyards{client: client, token: token, cache: cache}
}

// SearchShipyards implements agentcontroller.ShipyardLister: every charted
// shipyard waypoint in systemSymbol selling model, cheapest first is left
// to the caller (the Controller sorts candidates itself, DESIGN.md open
// question 3).
func (s *Shipyards) SearchShipyards(ctx context.Context, systemSymbol string, model fleet.ShipModel) ([]agentcontroller.ShipyardPrice, error) {
	waypoints, err := s.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return nil, fmt.Errorf("fleetops: load waypoints %s: %w", systemSymbol, err)
	}

	var out []agentcontroller.ShipyardPrice
	for symbol, wp := range waypoints {
		if !wp.IsShipyard {
			continue
		}
		yard, _, err := s.cache.GetShipyard(ctx, symbol)
		if err != nil || yard == nil {
			continue
		}
		for _, listing := range yard.Listings {
			if listing.ShipType == model.Name {
				out = append(out, agentcontroller.ShipyardPrice{Waypoint: symbol, Price: listing.Price})
			}
		}
	}
	return out, nil
}

// BuyShip implements agentcontroller.ShipBuyer.
func (s *Shipyards) BuyShip(ctx context.Context, purchaserShip, shipType, waypoint string) (string, error) {
	symbol, err := s.client.BuyShip(ctx, s.token, shipType, waypoint)
	if err != nil {
		return "", fmt.Errorf("fleetops: buy %s at %s: %w", shipType, waypoint, err)
	}
	return symbol, nil
}
