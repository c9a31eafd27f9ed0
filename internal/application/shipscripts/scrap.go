package shipscripts

import "context"

// Scrapper performs the in-game scrap RPC at a shipyard.
type Scrapper interface {
	Scrap(ctx context.Context, ship ShipAPI) error
}

// NearestShipyard resolves the closest in-system shipyard to ship's
// current waypoint.
type NearestShipyard interface {
	NearestShipyard(ctx context.Context, systemSymbol, fromWaypoint string) (waypoint string, ok bool, err error)
}

// RunScrap sends a ship to the nearest in-system shipyard and scraps it
// (§4.J Scrap). Scrapping ends the ship's lifecycle, so this returns once
// successful rather than looping.
func RunScrap(ctx context.Context, ship ShipAPI, router Router, nearest NearestShipyard, systemSymbol string, scrapper Scrapper) error {
	snap := ship.Snapshot()
	wp, ok, err := nearest.NearestShipyard(ctx, systemSymbol, snap.Nav.WaypointSymbol)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := GotoWaypoint(ctx, ship, router, wp); err != nil {
		return err
	}
	if err := ship.Dock(ctx); err != nil {
		return err
	}
	return scrapper.Scrap(ctx, ship)
}
