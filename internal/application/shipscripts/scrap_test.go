package shipscripts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/routing"
)

type fakeNearestShipyard struct {
	waypoint string
	ok       bool
	err      error
}

func (f fakeNearestShipyard) NearestShipyard(ctx context.Context, systemSymbol, fromWaypoint string) (string, bool, error) {
	return f.waypoint, f.ok, f.err
}

type fakeScrapper struct {
	calls int
}

func (s *fakeScrapper) Scrap(ctx context.Context, ship shipscripts.ShipAPI) error {
	s.calls++
	return nil
}

func TestRunScrap_DocksAtNearestShipyardThenScraps(t *testing.T) {
	ship := &fakeShip{snap: fleet.Ship{Symbol: "PROBE-1", Nav: fleet.Nav{WaypointSymbol: "X1-AB-HOME"}}}
	router := fakeRouter{route: &routing.Route{}}
	nearest := fakeNearestShipyard{waypoint: "X1-AB-HOME", ok: true}
	scrapper := &fakeScrapper{}

	require.NoError(t, shipscripts.RunScrap(context.Background(), ship, router, nearest, "X1-AB", scrapper))
	assert.Equal(t, 1, ship.dockCalls)
	assert.Equal(t, 1, scrapper.calls)
}

func TestRunScrap_NoopWhenNoShipyardInSystem(t *testing.T) {
	ship := &fakeShip{snap: fleet.Ship{Symbol: "PROBE-1", Nav: fleet.Nav{WaypointSymbol: "X1-AB-HOME"}}}
	router := fakeRouter{}
	nearest := fakeNearestShipyard{ok: false}
	scrapper := &fakeScrapper{}

	require.NoError(t, shipscripts.RunScrap(context.Background(), ship, router, nearest, "X1-AB", scrapper))
	assert.Zero(t, scrapper.calls)
	assert.Zero(t, ship.dockCalls)
}
