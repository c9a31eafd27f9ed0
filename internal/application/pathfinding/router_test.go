package pathfinding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/pathfinding"
	"github.com/voidfleet/controller/internal/domain/routing"
)

func threeWaypointSystem() *pathfinding.System {
	return &pathfinding.System{
		Waypoints: map[string]pathfinding.WaypointInfo{
			"X1-AB-MARKET": {Symbol: "X1-AB-MARKET", X: 0, Y: 0, IsMarket: true},
			"X1-AB-MID":    {Symbol: "X1-AB-MID", X: 5, Y: 0, IsMarket: false},
			"X1-AB-FAR":    {Symbol: "X1-AB-FAR", X: 10, Y: 0, IsMarket: false},
		},
	}
}

func TestPlanRoute_SameWaypointIsZeroCost(t *testing.T) {
	sys := threeWaypointSystem()
	route, err := pathfinding.PlanRoute(sys, routing.RouteRequest{
		Src: "X1-AB-MARKET", Dst: "X1-AB-MARKET", EngineSpeed: 10, StartFuel: 100, FuelCapacity: 100,
	})
	require.NoError(t, err)
	assert.Empty(t, route.Hops)
	assert.Equal(t, 0, route.TotalDurationSec)
}

func TestPlanRoute_FindsAPathBetweenMarketAndFar(t *testing.T) {
	sys := threeWaypointSystem()
	route, err := pathfinding.PlanRoute(sys, routing.RouteRequest{
		Src: "X1-AB-MARKET", Dst: "X1-AB-FAR", EngineSpeed: 10, StartFuel: 100, FuelCapacity: 100,
	})
	require.NoError(t, err)
	require.NotEmpty(t, route.Hops)
	assert.Equal(t, "X1-AB-MARKET", route.Hops[0].FromWaypoint)
	assert.Equal(t, "X1-AB-FAR", route.Hops[len(route.Hops)-1].ToWaypoint)
	assert.Greater(t, route.TotalDurationSec, 0)
}

func TestPlanRoute_UnknownWaypointErrors(t *testing.T) {
	sys := threeWaypointSystem()
	_, err := pathfinding.PlanRoute(sys, routing.RouteRequest{
		Src: "X1-AB-MARKET", Dst: "X1-AB-NOWHERE", EngineSpeed: 10, StartFuel: 100, FuelCapacity: 100,
	})
	assert.ErrorIs(t, err, routing.ErrUnreachableWaypoint)
}

func TestPlanRoute_InsufficientFuelIsUnreachable(t *testing.T) {
	sys := threeWaypointSystem()
	_, err := pathfinding.PlanRoute(sys, routing.RouteRequest{
		Src: "X1-AB-MARKET", Dst: "X1-AB-FAR", EngineSpeed: 10, StartFuel: 1, FuelCapacity: 1,
	})
	assert.ErrorIs(t, err, routing.ErrUnreachableWaypoint)
}

func TestBuildDurationMatrix_SelfEntriesAreZero(t *testing.T) {
	sys := threeWaypointSystem()
	matrix := pathfinding.BuildDurationMatrix(sys, 10)

	assert.Equal(t, 0, matrix.DurationBetween("X1-AB-MARKET", "X1-AB-MARKET"))
	assert.Greater(t, matrix.DurationBetween("X1-AB-MARKET", "X1-AB-FAR"), 0)
	assert.Equal(t, -1, matrix.DurationBetween("X1-AB-MARKET", "X1-AB-NOWHERE"))
}
