package fleetops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/adapters/fleetops"
	appuniverse "github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/shared"
	"github.com/voidfleet/controller/internal/domain/universe"
)

func TestSiteResolver_ResolvesFirstChartedWaypointOfType(t *testing.T) {
	wpAsteroid, _ := shared.NewWaypoint("X1-AB-ROCK", 0, 0)
	wpGiant, _ := shared.NewWaypoint("X1-AB-GIANT", 5, 5)
	sys := &universe.System{
		Symbol: "X1-AB",
		Waypoints: map[string]*universe.WaypointDetails{
			"X1-AB-ROCK":  {Waypoint: wpAsteroid, Type: universe.WaypointTypeEngineeredAsteroid},
			"X1-AB-GIANT": {Waypoint: wpGiant, Type: universe.WaypointTypeGasGiant},
		},
	}
	cache := appuniverse.New(&fakeConstructionStore2{}, fakeOpsAPI{system: sys}, nil)
	resolver := fleetops.NewSiteResolver(cache)

	wp, ok, err := resolver.EngineeredAsteroid(context.Background(), "X1-AB")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "X1-AB-ROCK", wp)

	wp, ok, err = resolver.GasGiant(context.Background(), "X1-AB")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "X1-AB-GIANT", wp)

	_, ok, err = resolver.JumpGate(context.Background(), "X1-AB")
	require.NoError(t, err)
	assert.False(t, ok)
}
