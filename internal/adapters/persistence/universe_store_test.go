package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/domain/shared"
	"github.com/voidfleet/controller/internal/domain/universe"
)

func TestStore_SaveSystemsThenLoadSystems_RoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wp, err := shared.NewWaypoint("X1-AB-WP", 1, 2)
	require.NoError(t, err)
	sys := &universe.System{
		Symbol: "X1-AB",
		X:      10, Y: 20,
		Waypoints: map[string]*universe.WaypointDetails{
			"X1-AB-WP": {Waypoint: wp, Type: universe.WaypointTypePlanet, IsMarket: true},
		},
	}
	require.NoError(t, store.SaveSystems(ctx, []*universe.System{sys}))

	loaded, err := store.LoadSystems(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "X1-AB", loaded[0].Symbol)
	require.Contains(t, loaded[0].Waypoints, "X1-AB-WP")
	assert.True(t, loaded[0].Waypoints["X1-AB-WP"].IsMarket)
}

func TestStore_LoadSystems_EmptyWhenNoneSaved(t *testing.T) {
	store := newTestStore(t)
	loaded, err := store.LoadSystems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_SaveMarketThenLoadMarket_RoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := &universe.Market{
		Symbol:     "X1-AB-WP",
		TradeGoods: []universe.TradeGood{{Symbol: "IRON_ORE", Type: universe.TradeGoodTypeExport}},
	}
	ts := time.Now().Truncate(time.Second)
	require.NoError(t, store.SaveMarket(ctx, "X1-AB-WP", m, ts))

	loaded, loadedTs, err := store.LoadMarket(ctx, "X1-AB-WP")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "IRON_ORE", loaded.TradeGoods[0].Symbol)
	assert.WithinDuration(t, ts, loadedTs, time.Second)
}

func TestStore_LoadMarket_MissReturnsZeroTimeNoError(t *testing.T) {
	store := newTestStore(t)
	loaded, ts, err := store.LoadMarket(context.Background(), "X1-AB-NONE")
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.True(t, ts.IsZero())
}

func TestStore_SaveShipyardThenLoadShipyard_RoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sy := &universe.Shipyard{WaypointSymbol: "X1-AB-WP", Listings: []universe.ShipyardListing{{ShipType: "SHIP_PROBE", Price: 10000}}}
	require.NoError(t, store.SaveShipyard(ctx, "X1-AB-WP", sy, time.Now()))

	loaded, _, err := store.LoadShipyard(ctx, "X1-AB-WP")
	require.NoError(t, err)
	require.Len(t, loaded.Listings, 1)
	assert.Equal(t, "SHIP_PROBE", loaded.Listings[0].ShipType)
}

func TestStore_SaveConstructionThenLoadConstruction_RoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	con := &universe.Construction{WaypointSymbol: "X1-AB-GATE", Materials: []universe.ConstructionMaterial{{TradeSymbol: "FAB_MATS", Required: 100, Fulfilled: 10}}}
	require.NoError(t, store.SaveConstruction(ctx, "X1-AB-GATE", con, time.Now()))

	loaded, _, err := store.LoadConstruction(ctx, "X1-AB-GATE")
	require.NoError(t, err)
	require.Len(t, loaded.Materials, 1)
	assert.Equal(t, 90, loaded.Materials[0].Remaining())
}

func TestStore_SaveJumpGateThenLoadJumpGate_RoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	jg := &universe.JumpGate{WaypointSymbol: "X1-AB-GATE", Connections: []string{"X1-CD-GATE", "X1-EF-GATE"}, IsConstructed: true}
	require.NoError(t, store.SaveJumpGate(ctx, "X1-AB-GATE", jg))

	loaded, err := store.LoadJumpGate(ctx, "X1-AB-GATE")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.ElementsMatch(t, []string{"X1-CD-GATE", "X1-EF-GATE"}, loaded.Connections)
	assert.True(t, loaded.IsConstructed)

	// A second save must replace, not append, the connection set.
	jg2 := &universe.JumpGate{WaypointSymbol: "X1-AB-GATE", Connections: []string{"X1-CD-GATE"}, IsConstructed: true}
	require.NoError(t, store.SaveJumpGate(ctx, "X1-AB-GATE", jg2))
	loaded2, err := store.LoadJumpGate(ctx, "X1-AB-GATE")
	require.NoError(t, err)
	assert.Equal(t, []string{"X1-CD-GATE"}, loaded2.Connections)
}

func TestStore_LoadJumpGate_MissReturnsNil(t *testing.T) {
	store := newTestStore(t)
	loaded, err := store.LoadJumpGate(context.Background(), "X1-AB-NONE")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
