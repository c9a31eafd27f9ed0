package fleetops_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/adapters/fleetops"
	applledger "github.com/voidfleet/controller/internal/application/ledger"
	appuniverse "github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/fleet"
	domainledger "github.com/voidfleet/controller/internal/domain/ledger"
	"github.com/voidfleet/controller/internal/domain/routing"
	"github.com/voidfleet/controller/internal/domain/shared"
	"github.com/voidfleet/controller/internal/domain/universe"
)

type fakeConstructionShip struct {
	symbol   string
	waypoint string
}

func (f fakeConstructionShip) Symbol() string { return f.symbol }
func (f fakeConstructionShip) Snapshot() fleet.Ship {
	return fleet.Ship{Symbol: f.symbol, Nav: fleet.Nav{WaypointSymbol: f.waypoint}}
}
func (f fakeConstructionShip) Orbit(ctx context.Context) error { return nil }
func (f fakeConstructionShip) Dock(ctx context.Context) error  { return nil }
func (f fakeConstructionShip) Navigate(ctx context.Context, dest string, mode routing.EdgeMode) (time.Time, error) {
	return time.Time{}, nil
}
func (f fakeConstructionShip) Refuel(ctx context.Context, units int) error { return nil }
func (f fakeConstructionShip) WaitForTransit(ctx context.Context) error    { return nil }
func (f fakeConstructionShip) WaitForCooldown(ctx context.Context) error   { return nil }
func (f fakeConstructionShip) SetCooldown(cd fleet.Cooldown)               {}

type fakeLedgerTxStore struct{}

func (fakeLedgerTxStore) RecordTransaction(ctx context.Context, tx domainledger.Transaction) error {
	return nil
}
func (fakeLedgerTxStore) Transactions(ctx context.Context, shipSymbol string) ([]domainledger.Transaction, error) {
	return nil, nil
}

func TestConstructionWorld_BestConstructionExport_PicksHighestVolumeExport(t *testing.T) {
	wpMarket, _ := shared.NewWaypoint("X1-AB-MKT", 0, 0)
	wpOther, _ := shared.NewWaypoint("X1-AB-OTHER", 5, 5)
	sys := &universe.System{
		Symbol: "X1-AB",
		Waypoints: map[string]*universe.WaypointDetails{
			"X1-AB-MKT":   {Waypoint: wpMarket, IsMarket: true},
			"X1-AB-OTHER": {Waypoint: wpOther, IsMarket: true},
		},
	}
	marketA := &universe.Market{Symbol: "X1-AB-MKT", TradeGoods: []universe.TradeGood{
		{Symbol: "FAB_MATS", Type: universe.TradeGoodTypeExport, TradeVolume: 100},
	}}
	marketB := &universe.Market{Symbol: "X1-AB-OTHER", TradeGoods: []universe.TradeGood{
		{Symbol: "FAB_MATS", Type: universe.TradeGoodTypeExport, TradeVolume: 40},
	}}
	store := &fakeConstructionStore2{markets: map[string]*universe.Market{"X1-AB-MKT": marketA, "X1-AB-OTHER": marketB}}
	cache := appuniverse.New(store, fakeOpsAPI{system: sys}, nil)

	world := fleetops.NewConstructionWorld(nil, "tok", cache, applledger.New(fakeLedgerTxStore{}, nil), "X1-AB", "X1-AB")
	wp, market, ok, err := world.BestConstructionExport(context.Background(), "X1-AB", "FAB_MATS")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "X1-AB-MKT", wp)
	assert.Equal(t, "X1-AB-MKT", market.Symbol)
}

type fakeConstructionStore2 struct {
	markets map[string]*universe.Market
}

func (fakeConstructionStore2) LoadSystems(ctx context.Context) ([]*universe.System, error) {
	return nil, nil
}
func (fakeConstructionStore2) SaveSystems(ctx context.Context, systems []*universe.System) error {
	return nil
}
func (s *fakeConstructionStore2) LoadMarket(ctx context.Context, wp string) (*universe.Market, time.Time, error) {
	if m, ok := s.markets[wp]; ok {
		return m, time.Now(), nil
	}
	return nil, time.Time{}, nil
}
func (fakeConstructionStore2) SaveMarket(ctx context.Context, wp string, m *universe.Market, ts time.Time) error {
	return nil
}
func (fakeConstructionStore2) LoadShipyard(ctx context.Context, wp string) (*universe.Shipyard, time.Time, error) {
	return nil, time.Time{}, nil
}
func (fakeConstructionStore2) SaveShipyard(ctx context.Context, wp string, y *universe.Shipyard, ts time.Time) error {
	return nil
}
func (fakeConstructionStore2) LoadConstruction(ctx context.Context, wp string) (*universe.Construction, time.Time, error) {
	return nil, time.Time{}, nil
}
func (fakeConstructionStore2) SaveConstruction(ctx context.Context, wp string, c *universe.Construction, ts time.Time) error {
	return nil
}
func (fakeConstructionStore2) LoadJumpGate(ctx context.Context, wp string) (*universe.JumpGate, error) {
	return nil, nil
}
func (fakeConstructionStore2) SaveJumpGate(ctx context.Context, wp string, jg *universe.JumpGate) error {
	return nil
}

func TestConstructionWorld_SupplyConstruction_CallsRPCWithShipWaypoint(t *testing.T) {
	var gotGood string
	var gotUnits int
	mux := http.NewServeMux()
	mux.HandleFunc("/systems/X1-AB/waypoints/X1-AB-GATE/construction/supply", func(w http.ResponseWriter, r *http.Request) {
		gotGood, gotUnits = "FAB_MATS", 10
		w.Write([]byte(`{"data":{"construction":{"materials":[]}}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := apiclient.New(srv.URL, nil)
	world := fleetops.NewConstructionWorld(client, "tok", nil, nil, "X1-AB", "X1-AB")

	ship := fakeConstructionShip{symbol: "HAULER-1", waypoint: "X1-AB-GATE"}
	err := world.SupplyConstruction(context.Background(), ship, "FAB_MATS", 10)
	require.NoError(t, err)
	assert.Equal(t, "FAB_MATS", gotGood)
	assert.Equal(t, 10, gotUnits)
}

func TestConstructionWorld_ProbeShipyardInCapital_FindsFirstShipyard(t *testing.T) {
	wpGate, _ := shared.NewWaypoint("X1-AB-GATE", 0, 0)
	wpYard, _ := shared.NewWaypoint("X1-AB-YARD", 1, 1)
	sys := &universe.System{
		Symbol: "X1-AB",
		Waypoints: map[string]*universe.WaypointDetails{
			"X1-AB-GATE": {Waypoint: wpGate},
			"X1-AB-YARD": {Waypoint: wpYard, IsShipyard: true},
		},
	}
	cache := appuniverse.New(&fakeConstructionStore2{}, fakeOpsAPI{system: sys}, nil)
	world := fleetops.NewConstructionWorld(nil, "tok", cache, nil, "X1-CD", "X1-AB")

	wp, requiresJump, err := world.ProbeShipyardInCapital(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "X1-AB-YARD", wp)
	assert.True(t, requiresJump)
}
