package universe_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appuniverse "github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/shared"
	"github.com/voidfleet/controller/internal/domain/universe"
)

type fakeStore struct {
	systems       []*universe.System
	markets       map[string]*universe.Market
	shipyards     map[string]*universe.Shipyard
	constructions map[string]*universe.Construction
	gates         map[string]*universe.JumpGate
	saveCalls     int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		markets:       map[string]*universe.Market{},
		shipyards:     map[string]*universe.Shipyard{},
		constructions: map[string]*universe.Construction{},
		gates:         map[string]*universe.JumpGate{},
	}
}

func (s *fakeStore) LoadSystems(ctx context.Context) ([]*universe.System, error) { return s.systems, nil }
func (s *fakeStore) SaveSystems(ctx context.Context, systems []*universe.System) error {
	atomic.AddInt32(&s.saveCalls, 1)
	s.systems = systems
	return nil
}
func (s *fakeStore) LoadMarket(ctx context.Context, wp string) (*universe.Market, time.Time, error) {
	return s.markets[wp], time.Time{}, nil
}
func (s *fakeStore) SaveMarket(ctx context.Context, wp string, m *universe.Market, ts time.Time) error {
	s.markets[wp] = m
	return nil
}
func (s *fakeStore) LoadShipyard(ctx context.Context, wp string) (*universe.Shipyard, time.Time, error) {
	return s.shipyards[wp], time.Time{}, nil
}
func (s *fakeStore) SaveShipyard(ctx context.Context, wp string, sy *universe.Shipyard, ts time.Time) error {
	s.shipyards[wp] = sy
	return nil
}
func (s *fakeStore) LoadConstruction(ctx context.Context, wp string) (*universe.Construction, time.Time, error) {
	return s.constructions[wp], time.Time{}, nil
}
func (s *fakeStore) SaveConstruction(ctx context.Context, wp string, c *universe.Construction, ts time.Time) error {
	s.constructions[wp] = c
	return nil
}
func (s *fakeStore) LoadJumpGate(ctx context.Context, wp string) (*universe.JumpGate, error) {
	return s.gates[wp], nil
}
func (s *fakeStore) SaveJumpGate(ctx context.Context, wp string, jg *universe.JumpGate) error {
	s.gates[wp] = jg
	return nil
}

type fakeAPI struct {
	systems          []*universe.System
	fetchCalls       int32
	market           *universe.Market
	shipyard         *universe.Shipyard
	construction     *universe.Construction
	jumpGate         *universe.JumpGate
}

func (a *fakeAPI) FetchSystemCount(ctx context.Context) (int, error) { return len(a.systems), nil }
func (a *fakeAPI) FetchAllSystems(ctx context.Context) ([]*universe.System, error) {
	atomic.AddInt32(&a.fetchCalls, 1)
	return a.systems, nil
}
func (a *fakeAPI) FetchMarket(ctx context.Context, wp string) (*universe.Market, error) {
	return a.market, nil
}
func (a *fakeAPI) FetchShipyard(ctx context.Context, wp string) (*universe.Shipyard, error) {
	return a.shipyard, nil
}
func (a *fakeAPI) FetchConstruction(ctx context.Context, wp string) (*universe.Construction, error) {
	return a.construction, nil
}
func (a *fakeAPI) FetchJumpGate(ctx context.Context, wp string) (*universe.JumpGate, error) {
	return a.jumpGate, nil
}

func wpDetails(symbol string, isMarket bool) *universe.WaypointDetails {
	wp, err := shared.NewWaypoint(symbol, 0, 0)
	if err != nil {
		panic(err)
	}
	return &universe.WaypointDetails{Waypoint: wp, IsMarket: isMarket}
}

func TestCache_Systems_FetchesFromAPIOnFirstUse(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{systems: []*universe.System{{Symbol: "X1-AB", Waypoints: map[string]*universe.WaypointDetails{
		"X1-AB-WP": wpDetails("X1-AB-WP", true),
	}}}}
	c := appuniverse.New(store, api, nil)

	systems, err := c.Systems(context.Background())
	require.NoError(t, err)
	require.Len(t, systems, 1)
	assert.Equal(t, "X1-AB", systems[0].Symbol)
	assert.EqualValues(t, 1, api.fetchCalls)

	// Second call hits the in-memory layer, not the API again.
	_, err = c.Systems(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, api.fetchCalls)
}

func TestCache_Systems_PrefersStorageWhenCountMatches(t *testing.T) {
	stored := []*universe.System{{Symbol: "X1-AB", Waypoints: map[string]*universe.WaypointDetails{}}}
	store := newFakeStore()
	store.systems = stored
	api := &fakeAPI{systems: stored}
	c := appuniverse.New(store, api, nil)

	systems, err := c.Systems(context.Background())
	require.NoError(t, err)
	require.Len(t, systems, 1)
	assert.EqualValues(t, 0, api.fetchCalls)
}

func TestCache_Waypoints_ReturnsUnknownSystemError(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{}
	c := appuniverse.New(store, api, nil)

	_, err := c.Waypoints(context.Background(), "X1-ZZ")
	assert.Error(t, err)
}

func TestCache_GetMarket_FallsBackThroughStoreThenAPI(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{market: &universe.Market{Symbol: "X1-AB-WP"}}
	c := appuniverse.New(store, api, nil)

	m, _, err := c.GetMarket(context.Background(), "X1-AB-WP")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "X1-AB-WP", m.Symbol)
	assert.Equal(t, m, store.markets["X1-AB-WP"])
}

func TestCache_PeekMarket_ReportsAbsenceWithoutFetching(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{market: &universe.Market{Symbol: "X1-AB-WP"}}
	c := appuniverse.New(store, api, nil)

	_, ok := c.PeekMarket("X1-AB-WP")
	assert.False(t, ok)

	_, _, err := c.GetMarket(context.Background(), "X1-AB-WP")
	require.NoError(t, err)

	_, ok = c.PeekMarket("X1-AB-WP")
	assert.True(t, ok)
}

func TestCache_RefreshMarket_AlwaysHitsAPI(t *testing.T) {
	store := newFakeStore()
	store.markets["X1-AB-WP"] = &universe.Market{Symbol: "stale"}
	api := &fakeAPI{market: &universe.Market{Symbol: "fresh"}}
	c := appuniverse.New(store, api, nil)

	require.NoError(t, c.RefreshMarket(context.Background(), "X1-AB-WP"))
	assert.Equal(t, "fresh", store.markets["X1-AB-WP"].Symbol)
}

func TestCache_GetShipyard_CachesAfterFirstFetch(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{shipyard: &universe.Shipyard{WaypointSymbol: "X1-AB-WP"}}
	c := appuniverse.New(store, api, nil)

	_, _, err := c.GetShipyard(context.Background(), "X1-AB-WP")
	require.NoError(t, err)

	_, ok := c.PeekShipyard("X1-AB-WP")
	assert.True(t, ok)
}

func TestCache_GetConstruction_CachesAfterFirstFetch(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{construction: &universe.Construction{WaypointSymbol: "X1-AB-GATE"}}
	c := appuniverse.New(store, api, nil)

	con, _, err := c.GetConstruction(context.Background(), "X1-AB-GATE")
	require.NoError(t, err)
	require.NotNil(t, con)
	assert.Equal(t, con, store.constructions["X1-AB-GATE"])
}

func TestCache_GetJumpGateConnections_CachesAfterFirstFetch(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{jumpGate: &universe.JumpGate{WaypointSymbol: "X1-AB-GATE", Connections: []string{"X1-CD-GATE"}}}
	c := appuniverse.New(store, api, nil)

	jg, err := c.GetJumpGateConnections(context.Background(), "X1-AB-GATE")
	require.NoError(t, err)
	require.NotNil(t, jg)
	assert.Equal(t, []string{"X1-CD-GATE"}, jg.Connections)
}

func TestCache_SearchWaypoints_FiltersByMarketFlag(t *testing.T) {
	store := newFakeStore()
	sys := &universe.System{Symbol: "X1-AB", Waypoints: map[string]*universe.WaypointDetails{
		"X1-AB-MKT": wpDetails("X1-AB-MKT", true),
		"X1-AB-OUT": wpDetails("X1-AB-OUT", false),
	}}
	api := &fakeAPI{systems: []*universe.System{sys}}
	c := appuniverse.New(store, api, nil)

	matches, err := c.SearchWaypoints(context.Background(), "X1-AB", universe.WaypointFilter{Market: true})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "X1-AB-MKT", matches[0].Symbol())
}
