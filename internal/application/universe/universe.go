// Package universe is the in-memory cache over the persistence adapter and
// the API client for systems, waypoints, markets, shipyards, constructions,
// and jumpgates (§4.C). It is grounded on the teacher's repository-backed
// query handlers (e.g. internal/application/shipyard/queries,
// internal/application/scouting/queries), generalized from one handler per
// query into a single layered-cache service, as instructed by design note
// "Cache layering (memory -> storage -> API): enforce single-flight per
// key".
package universe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/voidfleet/controller/internal/domain/universe"
)

// Store is the persistence-adapter port this cache falls back to.
type Store interface {
	LoadSystems(ctx context.Context) ([]*universe.System, error)
	SaveSystems(ctx context.Context, systems []*universe.System) error
	LoadMarket(ctx context.Context, wp string) (*universe.Market, time.Time, error)
	SaveMarket(ctx context.Context, wp string, m *universe.Market, ts time.Time) error
	LoadShipyard(ctx context.Context, wp string) (*universe.Shipyard, time.Time, error)
	SaveShipyard(ctx context.Context, wp string, s *universe.Shipyard, ts time.Time) error
	LoadConstruction(ctx context.Context, wp string) (*universe.Construction, time.Time, error)
	SaveConstruction(ctx context.Context, wp string, c *universe.Construction, ts time.Time) error
	LoadJumpGate(ctx context.Context, wp string) (*universe.JumpGate, error)
	SaveJumpGate(ctx context.Context, wp string, jg *universe.JumpGate) error
}

// API is the remote-fetch port this cache falls back to when storage misses.
type API interface {
	FetchSystemCount(ctx context.Context) (int, error)
	FetchAllSystems(ctx context.Context) ([]*universe.System, error)
	FetchMarket(ctx context.Context, wp string) (*universe.Market, error)
	FetchShipyard(ctx context.Context, wp string) (*universe.Shipyard, error)
	FetchConstruction(ctx context.Context, wp string) (*universe.Construction, error)
	FetchJumpGate(ctx context.Context, wp string) (*universe.JumpGate, error)
}

// Cache is the layered universe view: memory -> storage -> API.
type Cache struct {
	store Store
	api   API
	clock func() time.Time

	mu       sync.RWMutex
	systems  map[string]*universe.System
	markets  map[string]marketEntry
	shipyards map[string]shipyardEntry
	constructions map[string]constructionEntry
	gates    map[string]*universe.JumpGate

	flight sync.Map // key -> *sync.WaitGroup, single-flight dedupe per key
}

type marketEntry struct {
	market *universe.Market
	at     time.Time
}

type shipyardEntry struct {
	shipyard *universe.Shipyard
	at       time.Time
}

type constructionEntry struct {
	construction *universe.Construction
	at           time.Time
}

// New constructs a Cache backed by store and api.
func New(store Store, api API, clock func() time.Time) *Cache {
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		store:         store,
		api:           api,
		clock:         clock,
		systems:       make(map[string]*universe.System),
		markets:       make(map[string]marketEntry),
		shipyards:     make(map[string]shipyardEntry),
		constructions: make(map[string]constructionEntry),
		gates:         make(map[string]*universe.JumpGate),
	}
}

// singleFlight runs fn at most once concurrently per key; concurrent callers
// for the same key block until the first caller's fn returns, then each
// re-reads through fn (expected to be cache-backed and therefore cheap on
// the second pass).
func (c *Cache) singleFlight(key string, fn func() error) error {
	for {
		actual, loaded := c.flight.LoadOrStore(key, new(sync.WaitGroup))
		wg := actual.(*sync.WaitGroup)
		if !loaded {
			wg.Add(1)
			err := fn()
			c.flight.Delete(key)
			wg.Done()
			return err
		}
		wg.Wait()
	}
}

// Systems returns the cached system topology, bulk-loading from storage or
// the API on first use (§4.C: topology never goes stale within a reset).
func (c *Cache) Systems(ctx context.Context) ([]*universe.System, error) {
	c.mu.RLock()
	if len(c.systems) > 0 {
		out := make([]*universe.System, 0, len(c.systems))
		for _, s := range c.systems {
			out = append(out, s)
		}
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	err := c.singleFlight("systems", func() error {
		stored, err := c.store.LoadSystems(ctx)
		if err != nil {
			return err
		}
		remoteCount, err := c.api.FetchSystemCount(ctx)
		if err != nil {
			return err
		}
		var systems []*universe.System
		if len(stored) == remoteCount && remoteCount > 0 {
			systems = stored
		} else {
			systems, err = c.api.FetchAllSystems(ctx)
			if err != nil {
				return err
			}
			if err := c.store.SaveSystems(ctx, systems); err != nil {
				return err
			}
		}
		c.mu.Lock()
		for _, s := range systems {
			c.systems[s.Symbol] = s
		}
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*universe.System, 0, len(c.systems))
	for _, s := range c.systems {
		out = append(out, s)
	}
	return out, nil
}

// Waypoints returns the waypoint details for one system, loaded via Systems.
func (c *Cache) Waypoints(ctx context.Context, systemSymbol string) (map[string]*universe.WaypointDetails, error) {
	systems, err := c.Systems(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range systems {
		if s.Symbol == systemSymbol {
			return s.Waypoints, nil
		}
	}
	return nil, fmt.Errorf("unknown system %s", systemSymbol)
}

// GetMarket returns the cached market snapshot, refreshing through storage
// then the API when missing.
func (c *Cache) GetMarket(ctx context.Context, wp string) (*universe.Market, time.Time, error) {
	c.mu.RLock()
	if e, ok := c.markets[wp]; ok {
		c.mu.RUnlock()
		return e.market, e.at, nil
	}
	c.mu.RUnlock()

	err := c.singleFlight("market:"+wp, func() error {
		m, ts, err := c.store.LoadMarket(ctx, wp)
		if err == nil && m != nil {
			c.mu.Lock()
			c.markets[wp] = marketEntry{market: m, at: ts}
			c.mu.Unlock()
			return nil
		}
		remote, err := c.api.FetchMarket(ctx, wp)
		if err != nil {
			return err
		}
		return c.SaveMarket(ctx, wp, remote)
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e := c.markets[wp]
	return e.market, e.at, nil
}

// PeekMarket returns the in-memory market timestamp without fetching from
// storage or the API, for callers that only need to know how stale a
// snapshot is (§4.J Probe "already fresh enough" check).
func (c *Cache) PeekMarket(wp string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.markets[wp]
	if !ok {
		return time.Time{}, false
	}
	return e.at, true
}

// RefreshMarket force-fetches wp from the live API regardless of cache
// freshness and stores the result (§4.J Probe refresh_market).
func (c *Cache) RefreshMarket(ctx context.Context, wp string) error {
	remote, err := c.api.FetchMarket(ctx, wp)
	if err != nil {
		return err
	}
	return c.SaveMarket(ctx, wp, remote)
}

// SaveMarket persists a fresh market snapshot and updates the in-memory
// layer. Only the snapshot row is stored; no trade or transaction rows are
// written.
func (c *Cache) SaveMarket(ctx context.Context, wp string, m *universe.Market) error {
	now := c.clock()
	if err := c.store.SaveMarket(ctx, wp, m, now); err != nil {
		return err
	}
	c.mu.Lock()
	c.markets[wp] = marketEntry{market: m, at: now}
	c.mu.Unlock()
	return nil
}

// GetShipyard returns the cached shipyard snapshot.
func (c *Cache) GetShipyard(ctx context.Context, wp string) (*universe.Shipyard, time.Time, error) {
	c.mu.RLock()
	if e, ok := c.shipyards[wp]; ok {
		c.mu.RUnlock()
		return e.shipyard, e.at, nil
	}
	c.mu.RUnlock()

	err := c.singleFlight("shipyard:"+wp, func() error {
		s, ts, err := c.store.LoadShipyard(ctx, wp)
		if err == nil && s != nil {
			c.mu.Lock()
			c.shipyards[wp] = shipyardEntry{shipyard: s, at: ts}
			c.mu.Unlock()
			return nil
		}
		remote, err := c.api.FetchShipyard(ctx, wp)
		if err != nil {
			return err
		}
		return c.SaveShipyard(ctx, wp, remote)
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e := c.shipyards[wp]
	return e.shipyard, e.at, nil
}

// PeekShipyard returns the in-memory shipyard timestamp without fetching.
func (c *Cache) PeekShipyard(wp string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.shipyards[wp]
	if !ok {
		return time.Time{}, false
	}
	return e.at, true
}

// RefreshShipyard force-fetches wp from the live API regardless of cache
// freshness and stores the result (§4.J Probe refresh_shipyard).
func (c *Cache) RefreshShipyard(ctx context.Context, wp string) error {
	remote, err := c.api.FetchShipyard(ctx, wp)
	if err != nil {
		return err
	}
	return c.SaveShipyard(ctx, wp, remote)
}

// SaveShipyard persists a fresh shipyard snapshot.
func (c *Cache) SaveShipyard(ctx context.Context, wp string, s *universe.Shipyard) error {
	now := c.clock()
	if err := c.store.SaveShipyard(ctx, wp, s, now); err != nil {
		return err
	}
	c.mu.Lock()
	c.shipyards[wp] = shipyardEntry{shipyard: s, at: now}
	c.mu.Unlock()
	return nil
}

// GetConstruction returns the cached construction state, or nil if wp has none.
func (c *Cache) GetConstruction(ctx context.Context, wp string) (*universe.Construction, time.Time, error) {
	c.mu.RLock()
	if e, ok := c.constructions[wp]; ok {
		c.mu.RUnlock()
		return e.construction, e.at, nil
	}
	c.mu.RUnlock()

	err := c.singleFlight("construction:"+wp, func() error {
		con, ts, err := c.store.LoadConstruction(ctx, wp)
		if err == nil && con != nil {
			c.mu.Lock()
			c.constructions[wp] = constructionEntry{construction: con, at: ts}
			c.mu.Unlock()
			return nil
		}
		remote, err := c.api.FetchConstruction(ctx, wp)
		if err != nil {
			return err
		}
		return c.UpdateConstruction(ctx, wp, remote)
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e := c.constructions[wp]
	return e.construction, e.at, nil
}

// UpdateConstruction persists a fresh construction snapshot.
func (c *Cache) UpdateConstruction(ctx context.Context, wp string, con *universe.Construction) error {
	now := c.clock()
	if err := c.store.SaveConstruction(ctx, wp, con, now); err != nil {
		return err
	}
	c.mu.Lock()
	c.constructions[wp] = constructionEntry{construction: con, at: now}
	c.mu.Unlock()
	return nil
}

// GetJumpGateConnections returns the known reachable gate symbols and
// whether the gate itself is constructed.
func (c *Cache) GetJumpGateConnections(ctx context.Context, wp string) (*universe.JumpGate, error) {
	c.mu.RLock()
	if jg, ok := c.gates[wp]; ok {
		c.mu.RUnlock()
		return jg, nil
	}
	c.mu.RUnlock()

	err := c.singleFlight("gate:"+wp, func() error {
		jg, err := c.store.LoadJumpGate(ctx, wp)
		if err == nil && jg != nil {
			c.mu.Lock()
			c.gates[wp] = jg
			c.mu.Unlock()
			return nil
		}
		remote, err := c.api.FetchJumpGate(ctx, wp)
		if err != nil {
			return err
		}
		if err := c.store.SaveJumpGate(ctx, wp, remote); err != nil {
			return err
		}
		c.mu.Lock()
		c.gates[wp] = remote
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gates[wp], nil
}

// RefreshJumpGateConnections force-fetches wp's jumpgate connections from
// the live API, for an Explorer that just jumped to a gate whose outbound
// edges aren't charted yet (§4.J Explorer "fetch connections").
func (c *Cache) RefreshJumpGateConnections(ctx context.Context, wp string) error {
	remote, err := c.api.FetchJumpGate(ctx, wp)
	if err != nil {
		return err
	}
	if err := c.store.SaveJumpGate(ctx, wp, remote); err != nil {
		return err
	}
	c.mu.Lock()
	c.gates[wp] = remote
	c.mu.Unlock()
	return nil
}

// SearchWaypoints applies a filter across a system's cached waypoints (§4.C);
// all filters in f must match.
func (c *Cache) SearchWaypoints(ctx context.Context, systemSymbol string, f universe.WaypointFilter) ([]*universe.WaypointDetails, error) {
	wps, err := c.Waypoints(ctx, systemSymbol)
	if err != nil {
		return nil, err
	}
	var out []*universe.WaypointDetails
	for _, wp := range wps {
		var mkt *universe.Market
		if wp.IsMarket {
			m, _, _ := c.GetMarket(ctx, wp.Symbol())
			mkt = m
		}
		if f.Matches(wp, mkt) {
			out = append(out, wp)
		}
	}
	return out, nil
}
