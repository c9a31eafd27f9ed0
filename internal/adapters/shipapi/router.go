package shipapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/voidfleet/controller/internal/application/pathfinding"
	"github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/routing"
)

// CachedRouter adapts the Universe cache + in-system Dijkstra router
// (internal/application/pathfinding) into shipscripts.Router: it builds
// one pathfinding.System per system symbol from cached waypoint data,
// memoizing it until Invalidate is called (the world only changes
// between Universe refresh ticks, never mid-route-plan).
type CachedRouter struct {
	cache *universe.Cache

	mu      sync.Mutex
	systems map[string]*pathfinding.System
}

// NewCachedRouter wraps cache.
func NewCachedRouter(cache *universe.Cache) *CachedRouter {
	return &CachedRouter{cache: cache, systems: map[string]*pathfinding.System{}}
}

// Invalidate drops a cached System so the next PlanRoute rebuilds it from
// fresh waypoint data.
func (r *CachedRouter) Invalidate(systemSymbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.systems, systemSymbol)
}

// System returns the memoized pathfinding.System for systemSymbol,
// building it from cached waypoint data on first use. Exported so a
// Planner bridge can build a routing.DurationMatrix from the same system
// the router itself plans against.
func (r *CachedRouter) System(ctx context.Context, systemSymbol string) (*pathfinding.System, error) {
	return r.system(ctx, systemSymbol)
}

func (r *CachedRouter) system(ctx context.Context, systemSymbol string) (*pathfinding.System, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sys, ok := r.systems[systemSymbol]; ok {
		return sys, nil
	}

	waypoints, err := r.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return nil, fmt.Errorf("shipapi: load waypoints %s: %w", systemSymbol, err)
	}
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("shipapi: no charted waypoints for system %s", systemSymbol)
	}

	sys := &pathfinding.System{Waypoints: make(map[string]pathfinding.WaypointInfo, len(waypoints))}
	for symbol, wp := range waypoints {
		sys.Waypoints[symbol] = pathfinding.WaypointInfo{
			Symbol:   wp.Symbol(),
			X:        wp.Waypoint.X,
			Y:        wp.Waypoint.Y,
			IsMarket: wp.IsMarket,
		}
	}
	r.systems[systemSymbol] = sys
	return sys, nil
}

// PlanRoute implements shipscripts.Router.
func (r *CachedRouter) PlanRoute(ctx context.Context, req routing.RouteRequest) (*routing.Route, error) {
	sys, err := r.system(ctx, req.SystemSymbol)
	if err != nil {
		return nil, err
	}
	return pathfinding.PlanRoute(sys, req)
}
