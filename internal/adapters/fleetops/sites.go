package fleetops

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/application/universe"
	domainuniverse "github.com/voidfleet/controller/internal/domain/universe"
)

// SiteResolver implements agentcontroller.SiteResolver: spawn_run_ship
// needs a concrete waypoint for behaviors whose ShipConfig carries no site
// of its own (mining/siphon/construction/explorer all just name a
// BehaviorKind, not a waypoint), so it resolves the one charted waypoint
// of the needed type in a system from the Universe cache.
type SiteResolver struct {
	cache *universe.Cache
}

// NewSiteResolver constructs a SiteResolver adapter.
func NewSiteResolver(cache *universe.Cache) *SiteResolver {
	return &SiteResolver{cache: cache}
}

func (s *SiteResolver) firstOfType(ctx context.Context, systemSymbol string, t domainuniverse.WaypointType) (string, bool, error) {
	waypoints, err := s.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return "", false, fmt.Errorf("fleetops: load waypoints %s: %w", systemSymbol, err)
	}
	for symbol, wp := range waypoints {
		if wp.Type == t {
			return symbol, true, nil
		}
	}
	return "", false, nil
}

// EngineeredAsteroid implements agentcontroller.SiteResolver.
func (s *SiteResolver) EngineeredAsteroid(ctx context.Context, systemSymbol string) (string, bool, error) {
	return s.firstOfType(ctx, systemSymbol, domainuniverse.WaypointTypeEngineeredAsteroid)
}

// GasGiant implements agentcontroller.SiteResolver.
func (s *SiteResolver) GasGiant(ctx context.Context, systemSymbol string) (string, bool, error) {
	return s.firstOfType(ctx, systemSymbol, domainuniverse.WaypointTypeGasGiant)
}

// JumpGate implements agentcontroller.SiteResolver.
func (s *SiteResolver) JumpGate(ctx context.Context, systemSymbol string) (string, bool, error) {
	return s.firstOfType(ctx, systemSymbol, domainuniverse.WaypointTypeJumpGate)
}
