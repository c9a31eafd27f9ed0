package fleetops

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/domain/shared"
	domainuniverse "github.com/voidfleet/controller/internal/domain/universe"
)

// systemDetailWorkers bounds how many systems' waypoint lists are fetched
// concurrently during a bulk topology load (§4.C "bulk fetch and
// populate"); the live universe is thousands of systems, so an unbounded
// fan-out would flood the API client's rate limiter.
const systemDetailWorkers = 8

// Universe implements universe.API over the API client, turning its
// (ctx, token, ...) calls into the cache's token-free port and combining
// the system-stub listing with a per-system waypoint fetch to build the
// full topology universe.Cache expects (§4.C).
type Universe struct {
	client *apiclient.Client
	token  string
}

// NewUniverse constructs a Universe adapter.
func NewUniverse(client *apiclient.Client, token string) *Universe {
	return &Universe{client: client, token: token}
}

// FetchSystemCount implements universe.API.
func (u *Universe) FetchSystemCount(ctx context.Context) (int, error) {
	systems, err := u.client.ListSystems(ctx, u.token)
	if err != nil {
		return 0, fmt.Errorf("fleetops: list systems: %w", err)
	}
	return len(systems), nil
}

// FetchAllSystems implements universe.API: it lists every system stub,
// then fills each one's Waypoints map via a bounded worker pool over
// ListWaypoints.
func (u *Universe) FetchAllSystems(ctx context.Context) ([]*domainuniverse.System, error) {
	systems, err := u.client.ListSystems(ctx, u.token)
	if err != nil {
		return nil, fmt.Errorf("fleetops: list systems: %w", err)
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(systemDetailWorkers)
	for _, sys := range systems {
		sys := sys
		group.Go(func() error {
			waypoints, err := u.client.ListWaypoints(gctx, u.token, sys.Symbol)
			if err != nil {
				return fmt.Errorf("fleetops: list waypoints %s: %w", sys.Symbol, err)
			}
			sys.Waypoints = make(map[string]*domainuniverse.WaypointDetails, len(waypoints))
			for _, wp := range waypoints {
				sys.Waypoints[wp.Symbol] = wp
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return systems, nil
}

// FetchMarket implements universe.API.
func (u *Universe) FetchMarket(ctx context.Context, wp string) (*domainuniverse.Market, error) {
	m, err := u.client.GetMarket(ctx, u.token, shared.ExtractSystemSymbol(wp), wp)
	if err != nil {
		return nil, fmt.Errorf("fleetops: fetch market %s: %w", wp, err)
	}
	return &m, nil
}

// FetchShipyard implements universe.API.
func (u *Universe) FetchShipyard(ctx context.Context, wp string) (*domainuniverse.Shipyard, error) {
	s, err := u.client.GetShipyard(ctx, u.token, shared.ExtractSystemSymbol(wp), wp)
	if err != nil {
		return nil, fmt.Errorf("fleetops: fetch shipyard %s: %w", wp, err)
	}
	return &s, nil
}

// FetchConstruction implements universe.API.
func (u *Universe) FetchConstruction(ctx context.Context, wp string) (*domainuniverse.Construction, error) {
	c, err := u.client.GetConstruction(ctx, u.token, shared.ExtractSystemSymbol(wp), wp)
	if err != nil {
		return nil, fmt.Errorf("fleetops: fetch construction %s: %w", wp, err)
	}
	return &c, nil
}

// FetchJumpGate implements universe.API.
func (u *Universe) FetchJumpGate(ctx context.Context, wp string) (*domainuniverse.JumpGate, error) {
	jg, err := u.client.GetJumpGate(ctx, u.token, shared.ExtractSystemSymbol(wp), wp)
	if err != nil {
		return nil, fmt.Errorf("fleetops: fetch jump gate %s: %w", wp, err)
	}
	return &jg, nil
}
