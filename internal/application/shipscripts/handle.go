// Package shipscripts implements the per-ship behavior state machines
// (§4.J): Probe, Logistics, the mining/siphon variants, ConstructionHauler,
// Explorer, and Scrap, plus the shared goto_waypoint navigation helper they
// all use. Grounded on the teacher's ship command handlers
// (internal/application/ship/commands, internal/application/ship/strategies)
// which already separate "what a ship can do" (orbit/dock/navigate/refuel)
// from "what decides to do it"; that split becomes the ShipAPI port here
// and the per-behavior Run functions.
package shipscripts

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/routing"
)

// ShipAPI is the Ship Controller handle contract: a non-owning view of one
// ship that lets a script read its state and drive the in-game RPCs, all
// serialized under that ship's own lock (§3, §5).
type ShipAPI interface {
	Symbol() string
	Snapshot() fleet.Ship
	Orbit(ctx context.Context) error
	Dock(ctx context.Context) error
	Navigate(ctx context.Context, dest string, mode routing.EdgeMode) (arrival time.Time, err error)
	Refuel(ctx context.Context, units int) error
	WaitForTransit(ctx context.Context) error
	WaitForCooldown(ctx context.Context) error
	// SetCooldown records a reactor cooldown an extract/siphon/survey RPC
	// started, so a later WaitForCooldown actually waits it out.
	SetCooldown(cd fleet.Cooldown)
}

// Router plans in-system routes (§4.D), used by goto_waypoint.
type Router interface {
	PlanRoute(ctx context.Context, req routing.RouteRequest) (*routing.Route, error)
}

// jitter sleeps a random 0-60s startup delay (§4.J Probe).
func jitter(ctx context.Context, sleep func(context.Context, time.Duration) error) error {
	d := time.Duration(rand.Intn(60)) * time.Second
	return sleep(ctx, d)
}

// GotoWaypoint drives ship to target via the in-system router, refueling
// whenever the next hop (plus terminal fuel if it's the last hop) would
// exceed current fuel (§4.J "navigation"). Refueling buys the largest
// multiple of 100 that does not exceed capacity, topping up to full only
// when that would still leave less than required.
func GotoWaypoint(ctx context.Context, ship ShipAPI, router Router, target string) error {
	if err := ship.WaitForTransit(ctx); err != nil {
		return err
	}

	snap := ship.Snapshot()
	if snap.Nav.WaypointSymbol == target {
		return nil
	}

	route, err := router.PlanRoute(ctx, routing.RouteRequest{
		SystemSymbol: snap.Nav.SystemSymbol,
		Src:          snap.Nav.WaypointSymbol,
		Dst:          target,
		EngineSpeed:  snap.Engine.Speed,
		StartFuel:    snap.Fuel.Current,
		FuelCapacity: snap.Fuel.Capacity,
	})
	if err != nil {
		return fmt.Errorf("goto_waypoint %s: %w", target, err)
	}

	for i, hop := range route.Hops {
		isLast := i == len(route.Hops)-1
		needed := hop.FuelCost
		if isLast {
			needed += route.ReqTerminalFuel
		}

		snap = ship.Snapshot()
		if snap.Fuel.Current < needed {
			if !hop.SrcIsMarket {
				return fmt.Errorf("goto_waypoint %s: need refuel at non-market %s", target, hop.FromWaypoint)
			}
			if err := ship.Dock(ctx); err != nil {
				return err
			}
			if err := refuel(ctx, ship, snap.Fuel.Capacity, needed); err != nil {
				return err
			}
		}

		if err := ship.Orbit(ctx); err != nil {
			return err
		}
		arrival, err := ship.Navigate(ctx, hop.ToWaypoint, hop.Mode)
		if err != nil {
			return fmt.Errorf("goto_waypoint: navigate %s->%s: %w", hop.FromWaypoint, hop.ToWaypoint, err)
		}
		wait := time.Until(arrival) + time.Second
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := ship.WaitForTransit(ctx); err != nil {
			return err
		}
	}
	return nil
}

// refuel buys the largest multiple of 100 fuel units not exceeding
// capacity, unless that would still leave less than needed, in which case
// it tops up to full (§4.J).
func refuel(ctx context.Context, ship ShipAPI, capacity, needed int) error {
	buy := (capacity / 100) * 100
	if buy < needed {
		buy = capacity
	}
	return ship.Refuel(ctx, buy)
}
