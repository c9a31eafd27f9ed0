package shipscripts

import (
	"context"

	"github.com/voidfleet/controller/internal/domain/routing"
)

// JumpGateGraph is the min-cooldown path port over the charted jumpgate
// graph (§4.D, §4.J Explorer).
type JumpGateGraph interface {
	MinCooldownPath(ctx context.Context, from, to string) ([]routing.JumpEdge, error)
	FetchConnections(ctx context.Context, gateWaypoint string) error
}

// GateReservations hands out and clears a durable per-ship jumpgate
// reservation so two explorers never plan through the same gate at once.
type GateReservations interface {
	Reserve(ctx context.Context, ship string) (startGate, targetGate string, ok bool, err error)
	Clear(ctx context.Context, ship string) error
}

// Jumper performs the in-game jump RPC.
type Jumper interface {
	Jump(ctx context.Context, ship ShipAPI, targetGate string) error
}

// RunExplorer resolves a jumpgate reservation, computes a min-cooldown
// path, jumps along it, fetches the destination's connections, clears the
// reservation, and repeats (§4.J Explorer).
func RunExplorer(ctx context.Context, ship ShipAPI, router Router, graph JumpGateGraph, reservations GateReservations, jumper Jumper) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		startGate, targetGate, ok, err := reservations.Reserve(ctx, ship.Symbol())
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		path, err := graph.MinCooldownPath(ctx, startGate, targetGate)
		if err != nil {
			_ = reservations.Clear(ctx, ship.Symbol())
			return err
		}

		if err := GotoWaypoint(ctx, ship, router, startGate); err != nil {
			return err
		}
		if err := ship.Orbit(ctx); err != nil {
			return err
		}

		for _, hop := range path {
			if err := ship.WaitForCooldown(ctx); err != nil {
				return err
			}
			if err := jumper.Jump(ctx, ship, hop.ToWaypoint); err != nil {
				return err
			}
		}

		if err := graph.FetchConnections(ctx, targetGate); err != nil {
			return err
		}
		if err := reservations.Clear(ctx, ship.Symbol()); err != nil {
			return err
		}
	}
}
