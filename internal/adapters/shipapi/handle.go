// Package shipapi adapts the Agent Controller's owned Ship table and the
// API Client into the narrow ShipAPI/Router ports each per-ship script
// (internal/application/shipscripts) needs, mirroring the teacher's
// ship-handle pattern (internal/application/navigation: a non-owning view
// over one ship, locked per-symbol, driving orbit/dock/navigate/refuel
// through the same HTTP client every other handle shares).
package shipapi

import (
	"context"
	"time"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/application/agentcontroller"
	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/routing"
	"github.com/voidfleet/controller/internal/domain/shared"
)

// Handle is the Ship Controller handle (§3 glossary): a non-owning view
// over one ship, reading its live snapshot from the Controller and
// driving it through the API client under the agent's bearer token.
type Handle struct {
	symbol     string
	token      string
	client     *apiclient.Client
	controller *agentcontroller.Controller
}

// NewHandle binds a ShipAPI to one ship symbol.
func NewHandle(symbol, token string, client *apiclient.Client, controller *agentcontroller.Controller) *Handle {
	return &Handle{symbol: symbol, token: token, client: client, controller: controller}
}

func (h *Handle) Symbol() string { return h.symbol }

// Snapshot returns the Controller's current view of the ship; it does not
// call the live API (the Controller keeps it fresh from prior RPC
// responses, per §4.K "owns the ship table").
func (h *Handle) Snapshot() fleet.Ship {
	s, ok := h.controller.Ship(h.symbol)
	if !ok {
		return fleet.Ship{Symbol: h.symbol}
	}
	return s
}

func (h *Handle) put(s fleet.Ship) { h.controller.PutShip(s) }

func (h *Handle) Orbit(ctx context.Context) error {
	if err := h.client.Orbit(ctx, h.token, h.symbol); err != nil {
		return err
	}
	s := h.Snapshot()
	s.Nav.Status = fleet.NavStatusInOrbit
	h.put(s)
	return nil
}

func (h *Handle) Dock(ctx context.Context) error {
	if err := h.client.Dock(ctx, h.token, h.symbol); err != nil {
		return err
	}
	s := h.Snapshot()
	s.Nav.Status = fleet.NavStatusDocked
	h.put(s)
	return nil
}

func (h *Handle) Navigate(ctx context.Context, dest string, mode routing.EdgeMode) (time.Time, error) {
	s := h.Snapshot()
	flightMode := translateFlightMode(mode)
	if s.Nav.FlightMode != flightMode {
		if err := h.client.SetFlightMode(ctx, h.token, h.symbol, flightMode); err != nil {
			return time.Time{}, err
		}
		s.Nav.FlightMode = flightMode
	}
	arrival, err := h.client.Navigate(ctx, h.token, h.symbol, dest)
	if err != nil {
		return time.Time{}, err
	}
	s.Nav.Status = fleet.NavStatusInTransit
	s.Nav.Route = &fleet.Route{OriginSymbol: s.Nav.WaypointSymbol, DestinationSymbol: dest, Arrival: arrival}
	h.put(s)
	return arrival, nil
}

func (h *Handle) Refuel(ctx context.Context, units int) error {
	if err := h.client.Refuel(ctx, h.token, h.symbol, units); err != nil {
		return err
	}
	s := h.Snapshot()
	s.Fuel.Current = s.Fuel.Capacity
	h.put(s)
	return nil
}

// WaitForTransit blocks until the ship's last known navigation arrival
// has passed (§4.J: every script waits out its own transit before acting).
func (h *Handle) WaitForTransit(ctx context.Context) error {
	s := h.Snapshot()
	if s.Nav.Route == nil {
		return nil
	}
	return sleepUntil(ctx, s.Nav.Route.Arrival)
}

// WaitForCooldown blocks until the ship's reactor cooldown expires.
func (h *Handle) WaitForCooldown(ctx context.Context) error {
	s := h.Snapshot()
	if s.Cooldown.Expiration == nil {
		return nil
	}
	return sleepUntil(ctx, *s.Cooldown.Expiration)
}

// SetCooldown records a reactor cooldown an extract/siphon/survey RPC
// response reported, so a later WaitForCooldown call actually waits it out.
func (h *Handle) SetCooldown(cd fleet.Cooldown) {
	s := h.Snapshot()
	s.Cooldown = cd
	h.put(s)
}

func sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// translateFlightMode maps the router's two-mode edge cost model onto the
// API's four flight modes: CRUISE for a cruise-cost edge, BURN for a
// burn-cost edge (§4.D "in-system fuel-aware route").
func translateFlightMode(mode routing.EdgeMode) shared.FlightMode {
	if mode == routing.EdgeModeBurn {
		return shared.FlightModeBurn
	}
	return shared.FlightModeCruise
}
