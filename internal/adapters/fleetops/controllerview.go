package fleetops

import (
	"context"

	"github.com/voidfleet/controller/internal/application/agentcontroller"
	"github.com/voidfleet/controller/internal/domain/fleet"
)

// ControllerView implements agentcontroller.PurchaserFinder and
// agentcontroller.StaticProbe by scanning the Agent Controller's own ship
// table. It is constructed empty and bound to the Controller exactly once
// after construction, via Bind — the "set_agent_controller hand-off" the
// agentcontroller package doc names as the way to avoid a construction
// cycle (Controller.Deps wants these ports before the Controller it would
// scan even exists).
type ControllerView struct {
	controller *agentcontroller.Controller
}

// NewControllerView constructs an unbound ControllerView. Bind must be
// called with the owning Controller before any method is used.
func NewControllerView() *ControllerView {
	return &ControllerView{}
}

// Bind attaches the Controller this view scans. Call exactly once, right
// after agentcontroller.New returns.
func (v *ControllerView) Bind(controller *agentcontroller.Controller) {
	v.controller = controller
}

// FindPurchaser implements agentcontroller.PurchaserFinder: any ship
// currently at shipyardWP and not in transit, restricted to the requested
// purchaser if one was named, and otherwise to a static probe pinned to
// shipyardWP.
func (v *ControllerView) FindPurchaser(ctx context.Context, shipyardWP, requested string) (string, bool) {
	for _, ship := range v.controller.AllShips() {
		if ship.Nav.WaypointSymbol != shipyardWP || ship.Nav.Status == fleet.NavStatusInTransit {
			continue
		}
		if requested != "" {
			if ship.Symbol == requested {
				return ship.Symbol, true
			}
			continue
		}
		if v.isStaticProbeAt(ship, shipyardWP) {
			return ship.Symbol, true
		}
	}
	return "", false
}

// AnyStaticProbe implements agentcontroller.StaticProbe: the first ship
// whose assigned job is a Probe pinned to one or more fixed waypoints.
func (v *ControllerView) AnyStaticProbe(ctx context.Context) (string, bool) {
	for _, ship := range v.controller.AllShips() {
		cfg, ok := v.controller.JobFor(ship.Symbol)
		if !ok || cfg.Behavior.Kind != fleet.BehaviorProbe || cfg.Behavior.Probe == nil {
			continue
		}
		if len(cfg.Behavior.Probe.Waypoints) > 0 {
			return ship.Symbol, true
		}
	}
	return "", false
}

func (v *ControllerView) isStaticProbeAt(ship fleet.Ship, waypoint string) bool {
	cfg, ok := v.controller.JobFor(ship.Symbol)
	if !ok || cfg.Behavior.Kind != fleet.BehaviorProbe || cfg.Behavior.Probe == nil {
		return false
	}
	for _, wp := range cfg.Behavior.Probe.Waypoints {
		if wp == waypoint {
			return true
		}
	}
	return false
}
