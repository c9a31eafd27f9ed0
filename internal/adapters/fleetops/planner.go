package fleetops

import (
	"context"
	"fmt"
	"time"

	"github.com/voidfleet/controller/internal/adapters/shipapi"
	"github.com/voidfleet/controller/internal/application/pathfinding"
	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/application/taskmanager"
	"github.com/voidfleet/controller/internal/domain/routing"
	"github.com/voidfleet/controller/internal/domain/task"
)

// Planner bridges shipscripts.Planner's per-ship TakeTasks call down to
// taskmanager.Manager.TakeTasks's five-argument signature: it builds the
// routing.VRPVehicle from the ship's own snapshot and the routing.
// DurationMatrix from the same pathfinding.System the ship's own router
// already plans in-system routes against, so the two never disagree about
// waypoint layout.
type Planner struct {
	manager *taskmanager.Manager
	router  *shipapi.CachedRouter
}

// NewPlanner constructs a Planner adapter.
func NewPlanner(manager *taskmanager.Manager, router *shipapi.CachedRouter) *Planner {
	return &Planner{manager: manager, router: router}
}

// TakeTasks implements shipscripts.Planner.
func (p *Planner) TakeTasks(ctx context.Context, ship shipscripts.ShipAPI, planLength time.Duration) (*task.ShipSchedule, error) {
	snap := ship.Snapshot()
	sys, err := p.router.System(ctx, snap.Nav.SystemSymbol)
	if err != nil {
		return nil, fmt.Errorf("fleetops: load system %s for %s: %w", snap.Nav.SystemSymbol, ship.Symbol(), err)
	}
	matrix := pathfinding.BuildDurationMatrix(sys, snap.Engine.Speed)

	vehicle := routing.VRPVehicle{
		ID:            ship.Symbol(),
		Capacity:      snap.Cargo.Capacity,
		StartWaypoint: snap.Nav.WaypointSymbol,
	}

	return p.manager.TakeTasks(ctx, snap.Nav.SystemSymbol, vehicle, matrix, planLength)
}

// TaskCompleter implements shipscripts.TaskCompleter over the Logistic
// Task Manager, bound to a fixed system: the contract mirrors a single
// (ctx, taskID) call with no ship argument, so — like ConstructionWorld's
// fixed homeSystem — the system a logistics fleet operates in is
// configuration, not something resolved per call.
type TaskCompleter struct {
	manager      *taskmanager.Manager
	systemSymbol string
}

// NewTaskCompleter constructs a TaskCompleter adapter.
func NewTaskCompleter(manager *taskmanager.Manager, systemSymbol string) *TaskCompleter {
	return &TaskCompleter{manager: manager, systemSymbol: systemSymbol}
}

// SetTaskCompleted implements shipscripts.TaskCompleter.
func (t *TaskCompleter) SetTaskCompleted(ctx context.Context, taskID string) error {
	return t.manager.SetTaskCompleted(ctx, t.systemSymbol, taskID)
}
