package task

import "time"

// ScheduledAction is one entry of a planned ShipSchedule: where to go,
// what to do there, and — if completing a Task — which one (§3).
type ScheduledAction struct {
	Waypoint       string
	Action         Action
	Timestamp      time.Time
	TaskCompleted  *string // task ID, or nil
}

// ShipSnapshot is the minimal ship state the planner captured when the
// schedule was produced, used by the Logistics script to detect cargo
// divergence on resume (§4.J step 2).
type ShipSnapshot struct {
	Symbol        string
	CargoCapacity int
	Speed         int
	FuelCapacity  int
	StartWaypoint string
}

// ShipSchedule is the VRP Planner's output for one ship: an ordered list
// of ScheduledActions plus the snapshot it was computed against.
type ShipSchedule struct {
	Ship    ShipSnapshot
	Actions []ScheduledAction
}

// ExpectedCargoDelta reconstructs the net cargo effect of the first n
// actions (§4.J step 2: "expected cargo map").
func ExpectedCargoDelta(actions []ScheduledAction, n int) map[string]int {
	out := map[string]int{}
	if n > len(actions) {
		n = len(actions)
	}
	for i := 0; i < n; i++ {
		good, delta, ok := actions[i].Action.NetCargo()
		if !ok {
			continue
		}
		out[good] += delta
	}
	return out
}
