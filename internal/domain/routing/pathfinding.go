// Package routing holds the pure data types for the in-system router and
// inter-system warp/jump graph (§4.D), plus the VRP job/vehicle DTOs
// consumed by the planner (§4.I). It is grounded on the teacher's
// internal/domain/routing/ports.go RouteRequest/RouteResponse shapes,
// generalized to the fuel-aware edge model spec.md defines explicitly
// rather than delegating to an external OR-Tools service.
package routing

import (
	"errors"
	"time"
)

// ErrUnreachableWaypoint is returned when no path exists between two
// waypoints under the given fuel constraints (§4.D).
var ErrUnreachableWaypoint = errors.New("unreachable waypoint")

// EdgeMode is the flight mode an in-system hop uses. Burn is chosen
// whenever it is fuel-eligible (§4.D).
type EdgeMode string

const (
	EdgeModeBurn   EdgeMode = "BURN"
	EdgeModeCruise EdgeMode = "CRUISE"
)

// Hop is one leg of an in-system route.
type Hop struct {
	FromWaypoint string
	ToWaypoint   string
	Mode         EdgeMode
	FuelCost     int
	DurationSec  int
	SrcIsMarket  bool
	DstIsMarket  bool
}

// Route is the in-system router's output (§4.D).
type Route struct {
	Hops             []Hop
	TotalDurationSec int
	ReqTerminalFuel  int // fuel needed on arrival if the destination is not a market
}

// RouteRequest is the in-system router's input.
type RouteRequest struct {
	SystemSymbol string
	Src, Dst     string
	EngineSpeed  int
	StartFuel    int
	FuelCapacity int
}

// WarpEdge is an inter-system connection computed from Euclidean distance
// within an engine's fuel range (§4.D).
type WarpEdge struct {
	FromSystem  string
	ToSystem    string
	DurationSec int
}

// JumpEdge is an inter-system connection via a constructed jumpgate; it
// overwrites any warp edge between the same two systems (§4.D).
type JumpEdge struct {
	FromWaypoint string // gate waypoint, not bare system
	ToWaypoint   string
	CooldownSec  int
}

// InterSystemGraph is the combined warp+jump graph for route planning
// between systems.
type InterSystemGraph struct {
	WarpEdges map[string][]WarpEdge // system -> outgoing warp edges
	JumpEdges map[string][]JumpEdge // gate waypoint -> outgoing jump edges
}

// DurationMatrix is an N x N matrix of estimated single-hop cruise
// durations for one ship's speed/fuel-capacity within one system (§4.D).
// Self entries are zero.
type DurationMatrix struct {
	Waypoints []string
	Seconds   [][]int
}

func (m *DurationMatrix) indexOf(wp string) int {
	for i, w := range m.Waypoints {
		if w == wp {
			return i
		}
	}
	return -1
}

// DurationBetween looks up the precomputed duration; it returns -1 if
// either waypoint is not part of the matrix.
func (m *DurationMatrix) DurationBetween(from, to string) int {
	i, j := m.indexOf(from), m.indexOf(to)
	if i < 0 || j < 0 {
		return -1
	}
	return m.Seconds[i][j]
}

// PlanTime is a convenience alias used by the VRP DTOs for absolute
// timestamps within a plan window.
type PlanTime = time.Time
