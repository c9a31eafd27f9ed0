package pathfinding

import (
	"math"

	"github.com/voidfleet/controller/internal/domain/routing"
)

// SystemPoint is a system's position, used for warp-edge computation.
type SystemPoint struct {
	Symbol string
	X, Y   float64
}

// GateInfo describes one charted jumpgate for inter-system graph building.
type GateInfo struct {
	WaypointSymbol     string
	SystemSymbol       string
	IsConstructed      bool
	AllConnectionsKnown bool
	Connections        []string // gate waypoint symbols, when known
}

func systemDistance(a, b SystemPoint) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BuildWarpEdges computes all system pairs within fuelRange parsecs of each
// other (§4.D). A quadtree would avoid the O(N^2) scan at galaxy scale; this
// repo favors the plain scan since the controller only ever warp-plans
// within a handful of explored systems at a time.
func BuildWarpEdges(systems []SystemPoint, fuelRange float64, engineSpeed int) map[string][]routing.WarpEdge {
	edges := make(map[string][]routing.WarpEdge)
	for i, a := range systems {
		for j, b := range systems {
			if i == j {
				continue
			}
			d := systemDistance(a, b)
			if d > fuelRange {
				continue
			}
			dur := int(math.Ceil(15 + 50*d/float64(engineSpeed)))
			edges[a.Symbol] = append(edges[a.Symbol], routing.WarpEdge{
				FromSystem:  a.Symbol,
				ToSystem:    b.Symbol,
				DurationSec: dur,
			})
		}
	}
	return edges
}

// BuildJumpEdges turns charted, constructed gates into jump edges (§4.D).
// Cooldown is 60 + d where d is the Euclidean distance between the two
// gates' systems. A not-fully-known gate still contributes the reverse edge
// when the other side has already announced the connection.
func BuildJumpEdges(gates map[string]GateInfo, systemPositions map[string]SystemPoint) map[string][]routing.JumpEdge {
	edges := make(map[string][]routing.JumpEdge)
	announced := make(map[[2]string]bool)

	add := func(from, to string) {
		if edges[from] != nil {
			for _, e := range edges[from] {
				if e.ToWaypoint == to {
					return
				}
			}
		}
		fromGate, toGate := gates[from], gates[to]
		fromSys, fromOK := systemPositions[fromGate.SystemSymbol]
		toSys, toOK := systemPositions[toGate.SystemSymbol]
		cooldown := 60
		if fromOK && toOK {
			cooldown = 60 + int(math.Ceil(systemDistance(fromSys, toSys)))
		}
		edges[from] = append(edges[from], routing.JumpEdge{
			FromWaypoint: from,
			ToWaypoint:   to,
			CooldownSec:  cooldown,
		})
	}

	for sym, gate := range gates {
		if !gate.IsConstructed {
			continue
		}
		for _, dst := range gate.Connections {
			add(sym, dst)
			announced[[2]string{sym, dst}] = true
		}
	}

	for sym, gate := range gates {
		if !gate.IsConstructed || gate.AllConnectionsKnown {
			continue
		}
		for other, otherGate := range gates {
			if other == sym || !otherGate.IsConstructed {
				continue
			}
			if announced[[2]string{other, sym}] {
				add(sym, other)
			}
		}
	}

	return edges
}

// BuildInterSystemGraph combines warp and jump edges; jump edges overwrite
// any warp edge between the same endpoints (§4.D).
func BuildInterSystemGraph(systems []SystemPoint, fuelRange float64, engineSpeed int, gates map[string]GateInfo) *routing.InterSystemGraph {
	systemPositions := make(map[string]SystemPoint, len(systems))
	for _, s := range systems {
		systemPositions[s.Symbol] = s
	}

	warp := BuildWarpEdges(systems, fuelRange, engineSpeed)
	jump := BuildJumpEdges(gates, systemPositions)

	jumpSystemPairs := make(map[[2]string]bool)
	for _, gateEdges := range jump {
		for _, e := range gateEdges {
			fromSys := gates[e.FromWaypoint].SystemSymbol
			toSys := gates[e.ToWaypoint].SystemSymbol
			jumpSystemPairs[[2]string{fromSys, toSys}] = true
		}
	}

	filteredWarp := make(map[string][]routing.WarpEdge, len(warp))
	for sys, edges := range warp {
		for _, e := range edges {
			if jumpSystemPairs[[2]string{e.FromSystem, e.ToSystem}] {
				continue
			}
			filteredWarp[sys] = append(filteredWarp[sys], e)
		}
	}

	return &routing.InterSystemGraph{WarpEdges: filteredWarp, JumpEdges: jump}
}
