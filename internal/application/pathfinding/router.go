// Package pathfinding implements the in-system fuel-aware router and the
// inter-system warp/jump graph builder. The in-system router is a classic
// Dijkstra over a small dense graph; it is grounded on the teacher's
// navigation route-planning flow (internal/application/navigation), which
// also plans a route then executes it hop by hop, but replaces the external
// OR-Tools gRPC routing service with the exact edge-cost formulas the fleet
// controller now owns directly.
package pathfinding

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/voidfleet/controller/internal/domain/routing"
)

// WaypointInfo is the minimal per-waypoint shape the router needs.
type WaypointInfo struct {
	Symbol   string
	X, Y     float64
	IsMarket bool
}

// System is the set of waypoints the router considers for one request; all
// waypoints must share a system.
type System struct {
	Waypoints map[string]WaypointInfo
}

// distance is the integer parsec distance rule from §4.D: ceil(sqrt(dx^2+dy^2)), min 1.
func distance(a, b WaypointInfo) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	d := int(math.Ceil(math.Sqrt(dx*dx + dy*dy)))
	if d < 1 {
		return 1
	}
	return d
}

// closestMarketCruiseCost returns the cruise fuel cost from wp to its
// nearest market waypoint (used to derive req_escape_fuel), or 0 if wp is
// itself a market.
func closestMarketCruiseCost(sys *System, wp string) int {
	self := sys.Waypoints[wp]
	if self.IsMarket {
		return 0
	}
	best := -1
	for sym, other := range sys.Waypoints {
		if sym == wp || !other.IsMarket {
			continue
		}
		d := distance(self, other)
		if best == -1 || d < best {
			best = d
		}
	}
	if best == -1 {
		return 0
	}
	return best
}

// edge is a directed candidate hop with its chosen flight mode.
type edge struct {
	mode     routing.EdgeMode
	fuelCost int
	duration int
}

// maxFuelForEdge implements the market-dependent edge-capacity rule from §4.D.
func maxFuelForEdge(srcIsMarket, dstIsMarket bool, startFuel, fuelCapacity, reqEscapeFuel int) int {
	switch {
	case srcIsMarket && dstIsMarket:
		return fuelCapacity
	case srcIsMarket && !dstIsMarket:
		return fuelCapacity - reqEscapeFuel
	case !srcIsMarket && dstIsMarket:
		return startFuel
	default:
		return startFuel - reqEscapeFuel
	}
}

// candidateEdge returns the cheapest-duration eligible edge between src and
// dst, or ok=false if neither burn nor cruise fits within maxFuel.
func candidateEdge(d, speed, maxFuel int) (edge, bool) {
	var best edge
	found := false

	if 2*d <= maxFuel {
		dur := int(math.Ceil(15 + 12.5*float64(d)/float64(speed)))
		best = edge{mode: routing.EdgeModeBurn, fuelCost: 2 * d, duration: dur}
		found = true
	}
	if d <= maxFuel {
		dur := int(math.Ceil(15 + 25*float64(d)/float64(speed)))
		if !found || dur < best.duration {
			best = edge{mode: routing.EdgeModeCruise, fuelCost: d, duration: dur}
			found = true
		}
	}
	return best, found
}

type pqItem struct {
	waypoint string
	priority int
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index = i; pq[j].index = j }
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// PlanRoute runs Dijkstra over sys from req.Src to req.Dst minimizing total
// travel duration, honoring the fuel-dependent edge eligibility rule (§4.D).
func PlanRoute(sys *System, req routing.RouteRequest) (*routing.Route, error) {
	if _, ok := sys.Waypoints[req.Src]; !ok {
		return nil, fmt.Errorf("%w: src %s not in system", routing.ErrUnreachableWaypoint, req.Src)
	}
	if _, ok := sys.Waypoints[req.Dst]; !ok {
		return nil, fmt.Errorf("%w: dst %s not in system", routing.ErrUnreachableWaypoint, req.Dst)
	}

	if req.Src == req.Dst {
		return &routing.Route{Hops: nil, TotalDurationSec: 0, ReqTerminalFuel: 0}, nil
	}

	type state struct {
		dist int
		prev string
		hop  edge
		ok   bool
	}
	best := make(map[string]state, len(sys.Waypoints))
	for sym := range sys.Waypoints {
		best[sym] = state{dist: math.MaxInt32}
	}
	best[req.Src] = state{dist: 0}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{waypoint: req.Src, priority: 0})
	visited := make(map[string]bool, len(sys.Waypoints))

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pqItem)
		if visited[cur.waypoint] {
			continue
		}
		visited[cur.waypoint] = true
		if cur.waypoint == req.Dst {
			break
		}

		curInfo := sys.Waypoints[cur.waypoint]
		// start_fuel only bounds edges leaving the origin; every later hop
		// leaves from a point the ship can always refuel to capacity at (a
		// market) or is itself bounded by the escape-fuel rule below.
		curFuel := req.StartFuel
		if cur.waypoint != req.Src {
			curFuel = req.FuelCapacity
		}

		for sym, other := range sys.Waypoints {
			if sym == cur.waypoint || visited[sym] {
				continue
			}
			d := distance(curInfo, other)
			escape := closestMarketCruiseCost(sys, sym)
			maxFuel := maxFuelForEdge(curInfo.IsMarket, other.IsMarket, curFuel, req.FuelCapacity, escape)
			e, ok := candidateEdge(d, req.EngineSpeed, maxFuel)
			if !ok {
				continue
			}
			alt := best[cur.waypoint].dist + e.duration
			if alt < best[sym].dist {
				best[sym] = state{dist: alt, prev: cur.waypoint, hop: e, ok: true}
				heap.Push(pq, &pqItem{waypoint: sym, priority: alt})
			}
		}
	}

	if !best[req.Dst].ok {
		return nil, fmt.Errorf("%w: no path from %s to %s", routing.ErrUnreachableWaypoint, req.Src, req.Dst)
	}

	var hops []routing.Hop
	cur := req.Dst
	for cur != req.Src {
		s := best[cur]
		fromInfo := sys.Waypoints[s.prev]
		toInfo := sys.Waypoints[cur]
		hops = append([]routing.Hop{{
			FromWaypoint: s.prev,
			ToWaypoint:   cur,
			Mode:         s.hop.mode,
			FuelCost:     s.hop.fuelCost,
			DurationSec:  s.hop.duration,
			SrcIsMarket:  fromInfo.IsMarket,
			DstIsMarket:  toInfo.IsMarket,
		}}, hops...)
		cur = s.prev
	}

	reqTerminalFuel := 0
	if !sys.Waypoints[req.Dst].IsMarket {
		reqTerminalFuel = closestMarketCruiseCost(sys, req.Dst)
	}

	return &routing.Route{
		Hops:             hops,
		TotalDurationSec: best[req.Dst].dist,
		ReqTerminalFuel:  reqTerminalFuel,
	}, nil
}

// BuildDurationMatrix computes an N x N cruise-duration estimate between
// every pair of waypoints in sys for one ship profile (§4.D). Self entries
// are zero; cruise is used unconditionally here since the matrix only
// informs the VRP planner's travel-time estimate, not fuel planning.
func BuildDurationMatrix(sys *System, engineSpeed int) *routing.DurationMatrix {
	syms := make([]string, 0, len(sys.Waypoints))
	for sym := range sys.Waypoints {
		syms = append(syms, sym)
	}
	seconds := make([][]int, len(syms))
	for i, a := range syms {
		seconds[i] = make([]int, len(syms))
		for j, b := range syms {
			if i == j {
				continue
			}
			d := distance(sys.Waypoints[a], sys.Waypoints[b])
			seconds[i][j] = int(math.Ceil(15 + 25*float64(d)/float64(engineSpeed)))
		}
	}
	return &routing.DurationMatrix{Waypoints: syms, Seconds: seconds}
}
