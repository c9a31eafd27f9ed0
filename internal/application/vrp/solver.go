// Package vrp implements the capacitated pickup-delivery + service VRP
// with time windows and a maximize-value objective (§4.I). Per the design
// note "VRP solver integration: treat the solver as an external pure
// function of (ships, tasks, matrix, constraints)... re-implement the
// value objective as an additive per-route accumulator so it composes
// with cost minimization," this is a from-scratch greedy-insertion
// heuristic rather than a binding to the teacher's OR-Tools
// microservice (internal/application — there is no in-process VRP in the
// teacher; cmd/routing-service shells out to Python/OR-Tools over gRPC,
// which spec.md's Non-goals rule out reproducing as a network service).
package vrp

import (
	"context"
	"time"

	"github.com/voidfleet/controller/internal/domain/routing"
)

const (
	costWeightFixed    = 0.0
	costWeightDistance = 1e-4
	costWeightTime     = 1e-4
)

type candidate struct {
	job        routing.VRPJob
	insertAt   int // index in route.Stops to insert the pickup before
	insertAt2  int // index to insert the delivery before (after pickup insertion)
	gain       float64
	extraTime  int
}

// Solve runs generation-bounded greedy insertion, one job per generation,
// stopping at problem.MaxGenerations iterations or problem.MaxComputeTime,
// whichever comes first (§4.I). Stops are never re-ordered once inserted;
// there is no improvement pass after insertion.
func Solve(ctx context.Context, problem routing.VRPProblem) (*routing.VRPSolution, error) {
	deadline := time.Now().Add(problem.MaxComputeTime)
	if problem.MaxComputeTime <= 0 {
		deadline = time.Now().Add(5 * time.Second)
	}

	routes := make(map[string]*routeState, len(problem.Vehicles))
	for _, v := range problem.Vehicles {
		routes[v.ID] = newRouteState(v)
	}

	remaining := make([]routing.VRPJob, len(problem.Jobs))
	copy(remaining, problem.Jobs)

	generations := problem.MaxGenerations
	if generations <= 0 {
		generations = 3000
	}

	var unassigned []string
	for gen := 0; gen < generations && len(remaining) > 0; gen++ {
		select {
		case <-ctx.Done():
			return buildSolution(routes, appendJobIDs(unassigned, remaining)), ctx.Err()
		default:
		}
		if time.Now().After(deadline) {
			break
		}

		bestJobIdx := -1
		var bestVehicle string
		var best candidate

		for ji, job := range remaining {
			for _, v := range problem.Vehicles {
				rs := routes[v.ID]
				c, ok := rs.bestInsertion(problem.Matrix, job, problem.PlanLength)
				if !ok {
					continue
				}
				if bestJobIdx == -1 || c.gain > best.gain {
					bestJobIdx = ji
					bestVehicle = v.ID
					best = c
				}
			}
		}

		if bestJobIdx == -1 {
			// nothing fits anywhere this round; the rest are unassignable.
			for _, j := range remaining {
				unassigned = append(unassigned, j.ID)
			}
			remaining = nil
			break
		}

		routes[bestVehicle].insert(best)
		remaining = append(remaining[:bestJobIdx], remaining[bestJobIdx+1:]...)
	}

	for _, j := range remaining {
		unassigned = append(unassigned, j.ID)
	}

	return buildSolution(routes, unassigned), nil
}

func appendJobIDs(unassigned []string, remaining []routing.VRPJob) []string {
	out := append([]string(nil), unassigned...)
	for _, j := range remaining {
		out = append(out, j.ID)
	}
	return out
}

type routeState struct {
	vehicle  routing.VRPVehicle
	stops    []routing.VRPStop
	demand   []int // running cargo level at/after each stop
	jobs     []routing.VRPJob
}

func newRouteState(v routing.VRPVehicle) *routeState {
	return &routeState{vehicle: v}
}

// bestInsertion finds the cheapest feasible place to splice job's tasks
// into rs's current stop sequence, respecting capacity at every point and
// the plan-length time window; returns ok=false if no feasible insertion
// exists. Only VisitLocation (single task) and TransportCargo (two tasks,
// pickup immediately followed later by delivery) shapes are supported, per
// §4.I.
func (rs *routeState) bestInsertion(matrix *routing.DurationMatrix, job routing.VRPJob, planLength time.Duration) (candidate, bool) {
	planSeconds := int(planLength.Seconds())

	if len(job.Tasks) == 1 {
		t := job.Tasks[0]
		bestGain := -1.0
		bestPos := -1
		bestExtra := 0
		for pos := 0; pos <= len(rs.stops); pos++ {
			extra := rs.insertionCost(matrix, pos, t.Waypoint)
			if extra < 0 {
				continue
			}
			elapsed := rs.elapsedSecondsAt(matrix, pos) + extra
			if elapsed > planSeconds {
				continue
			}
			gain := float64(job.Value) - float64(extra)*(costWeightDistance+costWeightTime)
			if bestPos == -1 || gain > bestGain {
				bestGain, bestPos, bestExtra = gain, pos, extra
			}
		}
		if bestPos == -1 {
			return candidate{}, false
		}
		return candidate{job: job, insertAt: bestPos, insertAt2: -1, gain: bestGain, extraTime: bestExtra}, true
	}

	// pickup + delivery: try every (pickup pos, delivery pos >= pickup pos) pair.
	pickup, delivery := job.Tasks[0], job.Tasks[1]
	bestGain := -1.0
	bestP, bestD := -1, -1
	bestExtra := 0
	for p := 0; p <= len(rs.stops); p++ {
		extraP := rs.insertionCost(matrix, p, pickup.Waypoint)
		if extraP < 0 {
			continue
		}
		for d := p; d <= len(rs.stops); d++ {
			if !rs.capacityFeasible(p, d, pickup.Demand) {
				continue
			}
			extraD := rs.insertionCost(matrix, d, delivery.Waypoint)
			if extraD < 0 {
				continue
			}
			total := extraP + extraD
			elapsed := rs.elapsedSecondsAt(matrix, d) + total
			if elapsed > planSeconds {
				continue
			}
			gain := float64(job.Value) - float64(total)*(costWeightDistance+costWeightTime)
			if bestP == -1 || gain > bestGain {
				bestGain, bestP, bestD, bestExtra = gain, p, d, total
			}
		}
	}
	if bestP == -1 {
		return candidate{}, false
	}
	return candidate{job: job, insertAt: bestP, insertAt2: bestD, gain: bestGain, extraTime: bestExtra}, true
}

// insertionCost estimates the extra travel seconds from splicing wp at
// position pos in the stop sequence; returns -1 if the matrix has no entry
// (unreachable).
func (rs *routeState) insertionCost(matrix *routing.DurationMatrix, pos int, wp string) int {
	prev := rs.vehicle.StartWaypoint
	if pos > 0 {
		prev = rs.stops[pos-1].Waypoint
	}
	next := ""
	if pos < len(rs.stops) {
		next = rs.stops[pos].Waypoint
	}

	toNew := matrix.DurationBetween(prev, wp)
	if toNew < 0 {
		return -1
	}
	if next == "" {
		return toNew
	}
	fromNew := matrix.DurationBetween(wp, next)
	removed := matrix.DurationBetween(prev, next)
	if fromNew < 0 {
		return -1
	}
	return toNew + fromNew - removed
}

func (rs *routeState) elapsedSecondsAt(matrix *routing.DurationMatrix, pos int) int {
	total := 0
	prev := rs.vehicle.StartWaypoint
	for i := 0; i < pos && i < len(rs.stops); i++ {
		total += matrix.DurationBetween(prev, rs.stops[i].Waypoint)
		prev = rs.stops[i].Waypoint
	}
	return total
}

// capacityFeasible checks that inserting a pickup at p and its delivery at
// d never pushes cumulative cargo above vehicle capacity, at every stop
// between them inclusive (§8 property 5).
func (rs *routeState) capacityFeasible(p, d, demand int) bool {
	load := 0
	for i := 0; i < len(rs.demand); i++ {
		load = rs.demand[i]
		if i >= p && i < d {
			load += demand
		}
		if load > rs.vehicle.Capacity {
			return false
		}
	}
	return demand <= rs.vehicle.Capacity
}

func (rs *routeState) insert(c candidate) {
	job := c.job
	if len(job.Tasks) == 1 {
		stop := routing.VRPStop{Waypoint: job.Tasks[0].Waypoint, Activity: routing.VRPActivityService, JobID: job.ID, TaskTag: job.Tasks[0].Tag}
		rs.splice(c.insertAt, stop, 0)
		rs.jobs = append(rs.jobs, job)
		return
	}

	pickup := routing.VRPStop{Waypoint: job.Tasks[0].Waypoint, Activity: routing.VRPActivityPickup, JobID: job.ID, TaskTag: job.Tasks[0].Tag}
	delivery := routing.VRPStop{Waypoint: job.Tasks[1].Waypoint, Activity: routing.VRPActivityDelivery, JobID: job.ID, TaskTag: job.Tasks[1].Tag}

	rs.splice(c.insertAt, pickup, job.Tasks[0].Demand)
	rs.splice(c.insertAt2+1, delivery, -job.Tasks[0].Demand)
	rs.jobs = append(rs.jobs, job)
}

func (rs *routeState) splice(pos int, stop routing.VRPStop, demandDelta int) {
	rs.stops = append(rs.stops, routing.VRPStop{})
	copy(rs.stops[pos+1:], rs.stops[pos:])
	rs.stops[pos] = stop

	running := 0
	if pos > 0 && pos-1 < len(rs.demand) {
		running = rs.demand[pos-1]
	}
	running += demandDelta

	rs.demand = append(rs.demand, 0)
	copy(rs.demand[pos+1:], rs.demand[pos:])
	rs.demand[pos] = running
	for i := pos + 1; i < len(rs.demand); i++ {
		// everything after the insertion already carried the pre-insertion
		// running total; offset it by demandDelta to stay consistent.
		if demandDelta != 0 {
			rs.demand[i] += demandDelta
		}
	}
}

func buildSolution(routes map[string]*routeState, unassigned []string) *routing.VRPSolution {
	sol := &routing.VRPSolution{UnassignedJobIDs: unassigned}
	for _, rs := range routes {
		sol.Routes = append(sol.Routes, routing.VRPRoute{VehicleID: rs.vehicle.ID, Stops: rs.stops})
	}
	return sol
}
