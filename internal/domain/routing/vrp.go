package routing

import "time"

// VRPActivityKind is what a vehicle does at one stop of its route.
type VRPActivityKind string

const (
	VRPActivityPickup   VRPActivityKind = "PICKUP"
	VRPActivityDelivery VRPActivityKind = "DELIVERY"
	VRPActivityService  VRPActivityKind = "SERVICE"
)

// VRPJobTask is a single demand point within a VRPJob: a pickup, a
// delivery, or a service-only visit, with a time window (§4.I).
type VRPJobTask struct {
	Waypoint     string
	Kind         VRPActivityKind
	Demand       int
	WindowStart  time.Duration // offset from plan start
	WindowEnd    time.Duration
	Tag          string // human-readable description / originating task id
}

// VRPJob is either one VisitLocation (a single JobTask) or one
// TransportCargo (a pickup + delivery pair) per §4.I.
type VRPJob struct {
	ID    string
	Value int // maximize-value objective bonus if served
	Tasks []VRPJobTask
}

// VRPVehicle is one ship made available to the solver.
type VRPVehicle struct {
	ID            string
	Capacity      int
	StartWaypoint string
}

// VRPProblem is the solver's input: the duration matrix, the jobs to
// consider, the vehicles available, and the solve time budget (§4.I).
type VRPProblem struct {
	Matrix         *DurationMatrix
	Jobs           []VRPJob
	Vehicles       []VRPVehicle
	PlanLength     time.Duration
	MaxComputeTime time.Duration
	MaxGenerations int
}

// VRPStop is one stop of a solved vehicle route.
type VRPStop struct {
	Waypoint string
	Activity VRPActivityKind
	JobID    string
	TaskTag  string
}

// VRPRoute is one vehicle's solved stop sequence.
type VRPRoute struct {
	VehicleID string
	Stops     []VRPStop
}

// VRPSolution is the solver's output: per-vehicle routes plus which job
// IDs went unserved (zero contribution to the objective, §4.I).
type VRPSolution struct {
	Routes       []VRPRoute
	UnassignedJobIDs []string
}
