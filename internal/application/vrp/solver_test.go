package vrp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/vrp"
	"github.com/voidfleet/controller/internal/domain/routing"
)

func squareMatrix(waypoints []string, seconds [][]int) *routing.DurationMatrix {
	return &routing.DurationMatrix{Waypoints: waypoints, Seconds: seconds}
}

func TestSolve_AssignsSingleVisitJobToVehicle(t *testing.T) {
	matrix := squareMatrix(
		[]string{"X1-AB-A", "X1-AB-B"},
		[][]int{{0, 100}, {100, 0}},
	)

	problem := routing.VRPProblem{
		Matrix: matrix,
		Jobs: []routing.VRPJob{
			{ID: "job-1", Value: 1000, Tasks: []routing.VRPJobTask{{Waypoint: "X1-AB-B", Kind: routing.VRPActivityService, Demand: 0}}},
		},
		Vehicles:       []routing.VRPVehicle{{ID: "SHIP-1", Capacity: 40, StartWaypoint: "X1-AB-A"}},
		PlanLength:     time.Hour,
		MaxComputeTime: time.Second,
	}

	sol, err := vrp.Solve(context.Background(), problem)
	require.NoError(t, err)
	require.Len(t, sol.Routes, 1)
	assert.Empty(t, sol.UnassignedJobIDs)
	assert.Equal(t, "X1-AB-B", sol.Routes[0].Stops[0].Waypoint)
	assert.Equal(t, "job-1", sol.Routes[0].Stops[0].JobID)
}

func TestSolve_LeavesJobUnassignedWhenUnreachable(t *testing.T) {
	matrix := squareMatrix([]string{"X1-AB-A"}, [][]int{{0}})

	problem := routing.VRPProblem{
		Matrix: matrix,
		Jobs: []routing.VRPJob{
			{ID: "job-unreachable", Value: 500, Tasks: []routing.VRPJobTask{{Waypoint: "X1-AB-NOWHERE", Kind: routing.VRPActivityService}}},
		},
		Vehicles:       []routing.VRPVehicle{{ID: "SHIP-1", Capacity: 40, StartWaypoint: "X1-AB-A"}},
		PlanLength:     time.Hour,
		MaxComputeTime: time.Second,
	}

	sol, err := vrp.Solve(context.Background(), problem)
	require.NoError(t, err)
	assert.Equal(t, []string{"job-unreachable"}, sol.UnassignedJobIDs)
}

func TestSolve_RespectsVehicleCapacityForPickupDelivery(t *testing.T) {
	matrix := squareMatrix(
		[]string{"X1-AB-A", "X1-AB-B", "X1-AB-C"},
		[][]int{
			{0, 50, 100},
			{50, 0, 50},
			{100, 50, 0},
		},
	)

	problem := routing.VRPProblem{
		Matrix: matrix,
		Jobs: []routing.VRPJob{
			{
				ID:    "haul-1",
				Value: 2000,
				Tasks: []routing.VRPJobTask{
					{Waypoint: "X1-AB-B", Kind: routing.VRPActivityPickup, Demand: 10},
					{Waypoint: "X1-AB-C", Kind: routing.VRPActivityDelivery, Demand: -10},
				},
			},
		},
		Vehicles:       []routing.VRPVehicle{{ID: "HAULER-1", Capacity: 20, StartWaypoint: "X1-AB-A"}},
		PlanLength:     time.Hour,
		MaxComputeTime: time.Second,
	}

	sol, err := vrp.Solve(context.Background(), problem)
	require.NoError(t, err)
	require.Empty(t, sol.UnassignedJobIDs)
	require.Len(t, sol.Routes[0].Stops, 2)
	assert.Equal(t, routing.VRPActivityPickup, sol.Routes[0].Stops[0].Activity)
	assert.Equal(t, routing.VRPActivityDelivery, sol.Routes[0].Stops[1].Activity)
}

func TestSolver_AdaptsFreeFunction(t *testing.T) {
	matrix := squareMatrix([]string{"X1-AB-A"}, [][]int{{0}})
	problem := routing.VRPProblem{
		Matrix:         matrix,
		Vehicles:       []routing.VRPVehicle{{ID: "SHIP-1", Capacity: 10, StartWaypoint: "X1-AB-A"}},
		PlanLength:     time.Hour,
		MaxComputeTime: time.Second,
	}

	sol, err := vrp.NewSolver().Solve(context.Background(), problem)
	require.NoError(t, err)
	assert.Empty(t, sol.UnassignedJobIDs)
}
