package fleet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/domain/fleet"
)

func TestAssignments_AssignIsIdempotentReassignment(t *testing.T) {
	a := fleet.NewAssignments()

	a.Assign("job-1", "SHIP-1")
	a.Assign("job-1", "SHIP-2")

	ship, ok := a.ShipForJob("job-1")
	require.True(t, ok)
	assert.Equal(t, "SHIP-2", ship)
	assert.False(t, a.IsShipAssigned("SHIP-1"))
	assert.True(t, a.IsShipAssigned("SHIP-2"))
}

func TestAssignments_AssignReplacesPriorSideForBothKeys(t *testing.T) {
	a := fleet.NewAssignments()

	a.Assign("job-1", "SHIP-1")
	a.Assign("job-2", "SHIP-1")

	_, ok := a.ShipForJob("job-1")
	assert.False(t, ok)
	job, ok := a.JobForShip("SHIP-1")
	require.True(t, ok)
	assert.Equal(t, "job-2", job)
}

func TestAssignments_UnassignJobAndShip(t *testing.T) {
	a := fleet.NewAssignments()
	a.Assign("job-1", "SHIP-1")

	a.UnassignJob("job-1")
	assert.False(t, a.IsJobAssigned("job-1"))
	assert.False(t, a.IsShipAssigned("SHIP-1"))

	a.Assign("job-2", "SHIP-2")
	a.UnassignShip("SHIP-2")
	assert.False(t, a.IsJobAssigned("job-2"))
	assert.False(t, a.IsShipAssigned("SHIP-2"))
}

func TestAssignments_CheckBijection(t *testing.T) {
	a := fleet.NewAssignments()
	a.Assign("job-1", "SHIP-1")
	a.Assign("job-2", "SHIP-2")

	assert.NoError(t, a.CheckBijection())
}

func TestAssignments_Snapshot(t *testing.T) {
	a := fleet.NewAssignments()
	a.Assign("job-1", "SHIP-1")

	snap := a.Snapshot()
	assert.Equal(t, map[string]string{"job-1": "SHIP-1"}, snap)

	// Mutating the snapshot must not affect the live assignments.
	snap["job-2"] = "SHIP-2"
	assert.False(t, a.IsJobAssigned("job-2"))
}
