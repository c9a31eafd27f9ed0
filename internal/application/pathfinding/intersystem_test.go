package pathfinding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/pathfinding"
)

func TestBuildWarpEdges_ConnectsOnlySystemsWithinRange(t *testing.T) {
	systems := []pathfinding.SystemPoint{
		{Symbol: "X1", X: 0, Y: 0},
		{Symbol: "X2", X: 10, Y: 0},
		{Symbol: "X3", X: 1000, Y: 0},
	}
	edges := pathfinding.BuildWarpEdges(systems, 50, 30)

	require.Len(t, edges["X1"], 1)
	assert.Equal(t, "X2", edges["X1"][0].ToSystem)
	assert.Empty(t, edges["X3"])
}

func TestBuildJumpEdges_AddsKnownConnectionsBothDirectionsWhenAnnounced(t *testing.T) {
	gates := map[string]pathfinding.GateInfo{
		"X1-GATE": {WaypointSymbol: "X1-GATE", SystemSymbol: "X1", IsConstructed: true, AllConnectionsKnown: true, Connections: []string{"X2-GATE"}},
		"X2-GATE": {WaypointSymbol: "X2-GATE", SystemSymbol: "X2", IsConstructed: true, AllConnectionsKnown: false},
	}
	positions := map[string]pathfinding.SystemPoint{
		"X1": {Symbol: "X1", X: 0, Y: 0},
		"X2": {Symbol: "X2", X: 3, Y: 4},
	}

	edges := pathfinding.BuildJumpEdges(gates, positions)

	require.Len(t, edges["X1-GATE"], 1)
	assert.Equal(t, "X2-GATE", edges["X1-GATE"][0].ToWaypoint)
	assert.Equal(t, 65, edges["X1-GATE"][0].CooldownSec)

	require.Len(t, edges["X2-GATE"], 1)
	assert.Equal(t, "X1-GATE", edges["X2-GATE"][0].ToWaypoint)
}

func TestBuildJumpEdges_SkipsUnconstructedGates(t *testing.T) {
	gates := map[string]pathfinding.GateInfo{
		"X1-GATE": {WaypointSymbol: "X1-GATE", SystemSymbol: "X1", IsConstructed: false, Connections: []string{"X2-GATE"}},
	}
	edges := pathfinding.BuildJumpEdges(gates, nil)
	assert.Empty(t, edges)
}

func TestBuildInterSystemGraph_JumpEdgeOverwritesWarpEdgeBetweenSameSystems(t *testing.T) {
	systems := []pathfinding.SystemPoint{
		{Symbol: "X1", X: 0, Y: 0},
		{Symbol: "X2", X: 10, Y: 0},
	}
	gates := map[string]pathfinding.GateInfo{
		"X1-GATE": {WaypointSymbol: "X1-GATE", SystemSymbol: "X1", IsConstructed: true, AllConnectionsKnown: true, Connections: []string{"X2-GATE"}},
		"X2-GATE": {WaypointSymbol: "X2-GATE", SystemSymbol: "X2", IsConstructed: true, AllConnectionsKnown: true, Connections: []string{"X1-GATE"}},
	}

	graph := pathfinding.BuildInterSystemGraph(systems, 50, 30, gates)

	assert.Empty(t, graph.WarpEdges["X1"])
	require.Len(t, graph.JumpEdges["X1-GATE"], 1)
	assert.Equal(t, "X2-GATE", graph.JumpEdges["X1-GATE"][0].ToWaypoint)
}

func TestBuildInterSystemGraph_KeepsWarpEdgeWhenNoJumpConnectsThoseSystems(t *testing.T) {
	systems := []pathfinding.SystemPoint{
		{Symbol: "X1", X: 0, Y: 0},
		{Symbol: "X2", X: 10, Y: 0},
	}
	graph := pathfinding.BuildInterSystemGraph(systems, 50, 30, nil)

	require.Len(t, graph.WarpEdges["X1"], 1)
	assert.Equal(t, "X2", graph.WarpEdges["X1"][0].ToSystem)
	assert.Empty(t, graph.JumpEdges)
}
