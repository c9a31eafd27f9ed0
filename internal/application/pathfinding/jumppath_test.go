package pathfinding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/pathfinding"
	"github.com/voidfleet/controller/internal/domain/routing"
)

func TestShortestJumpPath_SameGateIsEmptyPath(t *testing.T) {
	path, err := pathfinding.ShortestJumpPath(nil, "X1-AB-GATE", "X1-AB-GATE")
	require.NoError(t, err)
	assert.Nil(t, path)
}

func TestShortestJumpPath_PicksLowerCumulativeCooldown(t *testing.T) {
	edges := map[string][]routing.JumpEdge{
		"A": {
			{FromWaypoint: "A", ToWaypoint: "B", CooldownSec: 100},
			{FromWaypoint: "A", ToWaypoint: "C", CooldownSec: 10},
		},
		"C": {
			{FromWaypoint: "C", ToWaypoint: "B", CooldownSec: 10},
		},
	}

	path, err := pathfinding.ShortestJumpPath(edges, "A", "B")
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Equal(t, "C", path[0].ToWaypoint)
	assert.Equal(t, "B", path[1].ToWaypoint)
}

func TestShortestJumpPath_NoChartedPathErrors(t *testing.T) {
	edges := map[string][]routing.JumpEdge{}
	_, err := pathfinding.ShortestJumpPath(edges, "A", "B")
	assert.Error(t, err)
}
