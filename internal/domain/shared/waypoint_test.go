package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/domain/shared"
)

func TestExtractSystemSymbol(t *testing.T) {
	assert.Equal(t, "X1-AB12", shared.ExtractSystemSymbol("X1-AB12-C3D4"))
	assert.Equal(t, "X1-AB12", shared.ExtractSystemSymbol("X1-AB12-ORBITAL-1"))
	assert.Equal(t, "NOHYPHEN", shared.ExtractSystemSymbol("NOHYPHEN"))
}

func TestNewWaypoint(t *testing.T) {
	wp, err := shared.NewWaypoint("X1-AB12-C3D4", 1, 2)

	require.NoError(t, err)
	assert.Equal(t, "X1-AB12-C3D4", wp.Symbol)
	assert.Equal(t, "X1-AB12", wp.SystemSymbol)
}

func TestNewWaypoint_RejectsEmptySymbol(t *testing.T) {
	_, err := shared.NewWaypoint("", 0, 0)
	assert.Error(t, err)
}

func TestWaypoint_DistanceTo(t *testing.T) {
	a, err := shared.NewWaypoint("X1-AB12-A", 0, 0)
	require.NoError(t, err)
	b, err := shared.NewWaypoint("X1-AB12-B", 3, 4)
	require.NoError(t, err)

	assert.Equal(t, 5.0, a.DistanceTo(b))
}

func TestWaypoint_IsOrbitalOf(t *testing.T) {
	center, err := shared.NewWaypoint("X1-AB12-CENTER", 0, 0)
	require.NoError(t, err)
	moon, err := shared.NewWaypoint("X1-AB12-MOON", 0, 0)
	require.NoError(t, err)

	center.Orbitals = append(center.Orbitals, moon.Symbol)

	assert.True(t, moon.IsOrbitalOf(center))
	assert.True(t, center.IsOrbitalOf(moon))
}
