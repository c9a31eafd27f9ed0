package fleet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/domain/fleet"
)

func catalog() []fleet.ShipModel {
	return []fleet.ShipModel{
		{
			Name: "SHIP_PROBE", FrameSymbol: "FRAME_PROBE", ReactorSymbol: "REACTOR_SOLAR_I",
			EngineSymbol: "ENGINE_IMPULSE_DRIVE_I", RequiredModules: nil, RequiredMounts: nil, CargoCapacity: 0,
		},
		{
			Name: "SHIP_LIGHT_HAULER", FrameSymbol: "FRAME_LIGHT_FREIGHTER", ReactorSymbol: "REACTOR_FISSION_I",
			EngineSymbol: "ENGINE_ION_DRIVE_I", RequiredModules: []string{"MODULE_CARGO_HOLD_I"}, RequiredMounts: []string{"MOUNT_SENSOR_ARRAY_I"}, CargoCapacity: 30,
		},
	}
}

func TestMatchModel_FindsExactMatch(t *testing.T) {
	m, err := fleet.MatchModel(catalog(), "FRAME_PROBE", "REACTOR_SOLAR_I", "ENGINE_IMPULSE_DRIVE_I", nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "SHIP_PROBE", m.Name)
}

func TestMatchModel_MatchesRequiredModulesAndMounts(t *testing.T) {
	m, err := fleet.MatchModel(catalog(), "FRAME_LIGHT_FREIGHTER", "REACTOR_FISSION_I", "ENGINE_ION_DRIVE_I",
		[]string{"MODULE_CARGO_HOLD_I"}, []string{"MOUNT_SENSOR_ARRAY_I"}, 30)
	require.NoError(t, err)
	assert.Equal(t, "SHIP_LIGHT_HAULER", m.Name)
}

func TestMatchModel_NoMatchErrors(t *testing.T) {
	_, err := fleet.MatchModel(catalog(), "FRAME_UNKNOWN", "REACTOR_SOLAR_I", "ENGINE_IMPULSE_DRIVE_I", nil, nil, 0)
	assert.Error(t, err)
}

func TestMatchModel_AmbiguousCatalogErrors(t *testing.T) {
	dup := append(catalog(), catalog()[0])
	_, err := fleet.MatchModel(dup, "FRAME_PROBE", "REACTOR_SOLAR_I", "ENGINE_IMPULSE_DRIVE_I", nil, nil, 0)
	assert.Error(t, err)
}
