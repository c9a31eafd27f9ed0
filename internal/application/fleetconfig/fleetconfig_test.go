package fleetconfig_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/fleetconfig"
	"github.com/voidfleet/controller/internal/domain/agent"
)

func configIDs(t *testing.T, era agent.Era) []string {
	t.Helper()
	g := fleetconfig.New()
	configs, err := g.Generate(context.Background(), era)
	require.NoError(t, err)

	ids := make([]string, len(configs))
	for i, c := range configs {
		ids[i] = c.ID
	}
	return ids
}

func TestGenerate_StartingSystem1_IsTheTwoSeedShips(t *testing.T) {
	ids := configIDs(t, agent.EraStartingSystem1)
	assert.Equal(t, []string{"command-logistics", "probe-starting"}, ids)
}

func TestGenerate_IsCumulativeAcrossEras(t *testing.T) {
	era1 := configIDs(t, agent.EraStartingSystem1)
	era2 := configIDs(t, agent.EraStartingSystem2)
	era3 := configIDs(t, agent.EraInterSystem1)

	assert.Subset(t, era2, era1)
	assert.Subset(t, era3, era2)
	assert.Contains(t, era3, "explorer")
	assert.Contains(t, era3, "construction-hauler")
}

func TestGenerate_UnknownEraErrors(t *testing.T) {
	g := fleetconfig.New()
	_, err := g.Generate(context.Background(), agent.Era("NOT_A_REAL_ERA"))
	assert.Error(t, err)
}
