package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voidfleet/controller/internal/domain/agent"
)

func TestEra_Next(t *testing.T) {
	// Arrange / Act / Assert
	assert.Equal(t, agent.EraStartingSystem2, agent.EraStartingSystem1.Next())
	assert.Equal(t, agent.EraInterSystem1, agent.EraStartingSystem2.Next())
	assert.Equal(t, agent.EraInterSystem1, agent.EraInterSystem1.Next())
}

func TestEra_Next_UnknownEraIsUnchanged(t *testing.T) {
	unknown := agent.Era("SOMETHING_ELSE")
	assert.Equal(t, unknown, unknown.Next())
}
