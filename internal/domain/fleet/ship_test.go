package fleet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voidfleet/controller/internal/domain/fleet"
)

func TestCargo_Validate_RejectsMismatchedSum(t *testing.T) {
	c := fleet.Cargo{Capacity: 10, Units: 5, Inventory: map[string]int{"IRON_ORE": 3}}
	assert.Error(t, c.Validate())
}

func TestCargo_Validate_RejectsOverCapacity(t *testing.T) {
	c := fleet.Cargo{Capacity: 10, Units: 12, Inventory: map[string]int{"IRON_ORE": 12}}
	assert.Error(t, c.Validate())
}

func TestCargo_Validate_AcceptsConsistentState(t *testing.T) {
	c := fleet.Cargo{Capacity: 10, Units: 3, Inventory: map[string]int{"IRON_ORE": 3}}
	assert.NoError(t, c.Validate())
}

func TestCargo_Clone_DoesNotAliasInventory(t *testing.T) {
	c := fleet.NewEmptyCargo(10)
	c.Inventory["IRON_ORE"] = 3
	c.Units = 3

	clone := c.Clone()
	clone.Inventory["IRON_ORE"] = 99

	assert.Equal(t, 3, c.Inventory["IRON_ORE"])
}

func TestCooldown_Active_UsesExpirationWhenSet(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	c := fleet.Cooldown{RemainingSeconds: 0, Expiration: &future}
	assert.True(t, c.Active(now))

	past := now.Add(-time.Minute)
	c = fleet.Cooldown{RemainingSeconds: 30, Expiration: &past}
	assert.False(t, c.Active(now))
}

func TestCooldown_Active_FallsBackToRemainingSeconds(t *testing.T) {
	c := fleet.Cooldown{RemainingSeconds: 5}
	assert.True(t, c.Active(time.Now()))

	c = fleet.Cooldown{RemainingSeconds: 0}
	assert.False(t, c.Active(time.Now()))
}

func TestShip_HasNegativeCondition(t *testing.T) {
	s := &fleet.Ship{Engine: fleet.Engine{Condition: 1}, Frame: fleet.Frame{Condition: 1}, Reactor: fleet.Reactor{Condition: -0.1}}
	assert.True(t, s.HasNegativeCondition())

	s = &fleet.Ship{Engine: fleet.Engine{Condition: 1}, Frame: fleet.Frame{Condition: 1}, Reactor: fleet.Reactor{Condition: 1}}
	assert.False(t, s.HasNegativeCondition())
}

func TestShip_ValidateInvariants_RejectsFuelOutOfRange(t *testing.T) {
	s := &fleet.Ship{
		Cargo: fleet.NewEmptyCargo(0),
		Fuel:  fleet.Fuel{Current: 120, Capacity: 100},
		Nav:   fleet.Nav{Status: fleet.NavStatusDocked},
	}
	assert.Error(t, s.ValidateInvariants(time.Now()))
}

func TestShip_ValidateInvariants_RejectsInTransitWithNoRoute(t *testing.T) {
	s := &fleet.Ship{
		Cargo: fleet.NewEmptyCargo(0),
		Fuel:  fleet.Fuel{Current: 10, Capacity: 100},
		Nav:   fleet.Nav{Status: fleet.NavStatusInTransit, Route: nil},
	}
	assert.Error(t, s.ValidateInvariants(time.Now()))
}

func TestShip_ValidateInvariants_RejectsInTransitWithPastArrival(t *testing.T) {
	now := time.Now()
	s := &fleet.Ship{
		Cargo: fleet.NewEmptyCargo(0),
		Fuel:  fleet.Fuel{Current: 10, Capacity: 100},
		Nav:   fleet.Nav{Status: fleet.NavStatusInTransit, Route: &fleet.Route{Arrival: now.Add(-time.Minute)}},
	}
	assert.Error(t, s.ValidateInvariants(now))
}

func TestShip_ValidateInvariants_AcceptsConsistentState(t *testing.T) {
	now := time.Now()
	s := &fleet.Ship{
		Cargo: fleet.NewEmptyCargo(0),
		Fuel:  fleet.Fuel{Current: 10, Capacity: 100},
		Nav:   fleet.Nav{Status: fleet.NavStatusInTransit, Route: &fleet.Route{Arrival: now.Add(time.Minute)}},
	}
	assert.NoError(t, s.ValidateInvariants(now))
}

func TestShip_CargoSpaceRemaining(t *testing.T) {
	s := &fleet.Ship{Cargo: fleet.Cargo{Capacity: 40, Units: 15}}
	assert.Equal(t, 25, s.CargoSpaceRemaining())
}
