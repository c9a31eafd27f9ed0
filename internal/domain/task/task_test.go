package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voidfleet/controller/internal/domain/task"
)

func TestTask_Validate_AcceptsMatchingBuySellPair(t *testing.T) {
	tk := &task.Task{
		ID:   "trade_IRON_ORE",
		Kind: task.TaskKindTransportCargo,
		TransportCargo: &task.TransportCargo{
			SrcAction:  task.Action{Kind: task.ActionBuyGoods, Good: "IRON_ORE", Units: 10},
			DestAction: task.Action{Kind: task.ActionSellGoods, Good: "IRON_ORE", Units: 10},
		},
	}
	assert.NoError(t, tk.Validate())
}

func TestTask_Validate_RejectsNonBuySrcAction(t *testing.T) {
	tk := &task.Task{
		Kind: task.TaskKindTransportCargo,
		TransportCargo: &task.TransportCargo{
			SrcAction:  task.Action{Kind: task.ActionSellGoods, Good: "IRON_ORE", Units: 10},
			DestAction: task.Action{Kind: task.ActionSellGoods, Good: "IRON_ORE", Units: 10},
		},
	}
	assert.Error(t, tk.Validate())
}

func TestTask_Validate_RejectsNonDisposalDestAction(t *testing.T) {
	tk := &task.Task{
		Kind: task.TaskKindTransportCargo,
		TransportCargo: &task.TransportCargo{
			SrcAction:  task.Action{Kind: task.ActionBuyGoods, Good: "IRON_ORE", Units: 10},
			DestAction: task.Action{Kind: task.ActionBuyGoods, Good: "IRON_ORE", Units: 10},
		},
	}
	assert.Error(t, tk.Validate())
}

func TestTask_Validate_RejectsMismatchedGoodOrUnits(t *testing.T) {
	tk := &task.Task{
		Kind: task.TaskKindTransportCargo,
		TransportCargo: &task.TransportCargo{
			SrcAction:  task.Action{Kind: task.ActionBuyGoods, Good: "IRON_ORE", Units: 10},
			DestAction: task.Action{Kind: task.ActionSellGoods, Good: "IRON_ORE", Units: 5},
		},
	}
	assert.Error(t, tk.Validate())
}

func TestTask_Validate_IgnoresVisitLocationTasks(t *testing.T) {
	tk := &task.Task{Kind: task.TaskKindVisitLocation, VisitLocation: &task.VisitLocation{Waypoint: "X1-AB-WP"}}
	assert.NoError(t, tk.Validate())
}

func TestTask_Demand_ZeroForVisitLocation(t *testing.T) {
	tk := &task.Task{Kind: task.TaskKindVisitLocation}
	assert.Zero(t, tk.Demand())
}

func TestTask_Demand_EqualsSrcUnitsForTransportCargo(t *testing.T) {
	tk := &task.Task{
		Kind:           task.TaskKindTransportCargo,
		TransportCargo: &task.TransportCargo{SrcAction: task.Action{Units: 20}},
	}
	assert.Equal(t, 20, tk.Demand())
}

func TestAction_NetCargo(t *testing.T) {
	good, delta, ok := task.Action{Kind: task.ActionBuyGoods, Good: "IRON_ORE", Units: 10}.NetCargo()
	assert.True(t, ok)
	assert.Equal(t, "IRON_ORE", good)
	assert.Equal(t, 10, delta)

	_, delta, ok = task.Action{Kind: task.ActionSellGoods, Good: "IRON_ORE", Units: 10}.NetCargo()
	assert.True(t, ok)
	assert.Equal(t, -10, delta)

	_, _, ok = task.Action{Kind: task.ActionRefreshMarket}.NetCargo()
	assert.False(t, ok)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "BUY_GOODS(IRON_ORE,10)", task.Action{Kind: task.ActionBuyGoods, Good: "IRON_ORE", Units: 10}.String())
	assert.Equal(t, "REFRESH_MARKET", task.Action{Kind: task.ActionRefreshMarket}.String())
}

func TestExpectedCargoDelta_AccumulatesNetEffect(t *testing.T) {
	actions := []task.ScheduledAction{
		{Action: task.Action{Kind: task.ActionBuyGoods, Good: "IRON_ORE", Units: 10}},
		{Action: task.Action{Kind: task.ActionSellGoods, Good: "IRON_ORE", Units: 4}},
		{Action: task.Action{Kind: task.ActionRefreshMarket}},
	}
	delta := task.ExpectedCargoDelta(actions, 2)
	assert.Equal(t, 6, delta["IRON_ORE"])

	delta = task.ExpectedCargoDelta(actions, 0)
	assert.Empty(t, delta)

	delta = task.ExpectedCargoDelta(actions, 10)
	assert.Equal(t, 6, delta["IRON_ORE"])
}
