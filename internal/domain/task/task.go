// Package task models the Logistic Task Manager's Task/Action/Schedule
// types (§3, §4.H) that flow into the VRP Planner and back out as a
// ShipSchedule consumed by the logistics ship script.
package task

import "fmt"

// ActionKind enumerates the Action variants from §3.
type ActionKind string

const (
	ActionBuyGoods             ActionKind = "BUY_GOODS"
	ActionSellGoods            ActionKind = "SELL_GOODS"
	ActionDeliverContract      ActionKind = "DELIVER_CONTRACT"
	ActionDeliverConstruction  ActionKind = "DELIVER_CONSTRUCTION"
	ActionRefreshMarket        ActionKind = "REFRESH_MARKET"
	ActionRefreshShipyard      ActionKind = "REFRESH_SHIPYARD"
	ActionTryBuyShips          ActionKind = "TRY_BUY_SHIPS"
)

// Action is one thing a ship does while visiting a waypoint.
type Action struct {
	Kind  ActionKind
	Good  string // empty for Refresh*/TryBuyShips
	Units int    // 0 for Refresh*/TryBuyShips
}

// NetCargo is defined only for the four cargo-moving actions (§3); it
// returns (good, delta units, ok), with ok false for every other action.
// The sign convention is "effect on the ship's hold of this good":
// BuyGoods adds Units; SellGoods, DeliverContract and DeliverConstruction
// remove Units.
func (a Action) NetCargo() (good string, delta int, ok bool) {
	switch a.Kind {
	case ActionBuyGoods:
		return a.Good, a.Units, true
	case ActionSellGoods, ActionDeliverContract, ActionDeliverConstruction:
		return a.Good, -a.Units, true
	default:
		return "", 0, false
	}
}

func (a Action) String() string {
	if a.Good == "" {
		return string(a.Kind)
	}
	return fmt.Sprintf("%s(%s,%d)", a.Kind, a.Good, a.Units)
}

// TaskKind distinguishes a single-stop visit from a pickup-delivery
// transport (§3).
type TaskKind string

const (
	TaskKindVisitLocation  TaskKind = "VISIT_LOCATION"
	TaskKindTransportCargo TaskKind = "TRANSPORT_CARGO"
)

// VisitLocation is a service-only stop.
type VisitLocation struct {
	Waypoint string
	Action   Action
}

// TransportCargo is a pickup at Src followed by a delivery at Dest.
// Precondition (checked by the VRP planner when building jobs): SrcAction
// is BuyGoods(g,u) and DestAction is one of
// SellGoods/DeliverContract/DeliverConstruction for the same (g,u).
type TransportCargo struct {
	Src        string
	Dest       string
	SrcAction  Action
	DestAction Action
}

// Task is a unit of plannable work (§3). Exactly one of VisitLocation /
// TransportCargo is populated, per Kind.
type Task struct {
	ID             string
	Value          int
	Kind           TaskKind
	VisitLocation  *VisitLocation
	TransportCargo *TransportCargo
}

// Validate checks the TransportCargo precondition from §4.I.
func (t *Task) Validate() error {
	if t.Kind != TaskKindTransportCargo || t.TransportCargo == nil {
		return nil
	}
	tc := t.TransportCargo
	if tc.SrcAction.Kind != ActionBuyGoods {
		return fmt.Errorf("task %s: src action must be BuyGoods, got %s", t.ID, tc.SrcAction.Kind)
	}
	switch tc.DestAction.Kind {
	case ActionSellGoods, ActionDeliverContract, ActionDeliverConstruction:
	default:
		return fmt.Errorf("task %s: dest action must be a disposal action, got %s", t.ID, tc.DestAction.Kind)
	}
	if tc.SrcAction.Good != tc.DestAction.Good || tc.SrcAction.Units != tc.DestAction.Units {
		return fmt.Errorf("task %s: src/dest action must share (good,units)", t.ID)
	}
	return nil
}

// Demand is the VRP capacity demand for this task (the pickup/delivery
// quantity for TransportCargo, zero for VisitLocation).
func (t *Task) Demand() int {
	if t.TransportCargo == nil {
		return 0
	}
	return t.TransportCargo.SrcAction.Units
}
