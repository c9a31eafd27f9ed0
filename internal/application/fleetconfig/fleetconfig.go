// Package fleetconfig implements refresh_ship_config's job-list half
// (§4.K): given the agent's current era, produce the ordered []ShipConfig
// the Agent Controller assigns ships against. Grounded on the teacher's
// internal/application/setup package, which likewise hard-codes a fleet
// composition (probe count, hauler count, mining rig shape) per starting
// phase rather than deriving it from a search over live market data.
//
// The full contract reads "from current waypoints/markets/shipyards/era",
// but the Agent Controller's ConfigGenerator port only passes era: a
// composition that also priced markets and counted shipyards would need a
// much larger search (which ship models are actually for sale where, what
// a waypoint's exports are) that §4.I's VRP planner already performs at
// task-assignment time. Generate therefore answers "what roles should
// exist this era" and leaves "which waypoint/shipyard fills them" to
// try_buy_ships' purchaser search and the planner's task list — the two
// components already built to answer exactly that.
package fleetconfig

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/domain/agent"
	"github.com/voidfleet/controller/internal/domain/fleet"
)

// Ship model names, as listed by the SpaceTraders shipyard catalog.
const (
	modelProbe        = "SHIP_PROBE"
	modelLightHauler  = "SHIP_LIGHT_HAULER"
	modelOreHound     = "SHIP_ORE_HOUND"
	modelSiphonDrone  = "SHIP_SIPHON_DRONE"
	modelSurveyor     = "SHIP_SURVEYOR"
	modelMiningDrone  = "SHIP_MINING_DRONE"
	modelCommandFrigate = "SHIP_COMMAND_FRIGATE"
	modelRefiningFreighter = "SHIP_REFINING_FREIGHTER"
)

// Generator builds ship_config lists from era alone, implementing
// agentcontroller.ConfigGenerator.
type Generator struct{}

// New constructs a Generator.
func New() *Generator { return &Generator{} }

// Generate returns the ordered job list for era (§4.K refresh_ship_config).
// Order matters: try_buy_ships iterates it front-to-back and stops at the
// first job it cannot fill, so earlier entries are the higher-priority
// roles (command ship, starting probes) and later ones are the roles an
// agent only wants once the earlier ones are staffed.
func (g *Generator) Generate(ctx context.Context, era agent.Era) ([]fleet.ShipConfig, error) {
	switch era {
	case agent.EraStartingSystem1:
		return startingSystem1Jobs(), nil
	case agent.EraStartingSystem2:
		return append(startingSystem1Jobs(), startingSystem2Jobs()...), nil
	case agent.EraInterSystem1:
		return append(append(startingSystem1Jobs(), startingSystem2Jobs()...), interSystem1Jobs()...), nil
	default:
		return nil, fmt.Errorf("fleetconfig: unknown era %q", era)
	}
}

// startingSystem1Jobs covers the two ships every new agent starts with: the
// command frigate runs logistics, and the starting probe takes a Probe job.
// That Probe job lists no waypoints, so RunProbe visits and refreshes
// nothing with it; and since neither job is a Probe job pinned to a
// waypoint, contract_tick's statically-probed-ship lookup finds no ship
// among them.
func startingSystem1Jobs() []fleet.ShipConfig {
	return []fleet.ShipConfig{
		{
			ID:          "command-logistics",
			TargetModel: modelCommandFrigate,
			Purchase:    fleet.PurchaseCriteria{NeverPurchase: true},
			Behavior: fleet.Behavior{
				Kind: fleet.BehaviorLogistics,
				Logistics: &fleet.LogisticsBehavior{
					UsePlanner:         true,
					AllowShipBuying:    true,
					AllowConstruction:  true,
					AllowMarketRefresh: true,
				},
			},
		},
		{
			ID:          "probe-starting",
			TargetModel: modelProbe,
			Purchase:    fleet.PurchaseCriteria{NeverPurchase: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorProbe, Probe: &fleet.ProbeBehavior{}},
		},
	}
}

// startingSystem2Jobs adds the mining/logistics cluster once credits cross
// the era-2 threshold: a surveyor, two mining drones, a mining shuttle, a
// siphon drone and a siphon shuttle to haul their yield, plus a second
// logistics hauler.
func startingSystem2Jobs() []fleet.ShipConfig {
	logistics := func(id string) fleet.ShipConfig {
		return fleet.ShipConfig{
			ID:          id,
			TargetModel: modelLightHauler,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true},
			Behavior: fleet.Behavior{
				Kind: fleet.BehaviorLogistics,
				Logistics: &fleet.LogisticsBehavior{
					UsePlanner:         true,
					AllowShipBuying:    false,
					AllowConstruction:  true,
					AllowMarketRefresh: true,
				},
			},
		}
	}
	return []fleet.ShipConfig{
		{
			ID:          "mining-surveyor",
			TargetModel: modelSurveyor,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorMiningSurveyor},
		},
		{
			ID:          "mining-drone-1",
			TargetModel: modelMiningDrone,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorMiningDrone},
		},
		{
			ID:          "mining-drone-2",
			TargetModel: modelMiningDrone,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorMiningDrone},
		},
		{
			ID:          "mining-shuttle",
			TargetModel: modelOreHound,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorMiningShuttle},
		},
		{
			ID:          "siphon-drone",
			TargetModel: modelSiphonDrone,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorSiphonDrone},
		},
		{
			ID:          "siphon-shuttle",
			TargetModel: modelOreHound,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorSiphonShuttle},
		},
		logistics("logistics-2"),
	}
}

// interSystem1Jobs adds the jump-capable explorer and a construction
// hauler once the starting-system jumpgate is complete and the agent can
// reach the next system.
func interSystem1Jobs() []fleet.ShipConfig {
	return []fleet.ShipConfig{
		{
			ID:          "explorer",
			TargetModel: modelProbe,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true, RequireCheapest: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorExplorer},
		},
		{
			ID:          "construction-hauler",
			TargetModel: modelRefiningFreighter,
			Purchase:    fleet.PurchaseCriteria{AllowLogisticTask: true},
			Behavior:    fleet.Behavior{Kind: fleet.BehaviorConstructionHauler},
		},
	}
}
