package shipscripts

import (
	"context"

	"github.com/voidfleet/controller/internal/application/broker"
	"github.com/voidfleet/controller/internal/domain/survey"
)

// SurveyProvider is the Survey Manager port MiningDrone consults (§4.E, §4.J).
type SurveyProvider interface {
	GetSurvey(ctx context.Context, waypoint string) (*survey.KeyedSurvey, error)
}

// Extractor performs the in-game extraction RPC.
type Extractor interface {
	Extract(ctx context.Context, ship ShipAPI, sig *survey.KeyedSurvey) (good string, units int, err error)
	Survey(ctx context.Context, ship ShipAPI) ([]survey.Survey, error)
	Jettison(ctx context.Context, ship ShipAPI, good string, units int) error
}

// RunMiningSurveyor navigates to the engineered asteroid once, then loops
// producing surveys forever (§4.J).
func RunMiningSurveyor(ctx context.Context, ship ShipAPI, router Router, asteroid string, surveys SurveyProvider, ex Extractor, insert func(context.Context, []survey.Survey) error) error {
	if err := GotoWaypoint(ctx, ship, router, asteroid); err != nil {
		return err
	}
	if err := ship.Orbit(ctx); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := ship.WaitForCooldown(ctx); err != nil {
			return err
		}
		produced, err := ex.Survey(ctx, ship)
		if err != nil {
			return err
		}
		if err := insert(ctx, produced); err != nil {
			return err
		}
	}
}

// JettisonList is the set of goods a mining/siphon ship discards rather
// than hauls (low-value byproducts).
type JettisonList map[string]bool

// MiningSellGoods is the fixed set of ore/refined goods MiningShuttle
// sells at importing/exchanging markets (§4.J MiningShuttle Selling).
var MiningSellGoods = map[string]bool{
	"IRON_ORE":      true,
	"COPPER_ORE":    true,
	"ALUMINUM_ORE":  true,
	"SILVER_ORE":    true,
	"GOLD_ORE":      true,
	"PLATINUM_ORE":  true,
	"URANITE_ORE":   true,
	"MERITIUM_ORE":  true,
	"ICE_WATER":     true,
	"QUARTZ_SAND":   true,
}

// RunMiningDrone extracts at the asteroid using the best available survey,
// jettisoning unwanted goods, and hands full cargo to the broker for a
// shuttle to collect (§4.J).
func RunMiningDrone(ctx context.Context, ship ShipAPI, router Router, asteroid string, surveys SurveyProvider, ex Extractor, jettison JettisonList, cargoBroker *broker.Broker) error {
	if err := GotoWaypoint(ctx, ship, router, asteroid); err != nil {
		return err
	}
	if err := ship.Orbit(ctx); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		snap := ship.Snapshot()
		if snap.CargoSpaceRemaining() > 0 {
			if err := ship.WaitForCooldown(ctx); err != nil {
				return err
			}
			sig, err := surveys.GetSurvey(ctx, asteroid)
			if err != nil {
				return err
			}
			good, units, err := ex.Extract(ctx, ship, sig)
			if err != nil {
				return err
			}
			if jettison[good] {
				if err := ex.Jettison(ctx, ship, good, units); err != nil {
					return err
				}
			}
			continue
		}

		goods := make([]broker.Good, 0, len(snap.Cargo.Inventory))
		for g, u := range snap.Cargo.Inventory {
			if u > 0 {
				goods = append(goods, broker.Good{Symbol: g, Units: u})
			}
		}
		if err := cargoBroker.TransferCargo(ctx, ship.Symbol(), asteroid, goods); err != nil {
			return err
		}
	}
}
