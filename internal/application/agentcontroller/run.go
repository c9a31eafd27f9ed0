package agentcontroller

import (
	"context"
	"fmt"
	"regexp"

	"github.com/voidfleet/controller/internal/application/joinregistry"
	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/domain/fleet"
)

// SiteResolver finds the one charted waypoint of a given kind in a system,
// for behaviors whose ShipConfig names no waypoint of its own (§4.K
// spawn_run_ship "selects the behavior script and spawns it" — mining,
// siphon, construction and exploration all need a concrete site to spawn
// against).
type SiteResolver interface {
	EngineeredAsteroid(ctx context.Context, systemSymbol string) (waypoint string, ok bool, err error)
	GasGiant(ctx context.Context, systemSymbol string) (waypoint string, ok bool, err error)
	JumpGate(ctx context.Context, systemSymbol string) (waypoint string, ok bool, err error)
}

// ScriptDeps bundles every per-ship-script collaborator port (§4.J) that
// spawn_run_ship needs to dispatch a behavior. ShipFactory is a function
// rather than a port because each script needs a ShipAPI bound to its own
// symbol; the concrete factory (adapters/shipapi.NewHandle) lives in the
// composition root, keeping this package free of an adapter-layer import.
type ScriptDeps struct {
	ShipFactory func(symbol string) shipscripts.ShipAPI
	Router      shipscripts.Router
	Sites       SiteResolver
	Sleep       shipscripts.Sleeper

	ConstructionWorld shipscripts.ConstructionWorld
	ConstructionBuyer shipscripts.Buyer
	ConstructionStore shipscripts.ConstructionStore

	LogisticsStore shipscripts.LogisticsStore
	Planner        shipscripts.Planner
	ActionExecutor shipscripts.ActionExecutor
	TaskCompleter  shipscripts.TaskCompleter

	Extractor shipscripts.Extractor
	Siphoner  shipscripts.Siphoner

	ProbeSnapshots shipscripts.ProbeSnapshots

	Scrapper        shipscripts.Scrapper
	NearestShipyard shipscripts.NearestShipyard

	MarketView  shipscripts.MarketView
	Trader      shipscripts.Trader
	OreStore    shipscripts.ShuttleStore // "extract_shuttle_state/{ship}"
	SiphonStore shipscripts.ShuttleStore // "siphon_shuttle_state/{ship}"

	JumpGateGraph    shipscripts.JumpGateGraph
	GateReservations shipscripts.GateReservations
	Jumper           shipscripts.Jumper
}

// defaultJobIDFilter matches every job (§6 "JOB_ID_FILTER ... default .*").
var defaultJobIDFilter = regexp.MustCompile(".*")

// SpawnRunShip looks up symbol's assignment, selects the behavior script
// named by its job's Behavior.Kind, and spawns it in its own goroutine,
// pushing the resulting handle onto the join-handle registry (§4.K). A
// nil filter defaults to matching every job ID. Ships with any negative
// engine/frame/reactor condition, or with no assignment, are parked: the
// call returns normally without spawning anything.
func (c *Controller) SpawnRunShip(ctx context.Context, symbol string, jobIDFilter *regexp.Regexp) error {
	if jobIDFilter == nil {
		jobIDFilter = defaultJobIDFilter
	}

	cfg, ok := c.JobFor(symbol)
	if !ok {
		return nil
	}
	if !jobIDFilter.MatchString(cfg.ID) {
		return nil
	}

	ship, ok := c.Ship(symbol)
	if !ok {
		return nil
	}
	if ship.HasNegativeCondition() {
		return nil
	}

	runner, err := c.runnerFor(ctx, ship, cfg)
	if err != nil {
		return fmt.Errorf("spawn_run_ship %s: %w", symbol, err)
	}
	if runner == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- runner()
	}()
	c.registry.Push(joinregistry.Handle{Name: symbol, Done: done})
	return nil
}

// RunShips spawns the cargo broker, runs try_buy_ships once with no
// preferred purchaser, spawns every assigned ship's script, then awaits
// all registered handles via the join-handle registry (§4.K run_ships,
// §4.N). It returns once the registry's await-loop returns, i.e. once
// Close has been called and every spawned script has finished (normally
// only on shutdown, since each script itself loops forever).
func (c *Controller) RunShips(ctx context.Context, jobIDFilter *regexp.Regexp) error {
	brokerDone := make(chan error, 1)
	go func() {
		c.cargoBroker.Run(ctx)
		brokerDone <- ctx.Err()
	}()
	c.registry.Push(joinregistry.Handle{Name: "cargo-broker", Done: brokerDone})

	if _, _, err := c.TryBuyShips(ctx, "", false); err != nil {
		return fmt.Errorf("run_ships: initial try_buy_ships: %w", err)
	}

	for _, symbol := range c.AssignedShips() {
		if err := c.SpawnRunShip(ctx, symbol, jobIDFilter); err != nil {
			return err
		}
	}

	return c.registry.Start()
}

// runnerFor resolves cfg's behavior into a zero-argument function that
// runs the chosen shipscripts.Run* to completion, or nil if the behavior
// needs a site this system has none of yet (the ship simply waits for the
// next run_ships restart once the world is charted further).
func (c *Controller) runnerFor(ctx context.Context, ship fleet.Ship, cfg fleet.ShipConfig) (func() error, error) {
	d := c.scripts
	api := d.ShipFactory(ship.Symbol)
	systemSymbol := ship.Nav.SystemSymbol

	switch cfg.Behavior.Kind {
	case fleet.BehaviorProbe:
		waypoints := cfg.Behavior.Probe.Waypoints
		return func() error {
			return shipscripts.RunProbe(ctx, api, d.Router, d.ProbeSnapshots, waypoints, d.Sleep)
		}, nil

	case fleet.BehaviorLogistics:
		return func() error {
			return shipscripts.RunLogistics(ctx, api, d.Router, d.LogisticsStore, d.Planner, d.ActionExecutor, d.TaskCompleter, d.Sleep)
		}, nil

	case fleet.BehaviorMiningSurveyor:
		asteroid, ok, err := d.Sites.EngineeredAsteroid(ctx, systemSymbol)
		if err != nil || !ok {
			return nil, err
		}
		return func() error {
			return shipscripts.RunMiningSurveyor(ctx, api, d.Router, asteroid, c.surveys, d.Extractor, c.surveys.InsertSurveys)
		}, nil

	case fleet.BehaviorMiningDrone:
		asteroid, ok, err := d.Sites.EngineeredAsteroid(ctx, systemSymbol)
		if err != nil || !ok {
			return nil, err
		}
		return func() error {
			return shipscripts.RunMiningDrone(ctx, api, d.Router, asteroid, c.surveys, d.Extractor, shipscripts.JettisonList{}, c.cargoBroker)
		}, nil

	case fleet.BehaviorMiningShuttle:
		asteroid, ok, err := d.Sites.EngineeredAsteroid(ctx, systemSymbol)
		if err != nil || !ok {
			return nil, err
		}
		return func() error {
			return shipscripts.RunShuttle(ctx, api, d.Router, asteroid, systemSymbol, shipscripts.MiningSellGoods, map[string]bool{}, c.cargoBroker, d.MarketView, d.Trader, d.OreStore)
		}, nil

	case fleet.BehaviorSiphonDrone:
		gasGiant, ok, err := d.Sites.GasGiant(ctx, systemSymbol)
		if err != nil || !ok {
			return nil, err
		}
		return func() error {
			return shipscripts.RunSiphonDrone(ctx, api, d.Router, gasGiant, d.Siphoner, shipscripts.JettisonList{}, c.cargoBroker)
		}, nil

	case fleet.BehaviorSiphonShuttle:
		gasGiant, ok, err := d.Sites.GasGiant(ctx, systemSymbol)
		if err != nil || !ok {
			return nil, err
		}
		return func() error {
			return shipscripts.RunSiphonShuttle(ctx, api, d.Router, gasGiant, systemSymbol, map[string]bool{}, c.cargoBroker, d.MarketView, d.Trader, d.SiphonStore)
		}, nil

	case fleet.BehaviorConstructionHauler:
		gateWaypoint, ok, err := d.Sites.JumpGate(ctx, systemSymbol)
		if err != nil || !ok {
			return nil, err
		}
		return func() error {
			return shipscripts.RunConstructionHauler(ctx, api, d.Router, gateWaypoint, systemSymbol, d.ConstructionWorld, d.ConstructionBuyer, d.ConstructionStore)
		}, nil

	case fleet.BehaviorExplorer:
		return func() error {
			return shipscripts.RunExplorer(ctx, api, d.Router, d.JumpGateGraph, d.GateReservations, d.Jumper)
		}, nil

	case fleet.BehaviorScrap:
		return func() error {
			return shipscripts.RunScrap(ctx, api, d.Router, d.NearestShipyard, systemSymbol, d.Scrapper)
		}, nil

	default:
		return nil, fmt.Errorf("unknown behavior kind %q", cfg.Behavior.Kind)
	}
}
