// Package agentcontroller implements the Agent Controller (§4.K): the
// owner of the ship table, assignments, ship_config, ledger, survey
// manager, cargo broker, and join-handle registry. Grounded on the
// teacher's setup/wiring (internal/application/setup) and its
// player/ship command handlers, consolidated from many single-method CQRS
// handlers into the cohesive owner the spec names — per the design note
// "Cycles between Agent Controller and Task Manager: break with a
// 'set_agent_controller' hand-off stored behind a one-shot init; the task
// manager holds a weak view, never owns," the Controller holds no Task
// Manager: the Task Manager reaches the Controller only through adapters
// built after New returns, and the ports that scan the Controller's own
// ship table (PurchaserFinder, StaticProbe) are bound to it once, after
// construction (fleetops.ControllerView.Bind).
package agentcontroller

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/voidfleet/controller/internal/application/broker"
	"github.com/voidfleet/controller/internal/application/joinregistry"
	appledger "github.com/voidfleet/controller/internal/application/ledger"
	"github.com/voidfleet/controller/internal/application/survey"
	"github.com/voidfleet/controller/internal/domain/agent"
	"github.com/voidfleet/controller/internal/domain/contract"
	"github.com/voidfleet/controller/internal/domain/events"
	"github.com/voidfleet/controller/internal/domain/fleet"
)

const fuelReservationName = "FUEL"
const fuelReservationAmount = 10_000
const logisticsCreditsPerCargoUnit = 5_000
const eraAdvanceCreditsThreshold = 1_000_000
const contractProfitFloor = -50_000
const contractCreditsBuffer = 100_000

// ShipPurchaseOutcome is try_buy_ships's per-job outcome (§4.K).
type ShipPurchaseOutcome int

const (
	OutcomeBought ShipPurchaseOutcome = iota
	OutcomeFailedNeverPurchase
	OutcomeFailedNoShipyards
	OutcomeFailedLowCredits
	OutcomeFailedNoPurchaser
)

// ShipyardLister finds candidate shipyards for a job's model/system.
type ShipyardLister interface {
	SearchShipyards(ctx context.Context, systemSymbol string, model fleet.ShipModel) ([]ShipyardPrice, error)
}

// ShipyardPrice is one (waypoint, price) candidate for purchasing a model.
type ShipyardPrice struct {
	Waypoint string
	Price    int
}

// ShipBuyer performs the purchase RPC and returns the new ship's symbol.
type ShipBuyer interface {
	BuyShip(ctx context.Context, purchaserShip, shipType, waypoint string) (symbol string, err error)
}

// PurchaserFinder resolves which ship (if any) at a shipyard can act as a
// purchaser (not in transit, and either the requested purchaser or a
// statically-probed probe at that waypoint).
type PurchaserFinder interface {
	FindPurchaser(ctx context.Context, shipyardWP string, requested string) (shipSymbol string, ok bool)
}

// TransferAPI performs the in-game transfer RPC.
type TransferAPI interface {
	Transfer(ctx context.Context, srcShip, dstShip, good string, units int) (srcCargo, dstCargo fleet.Cargo, err error)
}

// ContractAPI performs contract negotiate/fulfill RPCs.
type ContractAPI interface {
	NegotiateContract(ctx context.Context, ship string) (*contract.Contract, error)
	FulfillContract(ctx context.Context, contractID string) error
}

// ContractWorld answers the market question contract_tick needs.
type ContractWorld interface {
	// BestContractBuy picks the cheapest market selling good in systemSymbol,
	// preferring a non-Import market whenever at least one trades it
	// (§4.K contract_tick).
	BestContractBuy(ctx context.Context, systemSymbol, good string) (wp string, price int, err error)
}

// ConfigGenerator regenerates ship_config from current world state (§4.K
// refresh_ship_config).
type ConfigGenerator interface {
	Generate(ctx context.Context, era agent.Era) ([]fleet.ShipConfig, error)
}

// StaticProbe resolves any ship assigned a statically-probed Probe job, if
// any (used for contract negotiation).
type StaticProbe interface {
	AnyStaticProbe(ctx context.Context) (shipSymbol string, ok bool)
}

// Controller owns fleet-wide state and drives the operations in §4.K.
type Controller struct {
	mu sync.RWMutex // guards agentState, ships, shipConfigs

	agentState agent.State
	agentSnap  agent.Agent
	ships      map[string]*fleet.Ship
	shipModels map[string]string // ship symbol -> resolved fleet.ShipModel.Name
	shipConfigs []fleet.ShipConfig
	assignments *fleet.Assignments
	contracts   *contract.Contract
	contractHash string

	ledger *appledger.Service
	surveys *survey.Manager
	cargoBroker *broker.Broker
	registry *joinregistry.Registry
	eventBus EventEmitter

	shipyards       ShipyardLister
	buyer           ShipBuyer
	purchaserFinder PurchaserFinder
	transferAPI     TransferAPI
	contractAPI     ContractAPI
	contractWorld   ContractWorld
	configGen       ConfigGenerator
	staticProbe     StaticProbe

	buyShipsMu sync.Mutex // dedicated mutex for try_buy_ships (§5)
	contractMu sync.Mutex

	shipLocks map[string]*sync.Mutex
	shipLockMu sync.Mutex

	scripts ScriptDeps
}

// EventEmitter is the Event Bus port (§4.L).
type EventEmitter interface {
	EmitEvent(events.Event)
}

// Deps bundles Controller's collaborators, constructor-injected per the
// teacher's wiring style (internal/application/setup).
type Deps struct {
	Shipyards       ShipyardLister
	Buyer           ShipBuyer
	PurchaserFinder PurchaserFinder
	TransferAPI     TransferAPI
	ContractAPI     ContractAPI
	ContractWorld   ContractWorld
	ConfigGenerator ConfigGenerator
	StaticProbe     StaticProbe
	Ledger          *appledger.Service
	Surveys         *survey.Manager
	CargoBroker     *broker.Broker
	Registry        *joinregistry.Registry
	EventBus        EventEmitter

	// InitialState seeds the era-tracking state this Controller starts
	// from — the persisted "{callsign}/state" record on a restart, or
	// the zero value on a fresh agent, which New treats as
	// agent.EraStartingSystem1.
	InitialState agent.State
}

// New constructs a Controller over an empty ship table.
func New(d Deps) *Controller {
	initialState := d.InitialState
	if initialState.Era == "" {
		initialState.Era = agent.EraStartingSystem1
	}
	return &Controller{
		agentState:      initialState,
		ships:           make(map[string]*fleet.Ship),
		shipModels:      make(map[string]string),
		assignments:     fleet.NewAssignments(),
		shipyards:       d.Shipyards,
		buyer:           d.Buyer,
		purchaserFinder: d.PurchaserFinder,
		transferAPI:     d.TransferAPI,
		contractAPI:     d.ContractAPI,
		contractWorld:   d.ContractWorld,
		configGen:       d.ConfigGenerator,
		staticProbe:     d.StaticProbe,
		ledger:          d.Ledger,
		surveys:         d.Surveys,
		cargoBroker:     d.CargoBroker,
		registry:        d.Registry,
		eventBus:        d.EventBus,
		shipLocks:       make(map[string]*sync.Mutex),
		contractHash:    "none",
	}
}

// SetScripts binds the per-ship-script collaborators run_ships/
// spawn_run_ship dispatch against. Like ControllerView's Bind, this is a
// one-shot hand-off called once after New returns: ScriptDeps.ShipFactory
// itself closes over this Controller, so it cannot be supplied through
// Deps without a construction cycle.
func (c *Controller) SetScripts(d ScriptDeps) {
	c.scripts = d
}

func (c *Controller) shipLock(symbol string) *sync.Mutex {
	c.shipLockMu.Lock()
	defer c.shipLockMu.Unlock()
	if c.shipLocks[symbol] == nil {
		c.shipLocks[symbol] = &sync.Mutex{}
	}
	return c.shipLocks[symbol]
}

// UpdateAgent stamps a fresh Agent snapshot, updates the ledger total, and
// fans out an AgentUpdate event.
func (c *Controller) UpdateAgent(a agent.Agent) {
	c.mu.Lock()
	c.agentSnap = a
	c.mu.Unlock()
	c.ledger.SetTotal(a.Credits)
	c.eventBus.EmitEvent(events.Event{Kind: "agent_upd", Agent: &events.AgentUpdate{Timestamp: time.Now(), Snapshot: a}})
}

// CheckEraAdvance is idempotent; it moves era StartingSystem1->2 when
// available credits cross the threshold, and 2->InterSystem1 when the
// starting-system jumpgate is complete (§4.K).
func (c *Controller) CheckEraAdvance(jumpgateComplete bool) agent.Era {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.agentState.Era {
	case agent.EraStartingSystem1:
		if c.ledger.AvailableCredits() >= eraAdvanceCreditsThreshold {
			c.agentState.Era = agent.EraStartingSystem2
		}
	case agent.EraStartingSystem2:
		if jumpgateComplete {
			c.agentState.Era = agent.EraInterSystem1
		}
	}
	return c.agentState.Era
}

// RefreshShipConfig regenerates configuration from current world state,
// unassigns vanished jobs/ships, assigns unassigned ships matching a
// vacant job's model, and reserves credits for logistics jobs plus a flat
// FUEL reservation (§4.K, §8 invariant 4).
func (c *Controller) RefreshShipConfig(ctx context.Context) error {
	c.mu.Lock()
	era := c.agentState.Era
	c.mu.Unlock()

	configs, err := c.configGen.Generate(ctx, era)
	if err != nil {
		return fmt.Errorf("refresh_ship_config: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	validJobIDs := make(map[string]bool, len(configs))
	for _, cfg := range configs {
		validJobIDs[cfg.ID] = true
	}
	for _, jobID := range c.assignments.Jobs() {
		if !validJobIDs[jobID] {
			c.assignments.UnassignJob(jobID)
		}
	}
	for _, symbol := range c.assignments.Ships() {
		if _, ok := c.ships[symbol]; !ok {
			c.assignments.UnassignShip(symbol)
		}
	}

	c.shipConfigs = configs

	for symbol := range c.ships {
		if c.assignments.IsShipAssigned(symbol) {
			continue
		}
		for _, cfg := range configs {
			if c.assignments.IsJobAssigned(cfg.ID) {
				continue
			}
			if c.shipModels[symbol] == cfg.TargetModel {
				c.assignments.Assign(cfg.ID, symbol)
				break
			}
		}
	}

	c.ledger.ReleaseReservation(fuelReservationName)
	for jobID, symbol := range c.assignments.Snapshot() {
		cfg := findConfig(configs, jobID)
		if cfg == nil || cfg.Behavior.Kind != fleet.BehaviorLogistics {
			c.ledger.ReleaseReservation(symbol)
			continue
		}
		ship := c.ships[symbol]
		if ship == nil {
			continue
		}
		c.ledger.ReserveCredits(symbol, int64(ship.Cargo.Capacity)*logisticsCreditsPerCargoUnit)
	}
	c.ledger.ReserveCredits(fuelReservationName, fuelReservationAmount)

	return nil
}

func findConfig(configs []fleet.ShipConfig, id string) *fleet.ShipConfig {
	for i := range configs {
		if configs[i].ID == id {
			return &configs[i]
		}
	}
	return nil
}

// TryBuyShips serializes ship purchasing behind a dedicated mutex (§4.K,
// §5). It triggers check_era_advance and refresh_ship_config first, then
// iterates ship configs in order attempting to fill any unassigned job.
func (c *Controller) TryBuyShips(ctx context.Context, purchaser string, jumpgateComplete bool) (bought []string, waypointToVisit string, err error) {
	acquired := make(chan struct{})
	go func() { c.buyShipsMu.Lock(); close(acquired) }()
	select {
	case <-acquired:
		defer c.buyShipsMu.Unlock()
	case <-time.After(30 * time.Second):
		return nil, "", fmt.Errorf("try_buy_ships: mutex contention exceeded 30s")
	}

	c.CheckEraAdvance(jumpgateComplete)
	if err := c.RefreshShipConfig(ctx); err != nil {
		return nil, "", err
	}

	c.mu.RLock()
	configs := append([]fleet.ShipConfig(nil), c.shipConfigs...)
	c.mu.RUnlock()

	for _, cfg := range configs {
		c.mu.RLock()
		assigned := c.assignments.IsJobAssigned(cfg.ID)
		c.mu.RUnlock()
		if assigned {
			continue
		}

		outcome, symbol, wp, err := c.attemptPurchase(ctx, cfg, purchaser)
		if err != nil {
			return bought, waypointToVisit, err
		}
		switch outcome {
		case OutcomeFailedNeverPurchase, OutcomeFailedNoShipyards, OutcomeFailedLowCredits:
			return bought, waypointToVisit, nil
		case OutcomeFailedNoPurchaser:
			if cfg.Purchase.AllowLogisticTask {
				waypointToVisit = wp
			}
			return bought, waypointToVisit, nil
		case OutcomeBought:
			c.SetShipModel(symbol, cfg.TargetModel)
			c.mu.Lock()
			c.assignments.Assign(cfg.ID, symbol)
			c.mu.Unlock()
			if cfg.Behavior.Kind == fleet.BehaviorLogistics {
				c.mu.RLock()
				ship := c.ships[symbol]
				c.mu.RUnlock()
				if ship != nil {
					c.ledger.ReserveCredits(symbol, int64(ship.Cargo.Capacity)*logisticsCreditsPerCargoUnit)
				}
			}
			bought = append(bought, symbol)
		}
	}
	return bought, waypointToVisit, nil
}

func (c *Controller) attemptPurchase(ctx context.Context, cfg fleet.ShipConfig, purchaser string) (ShipPurchaseOutcome, string, string, error) {
	if cfg.Purchase.NeverPurchase {
		return OutcomeFailedNeverPurchase, "", "", nil
	}

	systemSymbol := cfg.Purchase.SystemSymbol
	if systemSymbol == "" {
		c.mu.RLock()
		systemSymbol = c.agentSnap.Headquarters
		c.mu.RUnlock()
	}

	candidates, err := c.shipyards.SearchShipyards(ctx, systemSymbol, fleet.ShipModel{Name: cfg.TargetModel})
	if err != nil {
		return 0, "", "", err
	}
	if len(candidates) == 0 {
		return OutcomeFailedNoShipyards, "", "", nil
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Price < candidates[j].Price })
	if cfg.Purchase.RequireCheapest {
		candidates = candidates[:1]
	}

	for _, cand := range candidates {
		if c.ledger.AvailableCredits() < int64(cand.Price) {
			continue
		}
		purchaserShip, ok := c.purchaserFinder.FindPurchaser(ctx, cand.Waypoint, purchaser)
		if !ok {
			continue
		}
		symbol, err := c.buyer.BuyShip(ctx, purchaserShip, cfg.TargetModel, cand.Waypoint)
		if err != nil {
			return 0, "", "", err
		}
		return OutcomeBought, symbol, "", nil
	}

	if c.ledger.AvailableCredits() < int64(candidates[0].Price) {
		return OutcomeFailedLowCredits, "", "", nil
	}
	return OutcomeFailedNoPurchaser, "", candidates[0].Waypoint, nil
}

// TransferCargo issues the transfer RPC and updates both ships' cargo
// under their locks, acquired in canonical (lexicographic) symbol order
// to avoid deadlock (§4.K, §5, §9).
func (c *Controller) TransferCargo(ctx context.Context, src, dst, good string, units int) error {
	first, second := src, dst
	if second < first {
		first, second = second, first
	}
	c.shipLock(first).Lock()
	defer c.shipLock(first).Unlock()
	if second != first {
		c.shipLock(second).Lock()
		defer c.shipLock(second).Unlock()
	}

	srcCargo, dstCargo, err := c.transferAPI.Transfer(ctx, src, dst, good, units)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if srcShip, ok := c.ships[src]; ok {
		srcShip.Cargo = srcCargo
	}
	if dstShip, ok := c.ships[dst]; ok {
		dstShip.Cargo = dstCargo
	}
	c.mu.Unlock()

	now := time.Now()
	c.eventBus.EmitEvent(events.Event{Kind: "ship_upd", Ship: &events.ShipUpdate{ShipSymbol: src, Timestamp: now, Snapshot: srcCargo}})
	c.eventBus.EmitEvent(events.Event{Kind: "ship_upd", Ship: &events.ShipUpdate{ShipSymbol: dst, Timestamp: now, Snapshot: dstCargo}})
	return nil
}

// ContractDecision is contract_tick's non-Skipped, non-negotiate outcome.
type ContractDecision struct {
	WillFulfill         bool
	WillNotFulfillReason string
	RequiresLogistics   bool
	Src, Dest, Good     string
	MissingUnits        int
}

// ContractTick is debounced by contract_hash; callers set maySkip to allow
// a no-op when the hash is unchanged (§4.K, §8 "idempotence").
func (c *Controller) ContractTick(ctx context.Context, maySkip bool) (*ContractDecision, error) {
	c.contractMu.Lock()
	defer c.contractMu.Unlock()

	c.mu.RLock()
	cur := c.contracts
	c.mu.RUnlock()

	hash := cur.Hash()
	if maySkip && hash == c.contractHash {
		return nil, nil // Skipped
	}
	c.contractHash = hash

	if cur == nil || cur.ID == "" {
		if symbol, ok := c.staticProbe.AnyStaticProbe(ctx); ok {
			negotiated, err := c.contractAPI.NegotiateContract(ctx, symbol)
			if err != nil {
				return nil, err
			}
			c.mu.Lock()
			c.contracts = negotiated
			c.mu.Unlock()
		}
		return nil, nil
	}

	if !cur.Accepted {
		return nil, nil
	}

	for _, d := range cur.Deliverables {
		if d.Remaining() == 0 {
			continue
		}
		wp, price, err := c.contractWorld.BestContractBuy(ctx, "", d.TradeSymbol)
		if err != nil {
			return nil, err
		}
		missing := d.Remaining()
		estimatedCost := int64(price) * int64(missing)
		profit := cur.OnFulfilled - estimatedCost

		if profit <= contractProfitFloor {
			return &ContractDecision{WillNotFulfillReason: "profit is too low"}, nil
		}
		if c.ledger.AvailableCredits()+contractCreditsBuffer < estimatedCost {
			return &ContractDecision{WillNotFulfillReason: "not enough credits"}, nil
		}
		return &ContractDecision{RequiresLogistics: true, Src: wp, Dest: d.DestinationSymbol, Good: d.TradeSymbol, MissingUnits: missing}, nil
	}

	if err := c.contractAPI.FulfillContract(ctx, cur.ID); err != nil {
		return nil, err
	}
	return &ContractDecision{WillFulfill: true}, nil
}

// State returns the current era-tracking snapshot, for a caller that
// persists it against the "{callsign}/state" key (§4.B).
func (c *Controller) State() agent.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.agentState
}

// Ledger exposes the Controller's ledger for callers that need direct
// access (e.g. the Logistic Task Manager's WorldView port).
func (c *Controller) Ledger() *appledger.Service { return c.ledger }

// Surveys exposes the Controller's survey manager.
func (c *Controller) Surveys() *survey.Manager { return c.surveys }

// CargoBroker exposes the Controller's cargo broker.
func (c *Controller) CargoBroker() *broker.Broker { return c.cargoBroker }

// Registry exposes the Controller's join-handle registry.
func (c *Controller) Registry() *joinregistry.Registry { return c.registry }

// Ship returns a copy of one ship's current state, or false if unknown.
func (c *Controller) Ship(symbol string) (fleet.Ship, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.ships[symbol]
	if !ok {
		return fleet.Ship{}, false
	}
	return *s, true
}

// PutShip installs or replaces a ship's state (used on sync from the API).
func (c *Controller) PutShip(s fleet.Ship) {
	c.mu.Lock()
	c.ships[s.Symbol] = &s
	c.mu.Unlock()
}

// SetShipModel records the catalog model a ship resolved to (via
// fleet.MatchModel against the shipyard's model catalog) so
// RefreshShipConfig can match it against a job's TargetModel.
func (c *Controller) SetShipModel(symbol, modelName string) {
	c.mu.Lock()
	c.shipModels[symbol] = modelName
	c.mu.Unlock()
}

// AssignedShips lists every ship currently holding a job assignment.
func (c *Controller) AssignedShips() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.assignments.Ships()
}

// JobFor returns the job assigned to a ship, if any.
func (c *Controller) JobFor(shipSymbol string) (fleet.ShipConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	jobID, ok := c.assignments.JobForShip(shipSymbol)
	if !ok {
		return fleet.ShipConfig{}, false
	}
	cfg := findConfig(c.shipConfigs, jobID)
	if cfg == nil {
		return fleet.ShipConfig{}, false
	}
	return *cfg, true
}

// AllShips returns a copy of every ship the Controller currently
// owns, for collaborators that need to scan the whole fleet (purchaser
// selection, static-probe lookup) rather than look up one ship by name.
func (c *Controller) AllShips() []fleet.Ship {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]fleet.Ship, 0, len(c.ships))
	for _, s := range c.ships {
		out = append(out, *s)
	}
	return out
}
