// Package taskmanager implements the Logistic Task Manager: task-list
// generation from live world state and take_tasks per ship (§4.H).
// Grounded on the teacher's trading/services package
// (internal/application/trading/services), which already walks markets
// computing buy/sell spreads; generalized here into the spec's task
// generation pipeline and widened to also cover shipbuying, refresh, and
// construction tasks.
package taskmanager

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/voidfleet/controller/internal/domain/routing"
	"github.com/voidfleet/controller/internal/domain/task"
	"github.com/voidfleet/controller/internal/domain/universe"
)

const (
	marketRefreshInterval  = time.Hour
	valueRefreshMarket     = 20_000
	valueRefreshShipyard   = 5_000
	valueBuyShips          = 200_000
	valueConstruction      = 100_000
	constructionBuffer     = 2_000_000
	tradeAffordabilityFlat = 10_000
)

// ShipyardBuyer is the Agent Controller port used for opportunistic
// shipbuying during generation step 1.
type ShipyardBuyer interface {
	// TryBuyShipsAt attempts to buy at shipyardWP; returns true if a
	// purchaser is still needed there (no ship could be found to buy it).
	TryBuyShipsAt(ctx context.Context, shipyardWP string) (needsPurchaser bool, err error)
}

// VRPSolver is the planner port (§4.I).
type VRPSolver interface {
	Solve(ctx context.Context, problem routing.VRPProblem) (*routing.VRPSolution, error)
}

// WorldView is the read-only Universe+Ledger slice the generation pipeline needs.
type WorldView interface {
	Shipyards(ctx context.Context, systemSymbol string) (map[string]*universe.Shipyard, error)
	Markets(ctx context.Context, systemSymbol string) (map[string]*universe.Market, time.Time, map[string]time.Time, error)
	ProbedWaypoints(systemSymbol string) map[string]bool
	Construction(ctx context.Context, systemSymbol string) (waypoint string, con *universe.Construction, ok bool)
	AvailableCredits() int64
}

type InProgressEntry struct {
	Task       task.Task
	ShipSymbol string
	TakenAt    time.Time
}

// Store persists in_progress_tasks durably (§4.H).
type Store interface {
	SaveInProgress(ctx context.Context, systemSymbol string, entries map[string]InProgressEntry) error
	LoadInProgress(ctx context.Context, systemSymbol string) (map[string]InProgressEntry, error)
}

// Manager is the Logistic Task Manager.
type Manager struct {
	world   WorldView
	buyer   ShipyardBuyer
	solver  VRPSolver
	store   Store
	clock   func() time.Time

	takeMu sync.Mutex // dedicated mutex for take_tasks (§5)

	mu          sync.Mutex
	inProgress  map[string]map[string]InProgressEntry // system -> task id -> entry
}

// New constructs a Manager.
func New(world WorldView, buyer ShipyardBuyer, solver VRPSolver, store Store, clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		world:      world,
		buyer:      buyer,
		solver:     solver,
		store:      store,
		clock:      clock,
		inProgress: make(map[string]map[string]InProgressEntry),
	}
}

// GenerateTasks runs the four-step generation pipeline for systemSymbol
// (§4.H) and returns the resulting task list.
func (m *Manager) GenerateTasks(ctx context.Context, systemSymbol string) ([]task.Task, error) {
	var tasks []task.Task

	// Step 1: opportunistic shipbuying.
	shipyards, err := m.world.Shipyards(ctx, systemSymbol)
	if err != nil {
		return nil, fmt.Errorf("taskmanager: load shipyards: %w", err)
	}
	for wp := range shipyards {
		needsPurchaser, err := m.buyer.TryBuyShipsAt(ctx, wp)
		if err != nil {
			return nil, fmt.Errorf("taskmanager: shipbuying at %s: %w", wp, err)
		}
		if needsPurchaser {
			tasks = append(tasks, task.Task{
				ID:    "buyships_" + wp,
				Value: valueBuyShips,
				Kind:  task.TaskKindVisitLocation,
				VisitLocation: &task.VisitLocation{
					Waypoint: wp,
					Action:   task.Action{Kind: task.ActionTryBuyShips},
				},
			})
		}
	}

	// Step 2: market/shipyard refresh visits.
	markets, _, marketTimestamps, err := m.world.Markets(ctx, systemSymbol)
	if err != nil {
		return nil, fmt.Errorf("taskmanager: load markets: %w", err)
	}
	probed := m.world.ProbedWaypoints(systemSymbol)
	for wp, mkt := range markets {
		if probed[wp] {
			continue
		}
		ts, hasSnapshot := marketTimestamps[wp]
		stale := !hasSnapshot || m.clock().Sub(ts) > marketRefreshInterval
		if !stale {
			continue
		}
		if mkt != nil && mkt.IsPureExchangeFuelOnly() {
			continue
		}
		tasks = append(tasks, task.Task{
			ID:    "refreshmarket_" + wp,
			Value: valueRefreshMarket,
			Kind:  task.TaskKindVisitLocation,
			VisitLocation: &task.VisitLocation{
				Waypoint: wp,
				Action:   task.Action{Kind: task.ActionRefreshMarket},
			},
		})
	}
	for wp := range shipyards {
		if probed[wp] {
			continue
		}
		tasks = append(tasks, task.Task{
			ID:    "refreshshipyard_" + wp,
			Value: valueRefreshShipyard,
			Kind:  task.TaskKindVisitLocation,
			VisitLocation: &task.VisitLocation{
				Waypoint: wp,
				Action:   task.Action{Kind: task.ActionRefreshShipyard},
			},
		})
	}

	// Step 3: construction delivery tasks.
	blacklist := map[string]bool{}
	if conWP, con, ok := m.world.Construction(ctx, systemSymbol); ok {
		for _, mat := range con.Materials {
			remaining := mat.Remaining()
			if remaining <= 0 {
				continue
			}
			srcWP, good, unitCost, ok := bestConstructionSource(markets, mat.TradeSymbol)
			if !ok {
				continue
			}
			capacityCap := 40 // conservative default; callers with a known ship size should prefer per-ship planning
			qty := remaining
			if qty > capacityCap {
				qty = capacityCap
			}
			if sourceGood, ok := markets[srcWP].Good(good); ok && sourceGood.TradeVolume < qty {
				qty = sourceGood.TradeVolume
			}
			estimatedCost := int64(qty) * int64(unitCost)
			if m.world.AvailableCredits() <= estimatedCost+constructionBuffer {
				continue
			}
			tasks = append(tasks, task.Task{
				ID:    "construction_" + good,
				Value: valueConstruction,
				Kind:  task.TaskKindTransportCargo,
				TransportCargo: &task.TransportCargo{
					Src:        srcWP,
					Dest:       conWP,
					SrcAction:  task.Action{Kind: task.ActionBuyGoods, Good: good, Units: qty},
					DestAction: task.Action{Kind: task.ActionDeliverConstruction, Good: good, Units: qty},
				},
			})
			blacklist[good] = true
		}
	}

	// Step 4: trade tasks.
	goods := tradedGoods(markets)
	sort.Strings(goods)
	for _, good := range goods {
		if blacklist[good] {
			continue
		}
		buyWP, buyGood, ok1 := bestTradeBuy(markets, good)
		sellWP, sellGood, ok2 := bestTradeSell(markets, good)
		if !ok1 || !ok2 || buyWP == sellWP {
			continue
		}
		capacityCap := 40
		units := buyGood.TradeVolume
		if sellGood.TradeVolume < units {
			units = sellGood.TradeVolume
		}
		if capacityCap < units {
			units = capacityCap
		}
		if units <= 0 {
			continue
		}
		profit := (sellGood.SellPrice - buyGood.PurchasePrice) * units
		cost := int64(units)*int64(buyGood.PurchasePrice) + tradeAffordabilityFlat
		if profit <= 0 || cost > m.world.AvailableCredits() {
			continue
		}
		tasks = append(tasks, task.Task{
			ID:    "trade_" + good,
			Value: profit,
			Kind:  task.TaskKindTransportCargo,
			TransportCargo: &task.TransportCargo{
				Src:        buyWP,
				Dest:       sellWP,
				SrcAction:  task.Action{Kind: task.ActionBuyGoods, Good: good, Units: units},
				DestAction: task.Action{Kind: task.ActionSellGoods, Good: good, Units: units},
			},
		})
	}

	return tasks, nil
}

func bestConstructionSource(markets map[string]*universe.Market, good string) (wp, symbol string, price int, ok bool) {
	best := -1
	for wpSym, mkt := range markets {
		g, present := mkt.Good(good)
		if !present || g.Type == universe.TradeGoodTypeImport {
			continue
		}
		if g.Type == universe.TradeGoodTypeExport && g.Supply < universe.SupplyModerate {
			continue
		}
		if best == -1 || g.PurchasePrice < best {
			best = g.PurchasePrice
			wp = wpSym
		}
	}
	if best == -1 {
		return "", "", 0, false
	}
	return wp, good, best, true
}

func bestTradeBuy(markets map[string]*universe.Market, good string) (wp string, g universe.TradeGood, ok bool) {
	best := -1
	for wpSym, mkt := range markets {
		tg, present := mkt.Good(good)
		if !present || tg.Type == universe.TradeGoodTypeImport {
			continue
		}
		if tg.Type == universe.TradeGoodTypeExport && tg.Supply < universe.SupplyModerate {
			continue
		}
		if best == -1 || tg.PurchasePrice < best {
			best = tg.PurchasePrice
			wp, g, ok = wpSym, tg, true
		}
	}
	return
}

func bestTradeSell(markets map[string]*universe.Market, good string) (wp string, g universe.TradeGood, ok bool) {
	best := -1
	for wpSym, mkt := range markets {
		tg, present := mkt.Good(good)
		if !present || tg.Type == universe.TradeGoodTypeExport {
			continue
		}
		if tg.Type == universe.TradeGoodTypeImport && tg.Supply > universe.SupplyModerate {
			continue
		}
		if best == -1 || tg.SellPrice > best {
			best = tg.SellPrice
			wp, g, ok = wpSym, tg, true
		}
	}
	return
}

func tradedGoods(markets map[string]*universe.Market) []string {
	seen := map[string]bool{}
	for _, mkt := range markets {
		for _, g := range mkt.TradeGoods {
			seen[g.Symbol] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	return out
}

// TakeTasks filters out already-in-progress tasks, invokes the VRP planner
// for one ship, records newly assigned tasks as in-progress, and returns
// that ship's schedule (§4.H). It is serialized by a dedicated mutex with
// a 30 s contention timeout (§5, §7).
func (m *Manager) TakeTasks(
	ctx context.Context,
	systemSymbol string,
	vehicle routing.VRPVehicle,
	matrix *routing.DurationMatrix,
	planLength time.Duration,
) (*task.ShipSchedule, error) {
	acquired := make(chan struct{})
	go func() {
		m.takeMu.Lock()
		close(acquired)
	}()
	select {
	case <-acquired:
		defer m.takeMu.Unlock()
	case <-time.After(30 * time.Second):
		return nil, fmt.Errorf("taskmanager: take_tasks mutex contention exceeded 30s for system %s", systemSymbol)
	}

	tasks, err := m.GenerateTasks(ctx, systemSymbol)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	inProgress := m.inProgress[systemSymbol]
	m.mu.Unlock()

	var jobs []routing.VRPJob
	byJobID := map[string]task.Task{}
	for _, t := range tasks {
		if _, taken := inProgress[t.ID]; taken {
			continue
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("taskmanager: invalid task %s: %w", t.ID, err)
		}
		job := taskToVRPJob(t)
		jobs = append(jobs, job)
		byJobID[t.ID] = t
	}

	problem := routing.VRPProblem{
		Matrix:         matrix,
		Jobs:           jobs,
		Vehicles:       []routing.VRPVehicle{vehicle},
		PlanLength:     planLength,
		MaxComputeTime: 5 * time.Second,
		MaxGenerations: 3000,
	}
	solution, err := m.solver.Solve(ctx, problem)
	if err != nil {
		return nil, fmt.Errorf("taskmanager: planner failure: %w", err)
	}

	now := m.clock()
	m.mu.Lock()
	if m.inProgress[systemSymbol] == nil {
		m.inProgress[systemSymbol] = map[string]InProgressEntry{}
	}
	schedule := &task.ShipSchedule{Ship: task.ShipSnapshot{Symbol: vehicle.ID, StartWaypoint: vehicle.StartWaypoint}}
	for _, route := range solution.Routes {
		if route.VehicleID != vehicle.ID {
			continue
		}
		for _, stop := range route.Stops {
			t, ok := byJobID[stop.JobID]
			if !ok {
				continue
			}
			m.inProgress[systemSymbol][t.ID] = InProgressEntry{Task: t, ShipSymbol: vehicle.ID, TakenAt: now}
			schedule.Actions = append(schedule.Actions, scheduledActionFor(stop, t))
		}
	}
	entries := m.inProgress[systemSymbol]
	m.mu.Unlock()

	if err := m.store.SaveInProgress(ctx, systemSymbol, entries); err != nil {
		return nil, fmt.Errorf("taskmanager: persist in-progress: %w", err)
	}

	return schedule, nil
}

// SetTaskCompleted retires a task from in_progress_tasks.
func (m *Manager) SetTaskCompleted(ctx context.Context, systemSymbol, taskID string) error {
	m.mu.Lock()
	if m.inProgress[systemSymbol] != nil {
		delete(m.inProgress[systemSymbol], taskID)
	}
	entries := m.inProgress[systemSymbol]
	m.mu.Unlock()
	return m.store.SaveInProgress(ctx, systemSymbol, entries)
}

func taskToVRPJob(t task.Task) routing.VRPJob {
	job := routing.VRPJob{ID: t.ID, Value: t.Value}
	switch t.Kind {
	case task.TaskKindVisitLocation:
		job.Tasks = []routing.VRPJobTask{{
			Waypoint: t.VisitLocation.Waypoint,
			Kind:     routing.VRPActivityService,
			Tag:      t.VisitLocation.Action.String(),
		}}
	case task.TaskKindTransportCargo:
		tc := t.TransportCargo
		job.Tasks = []routing.VRPJobTask{
			{Waypoint: tc.Src, Kind: routing.VRPActivityPickup, Demand: tc.SrcAction.Units, Tag: tc.SrcAction.String()},
			{Waypoint: tc.Dest, Kind: routing.VRPActivityDelivery, Demand: tc.SrcAction.Units, Tag: tc.DestAction.String()},
		}
	}
	return job
}

func scheduledActionFor(stop routing.VRPStop, t task.Task) task.ScheduledAction {
	completed := t.ID
	switch {
	case t.Kind == task.TaskKindVisitLocation:
		return task.ScheduledAction{Waypoint: stop.Waypoint, Action: t.VisitLocation.Action, TaskCompleted: &completed}
	case stop.Activity == routing.VRPActivityPickup:
		return task.ScheduledAction{Waypoint: stop.Waypoint, Action: t.TransportCargo.SrcAction, TaskCompleted: nil}
	default:
		return task.ScheduledAction{Waypoint: stop.Waypoint, Action: t.TransportCargo.DestAction, TaskCompleted: &completed}
	}
}
