// Command fleet-daemon is the Scheduler Root (§4.N): it loads
// configuration, resolves the current game reset, opens persistence,
// constructs the Agent Controller and every collaborator it needs, then
// runs the fleet and the dashboard server side by side until signalled
// to stop.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/adapters/dashboard"
	"github.com/voidfleet/controller/internal/adapters/fleetops"
	"github.com/voidfleet/controller/internal/adapters/persistence"
	"github.com/voidfleet/controller/internal/adapters/shipapi"
	"github.com/voidfleet/controller/internal/adapters/tradeexec"
	"github.com/voidfleet/controller/internal/application/agentcontroller"
	"github.com/voidfleet/controller/internal/application/broker"
	"github.com/voidfleet/controller/internal/application/fleetconfig"
	"github.com/voidfleet/controller/internal/application/joinregistry"
	"github.com/voidfleet/controller/internal/application/eventbus"
	"github.com/voidfleet/controller/internal/application/ledger"
	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/application/survey"
	"github.com/voidfleet/controller/internal/application/taskmanager"
	"github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/application/vrp"
	"github.com/voidfleet/controller/internal/domain/agent"
	"github.com/voidfleet/controller/internal/domain/shared"
	"github.com/voidfleet/controller/internal/infrastructure/config"
	"github.com/voidfleet/controller/internal/infrastructure/database"
	"github.com/voidfleet/controller/internal/infrastructure/pidfile"
)

// registration is the record stored at "registrations/{callsign}" (§4.B).
type registration struct {
	AgentToken string `json:"agentToken"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("fleet-daemon: load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("fleet-daemon: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	clock := shared.NewRealClock()

	apiClient := apiclient.New(cfg.APIBaseURL, clock)

	fmt.Println("fleet-daemon: resolving reset identifier...")
	resetIdentifier, err := apiClient.Status(ctx)
	if err != nil {
		return fmt.Errorf("resolve reset identifier: %w", err)
	}
	fmt.Printf("fleet-daemon: reset %s\n", resetIdentifier)

	pidPath := filepath.Join(os.TempDir(), fmt.Sprintf("fleet-daemon.%s.%s.pid", cfg.AgentCallsign, resetIdentifier))
	pf := pidfile.New(pidPath)
	if err := pf.Acquire(); err != nil {
		return fmt.Errorf("acquire pidfile: %w", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("fleet-daemon: release pidfile: %v", err)
		}
	}()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	store := persistence.New(db, resetIdentifier)
	if err := store.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	agentToken, agentSnap, err := registerOrLoad(ctx, apiClient, store, cfg)
	if err != nil {
		return fmt.Errorf("register or load agent: %w", err)
	}
	fmt.Printf("fleet-daemon: agent %s, %d credits\n", agentSnap.Symbol, agentSnap.Credits)

	homeSystem := shared.ExtractSystemSymbol(agentSnap.Headquarters)

	cache := universe.New(store, fleetops.NewUniverse(apiClient, agentToken), clock.Now)

	var savedState agent.State
	if _, err := store.GetJSON(ctx, fmt.Sprintf("%s/state", cfg.AgentCallsign), &savedState); err != nil {
		return fmt.Errorf("load agent state: %w", err)
	}

	ledgerSvc := ledger.New(store, clock.Now)
	ledgerSvc.SetTotal(agentSnap.Credits)
	surveys := survey.New(store, clock.Now)
	transferAdapter := fleetops.NewTransfer(apiClient, agentToken)
	cargoBroker := broker.New(transferAdapter)
	registry := joinregistry.New()
	bus := eventbus.New()

	hub := dashboard.NewHub()
	bus.AddEventListener(hub)

	shipyards := fleetops.NewShipyards(apiClient, agentToken, cache)
	controllerView := fleetops.NewControllerView()

	controller := agentcontroller.New(agentcontroller.Deps{
		Shipyards:       shipyards,
		Buyer:           shipyards,
		PurchaserFinder: controllerView,
		TransferAPI:     transferAdapter,
		ContractAPI:     fleetops.NewContracts(apiClient, agentToken),
		ContractWorld:   fleetops.NewContractWorld(cache),
		ConfigGenerator: fleetconfig.New(),
		StaticProbe:     controllerView,
		Ledger:          ledgerSvc,
		Surveys:         surveys,
		CargoBroker:     cargoBroker,
		Registry:        registry,
		EventBus:        bus,
		InitialState:    savedState,
	})
	controllerView.Bind(controller)
	controller.UpdateAgent(agentSnap)

	router := shipapi.NewCachedRouter(cache)

	worldView := fleetops.NewWorldView(cache, ledgerSvc, controllerView)
	shipyardBuyer := fleetops.NewShipyardBuyer(controller, cache, homeSystem)
	taskManager := taskmanager.New(worldView, shipyardBuyer, vrp.NewSolver(), store, clock.Now)
	planner := fleetops.NewPlanner(taskManager, router)
	taskCompleter := fleetops.NewTaskCompleter(taskManager, homeSystem)

	trader := tradeexec.New(apiClient, agentToken, ledgerSvc, store)

	controller.SetScripts(agentcontroller.ScriptDeps{
		ShipFactory: func(symbol string) shipscripts.ShipAPI {
			return shipapi.NewHandle(symbol, agentToken, apiClient, controller)
		},
		Router: router,
		Sites:  fleetops.NewSiteResolver(cache),
		Sleep:  fleetops.RealSleep,

		ConstructionWorld: fleetops.NewConstructionWorld(apiClient, agentToken, cache, ledgerSvc, homeSystem, homeSystem),
		ConstructionBuyer: trader,
		ConstructionStore: store,

		LogisticsStore: store,
		Planner:        planner,
		ActionExecutor: trader,
		TaskCompleter:  taskCompleter,

		Extractor: fleetops.NewExtractor(apiClient, agentToken),
		Siphoner:  fleetops.NewSiphoner(apiClient, agentToken),

		ProbeSnapshots: fleetops.NewProbeSnapshots(cache),

		Scrapper:        fleetops.NewScrapper(apiClient, agentToken),
		NearestShipyard: fleetops.NewNearestShipyard(cache),

		MarketView:  fleetops.NewMarketView(cache),
		Trader:      trader,
		OreStore:    store.ShuttleStoreFor("extract"),
		SiphonStore: store.ShuttleStoreFor("siphon"),

		JumpGateGraph:    fleetops.NewJumpGateGraph(cache),
		GateReservations: fleetops.NewGateReservations(store, cache, controller),
		Jumper:           fleetops.NewJumper(apiClient, agentToken),
	})

	ships, err := apiClient.ListShips(ctx, agentToken)
	if err != nil {
		return fmt.Errorf("list ships: %w", err)
	}
	for _, ship := range ships {
		controller.PutShip(ship)
	}
	if err := controller.RefreshShipConfig(ctx); err != nil {
		return fmt.Errorf("initial refresh_ship_config: %w", err)
	}

	jobIDFilter, err := compileJobIDFilter(cfg.JobIDFilter)
	if err != nil {
		return fmt.Errorf("compile job id filter: %w", err)
	}

	dashboardServer := dashboard.NewServer(hub, cfg.DashboardStaticDir)

	group, gctx := errgroup.WithContext(ctx)
	go func() {
		<-gctx.Done()
		registry.Close()
	}()
	group.Go(func() error {
		return controller.RunShips(gctx, jobIDFilter)
	})
	group.Go(func() error {
		return dashboardServer.Run(gctx)
	})
	group.Go(func() error {
		return persistStateUntilDone(gctx, store, cfg.AgentCallsign, controller, cfg.TickInterval)
	})

	return group.Wait()
}

// registerOrLoad loads the persisted agent token if this callsign has
// registered under the current reset, or registers fresh and persists the
// token (§4.B "registrations/{callsign}").
func registerOrLoad(ctx context.Context, apiClient *apiclient.Client, store *persistence.Store, cfg *config.Config) (string, agent.Agent, error) {
	key := fmt.Sprintf("registrations/%s", cfg.AgentCallsign)

	var reg registration
	ok, err := store.GetJSON(ctx, key, &reg)
	if err != nil {
		return "", agent.Agent{}, err
	}
	if ok {
		a, err := apiClient.GetAgent(ctx, reg.AgentToken)
		if err != nil {
			return "", agent.Agent{}, err
		}
		return reg.AgentToken, a, nil
	}

	token, a, err := apiClient.Register(ctx, cfg.SpacetradersToken, cfg.AgentFaction, cfg.AgentCallsign)
	if err != nil {
		return "", agent.Agent{}, err
	}
	if err := store.SetJSON(ctx, key, registration{AgentToken: token}); err != nil {
		return "", agent.Agent{}, err
	}
	return token, a, nil
}

// compileJobIDFilter compiles the configured JOB_ID_FILTER, defaulting to
// nil (spawn_run_ship's own default of matching every job) when unset.
func compileJobIDFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}

// persistStateUntilDone periodically snapshots the Controller's era state
// to "{callsign}/state" so a restart resumes from the same era instead of
// replaying StartingSystem1 (§4.B).
func persistStateUntilDone(ctx context.Context, store *persistence.Store, callsign string, controller *agentcontroller.Controller, interval time.Duration) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	key := fmt.Sprintf("%s/state", callsign)
	for {
		select {
		case <-ctx.Done():
			_ = store.SetJSON(context.Background(), key, controller.State())
			return nil
		case <-ticker.C:
			if err := store.SetJSON(ctx, key, controller.State()); err != nil {
				log.Printf("fleet-daemon: persist state: %v", err)
			}
		}
	}
}
