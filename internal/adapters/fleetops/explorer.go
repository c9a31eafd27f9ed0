package fleetops

import (
	"context"
	"fmt"
	"sync"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/application/agentcontroller"
	"github.com/voidfleet/controller/internal/application/pathfinding"
	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/routing"
	domainuniverse "github.com/voidfleet/controller/internal/domain/universe"
)

// JumpGateGraph implements shipscripts.JumpGateGraph over the Universe
// cache's charted jumpgates, reassembling the same GateInfo/BuildJumpEdges
// pipeline application/pathfinding already uses for the inter-system
// planner, then running Dijkstra over cooldown seconds.
type JumpGateGraph struct {
	cache *universe.Cache
}

// NewJumpGateGraph constructs a JumpGateGraph adapter.
func NewJumpGateGraph(cache *universe.Cache) *JumpGateGraph {
	return &JumpGateGraph{cache: cache}
}

// MinCooldownPath implements shipscripts.JumpGateGraph.
func (g *JumpGateGraph) MinCooldownPath(ctx context.Context, from, to string) ([]routing.JumpEdge, error) {
	systems, err := g.cache.Systems(ctx)
	if err != nil {
		return nil, fmt.Errorf("fleetops: load systems: %w", err)
	}

	positions := make(map[string]pathfinding.SystemPoint, len(systems))
	gates := make(map[string]pathfinding.GateInfo)
	for _, sys := range systems {
		positions[sys.Symbol] = pathfinding.SystemPoint{Symbol: sys.Symbol, X: sys.X, Y: sys.Y}
		for symbol, wp := range sys.Waypoints {
			if wp.Type != domainuniverse.WaypointTypeJumpGate {
				continue
			}
			jg, err := g.cache.GetJumpGateConnections(ctx, symbol)
			if err != nil || jg == nil {
				gates[symbol] = pathfinding.GateInfo{WaypointSymbol: symbol, SystemSymbol: sys.Symbol}
				continue
			}
			gates[symbol] = pathfinding.GateInfo{
				WaypointSymbol:      symbol,
				SystemSymbol:        sys.Symbol,
				IsConstructed:       jg.IsConstructed,
				AllConnectionsKnown: jg.AllConnectionsKnown,
				Connections:         jg.Connections,
			}
		}
	}

	edges := pathfinding.BuildJumpEdges(gates, positions)
	return pathfinding.ShortestJumpPath(edges, from, to)
}

// FetchConnections implements shipscripts.JumpGateGraph.
func (g *JumpGateGraph) FetchConnections(ctx context.Context, gateWaypoint string) error {
	return g.cache.RefreshJumpGateConnections(ctx, gateWaypoint)
}

// Jumper implements shipscripts.Jumper over the API client.
type Jumper struct {
	client *apiclient.Client
	token  string
}

// NewJumper constructs a Jumper adapter.
func NewJumper(client *apiclient.Client, token string) *Jumper {
	return &Jumper{client: client, token: token}
}

// Jump implements shipscripts.Jumper.
func (j *Jumper) Jump(ctx context.Context, ship shipscripts.ShipAPI, targetGate string) error {
	if err := j.client.Jump(ctx, j.token, ship.Symbol(), targetGate); err != nil {
		return fmt.Errorf("fleetops: jump %s -> %s: %w", ship.Symbol(), targetGate, err)
	}
	return nil
}

// gateReservationStore is the persistence slice GateReservations needs:
// a small durable kv it shares with every other shipscripts store.
type gateReservationStore interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}) error
}

type gateReservation struct {
	StartGate  string
	TargetGate string
}

// GateReservations implements shipscripts.GateReservations: each Explorer
// claims a not-yet-fully-charted gate to jump towards, so two explorers
// never race to chart the same one. Reservations are serialized through an
// in-process mutex (one fleet daemon per agent, §5) and persisted so a
// restart doesn't strand a half-finished claim silently.
type GateReservations struct {
	store      gateReservationStore
	cache      *universe.Cache
	controller *agentcontroller.Controller

	mu     sync.Mutex
	claims map[string]string // target gate -> ship symbol
}

// NewGateReservations constructs a GateReservations adapter.
func NewGateReservations(store gateReservationStore, cache *universe.Cache, controller *agentcontroller.Controller) *GateReservations {
	return &GateReservations{store: store, cache: cache, controller: controller, claims: make(map[string]string)}
}

// Reserve implements shipscripts.GateReservations: pairs the first jump
// gate found in the ship's current system with any constructed,
// not-fully-explored charted gate no other ship currently holds.
func (r *GateReservations) Reserve(ctx context.Context, ship string) (string, string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.controller.Ship(ship)
	if !ok {
		return "", "", false, fmt.Errorf("fleetops: unknown ship %s", ship)
	}

	systems, err := r.cache.Systems(ctx)
	if err != nil {
		return "", "", false, fmt.Errorf("fleetops: load systems: %w", err)
	}

	var startGate string
	var candidates []string
	for _, sys := range systems {
		for symbol, wp := range sys.Waypoints {
			if wp.Type != domainuniverse.WaypointTypeJumpGate {
				continue
			}
			if sys.Symbol == snap.Nav.SystemSymbol && startGate == "" {
				startGate = symbol
			}
			jg, err := r.cache.GetJumpGateConnections(ctx, symbol)
			if err != nil || jg == nil || !jg.IsConstructed || jg.AllConnectionsKnown {
				continue
			}
			if _, claimed := r.claims[symbol]; claimed {
				continue
			}
			candidates = append(candidates, symbol)
		}
	}

	if startGate == "" || len(candidates) == 0 {
		return "", "", false, nil
	}

	targetGate := candidates[0]
	r.claims[targetGate] = ship
	if err := r.store.SetJSON(ctx, "gate_reservation/"+ship, gateReservation{StartGate: startGate, TargetGate: targetGate}); err != nil {
		delete(r.claims, targetGate)
		return "", "", false, fmt.Errorf("fleetops: persist gate reservation %s: %w", ship, err)
	}
	return startGate, targetGate, true, nil
}

// Clear implements shipscripts.GateReservations.
func (r *GateReservations) Clear(ctx context.Context, ship string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res gateReservation
	ok, err := r.store.GetJSON(ctx, "gate_reservation/"+ship, &res)
	if err != nil {
		return fmt.Errorf("fleetops: load gate reservation %s: %w", ship, err)
	}
	if ok {
		delete(r.claims, res.TargetGate)
	}
	return r.store.SetJSON(ctx, "gate_reservation/"+ship, gateReservation{})
}
