package shipscripts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/routing"
)

type fakeGateReservations struct {
	calls     int
	startGate string
	stopErr   error
}

func (r *fakeGateReservations) Reserve(ctx context.Context, ship string) (string, string, bool, error) {
	r.calls++
	if r.calls == 1 {
		return r.startGate, "X1-CD-GATE", true, nil
	}
	return "", "", false, r.stopErr
}
func (r *fakeGateReservations) Clear(ctx context.Context, ship string) error { return nil }

type fakeJumpGateGraph struct {
	path          []routing.JumpEdge
	fetchedGates  []string
}

func (g *fakeJumpGateGraph) MinCooldownPath(ctx context.Context, from, to string) ([]routing.JumpEdge, error) {
	return g.path, nil
}
func (g *fakeJumpGateGraph) FetchConnections(ctx context.Context, gateWaypoint string) error {
	g.fetchedGates = append(g.fetchedGates, gateWaypoint)
	return nil
}

type fakeJumper struct {
	jumps []string
}

func (j *fakeJumper) Jump(ctx context.Context, ship shipscripts.ShipAPI, targetGate string) error {
	j.jumps = append(j.jumps, targetGate)
	return nil
}

func TestRunExplorer_JumpsThePathThenFetchesDestinationConnections(t *testing.T) {
	ship := &fakeShip{snap: fleet.Ship{Symbol: "EXPLORER-1", Nav: fleet.Nav{WaypointSymbol: "X1-AB-GATE"}}}
	router := fakeRouter{route: &routing.Route{}}
	reservations := &fakeGateReservations{startGate: "X1-AB-GATE", stopErr: errors.New("no more reservations")}
	graph := &fakeJumpGateGraph{path: []routing.JumpEdge{{FromWaypoint: "X1-AB-GATE", ToWaypoint: "X1-CD-GATE"}}}
	jumper := &fakeJumper{}

	err := shipscripts.RunExplorer(context.Background(), ship, router, graph, reservations, jumper)
	assert.ErrorIs(t, err, reservations.stopErr)
	assert.Equal(t, []string{"X1-CD-GATE"}, jumper.jumps)
	assert.Equal(t, []string{"X1-CD-GATE"}, graph.fetchedGates)
	assert.Equal(t, 1, ship.orbitCalls)
}
