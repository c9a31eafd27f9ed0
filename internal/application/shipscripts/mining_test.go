package shipscripts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/broker"
	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/survey"
)

type fakeSurveyor struct{}

func (s *fakeSurveyor) GetSurvey(ctx context.Context, waypoint string) (*survey.KeyedSurvey, error) {
	return nil, nil
}

type fakeMiningRig struct {
	ship         *fakeShip
	surveyResult []survey.Survey
	surveyCalls  int
	surveyErr    error
	extractGood  string
	extractUnits int
	jettisoned   map[string]int
}

func (r *fakeMiningRig) Extract(ctx context.Context, ship shipscripts.ShipAPI, sig *survey.KeyedSurvey) (string, int, error) {
	r.ship.snap.Cargo.Units += r.extractUnits
	r.ship.snap.Cargo.Inventory[r.extractGood] += r.extractUnits
	return r.extractGood, r.extractUnits, nil
}
func (r *fakeMiningRig) Survey(ctx context.Context, ship shipscripts.ShipAPI) ([]survey.Survey, error) {
	r.surveyCalls++
	if r.surveyCalls > 1 {
		return nil, r.surveyErr
	}
	return r.surveyResult, nil
}
func (r *fakeMiningRig) Jettison(ctx context.Context, ship shipscripts.ShipAPI, good string, units int) error {
	if r.jettisoned == nil {
		r.jettisoned = map[string]int{}
	}
	r.jettisoned[good] += units
	r.ship.snap.Cargo.Units -= units
	delete(r.ship.snap.Cargo.Inventory, good)
	return nil
}

func TestRunMiningSurveyor_InsertsProducedSurveysUntilStopped(t *testing.T) {
	ship := &fakeShip{snap: fleet.Ship{Symbol: "SURVEYOR-1", Nav: fleet.Nav{WaypointSymbol: "X1-AB-BELT"}}}
	router := fakeRouter{}
	rig := &fakeMiningRig{ship: ship, surveyResult: []survey.Survey{{Signature: "SIG-1"}}, surveyErr: errors.New("stop")}

	var inserted [][]survey.Survey
	insert := func(ctx context.Context, produced []survey.Survey) error {
		inserted = append(inserted, produced)
		return nil
	}

	err := shipscripts.RunMiningSurveyor(context.Background(), ship, router, "X1-AB-BELT", &fakeSurveyor{}, rig, insert)
	assert.ErrorIs(t, err, rig.surveyErr)
	assert.Equal(t, 1, ship.orbitCalls)
	require.Len(t, inserted, 1)
	assert.Equal(t, "SIG-1", inserted[0][0].Signature)
}

func TestRunMiningDrone_KeepsWantedGoodThenBlocksHandingFullCargoToBroker(t *testing.T) {
	ship := &fakeShip{snap: fleet.Ship{
		Symbol: "DRONE-1",
		Nav:    fleet.Nav{WaypointSymbol: "X1-AB-BELT"},
		Cargo:  fleet.Cargo{Capacity: 10, Units: 0, Inventory: map[string]int{}},
	}}
	router := fakeRouter{}
	rig := &fakeMiningRig{ship: ship, extractGood: "IRON_ORE", extractUnits: 10}
	cargoBroker := broker.New(noopTransferRPC{})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go cargoBroker.Run(ctx)

	err := shipscripts.RunMiningDrone(ctx, ship, router, "X1-AB-BELT", &fakeSurveyor{}, rig, shipscripts.JettisonList{"ICE_WATER": true}, cargoBroker)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 10, ship.snap.Cargo.Inventory["IRON_ORE"])
}
