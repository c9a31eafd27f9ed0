package shipscripts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/routing"
)

type fakeProbeSnapshots struct {
	marketAt    map[string]time.Time
	shipyardAt  map[string]time.Time
	refreshErr  error
	marketCalls int
}

func (f *fakeProbeSnapshots) MarketSnapshotAt(wp string) (time.Time, bool) {
	ts, ok := f.marketAt[wp]
	return ts, ok
}
func (f *fakeProbeSnapshots) ShipyardSnapshotAt(wp string) (time.Time, bool) {
	ts, ok := f.shipyardAt[wp]
	return ts, ok
}
func (f *fakeProbeSnapshots) RefreshMarket(ctx context.Context, wp string) error {
	f.marketCalls++
	return f.refreshErr
}
func (f *fakeProbeSnapshots) RefreshShipyard(ctx context.Context, wp string) error { return nil }

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestRunProbe_VisitsEachWaypointOnceBeforeLooping(t *testing.T) {
	ship := &fakeShip{snap: fleet.Ship{Symbol: "PROBE-1", Nav: fleet.Nav{WaypointSymbol: "X1-AB-WP1"}}}
	router := fakeRouter{route: &routing.Route{Hops: []routing.Hop{{FromWaypoint: "X1-AB-WP1", ToWaypoint: "X1-AB-WP2"}}}}

	sentinel := errors.New("stop")
	snaps := &fakeProbeSnapshots{
		marketAt:   map[string]time.Time{"X1-AB-WP1": time.Now(), "X1-AB-WP2": time.Now()},
		shipyardAt: map[string]time.Time{"X1-AB-WP1": time.Now(), "X1-AB-WP2": time.Now()},
	}

	var sleepCalls int
	var lastDuration time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		if d < time.Minute {
			// the startup jitter sleep; let it pass through so the test
			// observes the main loop's sleep duration instead.
			return nil
		}
		sleepCalls++
		lastDuration = d
		return sentinel
	}

	err := shipscripts.RunProbe(context.Background(), ship, router, snaps, []string{"X1-AB-WP2"}, sleep)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, []string{"X1-AB-WP2"}, ship.navigateArgs)
	require.GreaterOrEqual(t, sleepCalls, 1)
	// the fresh market snapshot's 6-minute deadline is the earliest one and
	// lies under the 15-minute cap.
	assert.InDelta(t, float64(6*time.Minute), float64(lastDuration), float64(time.Second))
}

func TestRunProbe_RefreshesWaypointWithNoSnapshotImmediately(t *testing.T) {
	ship := &fakeShip{snap: fleet.Ship{Symbol: "PROBE-1", Nav: fleet.Nav{WaypointSymbol: "X1-AB-WP1"}}}
	router := fakeRouter{route: &routing.Route{}}

	sentinel := errors.New("refresh failed")
	snaps := &fakeProbeSnapshots{
		marketAt:   map[string]time.Time{},
		shipyardAt: map[string]time.Time{},
		refreshErr: sentinel,
	}

	err := shipscripts.RunProbe(context.Background(), ship, router, snaps, []string{"X1-AB-WP1"}, noSleep)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, snaps.marketCalls)
	// once after the initial visit, once again before the refresh.
	assert.Equal(t, 2, ship.dockCalls)
}

func TestRunProbe_NoopForZeroWaypoints(t *testing.T) {
	ship := &fakeShip{snap: fleet.Ship{Symbol: "PROBE-1", Nav: fleet.Nav{WaypointSymbol: "X1-AB-WP1"}}}
	router := fakeRouter{}

	sentinel := errors.New("stop")
	snaps := &fakeProbeSnapshots{marketAt: map[string]time.Time{}, shipyardAt: map[string]time.Time{}}
	sleep := func(ctx context.Context, d time.Duration) error { return sentinel }

	err := shipscripts.RunProbe(context.Background(), ship, router, snaps, nil, sleep)
	assert.ErrorIs(t, err, sentinel)
	assert.Zero(t, ship.dockCalls)
}
