package shipscripts

import (
	"context"
	"time"
)

const (
	marketRefreshPeriod   = 6 * time.Minute
	shipyardRefreshPeriod = 60 * time.Minute
	probeSleepCap         = 15 * time.Minute
)

// ProbeSnapshots is the per-waypoint freshness the Probe script consults to
// decide when to revisit.
type ProbeSnapshots interface {
	MarketSnapshotAt(waypoint string) (time.Time, bool)
	ShipyardSnapshotAt(waypoint string) (time.Time, bool)
	RefreshMarket(ctx context.Context, waypoint string) error
	RefreshShipyard(ctx context.Context, waypoint string) error
}

// Sleeper abstracts time.Sleep so tests can inject a fake clock/ticker.
type Sleeper func(ctx context.Context, d time.Duration) error

// RunProbe drives a Probe ship forever: visit each configured waypoint
// once to clear transit, then loop refreshing whichever snapshot is
// furthest past its deadline, sleeping until the earliest deadline across
// all waypoints, capped at 15 minutes (§4.J Probe).
func RunProbe(ctx context.Context, ship ShipAPI, router Router, snaps ProbeSnapshots, waypoints []string, sleep Sleeper) error {
	for _, wp := range waypoints {
		if err := GotoWaypoint(ctx, ship, router, wp); err != nil {
			return err
		}
	}
	if len(waypoints) > 0 {
		if err := ship.Dock(ctx); err != nil {
			return err
		}
	}

	if err := jitter(ctx, sleep); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		now := time.Now()
		var earliest time.Time
		var dueWaypoint string
		var dueIsShipyard bool

		for _, wp := range waypoints {
			if ts, ok := snaps.MarketSnapshotAt(wp); !ok {
				dueWaypoint, dueIsShipyard, earliest = wp, false, now
				break
			} else if deadline := ts.Add(marketRefreshPeriod); earliest.IsZero() || deadline.Before(earliest) {
				earliest, dueWaypoint, dueIsShipyard = deadline, wp, false
			}
			if ts, ok := snaps.ShipyardSnapshotAt(wp); !ok {
				dueWaypoint, dueIsShipyard, earliest = wp, true, now
				break
			} else if deadline := ts.Add(shipyardRefreshPeriod); earliest.IsZero() || deadline.Before(earliest) {
				earliest, dueWaypoint, dueIsShipyard = deadline, wp, true
			}
		}

		if dueWaypoint == "" {
			if err := sleep(ctx, probeSleepCap); err != nil {
				return err
			}
			continue
		}

		if earliest.After(now) {
			wait := earliest.Sub(now)
			if wait > probeSleepCap {
				wait = probeSleepCap
			}
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if err := GotoWaypoint(ctx, ship, router, dueWaypoint); err != nil {
			return err
		}
		if err := ship.Dock(ctx); err != nil {
			return err
		}
		if dueIsShipyard {
			if err := snaps.RefreshShipyard(ctx, dueWaypoint); err != nil {
				return err
			}
		} else {
			if err := snaps.RefreshMarket(ctx, dueWaypoint); err != nil {
				return err
			}
		}
	}
}
