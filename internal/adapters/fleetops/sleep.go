package fleetops

import (
	"context"
	"time"
)

// RealSleep implements shipscripts.Sleeper over the wall clock, returning
// early with ctx.Err() if ctx is cancelled first.
func RealSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
