package shipscripts

import (
	"context"
	"fmt"
	"time"

	"github.com/voidfleet/controller/internal/domain/task"
)

// LogisticsStore persists and resumes the ship's schedule/progress pair
// (§4.J Logistics step 1).
type LogisticsStore interface {
	LoadSchedule(ctx context.Context, ship string) (*task.ShipSchedule, int, bool, error)
	SaveProgress(ctx context.Context, ship string, progress int) error
	SaveSchedule(ctx context.Context, ship string, schedule *task.ShipSchedule) error
}

// Planner requests a fresh schedule from the Logistic Task Manager.
type Planner interface {
	TakeTasks(ctx context.Context, ship ShipAPI, planLength time.Duration) (*task.ShipSchedule, error)
}

// ActionExecutor performs one ScheduledAction's Action against the live
// game API (buy/sell/deliver/refresh) through the Ship Controller handle.
type ActionExecutor interface {
	Execute(ctx context.Context, ship ShipAPI, action task.Action) error
}

// TaskCompleter notifies the task manager a task finished.
type TaskCompleter interface {
	SetTaskCompleted(ctx context.Context, taskID string) error
}

// RunLogistics drives a Logistics ship: resume a saved schedule or take a
// fresh one, reconcile expected vs actual cargo, then execute remaining
// actions one at a time (§4.J Logistics).
func RunLogistics(
	ctx context.Context,
	ship ShipAPI,
	router Router,
	store LogisticsStore,
	planner Planner,
	exec ActionExecutor,
	completer TaskCompleter,
	sleep Sleeper,
) error {
	for {
		if err := ship.WaitForTransit(ctx); err != nil {
			return err
		}

		schedule, progress, resumed, err := store.LoadSchedule(ctx, ship.Symbol())
		if err != nil {
			return err
		}

		if !resumed || progress >= len(schedule.Actions) {
			snap := ship.Snapshot()
			if snap.Cargo.Units != 0 {
				return fmt.Errorf("logistics %s: expected empty cargo before take_tasks, have %d units", ship.Symbol(), snap.Cargo.Units)
			}
			schedule, err = planner.TakeTasks(ctx, ship, 15*time.Minute)
			if err != nil {
				return fmt.Errorf("logistics %s: take_tasks: %w", ship.Symbol(), err)
			}
			progress = 0
			if err := store.SaveSchedule(ctx, ship.Symbol(), schedule); err != nil {
				return err
			}
			if err := store.SaveProgress(ctx, ship.Symbol(), 0); err != nil {
				return err
			}
		}

		if len(schedule.Actions) == 0 {
			if err := sleep(ctx, 5*time.Minute); err != nil {
				return err
			}
			continue
		}

		progress, err = reconcileCargo(ship.Snapshot().Cargo.Inventory, schedule.Actions, progress)
		if err != nil {
			return fmt.Errorf("logistics %s: %w", ship.Symbol(), err)
		}

		for progress < len(schedule.Actions) {
			action := schedule.Actions[progress]
			if err := GotoWaypoint(ctx, ship, router, action.Waypoint); err != nil {
				return err
			}
			if err := exec.Execute(ctx, ship, action.Action); err != nil {
				return fmt.Errorf("logistics %s: action %s at %s: %w", ship.Symbol(), action.Action, action.Waypoint, err)
			}
			progress++
			if err := store.SaveProgress(ctx, ship.Symbol(), progress); err != nil {
				return err
			}
			if action.TaskCompleted != nil {
				if err := completer.SetTaskCompleted(ctx, *action.TaskCompleted); err != nil {
					return err
				}
			}
		}
	}
}

// reconcileCargo compares the expected cargo delta from the first progress
// actions against actual cargo. If it matches, progress is unchanged. If
// not, it tries skipping exactly one action (progress+1) and rechecking;
// if that matches, it returns the skipped progress. Otherwise it is a
// non-recoverable divergence (§4.J Logistics step 2).
func reconcileCargo(actual map[string]int, actions []task.ScheduledAction, progress int) (int, error) {
	if cargoMatches(actual, task.ExpectedCargoDelta(actions, progress)) {
		return progress, nil
	}
	if progress+1 <= len(actions) && cargoMatches(actual, task.ExpectedCargoDelta(actions, progress+1)) {
		return progress + 1, nil
	}
	return progress, fmt.Errorf("cargo divergence: actual cargo does not match expected state at progress %d or %d", progress, progress+1)
}

func cargoMatches(actual, expected map[string]int) bool {
	keys := map[string]bool{}
	for k := range actual {
		keys[k] = true
	}
	for k := range expected {
		keys[k] = true
	}
	for k := range keys {
		if actual[k] != expected[k] {
			return false
		}
	}
	return true
}
