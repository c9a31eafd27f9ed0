package persistence

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/domain/task"
)

// LoadConstructionPhase reads "construction_state/{ship}" (§4.B key list),
// defaulting to Buying on a miss — a hauler with no saved state has
// never run and starts from the beginning of its cycle.
func (s *Store) LoadConstructionPhase(ctx context.Context, ship string) (shipscripts.ConstructionPhase, error) {
	var phase shipscripts.ConstructionPhase
	ok, err := s.GetJSON(ctx, "construction_state/"+ship, &phase)
	if err != nil {
		return "", fmt.Errorf("persistence: load construction phase %s: %w", ship, err)
	}
	if !ok {
		return shipscripts.ConstructionPhaseBuying, nil
	}
	return phase, nil
}

// SaveConstructionPhase persists a hauler's phase.
func (s *Store) SaveConstructionPhase(ctx context.Context, ship string, phase shipscripts.ConstructionPhase) error {
	if err := s.SetJSON(ctx, "construction_state/"+ship, phase); err != nil {
		return fmt.Errorf("persistence: save construction phase %s: %w", ship, err)
	}
	return nil
}

// shuttleStateKey namespaces a mining/siphon shuttle's phase key by its
// caller-supplied kind, matching the two distinct kv templates in §4.B
// ("siphon_shuttle_state/{ship}", "extract_shuttle_state/{ship}").
func shuttleStateKey(kind, ship string) string {
	return kind + "_shuttle_state/" + ship
}

// shuttleStoreFor adapts Store to shipscripts.ShuttleStore for one
// shuttle kind ("siphon" or "extract"), since the two use separate kv
// key templates.
type shuttleStoreFor struct {
	store *Store
	kind  string
}

// ShuttleStoreFor adapts Store to shipscripts.ShuttleStore for a given
// shuttle kind.
func (s *Store) ShuttleStoreFor(kind string) shipscripts.ShuttleStore {
	return &shuttleStoreFor{store: s, kind: kind}
}

func (f *shuttleStoreFor) LoadPhase(ctx context.Context, ship string) (shipscripts.ShuttlePhase, error) {
	var phase shipscripts.ShuttlePhase
	ok, err := f.store.GetJSON(ctx, shuttleStateKey(f.kind, ship), &phase)
	if err != nil {
		return "", fmt.Errorf("persistence: load shuttle phase %s: %w", ship, err)
	}
	if !ok {
		return shipscripts.ShuttlePhaseLoading, nil
	}
	return phase, nil
}

func (f *shuttleStoreFor) SavePhase(ctx context.Context, ship string, phase shipscripts.ShuttlePhase) error {
	if err := f.store.SetJSON(ctx, shuttleStateKey(f.kind, ship), phase); err != nil {
		return fmt.Errorf("persistence: save shuttle phase %s: %w", ship, err)
	}
	return nil
}

// persistedSchedule wraps what "schedules/{ship}" + "schedule_progress/{ship}"
// store: the schedule is saved whole, progress as a separate small int so a
// resuming Logistics run doesn't need to rewrite the whole schedule to
// advance one action (§4.J Logistics step "persist new progress").
func (s *Store) LoadSchedule(ctx context.Context, ship string) (*task.ShipSchedule, int, bool, error) {
	var schedule task.ShipSchedule
	ok, err := s.GetJSON(ctx, "schedules/"+ship, &schedule)
	if err != nil {
		return nil, 0, false, fmt.Errorf("persistence: load schedule %s: %w", ship, err)
	}
	if !ok {
		return nil, 0, false, nil
	}
	var progress int
	if _, err := s.GetJSON(ctx, "schedule_progress/"+ship, &progress); err != nil {
		return nil, 0, false, fmt.Errorf("persistence: load schedule progress %s: %w", ship, err)
	}
	return &schedule, progress, true, nil
}

func (s *Store) SaveProgress(ctx context.Context, ship string, progress int) error {
	if err := s.SetJSON(ctx, "schedule_progress/"+ship, progress); err != nil {
		return fmt.Errorf("persistence: save schedule progress %s: %w", ship, err)
	}
	return nil
}

func (s *Store) SaveSchedule(ctx context.Context, ship string, schedule *task.ShipSchedule) error {
	if err := s.SetJSON(ctx, "schedules/"+ship, schedule); err != nil {
		return fmt.Errorf("persistence: save schedule %s: %w", ship, err)
	}
	return s.SaveProgress(ctx, ship, 0)
}
