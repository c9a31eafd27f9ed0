// Package survey implements the Survey Manager: a durable pool of
// extraction surveys scored and evicted per §4.E. Grounded on the teacher's
// repository-backed query/command pairing (e.g.
// internal/application/mining/queries), collapsed into one service since
// the spec names a single component rather than per-operation handlers.
package survey

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainsurvey "github.com/voidfleet/controller/internal/domain/survey"
)

// Store is the persistence port backing the survey pool.
type Store interface {
	InsertSurveys(ctx context.Context, surveys []domainsurvey.KeyedSurvey) error
	RemoveSurvey(ctx context.Context, id string) error
	LoadByWaypoint(ctx context.Context, waypoint string) ([]domainsurvey.KeyedSurvey, error)
}

// Manager is the in-memory-indexed, persistence-backed survey pool.
type Manager struct {
	store Store
	clock func() time.Time

	mu   sync.Mutex
	byWp map[string][]domainsurvey.KeyedSurvey
}

// New constructs a Manager.
func New(store Store, clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{store: store, clock: clock, byWp: make(map[string][]domainsurvey.KeyedSurvey)}
}

// InsertSurveys assigns uuids to freshly produced surveys and persists them.
func (m *Manager) InsertSurveys(ctx context.Context, surveys []domainsurvey.Survey) error {
	keyed := make([]domainsurvey.KeyedSurvey, 0, len(surveys))
	for _, s := range surveys {
		keyed = append(keyed, domainsurvey.KeyedSurvey{ID: uuid.NewString(), Survey: s})
	}
	if err := m.store.InsertSurveys(ctx, keyed); err != nil {
		return err
	}
	m.mu.Lock()
	for _, ks := range keyed {
		m.byWp[ks.Survey.WaypointSymbol] = append(m.byWp[ks.Survey.WaypointSymbol], ks)
	}
	m.mu.Unlock()
	return nil
}

// GetSurvey returns the highest-scoring non-expired survey at wp, lazily
// dropping any it finds expired past the 5-minute grace window (§4.E).
func (m *Manager) GetSurvey(ctx context.Context, wp string) (*domainsurvey.KeyedSurvey, error) {
	m.mu.Lock()
	if _, ok := m.byWp[wp]; !ok {
		m.mu.Unlock()
		loaded, err := m.store.LoadByWaypoint(ctx, wp)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.byWp[wp] = loaded
	}

	now := m.clock()
	list := m.byWp[wp]
	kept := list[:0:0]
	var best *domainsurvey.KeyedSurvey
	for _, ks := range list {
		if ks.Survey.Expired(now) {
			continue
		}
		kept = append(kept, ks)
		if best == nil || ks.Survey.Score() > best.Survey.Score() {
			k := ks
			best = &k
		}
	}
	expiredCount := len(list) - len(kept)
	m.byWp[wp] = kept
	m.mu.Unlock()

	if expiredCount > 0 {
		go m.evictExpired(ctx, list, kept)
	}
	return best, nil
}

func (m *Manager) evictExpired(ctx context.Context, before, after []domainsurvey.KeyedSurvey) {
	keepIDs := make(map[string]bool, len(after))
	for _, ks := range after {
		keepIDs[ks.ID] = true
	}
	for _, ks := range before {
		if !keepIDs[ks.ID] {
			_ = m.store.RemoveSurvey(ctx, ks.ID)
		}
	}
}

// RemoveSurvey drops a survey reported exhausted/invalid by the API (codes
// 4221/4224) or removed by explicit policy.
func (m *Manager) RemoveSurvey(ctx context.Context, id string) error {
	if err := m.store.RemoveSurvey(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	for wp, list := range m.byWp {
		out := list[:0:0]
		for _, ks := range list {
			if ks.ID != id {
				out = append(out, ks)
			}
		}
		m.byWp[wp] = out
	}
	m.mu.Unlock()
	return nil
}
