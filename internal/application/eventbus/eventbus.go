// Package eventbus implements the Event Bus (§4.L): at most one listener,
// fanned out to on every ship/agent mutation. Grounded on the design note
// "Event fan-out to dashboards: a single bounded channel per subscriber;
// drop or block per configured policy; do not call into the listener
// under data locks" — emit never holds a caller's lock; it hands the event
// straight to the listener's Send.
package eventbus

import (
	"sync"

	"github.com/voidfleet/controller/internal/domain/events"
)

// Sink receives fanned-out events; it must not block for long, since a
// slow sink applies backpressure to every caller of EmitEvent.
type Sink interface {
	Send(events.Event)
}

// Bus is the single-listener event broadcaster.
type Bus struct {
	mu       sync.RWMutex
	listener Sink
}

// New constructs an empty Bus.
func New() *Bus { return &Bus{} }

// AddEventListener registers sink as the sole consumer; calling it twice
// is a programming error (§4.L: "assert: at most one").
func (b *Bus) AddEventListener(sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener != nil {
		panic("eventbus: a listener is already registered")
	}
	b.listener = sink
}

// EmitEvent fans an event out to the registered listener, if any.
func (b *Bus) EmitEvent(e events.Event) {
	b.mu.RLock()
	sink := b.listener
	b.mu.RUnlock()
	if sink != nil {
		sink.Send(e)
	}
}
