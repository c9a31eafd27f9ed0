package apiclient

import (
	"errors"
	"sync"
	"time"

	"github.com/voidfleet/controller/internal/domain/shared"
)

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

var errCircuitOpen = errors.New("circuit breaker open")

// circuitBreaker wraps the retry loop in client.do: it opens after
// maxFailures consecutive failed calls and stays open for timeout before
// allowing one half-open probe through. Grounded on the teacher's
// internal/adapters/api/circuit_breaker.go.
type circuitBreaker struct {
	maxFailures     int
	timeout         time.Duration
	clock           shared.Clock
	mu              sync.Mutex
	state           circuitState
	failureCount    int
	lastFailureTime time.Time
}

func newCircuitBreaker(maxFailures int, timeout time.Duration, clock shared.Clock) *circuitBreaker {
	return &circuitBreaker{maxFailures: maxFailures, timeout: timeout, clock: clock}
}

func (cb *circuitBreaker) call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == circuitOpen {
		if cb.clock.Now().Sub(cb.lastFailureTime) >= cb.timeout {
			cb.state = circuitHalfOpen
		} else {
			cb.mu.Unlock()
			return errCircuitOpen
		}
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failureCount++
		cb.lastFailureTime = cb.clock.Now()
		if cb.state == circuitHalfOpen || cb.failureCount >= cb.maxFailures {
			cb.state = circuitOpen
		}
		return err
	}
	cb.failureCount = 0
	cb.state = circuitClosed
	return nil
}
