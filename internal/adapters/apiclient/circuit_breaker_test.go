package apiclient

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/domain/shared"
)

func TestCircuitBreaker_OpensAfterMaxFailuresThenRejects(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(1_700_000_000, 0))
	cb := newCircuitBreaker(2, time.Minute, clock)
	boom := errors.New("boom")

	assert.ErrorIs(t, cb.call(func() error { return boom }), boom)
	assert.Equal(t, circuitClosed, cb.state)

	assert.ErrorIs(t, cb.call(func() error { return boom }), boom)
	assert.Equal(t, circuitOpen, cb.state)

	err := cb.call(func() error { t.Fatal("fn should not run while open"); return nil })
	assert.ErrorIs(t, err, errCircuitOpen)
}

func TestCircuitBreaker_HalfOpenProbeSuccessCloses(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(1_700_000_000, 0))
	cb := newCircuitBreaker(1, time.Minute, clock)
	boom := errors.New("boom")

	require.ErrorIs(t, cb.call(func() error { return boom }), boom)
	require.Equal(t, circuitOpen, cb.state)

	clock.Advance(2 * time.Minute)

	require.NoError(t, cb.call(func() error { return nil }))
	assert.Equal(t, circuitClosed, cb.state)
	assert.Zero(t, cb.failureCount)
}

func TestCircuitBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(1_700_000_000, 0))
	cb := newCircuitBreaker(1, time.Minute, clock)
	boom := errors.New("boom")

	require.ErrorIs(t, cb.call(func() error { return boom }), boom)
	clock.Advance(2 * time.Minute)

	assert.ErrorIs(t, cb.call(func() error { return boom }), boom)
	assert.Equal(t, circuitOpen, cb.state)
}
