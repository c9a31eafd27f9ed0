package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voidfleet/controller/internal/domain/shared"
)

func TestMockClock_AdvanceAndSleep(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)

	assert.Equal(t, start, clock.Now())

	clock.Sleep(5 * time.Second)
	assert.Equal(t, start.Add(5*time.Second), clock.Now())

	clock.Advance(time.Hour)
	assert.Equal(t, start.Add(5*time.Second).Add(time.Hour), clock.Now())
}

func TestMockClock_SetTime(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})
	target := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	clock.SetTime(target)

	assert.Equal(t, target, clock.Now())
}

func TestNewMockClock_ZeroTimeDefaultsToNow(t *testing.T) {
	before := time.Now()
	clock := shared.NewMockClock(time.Time{})
	after := time.Now()

	assert.False(t, clock.Now().Before(before))
	assert.False(t, clock.Now().After(after))
}

func TestRealClock_NowIsUTC(t *testing.T) {
	clock := shared.NewRealClock()
	assert.Equal(t, time.UTC, clock.Now().Location())
}
