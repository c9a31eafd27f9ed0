package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voidfleet/controller/internal/domain/ledger"
)

func TestLedger_AvailableCredits(t *testing.T) {
	l := ledger.NewLedger()
	l.SetTotal(100_000)

	assert.Equal(t, int64(100_000), l.AvailableCredits())

	l.Reserve("HAULER-1", 30_000)
	l.Reserve("FUEL", 5_000)

	assert.Equal(t, int64(65_000), l.AvailableCredits())
	assert.ElementsMatch(t, []string{"HAULER-1", "FUEL"}, l.ReservationNames())
	assert.Equal(t, int64(30_000), l.ReservationAmount("HAULER-1"))

	l.Release("HAULER-1")

	assert.Equal(t, int64(95_000), l.AvailableCredits())
	assert.Equal(t, []string{"FUEL"}, l.ReservationNames())
	assert.Equal(t, int64(0), l.ReservationAmount("HAULER-1"))
}

func TestLedger_ReserveUpsertsSameName(t *testing.T) {
	l := ledger.NewLedger()
	l.SetTotal(10_000)

	l.Reserve("FUEL", 1_000)
	l.Reserve("FUEL", 2_000)

	assert.Equal(t, int64(2_000), l.ReservationAmount("FUEL"))
	assert.Equal(t, int64(8_000), l.AvailableCredits())
}
