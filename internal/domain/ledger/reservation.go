// Package ledger implements the credit Ledger (§4.G) and the
// supplemental cash-flow transaction log (SPEC_FULL.md "Supplemented
// Features"), grounded on the teacher's internal/domain/ledger package.
package ledger

import "sync"

// Ledger is not a locking mechanism (§4.G): callers consult
// AvailableCredits() before committing to a buy, but nothing here
// prevents two callers from racing. It exists purely so concurrent
// decisions can see "roughly how much is already spoken for."
type Ledger struct {
	mu           sync.RWMutex
	total        int64
	reservations map[string]int64
}

func NewLedger() *Ledger {
	return &Ledger{reservations: map[string]int64{}}
}

// SetTotal is called whenever a fresh Agent snapshot arrives (§4.G).
func (l *Ledger) SetTotal(total int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.total = total
}

// Reserve upserts a named reservation amount.
func (l *Ledger) Reserve(name string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reservations[name] = amount
}

// Release removes a named reservation entirely.
func (l *Ledger) Release(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.reservations, name)
}

// AvailableCredits returns total minus the sum of all reservations.
func (l *Ledger) AvailableCredits() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sum := int64(0)
	for _, v := range l.reservations {
		sum += v
	}
	return l.total - sum
}

// ReservationNames returns the current set of reservation keys, used by
// tests checking invariant 4 (§8): the reservation set equals the
// logistics-assigned ship symbols plus "FUEL" after refresh_ship_config.
func (l *Ledger) ReservationNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.reservations))
	for k := range l.reservations {
		out = append(out, k)
	}
	return out
}

// ReservationAmount returns the current reservation for name, or 0.
func (l *Ledger) ReservationAmount(name string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reservations[name]
}
