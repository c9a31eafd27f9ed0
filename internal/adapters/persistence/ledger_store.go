package persistence

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/domain/ledger"
)

// RecordTransaction appends one cash-flow row (supplemented feature,
// DESIGN.md "application/ledger").
func (s *Store) RecordTransaction(ctx context.Context, tx ledger.Transaction) error {
	row := ledgerTransactionModel{
		ResetIdentifier: s.resetIdentifier,
		ID:              tx.ID,
		ShipSymbol:      tx.ShipSymbol,
		Type:            string(tx.Type),
		Category:        string(tx.Category),
		Amount:          tx.Amount,
		Timestamp:       tx.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("persistence: record transaction %s: %w", tx.ID, err)
	}
	return nil
}

// Transactions returns every recorded row for shipSymbol, oldest first;
// an empty shipSymbol returns every transaction for the reset.
func (s *Store) Transactions(ctx context.Context, shipSymbol string) ([]ledger.Transaction, error) {
	q := s.db.WithContext(ctx).Where("reset_identifier = ?", s.resetIdentifier)
	if shipSymbol != "" {
		q = q.Where("ship_symbol = ?", shipSymbol)
	}
	var rows []ledgerTransactionModel
	if err := q.Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("persistence: load transactions: %w", err)
	}
	out := make([]ledger.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, ledger.Transaction{
			ID:         r.ID,
			ShipSymbol: r.ShipSymbol,
			Type:       ledger.TransactionType(r.Type),
			Category:   ledger.Category(r.Category),
			Amount:     r.Amount,
			Timestamp:  r.Timestamp,
		})
	}
	return out, nil
}
