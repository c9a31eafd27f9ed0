package persistence

import (
	"context"
	"fmt"
	"time"
)

// RecordMarketTrade appends one row to the append-only "market_trades" log
// (§4.B), satisfying adapters/tradeexec.MarketTradeRecorder.
func (s *Store) RecordMarketTrade(ctx context.Context, marketSymbol, shipSymbol, good, tradeType string, units, pricePerUnit, totalPrice int, ts time.Time) error {
	row := marketTradeModel{
		ResetIdentifier: s.resetIdentifier,
		MarketSymbol:    marketSymbol,
		ShipSymbol:      shipSymbol,
		Good:            good,
		TradeType:       tradeType,
		Units:           units,
		PricePerUnit:    pricePerUnit,
		TotalPrice:      totalPrice,
		Timestamp:       ts,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("persistence: record market trade %s/%s: %w", marketSymbol, good, err)
	}
	return nil
}
