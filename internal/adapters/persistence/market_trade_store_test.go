package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/adapters/persistence"
	"github.com/voidfleet/controller/internal/infrastructure/database"
)

func TestStore_RecordMarketTrade_AppendsRow(t *testing.T) {
	db, err := database.OpenTest()
	require.NoError(t, err)
	store := persistence.New(db, "reset-1")
	require.NoError(t, store.AutoMigrate())

	ctx := context.Background()
	ts := time.Unix(1_700_000_000, 0).UTC()
	require.NoError(t, store.RecordMarketTrade(ctx, "X1-AB-WP", "HAULER-1", "IRON_ORE", "SELL", 20, 50, 1000, ts))
	require.NoError(t, store.RecordMarketTrade(ctx, "X1-AB-WP", "HAULER-1", "IRON_ORE", "SELL", 5, 50, 250, ts))

	var count int64
	require.NoError(t, db.Table("market_trades").Where("market_symbol = ?", "X1-AB-WP").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
