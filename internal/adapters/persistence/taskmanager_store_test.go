package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/taskmanager"
	"github.com/voidfleet/controller/internal/domain/task"
)

func TestStore_LoadInProgress_MissReturnsNilNoError(t *testing.T) {
	store := newTestStore(t)
	entries, err := store.LoadInProgress(context.Background(), "X1-AB")
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestStore_SaveInProgressThenLoadInProgress_RoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := map[string]taskmanager.InProgressEntry{
		"trade_IRON_ORE": {
			Task:       task.Task{ID: "trade_IRON_ORE", Kind: task.TaskKindTransportCargo},
			ShipSymbol: "HAULER-1",
			TakenAt:    time.Unix(1_700_000_000, 0).UTC(),
		},
	}
	require.NoError(t, store.SaveInProgress(ctx, "X1-AB", entries))

	loaded, err := store.LoadInProgress(ctx, "X1-AB")
	require.NoError(t, err)
	require.Contains(t, loaded, "trade_IRON_ORE")
	assert.Equal(t, "HAULER-1", loaded["trade_IRON_ORE"].ShipSymbol)
	assert.True(t, entries["trade_IRON_ORE"].TakenAt.Equal(loaded["trade_IRON_ORE"].TakenAt))
}

func TestStore_SaveInProgress_OverwritesPreviousSet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveInProgress(ctx, "X1-AB", map[string]taskmanager.InProgressEntry{
		"trade_A": {Task: task.Task{ID: "trade_A"}, ShipSymbol: "HAULER-1"},
	}))
	require.NoError(t, store.SaveInProgress(ctx, "X1-AB", map[string]taskmanager.InProgressEntry{
		"trade_B": {Task: task.Task{ID: "trade_B"}, ShipSymbol: "HAULER-2"},
	}))

	loaded, err := store.LoadInProgress(ctx, "X1-AB")
	require.NoError(t, err)
	assert.NotContains(t, loaded, "trade_A")
	assert.Contains(t, loaded, "trade_B")
}
