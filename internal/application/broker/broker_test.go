package broker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/application/broker"
)

type fakeTransfer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeTransfer) TransferCargo(ctx context.Context, fromShip, toShip, goodSymbol string, units int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fromShip+"->"+toShip)
	return f.err
}

func TestBroker_MatchesSenderAndReceiverAtSameWaypoint(t *testing.T) {
	transfer := &fakeTransfer{}
	b := broker.New(transfer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	var recvErr, sendErr error

	go func() {
		defer wg.Done()
		recvErr = b.ReceiveCargo(ctx, "HAULER-1", "X1-AB-WP", 50)
	}()
	go func() {
		defer wg.Done()
		sendErr = b.TransferCargo(ctx, "MINER-1", "X1-AB-WP", []broker.Good{{Symbol: "IRON_ORE", Units: 50}})
	}()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receive/transfer did not complete")
	}

	require.NoError(t, recvErr)
	require.NoError(t, sendErr)
	assert.Equal(t, []string{"MINER-1->HAULER-1"}, transfer.calls)
}

func TestBroker_PartialFillWhenReceiverCapacityIsSmaller(t *testing.T) {
	transfer := &fakeTransfer{}
	b := broker.New(transfer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	// Sender offers more than the receiver can take; only the receiver's
	// request is expected to complete here, since nothing drains the
	// sender's remaining units.
	go func() {
		_ = b.TransferCargo(ctx, "MINER-1", "X1-AB-WP", []broker.Good{{Symbol: "IRON_ORE", Units: 30}})
	}()

	recvDone := make(chan error, 1)
	go func() {
		recvDone <- b.ReceiveCargo(ctx, "HAULER-1", "X1-AB-WP", 10)
	}()

	select {
	case err := <-recvDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("receiver did not complete its partial fill")
	}

	assert.Equal(t, []string{"MINER-1->HAULER-1"}, transfer.calls)
}

func TestBroker_Stop_EndsRunLoop(t *testing.T) {
	transfer := &fakeTransfer{}
	b := broker.New(transfer)

	runReturned := make(chan struct{})
	go func() {
		b.Run(context.Background())
		close(runReturned)
	}()

	b.Stop()

	select {
	case <-runReturned:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
