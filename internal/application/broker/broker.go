// Package broker implements the Cargo Broker: a single-reader rendezvous
// actor pairing senders and receivers of cargo at a waypoint (§4.F).
// Grounded on the teacher's mediator/channel-based command dispatch
// (internal/application/mediator), adapted into a dedicated actor goroutine
// per the design note "Actor with dynamic task set: combine an unbounded
// inbox ... do not block inserts on the owner mutex" — here the inbox is a
// buffered channel read by a single goroutine running Run.
package broker

import (
	"context"
	"fmt"
)

// Good is one (trade symbol, units) line item.
type Good struct {
	Symbol string
	Units  int
}

// Transfer is the injected Transfer Actor: the in-game transfer RPC.
type Transfer interface {
	TransferCargo(ctx context.Context, fromShip, toShip, goodSymbol string, units int) error
}

// ReceiveRequest asks the broker to pair ship as a receiver at wp with the
// given free cargo capacity.
type ReceiveRequest struct {
	Ship     string
	Waypoint string
	Capacity int
	Done     chan error
}

// TransferRequest asks the broker to pair ship as a sender at wp, draining goods.
type TransferRequest struct {
	Ship     string
	Waypoint string
	Goods    []Good
	Done     chan error
}

type receiver struct {
	req       ReceiveRequest
	remaining int
}

type sender struct {
	req   TransferRequest
	goods []Good
}

// Broker is the single-consumer cargo rendezvous actor.
type Broker struct {
	transfer Transfer

	receiveCh  chan ReceiveRequest
	transferCh chan TransferRequest
	stopCh     chan struct{}

	receivers map[string][]*receiver
	senders   map[string][]*sender
}

// New constructs a Broker. Call Run in its own goroutine to start serving.
func New(transfer Transfer) *Broker {
	return &Broker{
		transfer:   transfer,
		receiveCh:  make(chan ReceiveRequest, 64),
		transferCh: make(chan TransferRequest, 64),
		stopCh:     make(chan struct{}),
		receivers:  make(map[string][]*receiver),
		senders:    make(map[string][]*sender),
	}
}

// ReceiveCargo enqueues a receive request and blocks until it completes.
func (b *Broker) ReceiveCargo(ctx context.Context, ship, waypoint string, capacity int) error {
	done := make(chan error, 1)
	req := ReceiveRequest{Ship: ship, Waypoint: waypoint, Capacity: capacity, Done: done}
	select {
	case b.receiveCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TransferCargo enqueues a transfer (sender) request and blocks until it completes.
func (b *Broker) TransferCargo(ctx context.Context, ship, waypoint string, goods []Good) error {
	done := make(chan error, 1)
	req := TransferRequest{Ship: ship, Waypoint: waypoint, Goods: goods, Done: done}
	select {
	case b.transferCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends Run's loop. Requests still in the inbox, or still unpaired,
// are left uncompleted; their callers return when their own context ends.
func (b *Broker) Stop() { close(b.stopCh) }

// Run drives the single-consumer matching loop until Stop is called. It
// must be started exactly once.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case req := <-b.receiveCh:
			b.receivers[req.Waypoint] = append(b.receivers[req.Waypoint], &receiver{req: req, remaining: req.Capacity})
			b.match(ctx, req.Waypoint)
		case req := <-b.transferCh:
			b.senders[req.Waypoint] = append(b.senders[req.Waypoint], &sender{req: req, goods: append([]Good(nil), req.Goods...)})
			b.match(ctx, req.Waypoint)
		case <-b.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// match pairs the front receiver and sender at wp, repeating while both
// exist, FIFO per waypoint (§4.F).
func (b *Broker) match(ctx context.Context, wp string) {
	for {
		recvList := b.receivers[wp]
		sendList := b.senders[wp]
		if len(recvList) == 0 || len(sendList) == 0 {
			return
		}
		r := recvList[0]
		s := sendList[0]
		if len(s.goods) == 0 {
			// defensive: a sender with no goods left completes immediately.
			s.req.Done <- nil
			b.senders[wp] = sendList[1:]
			continue
		}
		good := s.goods[0]
		units := r.remaining
		if good.Units < units {
			units = good.Units
		}
		if units <= 0 {
			return
		}

		if err := b.transfer.TransferCargo(ctx, s.req.Ship, r.req.Ship, good.Symbol, units); err != nil {
			r.req.Done <- fmt.Errorf("broker transfer %s->%s: %w", s.req.Ship, r.req.Ship, err)
			s.req.Done <- fmt.Errorf("broker transfer %s->%s: %w", s.req.Ship, r.req.Ship, err)
			b.receivers[wp] = recvList[1:]
			b.senders[wp] = sendList[1:]
			continue
		}

		r.remaining -= units
		good.Units -= units
		if good.Units == 0 {
			s.goods = s.goods[1:]
		} else {
			s.goods[0] = good
		}

		if r.remaining == 0 {
			r.req.Done <- nil
			b.receivers[wp] = recvList[1:]
		}
		if len(s.goods) == 0 {
			s.req.Done <- nil
			b.senders[wp] = sendList[1:]
		}
	}
}
