package fleetops

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/domain/fleet"
)

// Transfer implements agentcontroller.TransferAPI over the raw cargo
// transfer RPC.
type Transfer struct {
	client *apiclient.Client
	token  string
}

// NewTransfer constructs a Transfer adapter.
func NewTransfer(client *apiclient.Client, token string) *Transfer {
	return &Transfer{client: client, token: token}
}

// Transfer implements agentcontroller.TransferAPI.
func (t *Transfer) Transfer(ctx context.Context, srcShip, dstShip, good string, units int) (fleet.Cargo, fleet.Cargo, error) {
	src, dst, err := t.client.TransferCargo(ctx, t.token, srcShip, dstShip, good, units)
	if err != nil {
		return fleet.Cargo{}, fleet.Cargo{}, fmt.Errorf("fleetops: transfer %s x%d %s->%s: %w", good, units, srcShip, dstShip, err)
	}
	return src, dst, nil
}

// TransferCargo implements broker.Transfer, the Cargo Broker's narrower
// view of the same RPC (it only needs to know whether the move succeeded).
func (t *Transfer) TransferCargo(ctx context.Context, fromShip, toShip, goodSymbol string, units int) error {
	_, _, err := t.Transfer(ctx, fromShip, toShip, goodSymbol, units)
	return err
}
