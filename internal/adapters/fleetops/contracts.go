package fleetops

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/contract"
	domainuniverse "github.com/voidfleet/controller/internal/domain/universe"
)

// Contracts implements agentcontroller.ContractAPI. Negotiate immediately
// accepts what it negotiates: the SpaceTraders API returns a contract
// pending acceptance, but contract_tick's debounce only reasons about
// accepted-or-none (§4.K), so there is never a useful state in between for
// this agent to sit in.
type Contracts struct {
	client *apiclient.Client
	token  string
}

// NewContracts constructs a Contracts adapter.
func NewContracts(client *apiclient.Client, token string) *Contracts {
	return &Contracts{client: client, token: token}
}

// NegotiateContract implements agentcontroller.ContractAPI.
func (c *Contracts) NegotiateContract(ctx context.Context, ship string) (*contract.Contract, error) {
	negotiated, err := c.client.NegotiateContract(ctx, c.token, ship)
	if err != nil {
		return nil, fmt.Errorf("fleetops: negotiate contract via %s: %w", ship, err)
	}
	accepted, err := c.client.AcceptContract(ctx, c.token, negotiated.ID)
	if err != nil {
		return nil, fmt.Errorf("fleetops: accept contract %s: %w", negotiated.ID, err)
	}
	return &accepted, nil
}

// FulfillContract implements agentcontroller.ContractAPI.
func (c *Contracts) FulfillContract(ctx context.Context, contractID string) error {
	if err := c.client.FulfillContract(ctx, c.token, contractID); err != nil {
		return fmt.Errorf("fleetops: fulfill contract %s: %w", contractID, err)
	}
	return nil
}

// ContractWorld implements agentcontroller.ContractWorld over the Universe
// cache's market data.
type ContractWorld struct {
	cache *universe.Cache
}

// NewContractWorld constructs a ContractWorld adapter.
func NewContractWorld(cache *universe.Cache) *ContractWorld {
	return &ContractWorld{cache: cache}
}

// BestContractBuy implements agentcontroller.ContractWorld: the cheapest
// market in systemSymbol selling good, preferring a non-Import listing
// whenever at least one trades it (§4.K contract_tick).
func (w *ContractWorld) BestContractBuy(ctx context.Context, systemSymbol, good string) (string, int, error) {
	waypoints, err := w.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return "", 0, fmt.Errorf("fleetops: load waypoints %s: %w", systemSymbol, err)
	}

	type candidate struct {
		wp       string
		price    int
		isImport bool
	}
	var nonImport, anyCandidate []candidate

	for symbol, wp := range waypoints {
		if !wp.IsMarket {
			continue
		}
		market, _, err := w.cache.GetMarket(ctx, symbol)
		if err != nil || market == nil {
			continue
		}
		for _, tg := range market.TradeGoods {
			if tg.Symbol != good {
				continue
			}
			cand := candidate{wp: symbol, price: tg.PurchasePrice, isImport: tg.Type == domainuniverse.TradeGoodTypeImport}
			anyCandidate = append(anyCandidate, cand)
			if !cand.isImport {
				nonImport = append(nonImport, cand)
			}
		}
	}

	pool := nonImport
	if len(pool) == 0 {
		pool = anyCandidate
	}
	if len(pool) == 0 {
		return "", 0, fmt.Errorf("fleetops: no market in %s sells %s", systemSymbol, good)
	}

	best := pool[0]
	for _, cand := range pool[1:] {
		if cand.price < best.price {
			best = cand
		}
	}
	return best.wp, best.price, nil
}
