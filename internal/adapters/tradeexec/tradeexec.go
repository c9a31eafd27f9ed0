// Package tradeexec implements the shipscripts Buyer/Trader/ActionExecutor
// ports: every RPC that moves cargo or credits, with the result logged to
// the ledger and the market_trades table. Grounded on the teacher's
// internal/application/trading/commands package (buy/sell command
// handlers that both call the API client and append a ledger-shaped
// record of what happened), generalized to this repo's Action model.
package tradeexec

import (
	"context"
	"fmt"
	"time"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/application/ledger"
	"github.com/voidfleet/controller/internal/application/shipscripts"
	domainledger "github.com/voidfleet/controller/internal/domain/ledger"
	"github.com/voidfleet/controller/internal/domain/task"
	"github.com/voidfleet/controller/internal/domain/universe"
)

// MarketTradeRecorder persists an append-only trade row (§4.B
// "market_trades"). Satisfied by adapters/persistence.Store.
type MarketTradeRecorder interface {
	RecordMarketTrade(ctx context.Context, marketSymbol, shipSymbol, good, tradeType string, units, pricePerUnit, totalPrice int, ts time.Time) error
}

// Executor wraps the API client and logs every trade to the ledger and the
// market_trades table, implementing shipscripts.Buyer, shipscripts.Trader
// and shipscripts.ActionExecutor.
type Executor struct {
	client *apiclient.Client
	token  string
	ledger *ledger.Service
	trades MarketTradeRecorder
}

// New constructs an Executor.
func New(client *apiclient.Client, token string, ledgerSvc *ledger.Service, trades MarketTradeRecorder) *Executor {
	return &Executor{client: client, token: token, ledger: ledgerSvc, trades: trades}
}

// Buy performs the purchase RPC, records the transaction and logs the
// trade row.
func (e *Executor) Buy(ctx context.Context, ship shipscripts.ShipAPI, good string, units int) error {
	_, tx, err := e.client.PurchaseCargo(ctx, e.token, ship.Symbol(), good, units)
	if err != nil {
		return fmt.Errorf("tradeexec: buy %s x%d on %s: %w", good, units, ship.Symbol(), err)
	}
	return e.record(ctx, tx, domainledger.TransactionTypePurchaseCargo)
}

// Sell performs the sell RPC, records the transaction and logs the trade
// row.
func (e *Executor) Sell(ctx context.Context, ship shipscripts.ShipAPI, good string, units int) error {
	_, tx, err := e.client.SellCargo(ctx, e.token, ship.Symbol(), good, units)
	if err != nil {
		return fmt.Errorf("tradeexec: sell %s x%d on %s: %w", good, units, ship.Symbol(), err)
	}
	return e.record(ctx, tx, domainledger.TransactionTypeSellCargo)
}

// Jettison discards cargo with no trade to log.
func (e *Executor) Jettison(ctx context.Context, ship shipscripts.ShipAPI, good string, units int) error {
	if err := e.client.JettisonCargo(ctx, e.token, ship.Symbol(), good, units); err != nil {
		return fmt.Errorf("tradeexec: jettison %s x%d on %s: %w", good, units, ship.Symbol(), err)
	}
	return nil
}

// Execute performs one ScheduledAction's Action against the live API
// (§4.J Logistics). Refresh*/TryBuyShips actions carry no RPC of their own
// here; the caller's world-refresh/purchase loop handles them, so Execute
// only dispatches the four cargo-moving actions.
func (e *Executor) Execute(ctx context.Context, ship shipscripts.ShipAPI, action task.Action) error {
	switch action.Kind {
	case task.ActionBuyGoods:
		return e.Buy(ctx, ship, action.Good, action.Units)
	case task.ActionSellGoods:
		return e.Sell(ctx, ship, action.Good, action.Units)
	case task.ActionDeliverContract, task.ActionDeliverConstruction:
		// Contract/construction deliveries are not trades; they are
		// handled by the Agent Controller's contract tick and the
		// ConstructionHauler script's SupplyConstruction RPC, not here.
		return nil
	case task.ActionRefreshMarket, task.ActionRefreshShipyard, task.ActionTryBuyShips:
		return nil
	default:
		return fmt.Errorf("tradeexec: unhandled action kind %s", action.Kind)
	}
}

// record logs tx to the market_trades table and appends a signed ledger
// transaction (purchases spend credits, sales earn them).
func (e *Executor) record(ctx context.Context, tx universe.Transaction, txType domainledger.TransactionType) error {
	if e.trades != nil {
		if err := e.trades.RecordMarketTrade(ctx, tx.MarketSymbol, tx.ShipSymbol, tx.Good, tx.Type, tx.Units, tx.PricePerUnit, tx.TotalPrice, tx.Timestamp); err != nil {
			return fmt.Errorf("tradeexec: record market trade: %w", err)
		}
	}
	if e.ledger != nil {
		amount := int64(tx.TotalPrice)
		if txType == domainledger.TransactionTypePurchaseCargo {
			amount = -amount
		}
		if err := e.ledger.RecordTransaction(ctx, tx.ShipSymbol, txType, amount); err != nil {
			return fmt.Errorf("tradeexec: record ledger transaction: %w", err)
		}
	}
	return nil
}
