// Package persistence implements the Persistence Adapter (§4.B): a
// reset-namespaced generic key/value table plus typed tables for the
// world data the Universe cache, Survey Manager, Ledger, Logistic Task
// Manager and per-ship scripts need to survive a daemon restart.
// Grounded on the teacher's internal/adapters/persistence package (gorm
// repositories, upsert-by-composite-key, batch inserts), generalized from
// its per-player_id namespacing to the spec's per-reset_identifier
// namespacing (§4.B: "multiple game resets coexist").
package persistence

import "time"

// kvEntryModel is the generic JSON key/value table (§4.B pattern 1):
// last-write-wins upsert keyed by (reset_identifier, key).
type kvEntryModel struct {
	ResetIdentifier string    `gorm:"column:reset_identifier;primaryKey;size:64"`
	Key             string    `gorm:"column:key;primaryKey;size:255"`
	Value           string    `gorm:"column:value;type:text;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null"`
}

func (kvEntryModel) TableName() string { return "kv_entries" }

// systemModel is one row of the "systems" typed table (§4.B pattern 2).
type systemModel struct {
	ResetIdentifier string  `gorm:"column:reset_identifier;primaryKey;size:64"`
	Symbol          string  `gorm:"column:symbol;primaryKey;size:32"`
	X               float64 `gorm:"column:x;not null"`
	Y               float64 `gorm:"column:y;not null"`
}

func (systemModel) TableName() string { return "systems" }

// waypointModel is one row of the "waypoints" typed table: the bare
// shared.Waypoint fields, never stale within a reset (§4.C).
type waypointModel struct {
	ResetIdentifier string  `gorm:"column:reset_identifier;primaryKey;size:64"`
	Symbol          string  `gorm:"column:symbol;primaryKey;size:32"`
	SystemSymbol    string  `gorm:"column:system_symbol;not null;index"`
	X               float64 `gorm:"column:x;not null"`
	Y               float64 `gorm:"column:y;not null"`
	Type            string  `gorm:"column:type;not null"`
	Traits          string  `gorm:"column:traits;type:text"`   // JSON array of strings
	HasFuel         bool    `gorm:"column:has_fuel;not null"`
	Orbitals        string  `gorm:"column:orbitals;type:text"` // JSON array of strings
}

func (waypointModel) TableName() string { return "waypoints" }

// waypointDetailModel is one row of the "waypoint_details" typed table:
// the planner-facing flags layered on top of a bare waypoint.
type waypointDetailModel struct {
	ResetIdentifier     string `gorm:"column:reset_identifier;primaryKey;size:64"`
	WaypointSymbol      string `gorm:"column:waypoint_symbol;primaryKey;size:32"`
	IsMarket            bool   `gorm:"column:is_market;not null"`
	IsShipyard          bool   `gorm:"column:is_shipyard;not null"`
	IsUncharted         bool   `gorm:"column:is_uncharted;not null"`
	IsUnderConstruction bool   `gorm:"column:is_under_construction;not null"`
}

func (waypointDetailModel) TableName() string { return "waypoint_details" }

// jumpgateConnectionModel is one edge of the "jumpgate_connections" typed
// table: one row per (gate, connected gate), replaced wholesale whenever
// a gate's connections are refreshed.
type jumpgateConnectionModel struct {
	ResetIdentifier string `gorm:"column:reset_identifier;primaryKey;size:64"`
	WaypointSymbol  string `gorm:"column:waypoint_symbol;primaryKey;size:32"`
	ConnectionSymbol string `gorm:"column:connection_symbol;primaryKey;size:32"`
}

func (jumpgateConnectionModel) TableName() string { return "jumpgate_connections" }

// marketModel is the "markets" snapshot table: one row per waypoint,
// overwritten whenever a fresher market view is fetched (§4.C).
type marketModel struct {
	ResetIdentifier string    `gorm:"column:reset_identifier;primaryKey;size:64"`
	WaypointSymbol  string    `gorm:"column:waypoint_symbol;primaryKey;size:32"`
	Imports         string    `gorm:"column:imports;type:text"`
	Exports         string    `gorm:"column:exports;type:text"`
	Exchange        string    `gorm:"column:exchange;type:text"`
	TradeGoods      string    `gorm:"column:trade_goods;type:text;not null"` // JSON []universe.TradeGood
	Timestamp       time.Time `gorm:"column:timestamp;not null"`
}

func (marketModel) TableName() string { return "markets" }

// shipyardModel is the "shipyards" snapshot table.
type shipyardModel struct {
	ResetIdentifier string    `gorm:"column:reset_identifier;primaryKey;size:64"`
	WaypointSymbol  string    `gorm:"column:waypoint_symbol;primaryKey;size:32"`
	Listings        string    `gorm:"column:listings;type:text;not null"` // JSON []universe.ShipyardListing
	Timestamp       time.Time `gorm:"column:timestamp;not null"`
}

func (shipyardModel) TableName() string { return "shipyards" }

// constructionModel is the construction snapshot; the spec's typed-table
// list does not name it separately, so it rides on the kv table under
// the "construction/{wp}" key template instead (§4.B key list).

// marketTradeModel is one append-only row of the "market_trades" table: a
// log of every purchase/sell the fleet executed, never overwritten.
type marketTradeModel struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ResetIdentifier string   `gorm:"column:reset_identifier;not null;index:idx_trades_market"`
	MarketSymbol   string    `gorm:"column:market_symbol;not null;index:idx_trades_market"`
	ShipSymbol     string    `gorm:"column:ship_symbol;not null"`
	Good           string    `gorm:"column:good;not null"`
	TradeType      string    `gorm:"column:trade_type;not null"` // PURCHASE | SELL
	Units          int       `gorm:"column:units;not null"`
	PricePerUnit   int       `gorm:"column:price_per_unit;not null"`
	TotalPrice     int       `gorm:"column:total_price;not null"`
	Timestamp      time.Time `gorm:"column:timestamp;not null"`
}

func (marketTradeModel) TableName() string { return "market_trades" }

// marketTransactionModel is the "market_transactions" table, keyed on the
// unique (reset, market, timestamp) triple. AutoMigrate creates it; no
// Store method reads or writes it.
type marketTransactionModel struct {
	ResetIdentifier string    `gorm:"column:reset_identifier;primaryKey;size:64"`
	MarketSymbol    string    `gorm:"column:market_symbol;primaryKey;size:32"`
	Timestamp       time.Time `gorm:"column:timestamp;primaryKey"`
	ShipSymbol      string    `gorm:"column:ship_symbol;not null"`
	Good            string    `gorm:"column:good;not null"`
	TradeType       string    `gorm:"column:trade_type;not null"`
	Units           int       `gorm:"column:units;not null"`
	PricePerUnit    int       `gorm:"column:price_per_unit;not null"`
	TotalPrice      int       `gorm:"column:total_price;not null"`
}

func (marketTransactionModel) TableName() string { return "market_transactions" }

// surveyModel is one row of the "surveys" table.
type surveyModel struct {
	ResetIdentifier string    `gorm:"column:reset_identifier;primaryKey;size:64"`
	ID              string    `gorm:"column:id;primaryKey;size:64"`
	Signature       string    `gorm:"column:signature;not null"`
	WaypointSymbol  string    `gorm:"column:waypoint_symbol;not null;index"`
	Size            string    `gorm:"column:size;not null"`
	Deposits        string    `gorm:"column:deposits;type:text;not null"` // JSON []string
	Expiration      time.Time `gorm:"column:expiration;not null"`
}

func (surveyModel) TableName() string { return "surveys" }

// ledgerTransactionModel is the supplemented cash-flow transaction log
// (DESIGN.md "application/ledger"), stored separately from market_trades:
// this logs every credit-affecting event (buy, sell, contract payout,
// fuel), not just goods trades.
type ledgerTransactionModel struct {
	ResetIdentifier string    `gorm:"column:reset_identifier;primaryKey;size:64"`
	ID              string    `gorm:"column:id;primaryKey;size:64"`
	ShipSymbol      string    `gorm:"column:ship_symbol;not null;index"`
	Type            string    `gorm:"column:type;not null"`
	Category        string    `gorm:"column:category;not null;index"`
	Amount          int64     `gorm:"column:amount;not null"`
	Timestamp       time.Time `gorm:"column:timestamp;not null;index"`
}

func (ledgerTransactionModel) TableName() string { return "ledger_transactions" }
