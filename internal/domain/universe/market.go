package universe

import "time"

// TradeGoodType is the market's relationship to a good.
type TradeGoodType string

const (
	TradeGoodTypeImport   TradeGoodType = "IMPORT"
	TradeGoodTypeExport   TradeGoodType = "EXPORT"
	TradeGoodTypeExchange TradeGoodType = "EXCHANGE"
)

// Supply is an ordinal scale; Scarce is the lowest and Abundant the
// highest. Comparisons (e.g. "supply >= Moderate") use the ordinal value.
type Supply int

const (
	SupplyScarce Supply = iota
	SupplyLimited
	SupplyModerate
	SupplyHigh
	SupplyAbundant
)

var supplyNames = map[string]Supply{
	"SCARCE":   SupplyScarce,
	"LIMITED":  SupplyLimited,
	"MODERATE": SupplyModerate,
	"HIGH":     SupplyHigh,
	"ABUNDANT": SupplyAbundant,
}

func ParseSupply(s string) Supply {
	if v, ok := supplyNames[s]; ok {
		return v
	}
	return SupplyModerate
}

// Activity, when present, describes how fast a market's supply is moving.
type Activity string

const (
	ActivityWeak       Activity = "WEAK"
	ActivityGrowing    Activity = "GROWING"
	ActivityStrong     Activity = "STRONG"
	ActivityRestricted Activity = "RESTRICTED"
)

// TradeGood is one row of a market's trade_goods list.
type TradeGood struct {
	Symbol        string
	Type          TradeGoodType
	Supply        Supply
	Activity      *Activity
	TradeVolume   int
	PurchasePrice int // what the ship pays to buy from the market
	SellPrice     int // what the ship receives selling to the market
}

// Transaction is one append-only row of a market's transaction log.
type Transaction struct {
	MarketSymbol string
	ShipSymbol   string
	Good         string
	Type         string // PURCHASE | SELL
	Units        int
	PricePerUnit int
	TotalPrice   int
	Timestamp    time.Time
}

// Market is a point-in-time snapshot of a waypoint's trade data.
type Market struct {
	Symbol       string
	Imports      []string // good symbols with no TradeGood row (unexplored trade detail)
	Exports      []string
	Exchange     []string
	TradeGoods   []TradeGood
	Timestamp    time.Time
}

// Good looks up a market's TradeGood row by symbol.
func (m *Market) Good(symbol string) (TradeGood, bool) {
	for _, g := range m.TradeGoods {
		if g.Symbol == symbol {
			return g, true
		}
	}
	return TradeGood{}, false
}

// IsPureExchangeFuelOnly reports whether the market trades nothing but
// fuel on an exchange basis — the Logistic Task Manager skips refresh
// tasks for these (§4.H step 2).
func (m *Market) IsPureExchangeFuelOnly() bool {
	if len(m.TradeGoods) == 0 {
		return len(m.Exchange) == 1 && m.Exchange[0] == "FUEL"
	}
	for _, g := range m.TradeGoods {
		if g.Symbol != "FUEL" || g.Type != TradeGoodTypeExchange {
			return false
		}
	}
	return true
}
