// Package universe holds the static and slow-changing world data a fleet
// controller needs: waypoint topology, markets, shipyards, construction
// sites and jumpgates. It is the domain model behind the Universe cache
// (internal/application/universe).
package universe

import "github.com/voidfleet/controller/internal/domain/shared"

// WaypointType mirrors the handful of waypoint types the planner cares
// about; unrecognized types pass through as-is.
type WaypointType string

const (
	WaypointTypePlanet            WaypointType = "PLANET"
	WaypointTypeMoon               WaypointType = "MOON"
	WaypointTypeAsteroid            WaypointType = "ASTEROID"
	WaypointTypeEngineeredAsteroid  WaypointType = "ENGINEERED_ASTEROID"
	WaypointTypeGasGiant             WaypointType = "GAS_GIANT"
	WaypointTypeJumpGate              WaypointType = "JUMP_GATE"
)

// WaypointDetails carries the flags that distinguish a bare geometric
// shared.Waypoint from what the planner is allowed to do there.
//
// Invariant: SystemSymbol equals shared.ExtractSystemSymbol(Symbol).
type WaypointDetails struct {
	Waypoint           *shared.Waypoint
	Type               WaypointType
	IsMarket           bool
	IsShipyard         bool
	IsUncharted        bool
	IsUnderConstruction bool
}

func (d *WaypointDetails) Symbol() string {
	return d.Waypoint.Symbol
}

func (d *WaypointDetails) SystemSymbol() string {
	return d.Waypoint.SystemSymbol
}

// WaypointFilter selects waypoints in Universe.SearchWaypoints (§4.C).
// All filters supplied must match (logical AND).
type WaypointFilter struct {
	Market             bool
	Shipyard           bool
	JumpGate            bool
	GasGiant             bool
	EngineeredAsteroid    bool
	Imports             string
	Exports             string
	Exchanges           string
}

// Matches reports whether wp (with its market, when relevant) satisfies f.
func (f WaypointFilter) Matches(wp *WaypointDetails, mkt *Market) bool {
	if f.Market && !wp.IsMarket {
		return false
	}
	if f.Shipyard && !wp.IsShipyard {
		return false
	}
	if f.JumpGate && wp.Type != WaypointTypeJumpGate {
		return false
	}
	if f.GasGiant && wp.Type != WaypointTypeGasGiant {
		return false
	}
	if f.EngineeredAsteroid && wp.Type != WaypointTypeEngineeredAsteroid {
		return false
	}
	if f.Imports != "" && !tradesAs(mkt, f.Imports, TradeGoodTypeImport) {
		return false
	}
	if f.Exports != "" && !tradesAs(mkt, f.Exports, TradeGoodTypeExport) {
		return false
	}
	if f.Exchanges != "" && !tradesAs(mkt, f.Exchanges, TradeGoodTypeExchange) {
		return false
	}
	return true
}

func tradesAs(mkt *Market, good string, kind TradeGoodType) bool {
	if mkt == nil {
		return false
	}
	for _, g := range mkt.TradeGoods {
		if g.Symbol == good && g.Type == kind {
			return true
		}
	}
	return false
}

// System is the minimal topology record the Universe keeps for every
// system it has loaded: its waypoints, keyed by symbol.
type System struct {
	Symbol    string
	X, Y      float64
	Waypoints map[string]*WaypointDetails
}

// Faction is kept only so the agent's starting faction can be resolved
// during registration; the controller does not otherwise reason about it.
type Faction struct {
	Symbol      string
	Name        string
	Description string
}
