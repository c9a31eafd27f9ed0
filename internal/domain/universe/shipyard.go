package universe

import "time"

// ShipyardListing is one ship type a shipyard will sell.
type ShipyardListing struct {
	ShipType      string
	Price         int
	FrameSymbol   string
	ReactorSymbol string
	EngineSymbol  string
	ModuleSymbols []string
	MountSymbols  []string
}

// Shipyard is a point-in-time snapshot of a waypoint's purchasable ships.
type Shipyard struct {
	WaypointSymbol string
	Listings       []ShipyardListing
	Timestamp      time.Time
}

// ConstructionMaterial is one row of a Construction's materials list.
type ConstructionMaterial struct {
	TradeSymbol string
	Required    int
	Fulfilled   int
}

// Remaining returns the outstanding units still needed, never negative.
func (m ConstructionMaterial) Remaining() int {
	if m.Required <= m.Fulfilled {
		return 0
	}
	return m.Required - m.Fulfilled
}

// Construction is the jumpgate construction site state for a system.
type Construction struct {
	WaypointSymbol string
	Materials      []ConstructionMaterial
	IsComplete     bool
	Timestamp      time.Time
}

// JumpGate is the charted connectivity of a jump gate waypoint.
type JumpGate struct {
	WaypointSymbol  string
	Connections     []string
	IsConstructed   bool
	// AllConnectionsKnown is true once this gate's own /jump-gate response
	// has been fetched; per §4.D, a not-yet-fully-known gate only
	// contributes inferred reverse edges announced by the other side.
	AllConnectionsKnown bool
}
