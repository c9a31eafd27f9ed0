package shared

// FlightMode is a ship's current flight mode. The in-system router (see
// internal/domain/routing) only ever chooses between Burn and Cruise; Drift
// and Stealth are reachable ship states but not emitted by the planner.
type FlightMode int

const (
	FlightModeCruise FlightMode = iota
	FlightModeBurn
	FlightModeDrift
	FlightModeStealth
)

var flightModeNames = map[FlightMode]string{
	FlightModeCruise:  "CRUISE",
	FlightModeBurn:    "BURN",
	FlightModeDrift:   "DRIFT",
	FlightModeStealth: "STEALTH",
}

func (f FlightMode) Name() string {
	if name, ok := flightModeNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

func (f FlightMode) String() string {
	return f.Name()
}

// ParseFlightMode maps an API flight-mode string back to a FlightMode,
// defaulting to Cruise for unrecognized values.
func ParseFlightMode(s string) FlightMode {
	for mode, name := range flightModeNames {
		if name == s {
			return mode
		}
	}
	return FlightModeCruise
}
