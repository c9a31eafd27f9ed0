// Package fleet holds the Ship aggregate, the ShipModel/ShipConfig job
// description, and the durable job<->ship Assignment. It is grounded on
// the teacher's internal/domain/navigation/ship.go, generalized from a
// single CQRS-owned aggregate to the Agent Controller's owned ship table
// (§3, §4.K).
package fleet

import (
	"fmt"
	"time"

	"github.com/voidfleet/controller/internal/domain/shared"
)

type NavStatus string

const (
	NavStatusDocked    NavStatus = "DOCKED"
	NavStatusInOrbit   NavStatus = "IN_ORBIT"
	NavStatusInTransit NavStatus = "IN_TRANSIT"
)

// Route describes an in-flight navigation leg.
type Route struct {
	OriginSymbol      string
	DestinationSymbol string
	DepartureTime     time.Time
	Arrival           time.Time
}

// Nav is a ship's navigation state.
type Nav struct {
	SystemSymbol   string
	WaypointSymbol string
	Route          *Route // non-nil only while Status == InTransit
	Status         NavStatus
	FlightMode     shared.FlightMode
}

// Engine, Frame and Reactor carry only the fields the planner and the
// purchase/model-matching logic need; condition is tracked so a ship with
// any negative condition is parked rather than scripted (§4.K, §7).
type Engine struct {
	Symbol    string
	Speed     int
	Condition float64
}

type Frame struct {
	Symbol    string
	Condition float64
}

type Reactor struct {
	Symbol    string
	Condition float64
}

// Fuel is a ship's current/capacity fuel tank state.
type Fuel struct {
	Current  int
	Capacity int
}

// Cargo is a ship's hold: Units must equal the sum of Inventory and never
// exceed Capacity (invariant 1, §8).
type Cargo struct {
	Capacity  int
	Units     int
	Inventory map[string]int // good symbol -> units
}

func NewEmptyCargo(capacity int) Cargo {
	return Cargo{Capacity: capacity, Inventory: map[string]int{}}
}

// Validate checks the cargo invariant.
func (c Cargo) Validate() error {
	sum := 0
	for _, u := range c.Inventory {
		sum += u
	}
	if sum != c.Units {
		return shared.NewValidationError("units", fmt.Sprintf("%d does not match inventory sum %d", c.Units, sum))
	}
	if c.Units < 0 || c.Units > c.Capacity {
		return shared.NewValidationError("units", fmt.Sprintf("%d out of range [0,%d]", c.Units, c.Capacity))
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing the
// ship's stored cargo map.
func (c Cargo) Clone() Cargo {
	inv := make(map[string]int, len(c.Inventory))
	for k, v := range c.Inventory {
		inv[k] = v
	}
	return Cargo{Capacity: c.Capacity, Units: c.Units, Inventory: inv}
}

// Cooldown tracks an in-progress survey/extract/siphon/jump cooldown.
type Cooldown struct {
	RemainingSeconds int
	Expiration       *time.Time
}

func (c Cooldown) Active(now time.Time) bool {
	if c.Expiration != nil {
		return now.Before(*c.Expiration)
	}
	return c.RemainingSeconds > 0
}

// Ship is the Agent Controller's owned representation of a single vessel.
// Per §3, scripts never hold a Ship directly — they receive a Ship
// Controller handle (shipapi.Handle in internal/adapters/shipapi) that locks and mutates
// a single ship's state on their behalf.
type Ship struct {
	Symbol  string
	Nav     Nav
	Engine  Engine
	Frame   Frame
	Reactor Reactor
	Fuel    Fuel
	Cooldown Cooldown
	Cargo   Cargo
}

// HasNegativeCondition reports true if any component's condition went
// below zero (damaged beyond repair in this API's model); §4.K/§7 require
// such ships be parked rather than scripted.
func (s *Ship) HasNegativeCondition() bool {
	return s.Engine.Condition < 0 || s.Frame.Condition < 0 || s.Reactor.Condition < 0
}

// ValidateInvariants checks cargo and fuel bounds (§8 invariants 1-2) plus
// the in-transit clock invariant.
func (s *Ship) ValidateInvariants(now time.Time) error {
	if err := s.Cargo.Validate(); err != nil {
		return err
	}
	if s.Fuel.Current < 0 || s.Fuel.Current > s.Fuel.Capacity {
		return shared.NewInsufficientFuelError(s.Fuel.Capacity, s.Fuel.Current)
	}
	if s.Nav.Status == NavStatusInTransit {
		if s.Nav.Route == nil {
			return shared.NewInvalidNavStatusError(fmt.Sprintf("ship %s is IN_TRANSIT with no route", s.Symbol))
		}
		if !now.Before(s.Nav.Route.Arrival) {
			return shared.NewInvalidNavStatusError(fmt.Sprintf("ship %s is IN_TRANSIT but arrival %s is not in the future", s.Symbol, s.Nav.Route.Arrival))
		}
	}
	return nil
}

// CargoSpaceRemaining is the free capacity left in the hold.
func (s *Ship) CargoSpaceRemaining() int {
	return s.Cargo.Capacity - s.Cargo.Units
}
