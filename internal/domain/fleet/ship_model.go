package fleet

import "fmt"

// ShipModel identifies a purchasable hull by its frame/reactor/engine and
// required modules/mounts, plus the cargo capacity that combination
// yields. Per §3, a Ship maps to exactly one ShipModel by matching every
// field; if more than one model matches, that is an error (ambiguous
// model catalog), surfaced by MatchModel below.
type ShipModel struct {
	Name             string
	FrameSymbol      string
	ReactorSymbol    string
	EngineSymbol     string
	RequiredModules  []string
	RequiredMounts   []string
	CargoCapacity    int
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := map[string]int{}
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// Matches reports whether a ship with the given components/capacity is an
// instance of this model.
func (m ShipModel) Matches(frame, reactor, engine string, modules, mounts []string, cargoCapacity int) bool {
	return m.FrameSymbol == frame &&
		m.ReactorSymbol == reactor &&
		m.EngineSymbol == engine &&
		m.CargoCapacity == cargoCapacity &&
		sameSet(m.RequiredModules, modules) &&
		sameSet(m.RequiredMounts, mounts)
}

// MatchModel finds the single catalog entry matching a ship's components.
// Returns an error if zero or more than one model matches (ambiguity is
// an error per §3).
func MatchModel(catalog []ShipModel, frame, reactor, engine string, modules, mounts []string, cargoCapacity int) (ShipModel, error) {
	var found *ShipModel
	for i := range catalog {
		if catalog[i].Matches(frame, reactor, engine, modules, mounts, cargoCapacity) {
			if found != nil {
				return ShipModel{}, fmt.Errorf("ambiguous ship model: both %q and %q match", found.Name, catalog[i].Name)
			}
			m := catalog[i]
			found = &m
		}
	}
	if found == nil {
		return ShipModel{}, fmt.Errorf("no ship model matches frame=%s reactor=%s engine=%s cargo=%d", frame, reactor, engine, cargoCapacity)
	}
	return *found, nil
}
