// Package survey implements the Survey Manager's domain model (§4.E).
package survey

import "time"

// Deposit is one extractable resource signature within a survey.
type Deposit string

// depositWeights is the fixed scoring table from §4.E.
var depositWeights = map[Deposit]float64{
	"IRON_ORE":         2.0,
	"QUARTZ_SAND":      2.0,
	"COPPER_ORE":       1.5,
	"SILICON_CRYSTALS": 1.5,
	"ALUMINUM_ORE":     0.1,
	"ICE_WATER":        0.0,
}

// Survey is a single extraction survey as reported by the game API.
type Survey struct {
	Signature      string
	WaypointSymbol string
	Deposits       []Deposit
	Size           string
	Expiration     time.Time
}

// Score computes Σ(deposit weights)/|deposits|; an empty deposit list
// scores zero.
func (s *Survey) Score() float64 {
	if len(s.Deposits) == 0 {
		return 0
	}
	total := 0.0
	for _, d := range s.Deposits {
		total += depositWeights[d]
	}
	return total / float64(len(s.Deposits))
}

// Expired reports whether s is past its grace period as of now (§4.E: the
// 5 minute grace after Expiration).
func (s *Survey) Expired(now time.Time) bool {
	return now.After(s.Expiration.Add(5 * time.Minute))
}

// KeyedSurvey pairs a server-agnostic local identity with the survey, so
// the pool can address individual surveys for removal (§3).
type KeyedSurvey struct {
	ID     string // uuid, assigned on insert
	Survey Survey
}
