// Package contract models the subset of SpaceTraders contract state the
// Agent Controller's contract_tick needs (§4.K).
package contract

// Deliverable is one required-good line item of an accepted contract.
type Deliverable struct {
	TradeSymbol        string
	DestinationSymbol  string
	UnitsRequired      int
	UnitsFulfilled     int
}

func (d Deliverable) Remaining() int {
	if d.UnitsRequired <= d.UnitsFulfilled {
		return 0
	}
	return d.UnitsRequired - d.UnitsFulfilled
}

// Contract is the minimal state contract_tick reasons about.
type Contract struct {
	ID           string
	Accepted     bool
	Fulfilled    bool
	Deliverables []Deliverable
	OnAccepted   int64 // credits paid on acceptance
	OnFulfilled  int64 // credits paid on fulfillment
}

// Hash is a cheap fingerprint used by contract_tick's debounce (§4.K):
// two contracts with the same hash are considered unchanged.
func (c *Contract) Hash() string {
	if c == nil {
		return "none"
	}
	h := c.ID
	for _, d := range c.Deliverables {
		h += "|" + d.TradeSymbol + ":" + itoa(d.UnitsFulfilled) + "/" + itoa(d.UnitsRequired)
	}
	if c.Fulfilled {
		h += "|fulfilled"
	}
	return h
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
