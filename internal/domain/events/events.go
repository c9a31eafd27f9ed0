// Package events defines the payloads the Event Bus (§4.L) fans out to
// dashboard subscribers.
package events

import "time"

// ShipUpdate is emitted on navigation, transfer, cargo/fuel/cooldown
// changes for a single ship.
type ShipUpdate struct {
	ShipSymbol string      `json:"shipSymbol"`
	Timestamp  time.Time   `json:"timestamp"`
	Snapshot   interface{} `json:"snapshot"`
}

// AgentUpdate is emitted on every agent snapshot refresh.
type AgentUpdate struct {
	Timestamp time.Time   `json:"timestamp"`
	Snapshot  interface{} `json:"snapshot"`
}

// Event is the tagged envelope the bus broadcasts; exactly one of Ship /
// Agent is populated.
type Event struct {
	Kind  string       `json:"kind"` // "ship_upd" | "agent_upd"
	Ship  *ShipUpdate  `json:"ship,omitempty"`
	Agent *AgentUpdate `json:"agent,omitempty"`
}
