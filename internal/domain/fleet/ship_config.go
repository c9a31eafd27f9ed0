package fleet

// BehaviorKind enumerates the per-ship script variants (§3 ShipConfig,
// §4.J).
type BehaviorKind string

const (
	BehaviorProbe             BehaviorKind = "PROBE"
	BehaviorLogistics         BehaviorKind = "LOGISTICS"
	BehaviorSiphonDrone       BehaviorKind = "SIPHON_DRONE"
	BehaviorSiphonShuttle     BehaviorKind = "SIPHON_SHUTTLE"
	BehaviorMiningSurveyor    BehaviorKind = "MINING_SURVEYOR"
	BehaviorMiningDrone       BehaviorKind = "MINING_DRONE"
	BehaviorMiningShuttle     BehaviorKind = "MINING_SHUTTLE"
	BehaviorConstructionHauler BehaviorKind = "CONSTRUCTION_HAULER"
	BehaviorExplorer          BehaviorKind = "EXPLORER"
	BehaviorScrap             BehaviorKind = "SCRAP"
)

// ProbeBehavior pins a probe to zero or more waypoints to keep fresh.
type ProbeBehavior struct {
	Waypoints []string
}

// LogisticsBehavior tunes a trading ship's autonomy.
type LogisticsBehavior struct {
	UsePlanner          bool
	AllowShipBuying     bool
	AllowConstruction   bool
	AllowMarketRefresh  bool
	WaypointAllowlist   []string // empty = unrestricted
}

// Behavior is the tagged union of the variant-specific config. Exactly one
// of Probe/Logistics is populated depending on Kind; the other kinds carry
// no extra data.
type Behavior struct {
	Kind      BehaviorKind
	Probe     *ProbeBehavior
	Logistics *LogisticsBehavior
}

// PurchaseCriteria gates whether/how a job may be filled by buying a new
// ship (§4.K try_buy_ships).
type PurchaseCriteria struct {
	NeverPurchase      bool
	SystemSymbol       string // override; empty = agent headquarters system
	AllowLogisticTask  bool
	RequireCheapest    bool
}

// ShipConfig is a job: a role waiting to be filled by some ship. Identity
// is by ID; reassigning the same ID to a different ship (or vice versa) is
// idempotent (§3).
type ShipConfig struct {
	ID               string
	TargetModel      string // ShipModel.Name
	Purchase         PurchaseCriteria
	Behavior         Behavior
}
