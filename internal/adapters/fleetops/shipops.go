package fleetops

import (
	"context"
	"fmt"
	"time"

	"github.com/voidfleet/controller/internal/adapters/apiclient"
	"github.com/voidfleet/controller/internal/application/shipscripts"
	"github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/fleet"
	"github.com/voidfleet/controller/internal/domain/survey"
	domainuniverse "github.com/voidfleet/controller/internal/domain/universe"
)

// setCooldown writes an RPC response's reported cooldown back onto the
// Ship Controller handle so a later WaitForCooldown actually waits it out
// (the gap named in DESIGN.md: ShipAPI itself cannot reach the owning
// Controller's ship table, only SetCooldown can).
func setCooldown(ship shipscripts.ShipAPI, cd fleet.Cooldown) {
	ship.SetCooldown(cd)
}

// Extractor implements shipscripts.Extractor over the API client.
type Extractor struct {
	client *apiclient.Client
	token  string
}

// NewExtractor constructs an Extractor adapter.
func NewExtractor(client *apiclient.Client, token string) *Extractor {
	return &Extractor{client: client, token: token}
}

// Extract implements shipscripts.Extractor.
func (e *Extractor) Extract(ctx context.Context, ship shipscripts.ShipAPI, sig *survey.KeyedSurvey) (string, int, error) {
	var sv *survey.Survey
	if sig != nil {
		sv = &sig.Survey
	}
	good, units, cd, err := e.client.Extract(ctx, e.token, ship.Symbol(), sv)
	if err != nil {
		return "", 0, fmt.Errorf("fleetops: extract on %s: %w", ship.Symbol(), err)
	}
	setCooldown(ship, cd)
	return good, units, nil
}

// Survey implements shipscripts.Extractor.
func (e *Extractor) Survey(ctx context.Context, ship shipscripts.ShipAPI) ([]survey.Survey, error) {
	surveys, err := e.client.Survey(ctx, e.token, ship.Symbol())
	if err != nil {
		return nil, fmt.Errorf("fleetops: survey on %s: %w", ship.Symbol(), err)
	}
	return surveys, nil
}

// Jettison implements shipscripts.Extractor (shared with Siphoner/Trader).
func (e *Extractor) Jettison(ctx context.Context, ship shipscripts.ShipAPI, good string, units int) error {
	if err := e.client.JettisonCargo(ctx, e.token, ship.Symbol(), good, units); err != nil {
		return fmt.Errorf("fleetops: jettison %s x%d on %s: %w", good, units, ship.Symbol(), err)
	}
	return nil
}

// Siphoner implements shipscripts.Siphoner over the API client.
type Siphoner struct {
	client *apiclient.Client
	token  string
}

// NewSiphoner constructs a Siphoner adapter.
func NewSiphoner(client *apiclient.Client, token string) *Siphoner {
	return &Siphoner{client: client, token: token}
}

// Siphon implements shipscripts.Siphoner.
func (s *Siphoner) Siphon(ctx context.Context, ship shipscripts.ShipAPI) (string, int, error) {
	good, units, cd, err := s.client.Siphon(ctx, s.token, ship.Symbol())
	if err != nil {
		return "", 0, fmt.Errorf("fleetops: siphon on %s: %w", ship.Symbol(), err)
	}
	setCooldown(ship, cd)
	return good, units, nil
}

// Jettison implements shipscripts.Siphoner.
func (s *Siphoner) Jettison(ctx context.Context, ship shipscripts.ShipAPI, good string, units int) error {
	if err := s.client.JettisonCargo(ctx, s.token, ship.Symbol(), good, units); err != nil {
		return fmt.Errorf("fleetops: jettison %s x%d on %s: %w", good, units, ship.Symbol(), err)
	}
	return nil
}

// Scrapper implements shipscripts.Scrapper over the API client.
type Scrapper struct {
	client *apiclient.Client
	token  string
}

// NewScrapper constructs a Scrapper adapter.
func NewScrapper(client *apiclient.Client, token string) *Scrapper {
	return &Scrapper{client: client, token: token}
}

// Scrap implements shipscripts.Scrapper.
func (s *Scrapper) Scrap(ctx context.Context, ship shipscripts.ShipAPI) error {
	if err := s.client.Scrap(ctx, s.token, ship.Symbol()); err != nil {
		return fmt.Errorf("fleetops: scrap %s: %w", ship.Symbol(), err)
	}
	return nil
}

// NearestShipyard implements shipscripts.NearestShipyard by scanning the
// cached waypoint list for the system and picking the shipyard closest to
// fromWaypoint by straight-line distance — scrapping has no fuel-cost
// stakes worth a full route plan (§4.J Scrap).
type NearestShipyard struct {
	cache *universe.Cache
}

// NewNearestShipyard constructs a NearestShipyard adapter.
func NewNearestShipyard(cache *universe.Cache) *NearestShipyard {
	return &NearestShipyard{cache: cache}
}

// NearestShipyard implements shipscripts.NearestShipyard.
func (n *NearestShipyard) NearestShipyard(ctx context.Context, systemSymbol, fromWaypoint string) (string, bool, error) {
	waypoints, err := n.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return "", false, fmt.Errorf("fleetops: load waypoints %s: %w", systemSymbol, err)
	}
	from, ok := waypoints[fromWaypoint]
	if !ok {
		return "", false, fmt.Errorf("fleetops: unknown waypoint %s", fromWaypoint)
	}
	var best string
	var bestDist float64
	found := false
	for symbol, wp := range waypoints {
		if !wp.IsShipyard {
			continue
		}
		dx := wp.Waypoint.X - from.Waypoint.X
		dy := wp.Waypoint.Y - from.Waypoint.Y
		dist := dx*dx + dy*dy
		if !found || dist < bestDist {
			best, bestDist, found = symbol, dist, true
		}
	}
	return best, found, nil
}

// MarketView implements shipscripts.MarketView: best sell market lookup
// plus a forced refresh, for the shuttle's Selling phase (§4.J).
type MarketView struct {
	cache *universe.Cache
}

// NewMarketView constructs a MarketView adapter.
func NewMarketView(cache *universe.Cache) *MarketView {
	return &MarketView{cache: cache}
}

// BestSellMarket implements shipscripts.MarketView: the highest sell price
// in systemSymbol for good, among markets that import or exchange it.
func (m *MarketView) BestSellMarket(ctx context.Context, systemSymbol, good string) (string, *domainuniverse.Market, bool, error) {
	waypoints, err := m.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return "", nil, false, fmt.Errorf("fleetops: load waypoints %s: %w", systemSymbol, err)
	}
	var bestWP string
	var bestMarket *domainuniverse.Market
	bestPrice := -1
	for symbol, wp := range waypoints {
		if !wp.IsMarket {
			continue
		}
		market, _, err := m.cache.GetMarket(ctx, symbol)
		if err != nil || market == nil {
			continue
		}
		for _, tg := range market.TradeGoods {
			if tg.Symbol != good || tg.Type == domainuniverse.TradeGoodTypeExport {
				continue
			}
			if tg.SellPrice > bestPrice {
				bestWP, bestMarket, bestPrice = symbol, market, tg.SellPrice
			}
		}
	}
	return bestWP, bestMarket, bestPrice >= 0, nil
}

// RefreshMarket implements shipscripts.MarketView.
func (m *MarketView) RefreshMarket(ctx context.Context, waypoint string) error {
	return m.cache.RefreshMarket(ctx, waypoint)
}

// ProbeSnapshots implements shipscripts.ProbeSnapshots over the cache's
// in-memory timestamps and forced-refresh RPCs (§4.J Probe).
type ProbeSnapshots struct {
	cache *universe.Cache
}

// NewProbeSnapshots constructs a ProbeSnapshots adapter.
func NewProbeSnapshots(cache *universe.Cache) *ProbeSnapshots {
	return &ProbeSnapshots{cache: cache}
}

// MarketSnapshotAt implements shipscripts.ProbeSnapshots.
func (p *ProbeSnapshots) MarketSnapshotAt(waypoint string) (time.Time, bool) {
	return p.cache.PeekMarket(waypoint)
}

// ShipyardSnapshotAt implements shipscripts.ProbeSnapshots.
func (p *ProbeSnapshots) ShipyardSnapshotAt(waypoint string) (time.Time, bool) {
	return p.cache.PeekShipyard(waypoint)
}

// RefreshMarket implements shipscripts.ProbeSnapshots.
func (p *ProbeSnapshots) RefreshMarket(ctx context.Context, waypoint string) error {
	return p.cache.RefreshMarket(ctx, waypoint)
}

// RefreshShipyard implements shipscripts.ProbeSnapshots.
func (p *ProbeSnapshots) RefreshShipyard(ctx context.Context, waypoint string) error {
	return p.cache.RefreshShipyard(ctx, waypoint)
}
