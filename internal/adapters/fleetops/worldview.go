package fleetops

import (
	"context"
	"time"

	appledger "github.com/voidfleet/controller/internal/application/ledger"
	"github.com/voidfleet/controller/internal/application/universe"
	"github.com/voidfleet/controller/internal/domain/shared"
	domainuniverse "github.com/voidfleet/controller/internal/domain/universe"
)

// WorldView implements taskmanager.WorldView over the Universe cache, the
// Ledger service, and a ControllerView for which waypoints are already
// covered by a statically-probed ship.
type WorldView struct {
	cache  *universe.Cache
	ledger *appledger.Service
	view   *ControllerView
}

// NewWorldView constructs a WorldView adapter.
func NewWorldView(cache *universe.Cache, ledger *appledger.Service, view *ControllerView) *WorldView {
	return &WorldView{cache: cache, ledger: ledger, view: view}
}

// Shipyards implements taskmanager.WorldView.
func (w *WorldView) Shipyards(ctx context.Context, systemSymbol string) (map[string]*domainuniverse.Shipyard, error) {
	waypoints, err := w.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domainuniverse.Shipyard)
	for symbol, wp := range waypoints {
		if !wp.IsShipyard {
			continue
		}
		yard, _, err := w.cache.GetShipyard(ctx, symbol)
		if err != nil || yard == nil {
			continue
		}
		out[symbol] = yard
	}
	return out, nil
}

// Markets implements taskmanager.WorldView, returning every charted
// market in systemSymbol plus each one's cache timestamp.
func (w *WorldView) Markets(ctx context.Context, systemSymbol string) (map[string]*domainuniverse.Market, time.Time, map[string]time.Time, error) {
	waypoints, err := w.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return nil, time.Time{}, nil, err
	}
	markets := make(map[string]*domainuniverse.Market)
	timestamps := make(map[string]time.Time)
	var latest time.Time
	for symbol, wp := range waypoints {
		if !wp.IsMarket {
			continue
		}
		mkt, ts, err := w.cache.GetMarket(ctx, symbol)
		if err != nil {
			continue
		}
		markets[symbol] = mkt
		if !ts.IsZero() {
			timestamps[symbol] = ts
			if ts.After(latest) {
				latest = ts
			}
		}
	}
	return markets, latest, timestamps, nil
}

// ProbedWaypoints implements taskmanager.WorldView: every waypoint named
// in a statically-probed ship's job within systemSymbol.
func (w *WorldView) ProbedWaypoints(systemSymbol string) map[string]bool {
	out := make(map[string]bool)
	for _, ship := range w.view.controller.AllShips() {
		cfg, ok := w.view.controller.JobFor(ship.Symbol)
		if !ok || cfg.Behavior.Probe == nil {
			continue
		}
		for _, wp := range cfg.Behavior.Probe.Waypoints {
			if shared.ExtractSystemSymbol(wp) == systemSymbol {
				out[wp] = true
			}
		}
	}
	return out
}

// Construction implements taskmanager.WorldView.
func (w *WorldView) Construction(ctx context.Context, systemSymbol string) (string, *domainuniverse.Construction, bool) {
	waypoints, err := w.cache.Waypoints(ctx, systemSymbol)
	if err != nil {
		return "", nil, false
	}
	for symbol, wp := range waypoints {
		if !wp.IsUnderConstruction {
			continue
		}
		con, _, err := w.cache.GetConstruction(ctx, symbol)
		if err != nil || con == nil {
			continue
		}
		return symbol, con, true
	}
	return "", nil, false
}

// AvailableCredits implements taskmanager.WorldView.
func (w *WorldView) AvailableCredits() int64 {
	return w.ledger.AvailableCredits()
}
