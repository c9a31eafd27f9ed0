package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voidfleet/controller/internal/domain/shared"
	"github.com/voidfleet/controller/internal/domain/universe"
)

// LoadSystems reconstructs every charted system from the systems,
// waypoints and waypoint_details tables (§4.C: "never stale within a
// reset").
func (s *Store) LoadSystems(ctx context.Context) ([]*universe.System, error) {
	var sysRows []systemModel
	if err := s.db.WithContext(ctx).Where("reset_identifier = ?", s.resetIdentifier).Find(&sysRows).Error; err != nil {
		return nil, fmt.Errorf("persistence: load systems: %w", err)
	}
	if len(sysRows) == 0 {
		return nil, nil
	}

	var wpRows []waypointModel
	if err := s.db.WithContext(ctx).Where("reset_identifier = ?", s.resetIdentifier).Find(&wpRows).Error; err != nil {
		return nil, fmt.Errorf("persistence: load waypoints: %w", err)
	}
	var detailRows []waypointDetailModel
	if err := s.db.WithContext(ctx).Where("reset_identifier = ?", s.resetIdentifier).Find(&detailRows).Error; err != nil {
		return nil, fmt.Errorf("persistence: load waypoint_details: %w", err)
	}
	details := make(map[string]waypointDetailModel, len(detailRows))
	for _, d := range detailRows {
		details[d.WaypointSymbol] = d
	}

	systems := make(map[string]*universe.System, len(sysRows))
	for _, row := range sysRows {
		systems[row.Symbol] = &universe.System{
			Symbol:    row.Symbol,
			X:         row.X,
			Y:         row.Y,
			Waypoints: map[string]*universe.WaypointDetails{},
		}
	}

	for _, row := range wpRows {
		sys, ok := systems[row.SystemSymbol]
		if !ok {
			continue
		}
		var traits, orbitals []string
		_ = json.Unmarshal([]byte(row.Traits), &traits)
		_ = json.Unmarshal([]byte(row.Orbitals), &orbitals)
		wp := &shared.Waypoint{
			Symbol:       row.Symbol,
			X:            row.X,
			Y:            row.Y,
			SystemSymbol: row.SystemSymbol,
			Type:         row.Type,
			Traits:       traits,
			HasFuel:      row.HasFuel,
			Orbitals:     orbitals,
		}
		d := details[row.Symbol]
		sys.Waypoints[row.Symbol] = &universe.WaypointDetails{
			Waypoint:            wp,
			Type:                universe.WaypointType(row.Type),
			IsMarket:            d.IsMarket,
			IsShipyard:          d.IsShipyard,
			IsUncharted:         d.IsUncharted,
			IsUnderConstruction: d.IsUnderConstruction,
		}
	}

	out := make([]*universe.System, 0, len(systems))
	for _, sys := range systems {
		out = append(out, sys)
	}
	return out, nil
}

// SaveSystems bulk-writes every system's waypoints and waypoint_details,
// chunking at 1000 rows (§4.B).
func (s *Store) SaveSystems(ctx context.Context, systems []*universe.System) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		sysRows := make([]systemModel, 0, len(systems))
		var wpRows []waypointModel
		var detailRows []waypointDetailModel

		for _, sys := range systems {
			sysRows = append(sysRows, systemModel{ResetIdentifier: s.resetIdentifier, Symbol: sys.Symbol, X: sys.X, Y: sys.Y})
			for _, wd := range sys.Waypoints {
				traits, _ := json.Marshal(wd.Waypoint.Traits)
				orbitals, _ := json.Marshal(wd.Waypoint.Orbitals)
				wpRows = append(wpRows, waypointModel{
					ResetIdentifier: s.resetIdentifier,
					Symbol:          wd.Waypoint.Symbol,
					SystemSymbol:    wd.Waypoint.SystemSymbol,
					X:               wd.Waypoint.X,
					Y:               wd.Waypoint.Y,
					Type:            string(wd.Type),
					Traits:          string(traits),
					HasFuel:         wd.Waypoint.HasFuel,
					Orbitals:        string(orbitals),
				})
				detailRows = append(detailRows, waypointDetailModel{
					ResetIdentifier:     s.resetIdentifier,
					WaypointSymbol:      wd.Waypoint.Symbol,
					IsMarket:            wd.IsMarket,
					IsShipyard:          wd.IsShipyard,
					IsUncharted:         wd.IsUncharted,
					IsUnderConstruction: wd.IsUnderConstruction,
				})
			}
		}

		if len(sysRows) > 0 {
			if err := createInChunks(ctx, tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "reset_identifier"}, {Name: "symbol"}},
				DoUpdates: clause.AssignmentColumns([]string{"x", "y"}),
			}), &sysRows); err != nil {
				return fmt.Errorf("persistence: save systems: %w", err)
			}
		}
		if len(wpRows) > 0 {
			if err := createInChunks(ctx, tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "reset_identifier"}, {Name: "symbol"}},
				DoUpdates: clause.AssignmentColumns([]string{"system_symbol", "x", "y", "type", "traits", "has_fuel", "orbitals"}),
			}), &wpRows); err != nil {
				return fmt.Errorf("persistence: save waypoints: %w", err)
			}
		}
		if len(detailRows) > 0 {
			if err := createInChunks(ctx, tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "reset_identifier"}, {Name: "waypoint_symbol"}},
				DoUpdates: clause.AssignmentColumns([]string{"is_market", "is_shipyard", "is_uncharted", "is_under_construction"}),
			}), &detailRows); err != nil {
				return fmt.Errorf("persistence: save waypoint_details: %w", err)
			}
		}
		return nil
	})
}

// LoadMarket returns the snapshot's timestamp alongside it: a zero Time
// result tells the caller this came from a miss.
func (s *Store) LoadMarket(ctx context.Context, wp string) (*universe.Market, time.Time, error) {
	var row marketModel
	err := s.db.WithContext(ctx).Where("reset_identifier = ? AND waypoint_symbol = ?", s.resetIdentifier, wp).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("persistence: load market %s: %w", wp, err)
	}
	var imports, exports, exchange []string
	var goods []universe.TradeGood
	_ = json.Unmarshal([]byte(row.Imports), &imports)
	_ = json.Unmarshal([]byte(row.Exports), &exports)
	_ = json.Unmarshal([]byte(row.Exchange), &exchange)
	if err := json.Unmarshal([]byte(row.TradeGoods), &goods); err != nil {
		return nil, time.Time{}, fmt.Errorf("persistence: unmarshal market %s: %w", wp, err)
	}
	return &universe.Market{
		Symbol:     wp,
		Imports:    imports,
		Exports:    exports,
		Exchange:   exchange,
		TradeGoods: goods,
		Timestamp:  row.Timestamp,
	}, row.Timestamp, nil
}

// SaveMarket overwrites the waypoint's market snapshot row.
func (s *Store) SaveMarket(ctx context.Context, wp string, m *universe.Market, ts time.Time) error {
	imports, _ := json.Marshal(m.Imports)
	exports, _ := json.Marshal(m.Exports)
	exchange, _ := json.Marshal(m.Exchange)
	goods, err := json.Marshal(m.TradeGoods)
	if err != nil {
		return fmt.Errorf("persistence: marshal market %s: %w", wp, err)
	}
	row := marketModel{
		ResetIdentifier: s.resetIdentifier,
		WaypointSymbol:  wp,
		Imports:         string(imports),
		Exports:         string(exports),
		Exchange:        string(exchange),
		TradeGoods:      string(goods),
		Timestamp:       ts,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reset_identifier"}, {Name: "waypoint_symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"imports", "exports", "exchange", "trade_goods", "timestamp"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("persistence: save market %s: %w", wp, err)
	}
	return nil
}

// LoadShipyard mirrors LoadMarket for shipyard listings.
func (s *Store) LoadShipyard(ctx context.Context, wp string) (*universe.Shipyard, time.Time, error) {
	var row shipyardModel
	err := s.db.WithContext(ctx).Where("reset_identifier = ? AND waypoint_symbol = ?", s.resetIdentifier, wp).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("persistence: load shipyard %s: %w", wp, err)
	}
	var listings []universe.ShipyardListing
	if err := json.Unmarshal([]byte(row.Listings), &listings); err != nil {
		return nil, time.Time{}, fmt.Errorf("persistence: unmarshal shipyard %s: %w", wp, err)
	}
	return &universe.Shipyard{WaypointSymbol: wp, Listings: listings, Timestamp: row.Timestamp}, row.Timestamp, nil
}

// SaveShipyard overwrites the waypoint's shipyard snapshot row.
func (s *Store) SaveShipyard(ctx context.Context, wp string, sy *universe.Shipyard, ts time.Time) error {
	listings, err := json.Marshal(sy.Listings)
	if err != nil {
		return fmt.Errorf("persistence: marshal shipyard %s: %w", wp, err)
	}
	row := shipyardModel{ResetIdentifier: s.resetIdentifier, WaypointSymbol: wp, Listings: string(listings), Timestamp: ts}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reset_identifier"}, {Name: "waypoint_symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"listings", "timestamp"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("persistence: save shipyard %s: %w", wp, err)
	}
	return nil
}

// LoadConstruction rides the generic kv table under "construction/{wp}"
// (§4.B key list) — construction sites are sparse enough that a typed
// table buys nothing the snapshot-typed tables above already justify.
func (s *Store) LoadConstruction(ctx context.Context, wp string) (*universe.Construction, time.Time, error) {
	var wrapper struct {
		Construction universe.Construction `json:"construction"`
		SavedAt      time.Time             `json:"saved_at"`
	}
	ok, err := s.GetJSON(ctx, "construction/"+wp, &wrapper)
	if err != nil || !ok {
		return nil, time.Time{}, err
	}
	return &wrapper.Construction, wrapper.SavedAt, nil
}

// SaveConstruction persists under "construction/{wp}".
func (s *Store) SaveConstruction(ctx context.Context, wp string, c *universe.Construction, ts time.Time) error {
	wrapper := struct {
		Construction *universe.Construction `json:"construction"`
		SavedAt      time.Time              `json:"saved_at"`
	}{c, ts}
	return s.SetJSON(ctx, "construction/"+wp, wrapper)
}

// LoadJumpGate assembles the gate's connections from the jumpgate_connections
// typed table and its flags from the "jumpgate/{wp}" kv key.
func (s *Store) LoadJumpGate(ctx context.Context, wp string) (*universe.JumpGate, error) {
	var flags struct {
		IsConstructed       bool `json:"is_constructed"`
		AllConnectionsKnown bool `json:"all_connections_known"`
	}
	ok, err := s.GetJSON(ctx, "jumpgate/"+wp, &flags)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var rows []jumpgateConnectionModel
	if err := s.db.WithContext(ctx).Where("reset_identifier = ? AND waypoint_symbol = ?", s.resetIdentifier, wp).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("persistence: load jumpgate_connections %s: %w", wp, err)
	}
	connections := make([]string, 0, len(rows))
	for _, r := range rows {
		connections = append(connections, r.ConnectionSymbol)
	}
	return &universe.JumpGate{
		WaypointSymbol:      wp,
		Connections:         connections,
		IsConstructed:       flags.IsConstructed,
		AllConnectionsKnown: flags.AllConnectionsKnown,
	}, nil
}

// SaveJumpGate replaces wp's connection edges and updates its flags.
func (s *Store) SaveJumpGate(ctx context.Context, wp string, jg *universe.JumpGate) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("reset_identifier = ? AND waypoint_symbol = ?", s.resetIdentifier, wp).
			Delete(&jumpgateConnectionModel{}).Error; err != nil {
			return fmt.Errorf("persistence: clear jumpgate_connections %s: %w", wp, err)
		}
		if len(jg.Connections) > 0 {
			rows := make([]jumpgateConnectionModel, 0, len(jg.Connections))
			for _, c := range jg.Connections {
				rows = append(rows, jumpgateConnectionModel{ResetIdentifier: s.resetIdentifier, WaypointSymbol: wp, ConnectionSymbol: c})
			}
			if err := createInChunks(ctx, tx, &rows); err != nil {
				return fmt.Errorf("persistence: save jumpgate_connections %s: %w", wp, err)
			}
		}
		flags := struct {
			IsConstructed       bool `json:"is_constructed"`
			AllConnectionsKnown bool `json:"all_connections_known"`
		}{jg.IsConstructed, jg.AllConnectionsKnown}
		raw, err := json.Marshal(flags)
		if err != nil {
			return fmt.Errorf("persistence: marshal jumpgate flags %s: %w", wp, err)
		}
		kv := kvEntryModel{ResetIdentifier: s.resetIdentifier, Key: "jumpgate/" + wp, Value: string(raw), UpdatedAt: time.Now()}
		return tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reset_identifier"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&kv).Error
	})
}
