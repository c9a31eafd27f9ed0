package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bulkChunkSize is the row count bulk inserts chunk at (§4.B).
const bulkChunkSize = 1000

// Store is the GORM-backed Persistence Adapter. One Store is opened per
// process against a single reset_identifier (resolved from the API
// status at startup, §4.N); every table it touches carries that
// identifier so multiple game resets can share one database.
type Store struct {
	db              *gorm.DB
	resetIdentifier string
}

// New constructs a Store. Call AutoMigrate once at startup before using it.
func New(db *gorm.DB, resetIdentifier string) *Store {
	return &Store{db: db, resetIdentifier: resetIdentifier}
}

// AutoMigrate creates/updates every table this adapter owns.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&kvEntryModel{},
		&systemModel{},
		&waypointModel{},
		&waypointDetailModel{},
		&jumpgateConnectionModel{},
		&marketModel{},
		&shipyardModel{},
		&marketTradeModel{},
		&marketTransactionModel{},
		&surveyModel{},
		&ledgerTransactionModel{},
	)
}

// getValue reads one kv row's raw value, returning ("", false, nil) on a miss.
func (s *Store) getValue(ctx context.Context, key string) (string, bool, error) {
	var row kvEntryModel
	err := s.db.WithContext(ctx).
		Where("reset_identifier = ? AND key = ?", s.resetIdentifier, key).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("persistence: get %s: %w", key, err)
	}
	return row.Value, true, nil
}

// setValue upserts one kv row, last-write-wins (§4.B).
func (s *Store) setValue(ctx context.Context, key, value string) error {
	row := kvEntryModel{ResetIdentifier: s.resetIdentifier, Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reset_identifier"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("persistence: set %s: %w", key, err)
	}
	return nil
}

// GetJSON reads and unmarshals a kv row into out, reporting whether the
// key existed. Exported so cmd-level wiring (registrations, ship
// assignments, agent state snapshots, faction cache — the remaining
// string-template keys in §4.B that no application-layer Store interface
// names yet) can use the same namespaced table.
func (s *Store) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, ok, err := s.getValue(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return true, fmt.Errorf("persistence: unmarshal %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and upserts it under key.
func (s *Store) SetJSON(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("persistence: marshal %s: %w", key, err)
	}
	return s.setValue(ctx, key, string(raw))
}

// createInChunks inserts rows in batches of bulkChunkSize (§4.B "bulk
// inserts chunk at 1000 rows").
func createInChunks(ctx context.Context, db *gorm.DB, rows interface{}) error {
	return db.WithContext(ctx).CreateInBatches(rows, bulkChunkSize).Error
}
