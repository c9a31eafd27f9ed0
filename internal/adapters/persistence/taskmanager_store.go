package persistence

import (
	"context"
	"fmt"

	"github.com/voidfleet/controller/internal/application/taskmanager"
)

// SaveInProgress persists one system's in_progress_tasks map under the
// "task_manager/{system}" kv key (§4.B key list).
func (s *Store) SaveInProgress(ctx context.Context, systemSymbol string, entries map[string]taskmanager.InProgressEntry) error {
	if err := s.SetJSON(ctx, "task_manager/"+systemSymbol, entries); err != nil {
		return fmt.Errorf("persistence: save in_progress_tasks %s: %w", systemSymbol, err)
	}
	return nil
}

// LoadInProgress returns the persisted map, or nil on a miss.
func (s *Store) LoadInProgress(ctx context.Context, systemSymbol string) (map[string]taskmanager.InProgressEntry, error) {
	var entries map[string]taskmanager.InProgressEntry
	ok, err := s.GetJSON(ctx, "task_manager/"+systemSymbol, &entries)
	if err != nil {
		return nil, fmt.Errorf("persistence: load in_progress_tasks %s: %w", systemSymbol, err)
	}
	if !ok {
		return nil, nil
	}
	return entries, nil
}
