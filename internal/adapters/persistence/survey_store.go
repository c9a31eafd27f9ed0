package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voidfleet/controller/internal/domain/survey"
)

// InsertSurveys persists already-keyed surveys (§4.E), chunked at 1000 rows.
func (s *Store) InsertSurveys(ctx context.Context, surveys []survey.KeyedSurvey) error {
	if len(surveys) == 0 {
		return nil
	}
	rows := make([]surveyModel, 0, len(surveys))
	for _, ks := range surveys {
		deposits, err := json.Marshal(ks.Survey.Deposits)
		if err != nil {
			return fmt.Errorf("persistence: marshal survey %s: %w", ks.ID, err)
		}
		rows = append(rows, surveyModel{
			ResetIdentifier: s.resetIdentifier,
			ID:              ks.ID,
			Signature:       ks.Survey.Signature,
			WaypointSymbol:  ks.Survey.WaypointSymbol,
			Size:            ks.Survey.Size,
			Deposits:        string(deposits),
			Expiration:      ks.Survey.Expiration,
		})
	}
	if err := createInChunks(ctx, s.db, &rows); err != nil {
		return fmt.Errorf("persistence: insert surveys: %w", err)
	}
	return nil
}

// RemoveSurvey deletes one survey by id (§4.E: server-reported exhaustion).
func (s *Store) RemoveSurvey(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).
		Where("reset_identifier = ? AND id = ?", s.resetIdentifier, id).
		Delete(&surveyModel{}).Error
	if err != nil {
		return fmt.Errorf("persistence: remove survey %s: %w", id, err)
	}
	return nil
}

// LoadByWaypoint returns every surviving survey at wp, including expired
// ones — the Survey Manager applies the expiry+grace window itself.
func (s *Store) LoadByWaypoint(ctx context.Context, wp string) ([]survey.KeyedSurvey, error) {
	var rows []surveyModel
	err := s.db.WithContext(ctx).
		Where("reset_identifier = ? AND waypoint_symbol = ?", s.resetIdentifier, wp).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("persistence: load surveys at %s: %w", wp, err)
	}
	out := make([]survey.KeyedSurvey, 0, len(rows))
	for _, row := range rows {
		var deposits []survey.Deposit
		if err := json.Unmarshal([]byte(row.Deposits), &deposits); err != nil {
			return nil, fmt.Errorf("persistence: unmarshal survey %s: %w", row.ID, err)
		}
		out = append(out, survey.KeyedSurvey{
			ID: row.ID,
			Survey: survey.Survey{
				Signature:      row.Signature,
				WaypointSymbol: row.WaypointSymbol,
				Deposits:       deposits,
				Size:           row.Size,
				Expiration:     row.Expiration,
			},
		})
	}
	return out, nil
}
