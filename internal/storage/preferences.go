package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patchline/passforge/internal/model"
)

// SavePreference upserts one preference entry by key.
func (s *SQLiteStorage) SavePreference(ctx context.Context, pref *model.PreferenceEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePreference(pref); err != nil {
		return err
	}
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now()
	}

	valueJSON, err := json.Marshal(pref.Value)
	if err != nil {
		return fmt.Errorf("failed to encode preference value: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, confidence, count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			confidence = excluded.confidence,
			count = excluded.count,
			updated_at = excluded.updated_at
	`, pref.Key, string(valueJSON), pref.Confidence, pref.Count, pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

// GetPreferences returns all preference entries.
func (s *SQLiteStorage) GetPreferences(ctx context.Context) ([]model.PreferenceEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, confidence, count, updated_at
		FROM preferences
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prefs []model.PreferenceEntry
	for rows.Next() {
		var pref model.PreferenceEntry
		var valueJSON string
		if err := rows.Scan(&pref.Key, &valueJSON, &pref.Confidence, &pref.Count, &pref.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		if err := json.Unmarshal([]byte(valueJSON), &pref.Value); err != nil {
			return nil, fmt.Errorf("failed to decode preference value: %w", err)
		}
		prefs = append(prefs, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preferences: %w", err)
	}
	return prefs, nil
}

// SaveFeedbackEvent appends one feedback event and fills in its ID.
func (s *SQLiteStorage) SaveFeedbackEvent(ctx context.Context, event *model.FeedbackEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFeedbackEvent(event); err != nil {
		return err
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	settingsJSON, err := json.Marshal(event.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback_events (
			timestamp, session_id, original_strength, transformed_strength,
			pattern_type, settings, rating, accepted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.Timestamp,
		event.SessionID,
		string(event.BeforeLevel),
		string(event.AfterLevel),
		string(event.PatternType),
		string(settingsJSON),
		event.Rating,
		event.Accepted,
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get feedback event id: %w", err)
	}
	event.ID = id
	return nil
}

// GetFeedbackEvents returns the most recent events in chronological order,
// up to limit (0 means no limit).
func (s *SQLiteStorage) GetFeedbackEvents(ctx context.Context, limit int) ([]model.FeedbackEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, session_id, original_strength, transformed_strength,
		       pattern_type, settings, rating, accepted
		FROM feedback_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.FeedbackEvent
	for rows.Next() {
		var event model.FeedbackEvent
		var before, after, pattern, settingsJSON string
		if err := rows.Scan(&event.ID, &event.Timestamp, &event.SessionID, &before,
			&after, &pattern, &settingsJSON, &event.Rating, &event.Accepted); err != nil {
			return nil, fmt.Errorf("failed to scan feedback event: %w", err)
		}
		event.BeforeLevel = model.StrengthLevel(before)
		event.AfterLevel = model.StrengthLevel(after)
		event.PatternType = model.PatternType(pattern)
		if err := json.Unmarshal([]byte(settingsJSON), &event.Settings); err != nil {
			return nil, fmt.Errorf("failed to decode settings: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback events: %w", err)
	}

	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
