package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patchline/passforge/internal/model"
)

// SaveMutationRecord appends one mutation record and fills in its ID.
func (s *SQLiteStorage) SaveMutationRecord(ctx context.Context, record *model.MutationRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMutationRecord(record); err != nil {
		return err
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	originalJSON, err := json.Marshal(record.OriginalFeatures)
	if err != nil {
		return fmt.Errorf("failed to encode original features: %w", err)
	}
	transformedJSON, err := json.Marshal(record.TransformedFeatures)
	if err != nil {
		return fmt.Errorf("failed to encode transformed features: %w", err)
	}
	summaryJSON, err := json.Marshal(record.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	settingsJSON, err := json.Marshal(record.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO mutation_history (
			timestamp, pattern_type, original_features, transformed_features,
			summary, settings, strength_improvement, success_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.Timestamp,
		string(record.PatternType),
		string(originalJSON),
		string(transformedJSON),
		string(summaryJSON),
		string(settingsJSON),
		record.StrengthImprovement,
		record.SuccessScore,
	)
	if err != nil {
		return fmt.Errorf("failed to save mutation record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get mutation record id: %w", err)
	}
	record.ID = id
	return nil
}

// GetMutationRecords returns the most recent records in chronological
// order, up to limit (0 means no limit).
func (s *SQLiteStorage) GetMutationRecords(ctx context.Context, limit int) ([]model.MutationRecord, error) {
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
		SELECT id, timestamp, pattern_type, original_features, transformed_features,
		       summary, settings, strength_improvement, success_score
		FROM mutation_history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mutation records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.MutationRecord
	for rows.Next() {
		var record model.MutationRecord
		var pattern, originalJSON, transformedJSON, summaryJSON, settingsJSON string
		if err := rows.Scan(&record.ID, &record.Timestamp, &pattern, &originalJSON,
			&transformedJSON, &summaryJSON, &settingsJSON,
			&record.StrengthImprovement, &record.SuccessScore); err != nil {
			return nil, fmt.Errorf("failed to scan mutation record: %w", err)
		}
		record.PatternType = model.PatternType(pattern)
		if err := json.Unmarshal([]byte(originalJSON), &record.OriginalFeatures); err != nil {
			return nil, fmt.Errorf("failed to decode original features: %w", err)
		}
		if err := json.Unmarshal([]byte(transformedJSON), &record.TransformedFeatures); err != nil {
			return nil, fmt.Errorf("failed to decode transformed features: %w", err)
		}
		if err := json.Unmarshal([]byte(summaryJSON), &record.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode summary: %w", err)
		}
		if err := json.Unmarshal([]byte(settingsJSON), &record.Settings); err != nil {
			return nil, fmt.Errorf("failed to decode settings: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mutation records: %w", err)
	}

	// Newest-first from the query; callers expect chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// SaveCategoryRate upserts one aggregate rate by key.
func (s *SQLiteStorage) SaveCategoryRate(ctx context.Context, rate *model.CategoryRate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategoryRate(rate); err != nil {
		return err
	}
	if rate.UpdatedAt.IsZero() {
		rate.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_rates (key, rate, count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			rate = excluded.rate,
			count = excluded.count,
			updated_at = excluded.updated_at
	`, rate.Key, rate.Rate, rate.Count, rate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save category rate: %w", err)
	}
	return nil
}

// GetCategoryRates returns all aggregate rates.
func (s *SQLiteStorage) GetCategoryRates(ctx context.Context) ([]model.CategoryRate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, rate, count, updated_at
		FROM category_rates
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category rates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rates []model.CategoryRate
	for rows.Next() {
		var rate model.CategoryRate
		if err := rows.Scan(&rate.Key, &rate.Rate, &rate.Count, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rates: %w", err)
	}
	return rates, nil
}
