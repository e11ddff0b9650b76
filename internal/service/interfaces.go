// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/patchline/passforge/internal/model"
)

// PatternStorage is the persistence contract for the pattern store: the
// bounded mutation history and the per-category success-rate aggregates.
type PatternStorage interface {
	// SaveMutationRecord appends one record and fills in its ID.
	SaveMutationRecord(ctx context.Context, record *model.MutationRecord) error
	// GetMutationRecords returns the most recent records in chronological
	// order, up to limit (0 means no limit).
	GetMutationRecords(ctx context.Context, limit int) ([]model.MutationRecord, error)
	// SaveCategoryRate upserts one aggregate rate by key.
	SaveCategoryRate(ctx context.Context, rate *model.CategoryRate) error
	GetCategoryRates(ctx context.Context) ([]model.CategoryRate, error)
}

// BehaviorStorage is the persistence contract for the behavior store: the
// preference table and the append-only feedback event log.
type BehaviorStorage interface {
	// SavePreference upserts one preference entry by key.
	SavePreference(ctx context.Context, pref *model.PreferenceEntry) error
	GetPreferences(ctx context.Context) ([]model.PreferenceEntry, error)
	// SaveFeedbackEvent appends one event and fills in its ID.
	SaveFeedbackEvent(ctx context.Context, event *model.FeedbackEvent) error
	// GetFeedbackEvents returns the most recent events in chronological
	// order, up to limit (0 means no limit).
	GetFeedbackEvents(ctx context.Context, limit int) ([]model.FeedbackEvent, error)
}

// Storage is the full persistence layer contract.
type Storage interface {
	PatternStorage
	BehaviorStorage

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error
	// Reset wipes all learned state. This is the only operation allowed to
	// clear aggregate rates.
	Reset(ctx context.Context) error
	Close() error
}
