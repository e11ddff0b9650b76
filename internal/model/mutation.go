package model

import (
	"fmt"
	"time"
)

// FeatureVector is the numeric encoding of a password used for similarity
// lookups and clustering. Dimension is fixed by the extraction code.
type FeatureVector []float64

// TransformationSummary describes a before/after diff derived purely by
// comparing the two strings. It cannot distinguish intentional substitution
// from coincidental character equality; that ambiguity is documented
// behavior, not a defect to correct.
type TransformationSummary struct {
	LengthChange  int `json:"length_change"`
	CharsAdded    int `json:"chars_added"`
	CharsRemoved  int `json:"chars_removed"`
	CaseChanges   int `json:"case_changes"`
	Substitutions int `json:"substitutions"`
}

// MutationRecord is the append-only log entry for a completed, learnable
// transformation. Records are created once, never mutated, and retained up
// to a bounded window of the most recent entries.
type MutationRecord struct {
	Timestamp           time.Time             `json:"timestamp"`
	Settings            Settings              `json:"settings_used"`
	PatternType         PatternType           `json:"pattern_type"`
	OriginalFeatures    FeatureVector         `json:"original_features"`
	TransformedFeatures FeatureVector         `json:"transformed_features"`
	Summary             TransformationSummary `json:"transformation_summary"`
	StrengthImprovement float64               `json:"strength_improvement"`
	SuccessScore        float64               `json:"success_score"`
	ID                  int64                 `json:"id"`
}

// Validate checks the record invariants before persistence.
func (r *MutationRecord) Validate() error {
	if r.PatternType == "" {
		return fmt.Errorf("mutation record: pattern type is required")
	}
	if len(r.OriginalFeatures) == 0 {
		return fmt.Errorf("mutation record: original features are required")
	}
	if r.SuccessScore < 0 || r.SuccessScore > 1 {
		return fmt.Errorf("mutation record: success score must be between 0 and 1, got %v", r.SuccessScore)
	}
	return nil
}

// CategoryRate is a per-category (or per category×intensity) exponentially
// weighted running success rate. Rate stays in [0,1] and is never reset
// except by an explicit data wipe.
type CategoryRate struct {
	UpdatedAt time.Time `json:"updated_at"`
	Key       string    `json:"key"`
	Rate      float64   `json:"rate"`
	Count     int       `json:"count"`
}

// RateKey builds the aggregate key for a pattern type, optionally scoped to
// an intensity.
func RateKey(pattern PatternType, intensity Intensity) string {
	if intensity == "" {
		return string(pattern)
	}
	return string(pattern) + "_" + string(intensity)
}
