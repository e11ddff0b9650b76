package model

import (
	"fmt"
	"time"
)

// PreferenceEntry is a confidence-weighted learned preference for one
// setting, either scoped to a pattern type or general. The key is
// "<pattern>_<setting>" for pattern-scoped entries and the bare setting
// name for general ones.
type PreferenceEntry struct {
	UpdatedAt  time.Time `json:"last_updated"`
	Key        string    `json:"key"`
	Value      any       `json:"value"`
	Confidence float64   `json:"confidence"`
	Count      int       `json:"count"`
}

// PreferenceKey builds the store key for a pattern-scoped preference.
// An empty pattern yields the general key.
func PreferenceKey(pattern PatternType, setting string) string {
	if pattern == "" {
		return setting
	}
	return string(pattern) + "_" + setting
}

// Validate checks the entry invariants before persistence.
func (p *PreferenceEntry) Validate() error {
	if p.Key == "" {
		return fmt.Errorf("preference entry: key is required")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("preference entry: confidence must be between 0 and 1, got %v", p.Confidence)
	}
	return nil
}

// FeedbackEvent records explicit operator feedback on one transformation.
// Events are append-only; the preference table is derived from them.
type FeedbackEvent struct {
	Timestamp   time.Time     `json:"timestamp"`
	SessionID   string        `json:"session_id"`
	BeforeLevel StrengthLevel `json:"original_strength"`
	AfterLevel  StrengthLevel `json:"transformed_strength"`
	PatternType PatternType   `json:"pattern_type"`
	Settings    Settings      `json:"settings_used"`
	Rating      int           `json:"user_rating"`
	Accepted    bool          `json:"accepted"`
	ID          int64         `json:"id"`
}
