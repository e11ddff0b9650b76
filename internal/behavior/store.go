// Package behavior maintains the per-user preference model: for each
// (pattern type, setting) pair a confidence-weighted preferred value,
// updated from explicit feedback and implicit settings changes.
package behavior

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patchline/passforge/internal/model"
	"github.com/patchline/passforge/internal/service"
)

// Confidence ratchet bounds. A disagreement that drags confidence below
// flipThreshold flips the preferred value and resets confidence.
const (
	confidenceCap   = 0.95
	confidenceFloor = 0.05
	flipThreshold   = 0.3
	flipReset       = 0.6
	initialBelief   = 0.5
)

// overlayThreshold filters which preferences are strong enough to overlay
// onto recommended settings.
const overlayThreshold = 0.6

// maxEvents bounds the retained feedback event log.
const maxEvents = 1000

// BehaviorStore accumulates preference observations. Mutating calls are
// serialized by an internal mutex.
type BehaviorStore struct {
	mu      sync.Mutex
	storage service.BehaviorStorage
	logger  *slog.Logger
	now     func() time.Time

	prefs  map[string]model.PreferenceEntry
	events []model.FeedbackEvent
}

// NewBehaviorStore creates a behavior store backed by the given storage and
// loads any persisted preferences. Storage failures degrade to an empty
// in-memory state with a logged warning.
func NewBehaviorStore(ctx context.Context, storage service.BehaviorStorage, logger *slog.Logger) *BehaviorStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &BehaviorStore{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		prefs:   make(map[string]model.PreferenceEntry),
	}
	s.load(ctx)
	return s
}

func (s *BehaviorStore) load(ctx context.Context) {
	if s.storage == nil {
		return
	}

	prefs, err := s.storage.GetPreferences(ctx)
	if err != nil {
		s.logger.Warn("failed to load preferences, starting empty", "error", err)
		return
	}
	events, err := s.storage.GetFeedbackEvents(ctx, maxEvents)
	if err != nil {
		s.logger.Warn("failed to load feedback events, starting empty", "error", err)
		return
	}

	for _, p := range prefs {
		s.prefs[p.Key] = p
	}
	s.events = events
}

// RecordFeedback folds one explicit feedback event into the preference
// table. Each setting used in the transformation is ratcheted with weight
// max(0.1, rating/10) when accepted, 0.05 when rejected.
func (s *BehaviorStore) RecordFeedback(ctx context.Context, event model.FeedbackEvent) error {
	if event.Rating < 0 || event.Rating > 10 {
		return fmt.Errorf("feedback rating must be between 0 and 10, got %d", event.Rating)
	}
	if event.PatternType == "" {
		return fmt.Errorf("feedback event: pattern type is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}

	weight := 0.05
	if event.Accepted {
		weight = float64(event.Rating) / 10
		if weight < 0.1 {
			weight = 0.1
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}

	for _, name := range model.BooleanSettingNames {
		value, _ := event.Settings.BoolSetting(name)
		s.ratchetBool(ctx, model.PreferenceKey(event.PatternType, name), value, weight)
	}
	s.adoptLatest(ctx, model.PreferenceKey(event.PatternType, model.SettingIntensity), string(event.Settings.Intensity), weight)

	if s.storage != nil {
		if err := s.storage.SaveFeedbackEvent(ctx, &event); err != nil {
			s.logger.Warn("failed to persist feedback event", "error", err)
		}
	}
	return nil
}

// RecordSettingChange learns from an implicit signal: the user flipping a
// setting by hand. Confidence grows with the observation count, capped at
// 0.9, below what explicit feedback can reach.
func (s *BehaviorStore) RecordSettingChange(ctx context.Context, name string, newValue any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.prefs[name]
	confidence := initialBelief + float64(entry.Count)*0.05
	if confidence > 0.9 {
		confidence = 0.9
	}

	entry.Key = name
	entry.Value = newValue
	entry.Confidence = confidence
	entry.Count++
	entry.UpdatedAt = s.now()
	s.prefs[name] = entry
	s.persist(ctx, entry)
}

// ratchetBool applies the confidence ratchet to one boolean preference.
// Agreement raises confidence by the weight (cap 0.95); disagreement lowers
// it (floor 0.05), and crossing below 0.3 flips the preferred value and
// resets confidence to 0.6. Callers hold s.mu.
func (s *BehaviorStore) ratchetBool(ctx context.Context, key string, observed bool, weight float64) {
	entry, ok := s.prefs[key]
	if !ok {
		entry = model.PreferenceEntry{Key: key, Value: observed, Confidence: initialBelief}
	}

	current, _ := entry.Value.(bool)
	if observed == current {
		entry.Confidence += weight
		if entry.Confidence > confidenceCap {
			entry.Confidence = confidenceCap
		}
	} else {
		entry.Confidence -= weight
		if entry.Confidence < confidenceFloor {
			entry.Confidence = confidenceFloor
		}
		if entry.Confidence < flipThreshold {
			entry.Value = observed
			entry.Confidence = flipReset
		}
	}

	entry.Count++
	entry.UpdatedAt = s.now()
	s.prefs[key] = entry
	s.persist(ctx, entry)
}

// adoptLatest handles non-boolean preferences: the latest observed value
// wins and confidence only grows. Callers hold s.mu.
func (s *BehaviorStore) adoptLatest(ctx context.Context, key string, observed any, weight float64) {
	entry, ok := s.prefs[key]
	if !ok {
		entry = model.PreferenceEntry{Key: key, Confidence: initialBelief}
	}

	entry.Value = observed
	entry.Confidence += weight
	if entry.Confidence > confidenceCap {
		entry.Confidence = confidenceCap
	}
	entry.Count++
	entry.UpdatedAt = s.now()
	s.prefs[key] = entry
	s.persist(ctx, entry)
}

func (s *BehaviorStore) persist(ctx context.Context, entry model.PreferenceEntry) {
	if s.storage == nil {
		return
	}
	if err := s.storage.SavePreference(ctx, &entry); err != nil {
		s.logger.Warn("failed to persist preference", "key", entry.Key, "error", err)
	}
}

// Preference returns the stored entry for a key, if any.
func (s *BehaviorStore) Preference(key string) (model.PreferenceEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.prefs[key]
	return entry, ok
}

// Recommend overlays learned preferences onto the base settings:
// pattern-specific entries first, then general ones for settings not
// already covered, both filtered to confidence above 0.6. The returned
// confidence is the mean of the confidences actually applied, 0.6 when
// none were.
func (s *BehaviorStore) Recommend(pattern model.PatternType, base model.Settings) model.Personalization {
	prefs := s.snapshotPrefs()

	settings := base
	var appliedKeys []string
	var confidences []float64
	covered := make(map[string]bool)

	settingNames := append(append([]string(nil), model.BooleanSettingNames...), model.SettingIntensity)

	for _, name := range settingNames {
		entry, ok := prefs[model.PreferenceKey(pattern, name)]
		if !ok || entry.Confidence <= overlayThreshold {
			continue
		}
		if applyPreference(&settings, name, entry.Value) {
			covered[name] = true
			appliedKeys = append(appliedKeys, name)
			confidences = append(confidences, entry.Confidence)
		}
	}

	for _, name := range settingNames {
		if covered[name] {
			continue
		}
		entry, ok := prefs[name]
		if !ok || entry.Confidence <= overlayThreshold {
			continue
		}
		if applyPreference(&settings, name, entry.Value) {
			appliedKeys = append(appliedKeys, name)
			confidences = append(confidences, entry.Confidence)
		}
	}

	confidence := overlayThreshold
	if len(confidences) > 0 {
		var sum float64
		for _, c := range confidences {
			sum += c
		}
		confidence = sum / float64(len(confidences))
	}

	return model.Personalization{
		Settings:    settings,
		Confidence:  confidence,
		AppliedKeys: appliedKeys,
	}
}

// applyPreference writes one learned value into the settings, reporting
// whether the value had a usable type.
func applyPreference(settings *model.Settings, name string, value any) bool {
	if name == model.SettingIntensity {
		str, ok := value.(string)
		if !ok || !model.Intensity(str).Valid() {
			return false
		}
		settings.Intensity = model.Intensity(str)
		return true
	}

	b, ok := value.(bool)
	if !ok {
		return false
	}
	settings.SetBool(name, b)
	return true
}

func (s *BehaviorStore) snapshotPrefs() map[string]model.PreferenceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.PreferenceEntry, len(s.prefs))
	for k, v := range s.prefs {
		out[k] = v
	}
	return out
}

// generalKey reports whether a preference key is a bare setting name rather
// than a pattern-scoped one.
func generalKey(key string) bool {
	for _, name := range model.BooleanSettingNames {
		if key == name {
			return true
		}
		if strings.HasSuffix(key, "_"+name) {
			return false
		}
	}
	return key == model.SettingIntensity
}
