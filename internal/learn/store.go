// Package learn maintains the transformation pattern memory: a bounded
// history of mutation records, exponentially weighted success rates per
// pattern category, and a periodically refit cluster model used for
// similarity lookups.
package learn

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/patchline/passforge/internal/model"
	"github.com/patchline/passforge/internal/service"
	"github.com/patchline/passforge/internal/transform"
)

// rateAlpha is the exponential smoothing factor for category success rates.
const rateAlpha = 0.2

// maxHistory bounds the retained mutation history to the most recent N
// records.
const maxHistory = 1000

// PatternStore accumulates transformation outcomes and answers settings
// predictions from them. All mutating calls are serialized by an internal
// mutex; reads snapshot the aggregates before iterating.
type PatternStore struct {
	mu      sync.Mutex
	storage service.PatternStorage
	logger  *slog.Logger
	rng     *rand.Rand
	now     func() time.Time

	history []model.MutationRecord
	rates   map[string]model.CategoryRate
	model   *clusterModel
}

// NewPatternStore creates a pattern store backed by the given storage and
// loads any persisted state. Storage failures degrade to an empty in-memory
// state with a logged warning; the adaptive layer is an enhancement, not a
// correctness requirement.
func NewPatternStore(ctx context.Context, storage service.PatternStorage, logger *slog.Logger) *PatternStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &PatternStore{
		storage: storage,
		logger:  logger,
		rng:     rand.New(rand.NewSource(42)),
		now:     time.Now,
		rates:   make(map[string]model.CategoryRate),
	}
	s.load(ctx)
	return s
}

func (s *PatternStore) load(ctx context.Context) {
	if s.storage == nil {
		return
	}

	records, err := s.storage.GetMutationRecords(ctx, maxHistory)
	if err != nil {
		s.logger.Warn("failed to load mutation history, starting empty", "error", err)
		return
	}
	rates, err := s.storage.GetCategoryRates(ctx)
	if err != nil {
		s.logger.Warn("failed to load category rates, starting empty", "error", err)
		return
	}

	s.history = records
	for _, r := range rates {
		s.rates[r.Key] = r
	}
	if len(s.history) >= refitInterval {
		s.refit()
	}
}

// Learn records one completed transformation outcome: appends a mutation
// record to the bounded history, folds the success score into the category
// rates for the pattern type and for (pattern type, intensity), and refits
// the cluster model every 20th record.
func (s *PatternStore) Learn(ctx context.Context, original, transformed string, before, after model.StrengthReport, settings model.Settings, successScore float64) error {
	record := model.MutationRecord{
		Timestamp:           s.now(),
		Settings:            settings,
		PatternType:         before.PatternType,
		OriginalFeatures:    ExtractFeatures(before),
		TransformedFeatures: ExtractFeatures(after),
		Summary:             transform.Summarize(original, transformed),
		StrengthImprovement: after.StrengthScore - before.StrengthScore,
		SuccessScore:        successScore,
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("cannot learn from transformation: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, record)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}

	patternRate := s.updateRate(model.RateKey(record.PatternType, ""), successScore, 0)
	intensityRate := s.updateRate(model.RateKey(record.PatternType, settings.Intensity), successScore, 0.5)

	if s.storage != nil {
		if err := s.storage.SaveMutationRecord(ctx, &record); err != nil {
			s.logger.Warn("failed to persist mutation record", "error", err)
		}
		if err := s.storage.SaveCategoryRate(ctx, &patternRate); err != nil {
			s.logger.Warn("failed to persist category rate", "key", patternRate.Key, "error", err)
		}
		if err := s.storage.SaveCategoryRate(ctx, &intensityRate); err != nil {
			s.logger.Warn("failed to persist category rate", "key", intensityRate.Key, "error", err)
		}
	}

	if len(s.history)%refitInterval == 0 {
		s.refit()
	}
	return nil
}

// updateRate folds a success score into the aggregate for key using the
// exponential rule. A missing aggregate starts from the given prior.
func (s *PatternStore) updateRate(key string, successScore, prior float64) model.CategoryRate {
	rate, ok := s.rates[key]
	if !ok {
		rate = model.CategoryRate{Key: key, Rate: prior}
	}
	rate.Rate = rate.Rate*(1-rateAlpha) + successScore*rateAlpha
	rate.Count++
	rate.UpdatedAt = s.now()
	s.rates[key] = rate
	return rate
}

// refit retrains the cluster model from the complete history. Failure is
// logged and skipped; the previous model stays in place. Callers hold s.mu.
func (s *PatternStore) refit() {
	vectors := make([]model.FeatureVector, len(s.history))
	for i, r := range s.history {
		vectors[i] = r.OriginalFeatures
	}

	m, err := fitClusters(vectors, clusterCount(len(vectors)), s.rng)
	if err != nil {
		s.logger.Warn("cluster refit skipped", "records", len(vectors), "error", err)
		return
	}
	s.model = m
	s.logger.Debug("cluster model refit", "records", len(vectors), "clusters", m.clusters())
}

// Rate returns the current aggregate success rate for a key, or the given
// fallback when no aggregate exists.
func (s *PatternStore) Rate(key string, fallback float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rate, ok := s.rates[key]; ok {
		return rate.Rate
	}
	return fallback
}

// HistorySize returns the number of retained mutation records.
func (s *PatternStore) HistorySize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// snapshot copies the mutable aggregates so reads can proceed without
// holding the lock. Records themselves are immutable once appended.
func (s *PatternStore) snapshot() ([]model.MutationRecord, map[string]model.CategoryRate, *clusterModel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]model.MutationRecord, len(s.history))
	copy(history, s.history)
	rates := make(map[string]model.CategoryRate, len(s.rates))
	for k, v := range s.rates {
		rates[k] = v
	}
	return history, rates, s.model
}
