package learn

import (
	"fmt"
	"sort"

	"github.com/patchline/passforge/internal/model"
)

// Intensity priors used when no aggregate rate exists for a
// (pattern, intensity) key.
var intensityPriors = map[model.Intensity]float64{
	model.IntensityConservative: 0.5,
	model.IntensityModerate:     0.6,
	model.IntensityAggressive:   0.7,
}

// patternRatePrior is the default per-pattern success rate when the store
// has never seen the pattern.
const patternRatePrior = 0.6

// neighborCount is the number of most similar historical records consulted
// per prediction.
const neighborCount = 5

// Predict suggests transformation settings for a password from accumulated
// history: the intensity with the best success rate for the pattern, a
// success-weighted vote over the most similar past records for each boolean
// toggle, and rule-based adjustments from the report.
func (s *PatternStore) Predict(report model.StrengthReport) model.Prediction {
	history, rates, _ := s.snapshot()

	patternRate := patternRatePrior
	if r, ok := rates[model.RateKey(report.PatternType, "")]; ok {
		patternRate = r.Rate
	}

	bestIntensity := model.IntensityConservative
	bestRate := -1.0
	for _, intensity := range []model.Intensity{model.IntensityConservative, model.IntensityModerate, model.IntensityAggressive} {
		rate := intensityPriors[intensity]
		if r, ok := rates[model.RateKey(report.PatternType, intensity)]; ok {
			rate = r.Rate
		}
		if rate > bestRate {
			bestRate = rate
			bestIntensity = intensity
		}
	}

	neighbors := nearestRecords(history, ExtractFeatures(report), neighborCount)

	settings := voteSettings(neighbors, report)
	settings = applyHeuristics(settings, report)
	settings.Intensity = bestIntensity

	confidence := patternRate + 0.1
	if confidence > 0.95 {
		confidence = 0.95
	}

	return model.Prediction{
		Settings:      settings,
		Intensity:     bestIntensity,
		Confidence:    confidence,
		Reasoning:     predictionReasoning(report, neighbors, bestIntensity),
		NeighborCount: len(neighbors),
		PatternRate:   patternRate,
	}
}

// nearestRecords returns the top-k historical records by cosine similarity
// of original-password feature vectors. With no model and no history it
// returns an empty set.
func nearestRecords(history []model.MutationRecord, features model.FeatureVector, k int) []model.MutationRecord {
	if len(history) == 0 {
		return nil
	}

	type scored struct {
		record     model.MutationRecord
		similarity float64
	}
	candidates := make([]scored, 0, len(history))
	for _, r := range history {
		candidates = append(candidates, scored{record: r, similarity: cosineSimilarity(features, r.OriginalFeatures)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]model.MutationRecord, len(candidates))
	for i, c := range candidates {
		out[i] = c.record
	}
	return out
}

// voteSettings aggregates a boolean-toggle recommendation from the neighbor
// records by success-score-weighted majority vote. With no neighbors it
// falls back to rule-based defaults derived from the report.
func voteSettings(neighbors []model.MutationRecord, report model.StrengthReport) model.Settings {
	if len(neighbors) == 0 {
		return defaultSettingsFor(report)
	}

	settings := model.DefaultSettings()
	for _, name := range model.BooleanSettingNames {
		var trueWeight, falseWeight float64
		for _, n := range neighbors {
			value, _ := n.Settings.BoolSetting(name)
			if value {
				trueWeight += n.SuccessScore
			} else {
				falseWeight += n.SuccessScore
			}
		}
		settings.SetBool(name, trueWeight > falseWeight)
	}
	return settings
}

// defaultSettingsFor derives rule-based settings from the report alone.
func defaultSettingsFor(report model.StrengthReport) model.Settings {
	strong := report.StrengthLevel == model.LevelStrong || report.StrengthLevel == model.LevelVeryStrong
	return model.Settings{
		Intensity:             model.IntensityModerate,
		CharacterSubstitution: !strong,
		AddYear:               report.StrengthLevel == model.LevelVeryWeak || report.StrengthLevel == model.LevelWeak,
		IntelligentPatterns:   true,
		PreserveStrong:        report.StrengthLevel == model.LevelVeryStrong,
		IncrementNumbers:      !report.HasDigits,
	}
}

// applyHeuristics overrides voted settings with hard rules from the report.
func applyHeuristics(settings model.Settings, report model.StrengthReport) model.Settings {
	switch report.StrengthLevel {
	case model.LevelVeryWeak:
		settings.CharacterSubstitution = true
		settings.AddYear = true
	case model.LevelStrong, model.LevelVeryStrong:
		settings.PreserveStrong = true
	}
	if !report.HasDigits {
		settings.IncrementNumbers = true
	}
	if report.IsCommon {
		settings.IntelligentPatterns = true
	}
	return settings
}

func predictionReasoning(report model.StrengthReport, neighbors []model.MutationRecord, intensity model.Intensity) []string {
	reasoning := []string{
		fmt.Sprintf("Password pattern identified as %q with %q strength", report.PatternType, report.StrengthLevel),
	}

	if len(neighbors) > 0 {
		var total float64
		for _, n := range neighbors {
			total += n.SuccessScore
		}
		avg := total / float64(len(neighbors))
		reasoning = append(reasoning, fmt.Sprintf("Found %d similar patterns with %.1f%% average success rate", len(neighbors), avg*100))
	}

	reasoning = append(reasoning, fmt.Sprintf("Recommended intensity: %s based on historical success rates", intensity))

	if report.IsCommon {
		reasoning = append(reasoning, "Common password detected - applying intelligent pattern transformation")
	}
	if !report.HasSpecial {
		reasoning = append(reasoning, "No special characters detected - recommend adding some")
	}
	return reasoning
}
