// Package recommend combines pattern statistics, personal preferences, and
// situational context into one settings recommendation. Merge priority is
// strict: machine-learned settings are overridden by personal history,
// which is overridden by context and domain adjustments.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/patchline/passforge/internal/behavior"
	"github.com/patchline/passforge/internal/learn"
	"github.com/patchline/passforge/internal/model"
)

// Combined-confidence weights for the three recommendation sources.
const (
	weightPattern  = 0.3
	weightBehavior = 0.5
	weightContext  = 0.2
)

// RequestContext carries the situational flags a caller can attach to a
// recommendation request.
type RequestContext struct {
	HighSecurity    bool
	BatchProcessing bool
}

// Engine produces recommendations from the two learned stores plus static
// domain knowledge.
type Engine struct {
	patterns *learn.PatternStore
	behavior *behavior.BehaviorStore
	logger   *slog.Logger
}

// NewEngine creates a recommendation engine over the given stores.
func NewEngine(patterns *learn.PatternStore, behaviorStore *behavior.BehaviorStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{patterns: patterns, behavior: behaviorStore, logger: logger}
}

// Recommend builds the merged recommendation for one password report. The
// email and context are optional; empty values contribute only their
// default confidence.
func (e *Engine) Recommend(report model.StrengthReport, email string, reqCtx RequestContext) model.Recommendation {
	prediction := e.patterns.Predict(report)
	personalization := e.behavior.Recommend(report.PatternType, prediction.Settings)
	adjustments := contextAdjustments(email, report, reqCtx)

	settings := personalization.Settings
	for name, value := range adjustments.overrides {
		settings.SetBool(name, value)
	}

	intensity := adaptiveIntensity(report, settings, reqCtx)
	settings.Intensity = intensity

	confidence := combineConfidence(prediction.Confidence, personalization.Confidence, adjustments.confidence)

	return model.Recommendation{
		Settings:      settings,
		Intensity:     intensity,
		Confidence:    confidence,
		Reasoning:     e.reasoning(report, prediction, personalization, adjustments, email),
		Effectiveness: e.predictEffectiveness(report, settings),
		Alternatives:  suggestAlternatives(report, settings),
		Personalized:  len(personalization.AppliedKeys) > 0,
	}
}

// combineConfidence is the fixed 0.3/0.5/0.2 weighted sum, rounded to three
// decimals.
func combineConfidence(pattern, personal, contextual float64) float64 {
	combined := weightPattern*pattern + weightBehavior*personal + weightContext*contextual
	return math.Round(combined*1000) / 1000
}

// adaptiveIntensity derives the final intensity from the current strength,
// the merged settings, and the request context.
func adaptiveIntensity(report model.StrengthReport, settings model.Settings, reqCtx RequestContext) model.Intensity {
	var base model.Intensity
	switch report.StrengthLevel {
	case model.LevelVeryWeak:
		base = model.IntensityAggressive
	case model.LevelWeak:
		base = model.IntensityModerate
	default:
		base = model.IntensityConservative
	}

	strong := report.StrengthLevel == model.LevelStrong || report.StrengthLevel == model.LevelVeryStrong
	if settings.PreserveStrong && strong {
		return model.IntensityConservative
	}

	if settings.CharacterSubstitution && settings.AddYear && settings.IntelligentPatterns {
		switch base {
		case model.IntensityConservative:
			return model.IntensityModerate
		case model.IntensityModerate:
			return model.IntensityAggressive
		}
	}

	if reqCtx.HighSecurity {
		return base.Bump()
	}
	return base
}

func (e *Engine) reasoning(report model.StrengthReport, prediction model.Prediction, personalization model.Personalization, adjustments adjustmentSet, email string) []string {
	reasoning := []string{
		fmt.Sprintf("Password strength: %s, Pattern: %s", report.StrengthLevel, report.PatternType),
	}
	reasoning = append(reasoning, prediction.Reasoning...)

	if len(personalization.AppliedKeys) > 0 {
		reasoning = append(reasoning, fmt.Sprintf("Personalized %d settings based on your preferences", len(personalization.AppliedKeys)))
	}
	reasoning = append(reasoning, adjustments.reasoning...)

	if domain := emailDomain(email); domain != "" {
		reasoning = append(reasoning, fmt.Sprintf("Optimized for %s domain patterns", domain))
	}
	return reasoning
}

// FeedbackInput is one completed transformation with its user verdict.
type FeedbackInput struct {
	Original    string
	Transformed string
	Before      model.StrengthReport
	After       model.StrengthReport
	Settings    model.Settings
	Rating      int
	Accepted    bool
	SessionID   string
}

// LearnFromFeedback closes the loop: it derives a success score from the
// verdict and feeds the outcome into both stores.
func (e *Engine) LearnFromFeedback(ctx context.Context, input FeedbackInput) error {
	successScore := 0.5
	if input.Accepted {
		successScore += 0.3
	}
	successScore += float64(input.Rating) / 10 * 0.2
	if successScore > 1.0 {
		successScore = 1.0
	}

	if err := e.patterns.Learn(ctx, input.Original, input.Transformed, input.Before, input.After, input.Settings, successScore); err != nil {
		return fmt.Errorf("learning from feedback: %w", err)
	}

	event := model.FeedbackEvent{
		SessionID:   input.SessionID,
		BeforeLevel: input.Before.StrengthLevel,
		AfterLevel:  input.After.StrengthLevel,
		PatternType: input.Before.PatternType,
		Settings:    input.Settings,
		Rating:      input.Rating,
		Accepted:    input.Accepted,
	}
	if err := e.behavior.RecordFeedback(ctx, event); err != nil {
		return fmt.Errorf("recording feedback: %w", err)
	}
	return nil
}

// Dashboard aggregates what both stores have learned, for reporting.
type Dashboard struct {
	Learning learn.Insights    `json:"learning"`
	Behavior behavior.Analysis `json:"behavior"`
}

// Dashboard returns the combined learning statistics.
func (e *Engine) Dashboard() Dashboard {
	return Dashboard{
		Learning: e.patterns.Insights(),
		Behavior: e.behavior.Analyze(),
	}
}
