package recommend

import (
	"fmt"
	"math"

	"github.com/patchline/passforge/internal/model"
)

// Additive improvement bonuses per enabled toggle.
const (
	bonusSubstitution = 0.15
	bonusAddYear      = 0.10
	bonusIntelligent  = 0.20
	bonusIncrement    = 0.05
)

// predictEffectiveness estimates the outcome of applying the settings: the
// current score scaled by the accumulated toggle bonuses (capped at 100)
// and a success probability blending the pattern's historical rate with the
// improvement factor.
func (e *Engine) predictEffectiveness(report model.StrengthReport, settings model.Settings) model.Effectiveness {
	patternRate := e.patterns.Rate(model.RateKey(report.PatternType, ""), 0.6)

	factor := 1.0
	if settings.CharacterSubstitution {
		factor += bonusSubstitution
	}
	if settings.AddYear {
		factor += bonusAddYear
	}
	if settings.IntelligentPatterns {
		factor += bonusIntelligent
	}
	if settings.IncrementNumbers {
		factor += bonusIncrement
	}

	predicted := report.StrengthScore * factor
	if predicted > 100 {
		predicted = 100
	}

	probability := patternRate*0.7 + factor*0.3
	if probability > 0.95 {
		probability = 0.95
	}

	return model.Effectiveness{
		CurrentScore:       report.StrengthScore,
		PredictedScore:     math.Round(predicted*10) / 10,
		PredictedGain:      math.Round((predicted-report.StrengthScore)*10) / 10,
		SuccessProbability: math.Round(probability*1000) / 1000,
		ConfidenceLevel:    confidenceLevel(probability),
	}
}

func confidenceLevel(probability float64) string {
	switch {
	case probability >= 0.9:
		return "Very High"
	case probability >= 0.75:
		return "High"
	case probability >= 0.6:
		return "Moderate"
	case probability >= 0.4:
		return "Low"
	default:
		return "Very Low"
	}
}

// suggestAlternatives proposes up to three alternative settings bundles
// with their tradeoffs.
func suggestAlternatives(report model.StrengthReport, settings model.Settings) []model.Alternative {
	var alternatives []model.Alternative

	if !settings.PreserveStrong {
		conservative := settings
		conservative.PreserveStrong = true
		conservative.CharacterSubstitution = false
		alternatives = append(alternatives, model.Alternative{
			Name:        "Conservative Approach",
			Description: "Minimal changes, preserve existing structure",
			Settings:    conservative,
			Pros:        []string{"Maintains password familiarity", "Lower risk of user confusion"},
			Cons:        []string{"May result in smaller strength improvement"},
		})
	}

	if report.StrengthLevel == model.LevelVeryWeak || report.StrengthLevel == model.LevelWeak {
		aggressive := settings
		aggressive.CharacterSubstitution = true
		aggressive.AddYear = true
		aggressive.IntelligentPatterns = true
		aggressive.IncrementNumbers = true
		alternatives = append(alternatives, model.Alternative{
			Name:        "Aggressive Enhancement",
			Description: "Maximum security improvements",
			Settings:    aggressive,
			Pros:        []string{"Maximum security improvement", "Addresses all weaknesses"},
			Cons:        []string{"May significantly change password structure"},
		})
	}

	if report.PatternType == model.PatternWordWithNumbers || report.PatternType == model.PatternAlphabetic {
		optimized := settings
		optimized.IntelligentPatterns = true
		optimized.CharacterSubstitution = report.PatternType == model.PatternAlphabetic
		alternatives = append(alternatives, model.Alternative{
			Name:        "Pattern-Optimized",
			Description: fmt.Sprintf("Specialized approach for %s patterns", report.PatternType),
			Settings:    optimized,
			Pros:        []string{"Tailored to your password pattern", "Balanced approach"},
			Cons:        []string{"May not address all potential weaknesses"},
		})
	}

	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}
	return alternatives
}
