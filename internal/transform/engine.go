// Package transform applies mutation strategies to passwords based on
// their strength report and the active settings.
package transform

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/patchline/passforge/internal/model"
	"github.com/patchline/passforge/internal/strategy"
)

// Engine selects and applies strategy-library rules. Dispatch is a pure
// function of the report's strength level, so an Engine is safe for
// concurrent use as long as its strategy library's random source is.
type Engine struct {
	strategies *strategy.Library
}

// NewEngine creates an Engine over the given strategy library.
func NewEngine(strategies *strategy.Library) *Engine {
	return &Engine{strategies: strategies}
}

// Transform mutates the password according to its strength level and the
// settings. It never fails on well-formed input; an empty password passes
// through unchanged.
func (e *Engine) Transform(password string, report model.StrengthReport, settings model.Settings) string {
	if password == "" {
		return password
	}

	switch {
	case settings.PreserveStrong && report.StrengthLevel == model.LevelVeryStrong:
		return e.minimalOptimization(password, settings)
	case report.StrengthLevel == model.LevelVeryWeak || report.StrengthLevel == model.LevelWeak:
		return e.enhanceWeak(password, report, settings)
	case report.StrengthLevel == model.LevelModerate:
		return e.improveModerate(password, report, settings)
	case report.StrengthLevel == model.LevelStrong:
		return e.optimizeStrong(password, settings)
	default:
		return e.applyDefault(password, settings)
	}
}

// minimalOptimization touches a very strong password only to refresh an
// embedded year more than one year stale.
func (e *Engine) minimalOptimization(password string, settings model.Settings) string {
	if !settings.AddYear {
		return password
	}
	return e.strategies.RefreshStaleYear(password, 1)
}

// enhanceWeak applies the full weak-password pipeline: pattern rewrite,
// substitution, then forced uppercase, digits, and special characters.
func (e *Engine) enhanceWeak(password string, report model.StrengthReport, settings model.Settings) string {
	transformed := password

	if settings.IntelligentPatterns {
		transformed = e.strategies.ApplyIntelligentEnhancement(transformed, report)
	}

	if settings.CharacterSubstitution && settings.Intensity != model.IntensityConservative {
		transformed = e.strategies.ApplyCharacterSubstitution(transformed, settings.Intensity)
	}

	if !report.HasUppercase {
		transformed = addUppercase(transformed)
	}

	if !report.HasDigits {
		year := strconv.Itoa(e.strategies.CurrentYear())
		switch {
		case settings.AddYear && settings.Intensity == model.IntensityAggressive:
			transformed += year
		case settings.AddYear:
			transformed += year[len(year)-2:]
		default:
			transformed += strconv.Itoa(10 + e.strategies.RandIntn(90))
		}
	}

	if !report.HasSpecial && settings.Intensity != model.IntensityConservative {
		if settings.Intensity == model.IntensityAggressive {
			specials := []string{"!", "@", "#", "$", "%"}
			transformed += specials[e.strategies.RandIntn(len(specials))]
		} else {
			transformed += "!"
		}
	}

	return transformed
}

// improveModerate increments numbers, patches structural weaknesses, and
// optionally appends the current year when the result stays short enough.
func (e *Engine) improveModerate(password string, report model.StrengthReport, settings model.Settings) string {
	transformed := password

	if settings.IntelligentPatterns {
		transformed = e.strategies.ApplyPatternImprovements(transformed, report)
	}

	if settings.CharacterSubstitution && settings.Intensity == model.IntensityAggressive {
		transformed = e.strategies.ApplySelectiveSubstitution(transformed)
	}

	if settings.IncrementNumbers {
		transformed = e.strategies.IncrementNumbers(transformed)
	}

	if settings.AddYear && !strategy.HasFourDigitRun(transformed) &&
		settings.Intensity != model.IntensityConservative && len(transformed) < 12 {
		transformed += strconv.Itoa(e.strategies.CurrentYear())
	}

	return transformed
}

// optimizeStrong makes conservative touches only: small-number increments
// at conservative intensity, otherwise a stale-year refresh.
func (e *Engine) optimizeStrong(password string, settings model.Settings) string {
	transformed := password

	if settings.IntelligentPatterns {
		transformed = e.strategies.ApplyLightOptimization(transformed)
	}

	if settings.Intensity == model.IntensityConservative {
		if settings.IncrementNumbers {
			transformed = e.strategies.LightIncrementNumbers(transformed)
		}
	} else if settings.AddYear {
		transformed = e.strategies.RefreshStaleYear(transformed, 0)
	}

	return transformed
}

// applyDefault handles an unknown strength level with the basic rules.
func (e *Engine) applyDefault(password string, settings model.Settings) string {
	transformed := password

	if settings.CharacterSubstitution {
		transformed = e.strategies.ApplyBasicSubstitution(transformed)
	}

	if settings.AddYear && !strategy.HasFourDigitRun(transformed) {
		transformed += strconv.Itoa(e.strategies.CurrentYear())
	}

	if !hasUppercase(transformed) {
		transformed = addUppercase(transformed)
	}

	return transformed
}

// addUppercase capitalizes the first lowercase letter found, or returns
// the password unchanged when none exists.
func addUppercase(password string) string {
	runes := []rune(password)
	for i, r := range runes {
		if unicode.IsLower(r) {
			runes[i] = unicode.ToUpper(r)
			return string(runes)
		}
	}
	return password
}

func hasUppercase(password string) bool {
	for _, r := range password {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// BatchResult is the outcome of transforming one credential in a batch.
type BatchResult struct {
	Original    string
	Transformed string
}

// TransformAll transforms every password, isolating per-item failures: a
// failing item keeps its original password and is counted as skipped
// instead of aborting the batch.
func (e *Engine) TransformAll(passwords []string, reports []model.StrengthReport, settings model.Settings) (results []BatchResult, skipped int) {
	results = make([]BatchResult, len(passwords))
	for i, password := range passwords {
		transformed, err := e.transformSafe(password, reports[i], settings)
		if err != nil {
			transformed = password
			skipped++
		}
		results[i] = BatchResult{Original: password, Transformed: transformed}
	}
	return results, skipped
}

// transformSafe converts a panic inside a single transformation into an
// error so one bad item cannot take down a batch.
func (e *Engine) transformSafe(password string, report model.StrengthReport, settings model.Settings) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform panicked: %v", r)
		}
	}()
	return e.Transform(password, report, settings), nil
}
