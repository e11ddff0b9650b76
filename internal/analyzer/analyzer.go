// Package analyzer scores passwords along orthogonal weakness dimensions
// and assigns each one a structural pattern category.
package analyzer

import (
	"math"
	"strings"
	"unicode"

	"github.com/patchline/passforge/internal/model"
)

// Analyzer produces strength reports for passwords. It holds only static
// word lists, so a single instance is safe for concurrent use.
type Analyzer struct{}

// New creates an Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze builds a full strength report for the password. It is a pure
// function: re-analyzing the same input always yields an identical report.
// An empty password yields the fixed degenerate report.
func (a *Analyzer) Analyze(password string) model.StrengthReport {
	if password == "" {
		return emptyReport()
	}

	runes := []rune(password)
	report := model.StrengthReport{
		Length:         len(runes),
		DigitCount:     countFunc(runes, unicode.IsDigit),
		UppercaseCount: countFunc(runes, unicode.IsUpper),
		LowercaseCount: countFunc(runes, unicode.IsLower),
		SpecialCount:   countSpecial(runes),
	}
	report.HasDigits = report.DigitCount > 0
	report.HasUppercase = report.UppercaseCount > 0
	report.HasLowercase = report.LowercaseCount > 0
	report.HasSpecial = report.SpecialCount > 0

	report.Entropy = entropy(report)
	report.IsCommon = isCommon(password)
	report.HasKeyboardRun = hasKeyboardRun(password)
	report.HasRepeatedChars = hasRepeatedRun(runes)
	report.HasSequential = hasSequentialRun(runes)
	report.Diversity = diversity(runes)
	report.PatternType = classify(password, runes)
	report.HasDictionaryWord = hasDictionaryWord(password)
	report.ComplexityScore = complexityScore(runes)

	report.StrengthScore = strengthScore(report)
	report.StrengthLevel = model.LevelForScore(report.StrengthScore)

	return report
}

// emptyReport is the fixed report for empty input. The common flag stays
// set so the empty string never scores above very_weak.
func emptyReport() model.StrengthReport {
	return model.StrengthReport{
		PatternType:   model.PatternEmpty,
		StrengthLevel: model.LevelVeryWeak,
		IsCommon:      true,
	}
}

// IsSpecial reports whether r belongs to the special character class.
func IsSpecial(r rune) bool {
	return strings.ContainsRune(specialChars, r)
}

func countFunc(runes []rune, pred func(rune) bool) int {
	n := 0
	for _, r := range runes {
		if pred(r) {
			n++
		}
	}
	return n
}

func countSpecial(runes []rune) int {
	return countFunc(runes, IsSpecial)
}

// entropy estimates length × log2(active character-space size), rounded to
// two decimals. The space sizes are coarse class counts, not a real
// entropy model.
func entropy(r model.StrengthReport) float64 {
	size := 0
	if r.HasLowercase {
		size += 26
	}
	if r.HasUppercase {
		size += 26
	}
	if r.HasDigits {
		size += 10
	}
	if r.HasSpecial {
		size += 32
	}
	if size == 0 {
		return 0
	}
	return math.Round(float64(r.Length)*math.Log2(float64(size))*100) / 100
}

func isCommon(password string) bool {
	_, ok := commonPasswords[strings.ToLower(password)]
	return ok
}

func hasKeyboardRun(password string) bool {
	lower := strings.ToLower(password)
	for _, run := range keyboardRuns {
		if strings.Contains(lower, run) || strings.Contains(lower, reverse(run)) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// hasRepeatedRun reports a run of 3+ identical characters.
func hasRepeatedRun(runes []rune) bool {
	for i := 0; i+2 < len(runes); i++ {
		if runes[i] == runes[i+1] && runes[i+1] == runes[i+2] {
			return true
		}
	}
	return false
}

// hasSequentialRun reports a 3-length ascending run of digits or letters.
func hasSequentialRun(runes []rune) bool {
	for i := 0; i+2 < len(runes); i++ {
		a, b, c := runes[i], runes[i+1], runes[i+2]
		if unicode.IsDigit(a) && b == a+1 && c == b+1 {
			return true
		}
		la, lb, lc := unicode.ToLower(a), unicode.ToLower(b), unicode.ToLower(c)
		if unicode.IsLetter(a) && unicode.IsLetter(b) && unicode.IsLetter(c) &&
			lb == la+1 && lc == lb+1 {
			return true
		}
	}
	return false
}

func diversity(runes []rune) float64 {
	if len(runes) == 0 {
		return 0
	}
	distinct := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		distinct[r] = struct{}{}
	}
	return float64(len(distinct)) / float64(len(runes))
}

func hasDictionaryWord(password string) bool {
	lower := strings.ToLower(password)
	for _, word := range dictionaryWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// classify assigns the single pattern type via the fixed, ordered predicate
// chain; the first match wins.
func classify(password string, runes []rune) model.PatternType {
	switch {
	case len(runes) == 0:
		return model.PatternEmpty
	case isCommon(password):
		return model.PatternCommon
	case allFunc(runes, unicode.IsDigit):
		return model.PatternNumeric
	case allFunc(runes, unicode.IsLetter):
		return model.PatternAlphabetic
	case matchesSplit(runes, unicode.IsLetter, unicode.IsDigit):
		return model.PatternWordWithNumbers
	case matchesSplit(runes, unicode.IsDigit, unicode.IsLetter):
		return model.PatternNumbersWithWord
	case hasKeyboardRun(password):
		return model.PatternKeyboard
	case matchesSplit(runes, unicode.IsLetter, IsSpecial):
		return model.PatternWordWithSymbols
	default:
		return model.PatternMixed
	}
}

func allFunc(runes []rune, pred func(rune) bool) bool {
	for _, r := range runes {
		if !pred(r) {
			return false
		}
	}
	return true
}

// matchesSplit reports whether the password is one or more head-class
// characters followed by one or more tail-class characters.
func matchesSplit(runes []rune, head, tail func(rune) bool) bool {
	i := 0
	for i < len(runes) && head(runes[i]) {
		i++
	}
	if i == 0 || i == len(runes) {
		return false
	}
	for _, r := range runes[i:] {
		if !tail(r) {
			return false
		}
	}
	return true
}

// complexityScore is the 0-100 sub-score from character classes and length.
func complexityScore(runes []rune) float64 {
	score := math.Min(float64(len(runes))*4, 25)

	if countFunc(runes, unicode.IsLower) > 0 {
		score += 2
	}
	if countFunc(runes, unicode.IsUpper) > 0 {
		score += 2
	}
	if countFunc(runes, unicode.IsDigit) > 0 {
		score += 4
	}
	if countSpecial(runes) > 0 {
		score += 6
	}

	// Interior digits and specials earn extra credit.
	if len(runes) > 2 {
		middle := runes[1 : len(runes)-1]
		score += float64(countFunc(middle, unicode.IsDigit)) * 2
		score += float64(countSpecial(middle)) * 2
	}

	return math.Min(score, 100)
}

// strengthScore combines the sub-scores and penalties into the final 0-100
// score, rounded to one decimal.
func strengthScore(r model.StrengthReport) float64 {
	score := r.ComplexityScore * 0.4
	score += math.Min(float64(r.Length)*2.5, 20)

	if r.HasLowercase {
		score += 5
	}
	if r.HasUppercase {
		score += 5
	}
	if r.HasDigits {
		score += 5
	}
	if r.HasSpecial {
		score += 5
	}

	score += math.Min(r.Entropy/4, 15)
	score += r.Diversity * 10

	if r.IsCommon {
		score -= 30
	}
	if r.HasKeyboardRun {
		score -= 15
	}
	if r.HasRepeatedChars {
		score -= 10
	}
	if r.HasSequential {
		score -= 10
	}
	if r.HasDictionaryWord {
		score -= 10
	}
	if r.Length < 8 {
		score -= 15
	}

	score = math.Max(0, math.Min(100, score))
	return math.Round(score*10) / 10
}
