package strategy

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/patchline/passforge/internal/model"
)

// ApplyIntelligentEnhancement applies the pattern-category-specific rewrite
// for weak passwords: an exact lookup for well-known weak passwords, then a
// structure-specific transform keyed on the report's pattern type.
func (l *Library) ApplyIntelligentEnhancement(password string, report model.StrengthReport) string {
	enhanced := password

	if report.IsCommon {
		enhanced = l.RewriteCommonPassword(enhanced)
	}

	switch report.PatternType {
	case model.PatternWordWithNumbers:
		enhanced = l.enhanceWordWithNumbers(enhanced)
	case model.PatternNumeric:
		enhanced = l.enhanceNumeric(enhanced)
	case model.PatternAlphabetic:
		enhanced = l.enhanceAlphabetic(enhanced)
	case model.PatternKeyboard:
		enhanced = l.RewriteKeyboardRun(enhanced)
	}

	return enhanced
}

// ApplyPatternImprovements applies the moderate-password fixes: smart
// number incrementing, a strategic special character when absent, and
// repeated-run repair.
func (l *Library) ApplyPatternImprovements(password string, report model.StrengthReport) string {
	improved := l.IncrementNumbers(password)

	if !report.HasSpecial {
		improved = l.AddStrategicSpecial(improved)
	}
	if report.HasRepeatedChars {
		improved = l.FixRepeatedRuns(improved)
	}

	return improved
}

// ApplyLightOptimization makes the minimal touches allowed on strong
// passwords: advance small numbers and refresh a stale embedded year.
func (l *Library) ApplyLightOptimization(password string) string {
	optimized := l.LightIncrementNumbers(password)
	return l.RefreshStaleYear(optimized, 1)
}

// RewriteCommonPassword replaces a well-known weak password with one of its
// literal candidates, or applies a generic capitalize+suffix transform.
func (l *Library) RewriteCommonPassword(password string) string {
	if candidates, ok := commonRewrites[strings.ToLower(password)]; ok {
		return candidates[l.rng.Intn(len(candidates))]
	}

	year := strconv.Itoa(l.CurrentYear())
	switch l.rng.Intn(4) {
	case 0:
		return capitalize(password) + "123!"
	case 1:
		if len(password) > 3 {
			return strings.ToUpper(password[:3]) + strings.ToLower(password[3:]) + year
		}
		return strings.ToUpper(password) + year
	case 2:
		return strings.ReplaceAll(strings.ReplaceAll(password, "a", "@"), "o", "0") + "!"
	default:
		return strings.Title(password) + year //nolint:staticcheck // ASCII-only input
	}
}

// RewriteKeyboardRun replaces recognized keyboard runs with fixed stronger
// forms, falling back to capitalize+year+bang.
func (l *Library) RewriteKeyboardRun(password string) string {
	lower := strings.ToLower(password)
	for _, kr := range keyboardRewrites {
		if strings.Contains(lower, kr.run) {
			return kr.replacement
		}
	}
	return capitalize(password) + strconv.Itoa(l.CurrentYear()) + "!"
}

// enhanceWordWithNumbers rewrites a letters-then-digits password:
// capitalize the word, substitute its first 'a', advance the number, and
// append a bang.
func (l *Library) enhanceWordWithNumbers(password string) string {
	runes := []rune(password)
	split := 0
	for split < len(runes) && unicode.IsLetter(runes[split]) {
		split++
	}
	if split == 0 || split == len(runes) {
		return password
	}
	for _, r := range runes[split:] {
		if !unicode.IsDigit(r) {
			return password
		}
	}

	word := capitalize(string(runes[:split]))
	word = strings.Replace(word, "a", "@", 1)

	value, err := strconv.Atoi(string(runes[split:]))
	if err != nil {
		return password
	}
	return word + strconv.Itoa(value+1) + "!"
}

// enhanceNumeric converts a purely numeric password into a word-number
// combination.
func (l *Library) enhanceNumeric(password string) string {
	if len(password) <= 6 {
		return "Pass" + password + "!"
	}
	mid := len(password) / 2
	return password[:mid] + "Pass" + password[mid:] + "!"
}

// enhanceAlphabetic capitalizes, substitutes one 'a' and one 'o', and
// appends the current year plus a bang.
func (l *Library) enhanceAlphabetic(password string) string {
	enhanced := capitalize(password)
	enhanced = strings.Replace(enhanced, "a", "@", 1)
	enhanced = strings.Replace(enhanced, "o", "0", 1)
	return enhanced + strconv.Itoa(l.CurrentYear()) + "!"
}

// AddStrategicSpecial inserts one special character the way users actually
// do: usually appended, occasionally replacing an interior character.
func (l *Library) AddStrategicSpecial(password string) string {
	if l.rng.Float64() < 0.8 {
		suffixes := []string{"!", "@", "#"}
		return password + suffixes[l.rng.Intn(len(suffixes))]
	}

	runes := []rune(password)
	if len(runes) <= 4 {
		return password + "!"
	}
	specials := []rune{'!', '@', '#', '$', '%', '&', '*'}
	pos := 1 + l.rng.Intn(len(runes)-2)
	runes[pos] = specials[l.rng.Intn(len(specials))]
	return string(runes)
}

// FixRepeatedRuns breaks up runs of 3+ identical characters by replacing
// the middle character with a nearby stand-in.
func (l *Library) FixRepeatedRuns(password string) string {
	runes := []rune(password)

	for i := 0; i+2 < len(runes); {
		if runes[i] != runes[i+1] || runes[i+1] != runes[i+2] {
			i++
			continue
		}

		r := runes[i+1]
		switch {
		case unicode.IsDigit(r):
			runes[i+1] = '0' + (r-'0'+1)%10
		case hasSubstitution(r):
			runes[i+1] = substitutions[unicode.ToLower(r)][0]
		case unicode.IsLower(r):
			runes[i+1] = unicode.ToUpper(r)
		default:
			runes[i+1] = unicode.ToLower(r)
		}
		i += 3
	}

	return string(runes)
}

func hasSubstitution(r rune) bool {
	_, ok := substitutions[unicode.ToLower(r)]
	return ok
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
}
