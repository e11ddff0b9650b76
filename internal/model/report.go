// Package model defines the core data structures for the passforge application.
package model

// StrengthLevel is a 5-band discretization of the continuous strength score.
type StrengthLevel string

// Strength level constants, weakest to strongest.
const (
	LevelVeryWeak   StrengthLevel = "very_weak"
	LevelWeak       StrengthLevel = "weak"
	LevelModerate   StrengthLevel = "moderate"
	LevelStrong     StrengthLevel = "strong"
	LevelVeryStrong StrengthLevel = "very_strong"
)

// LevelForScore converts a strength score to its level band.
// Band lower bounds are inclusive: a score of exactly 80 is very_strong.
func LevelForScore(score float64) StrengthLevel {
	switch {
	case score >= 80:
		return LevelVeryStrong
	case score >= 60:
		return LevelStrong
	case score >= 40:
		return LevelModerate
	case score >= 20:
		return LevelWeak
	default:
		return LevelVeryWeak
	}
}

// PatternType is the coarse structural category assigned to a password.
// It is the learning system's primary grouping key.
type PatternType string

// Pattern type constants in classification order; the first matching
// predicate wins.
const (
	PatternEmpty           PatternType = "empty"
	PatternCommon          PatternType = "common"
	PatternNumeric         PatternType = "numeric"
	PatternAlphabetic      PatternType = "alphabetic"
	PatternWordWithNumbers PatternType = "word_with_numbers"
	PatternNumbersWithWord PatternType = "numbers_with_word"
	PatternKeyboard        PatternType = "keyboard_pattern"
	PatternWordWithSymbols PatternType = "word_with_symbols"
	PatternMixed           PatternType = "mixed"
)

// StrengthReport is the structured weakness/strength report produced by the
// analyzer. It is a plain value object: produced fresh per call, never
// mutated, JSON-serializable for the UI/reporting layer.
type StrengthReport struct {
	PatternType       PatternType   `json:"pattern_type"`
	StrengthLevel     StrengthLevel `json:"strength_level"`
	Length            int           `json:"length"`
	DigitCount        int           `json:"digit_count"`
	UppercaseCount    int           `json:"uppercase_count"`
	LowercaseCount    int           `json:"lowercase_count"`
	SpecialCount      int           `json:"special_count"`
	Entropy           float64       `json:"entropy"`
	Diversity         float64       `json:"character_diversity"`
	ComplexityScore   float64       `json:"complexity_score"`
	StrengthScore     float64       `json:"strength_score"`
	HasDigits         bool          `json:"has_digits"`
	HasUppercase      bool          `json:"has_uppercase"`
	HasLowercase      bool          `json:"has_lowercase"`
	HasSpecial        bool          `json:"has_special"`
	IsCommon          bool          `json:"is_common"`
	HasKeyboardRun    bool          `json:"has_keyboard_pattern"`
	HasRepeatedChars  bool          `json:"has_repeated_chars"`
	HasSequential     bool          `json:"has_sequential"`
	HasDictionaryWord bool          `json:"has_dictionary_word"`
}
