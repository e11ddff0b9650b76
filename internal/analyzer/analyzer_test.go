package analyzer

import (
	"testing"

	"github.com/patchline/passforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_EmptyPassword(t *testing.T) {
	a := New()
	report := a.Analyze("")

	assert.Equal(t, 0, report.Length)
	assert.Equal(t, float64(0), report.StrengthScore)
	assert.Equal(t, model.LevelVeryWeak, report.StrengthLevel)
	assert.Equal(t, model.PatternEmpty, report.PatternType)
	assert.False(t, report.HasDigits)
	assert.False(t, report.HasSpecial)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := New()
	for _, password := range []string{"password", "Tr0ub4dor&3", "abc123", "qwerty", "S3cure!Pass2024"} {
		first := a.Analyze(password)
		second := a.Analyze(password)
		assert.Equal(t, first, second, "analysis of %q must be reproducible", password)
	}
}

func TestAnalyze_CommonPassword(t *testing.T) {
	a := New()
	report := a.Analyze("password")

	assert.True(t, report.IsCommon)
	assert.Equal(t, model.PatternCommon, report.PatternType)
	assert.LessOrEqual(t, report.StrengthScore, 20.0)
	assert.Equal(t, model.LevelVeryWeak, report.StrengthLevel)
}

func TestAnalyze_StrongPassword(t *testing.T) {
	a := New()
	report := a.Analyze("Tr0ub4dor&3")

	assert.True(t, report.HasLowercase)
	assert.True(t, report.HasUppercase)
	assert.True(t, report.HasDigits)
	assert.True(t, report.HasSpecial)
	assert.Contains(t, []model.StrengthLevel{model.LevelStrong, model.LevelVeryStrong}, report.StrengthLevel)
}

func TestAnalyze_PatternTypes(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     model.PatternType
	}{
		{"common wins over structure", "qwerty", model.PatternCommon},
		{"purely numeric", "8675309", model.PatternNumeric},
		{"purely alphabetic", "wanderlust", model.PatternAlphabetic},
		{"word then numbers", "summer99", model.PatternWordWithNumbers},
		{"numbers then word", "99summer", model.PatternNumbersWithWord},
		{"keyboard run inside mixed text", "xxasdfghxx9!", model.PatternKeyboard},
		{"word then symbols", "secretive!!", model.PatternWordWithSymbols},
		{"everything else", "a1b!c2", model.PatternMixed},
	}

	a := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Analyze(tt.password).PatternType)
		})
	}
}

func TestAnalyze_WeaknessFlags(t *testing.T) {
	tests := []struct {
		name     string
		password string
		check    func(t *testing.T, r model.StrengthReport)
	}{
		{
			name:     "repeated run",
			password: "baaad",
			check: func(t *testing.T, r model.StrengthReport) {
				assert.True(t, r.HasRepeatedChars)
			},
		},
		{
			name:     "sequential digits",
			password: "x789x",
			check: func(t *testing.T, r model.StrengthReport) {
				assert.True(t, r.HasSequential)
			},
		},
		{
			name:     "sequential letters ignore case",
			password: "zAbCz!",
			check: func(t *testing.T, r model.StrengthReport) {
				assert.True(t, r.HasSequential)
			},
		},
		{
			name:     "keyboard run reversed",
			password: "ytrewq",
			check: func(t *testing.T, r model.StrengthReport) {
				assert.True(t, r.HasKeyboardRun)
			},
		},
		{
			name:     "dictionary substring",
			password: "ilovecats",
			check: func(t *testing.T, r model.StrengthReport) {
				assert.True(t, r.HasDictionaryWord)
			},
		},
		{
			name:     "no false positives",
			password: "Xk7#pQ9$mW",
			check: func(t *testing.T, r model.StrengthReport) {
				assert.False(t, r.HasRepeatedChars)
				assert.False(t, r.HasSequential)
				assert.False(t, r.HasKeyboardRun)
				assert.False(t, r.HasDictionaryWord)
				assert.False(t, r.IsCommon)
			},
		},
	}

	a := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, a.Analyze(tt.password))
		})
	}
}

func TestLevelForScore_MonotoneBands(t *testing.T) {
	tests := []struct {
		want  model.StrengthLevel
		score float64
	}{
		{model.LevelVeryWeak, 0},
		{model.LevelVeryWeak, 19.9},
		{model.LevelWeak, 20},
		{model.LevelWeak, 39.9},
		{model.LevelModerate, 40},
		{model.LevelModerate, 59.9},
		{model.LevelStrong, 60},
		{model.LevelStrong, 79.9},
		{model.LevelVeryStrong, 80},
		{model.LevelVeryStrong, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, model.LevelForScore(tt.score), "score %v", tt.score)
	}

	// The band can never decrease as the score increases.
	order := map[model.StrengthLevel]int{
		model.LevelVeryWeak:   0,
		model.LevelWeak:       1,
		model.LevelModerate:   2,
		model.LevelStrong:     3,
		model.LevelVeryStrong: 4,
	}
	prev := 0
	for score := 0.0; score <= 100; score += 0.5 {
		cur := order[model.LevelForScore(score)]
		require.GreaterOrEqual(t, cur, prev, "level regressed at score %v", score)
		prev = cur
	}
}

func TestAnalyze_ScoreBounds(t *testing.T) {
	a := New()
	for _, password := range []string{"", "a", "password", "123", "Tr0ub4dor&3", "aaaaaaaaaaaaaaaaaaaaaaaa", "X9$kL#mQ2@pW7!eR"} {
		report := a.Analyze(password)
		assert.GreaterOrEqual(t, report.StrengthScore, 0.0)
		assert.LessOrEqual(t, report.StrengthScore, 100.0)
		assert.Equal(t, model.LevelForScore(report.StrengthScore), report.StrengthLevel)
	}
}

func TestAnalyze_EntropyAndDiversity(t *testing.T) {
	a := New()

	report := a.Analyze("abcabc")
	// Six characters drawn from the lowercase space of 26.
	assert.InDelta(t, 28.2, report.Entropy, 0.01)
	assert.InDelta(t, 0.5, report.Diversity, 0.001)

	report = a.Analyze("aA1!")
	assert.True(t, report.HasLowercase)
	assert.True(t, report.HasUppercase)
	assert.True(t, report.HasDigits)
	assert.True(t, report.HasSpecial)
	// All four classes active: space of 94.
	assert.InDelta(t, 26.22, report.Entropy, 0.01)
}
