package strategy

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/patchline/passforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteCommonPassword_KnownCandidates(t *testing.T) {
	l := newTestLibrary()

	for i := 0; i < 20; i++ {
		got := l.RewriteCommonPassword("password")
		assert.Contains(t, commonRewrites["password"], got)
	}

	// Lookup is case-insensitive.
	got := l.RewriteCommonPassword("ADMIN")
	assert.Contains(t, commonRewrites["admin"], got)
}

func TestRewriteCommonPassword_GenericTransform(t *testing.T) {
	l := newTestLibrary()

	for i := 0; i < 20; i++ {
		got := l.RewriteCommonPassword("monkey")
		assert.NotEqual(t, "monkey", got)
		assert.Greater(t, len(got), len("monkey"))
	}
}

func TestApplyCharacterSubstitution_Conservative(t *testing.T) {
	l := newTestLibrary()

	for i := 0; i < 50; i++ {
		got := l.ApplyCharacterSubstitution("sausages", model.IntensityConservative)
		require.Len(t, got, len("sausages"))

		diffs := 0
		for j, r := range got {
			if r != rune("sausages"[j]) {
				diffs++
			}
		}
		assert.LessOrEqual(t, diffs, 1, "conservative allows at most one substitution, got %q", got)
	}
}

func TestApplyCharacterSubstitution_PreservesCase(t *testing.T) {
	l := NewLibrary(rand.New(rand.NewSource(7)))

	for i := 0; i < 50; i++ {
		got := l.ApplyCharacterSubstitution("SAUSAGES", model.IntensityAggressive)
		for _, r := range got {
			if unicode.IsLetter(r) {
				assert.True(t, unicode.IsUpper(r), "letter case must survive substitution: %q", got)
			}
		}
	}
}

func TestApplySelectiveSubstitution(t *testing.T) {
	l := newTestLibrary()

	for i := 0; i < 50; i++ {
		got := l.ApplySelectiveSubstitution("Sunlight")
		require.Len(t, got, len("Sunlight"))

		diffs := 0
		for j, r := range got {
			if r != rune("Sunlight"[j]) {
				diffs++
			}
		}
		assert.GreaterOrEqual(t, diffs, 1)
		assert.LessOrEqual(t, diffs, 2)
	}

	// Nothing substitutable passes through unchanged.
	assert.Equal(t, "XYXY", l.ApplySelectiveSubstitution("XYXY"))
}

func TestApplyBasicSubstitution(t *testing.T) {
	l := newTestLibrary()

	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"first a wins", "banana", "b@nana"},
		{"e when no a", "letter", "l3tter"},
		{"uppercase matches too", "Apple", "@pple"},
		{"nothing to substitute", "xyz", "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.ApplyBasicSubstitution(tt.password))
		})
	}
}

func TestRewriteKeyboardRun(t *testing.T) {
	l := newTestLibrary()

	assert.Equal(t, "Qw3rty!", l.RewriteKeyboardRun("myqwertypass"))
	assert.Equal(t, "@sdf123", l.RewriteKeyboardRun("ASDFzz"))

	// No recognized run falls back to capitalize+year+bang.
	got := l.RewriteKeyboardRun("plain")
	assert.True(t, strings.HasPrefix(got, "Plain"))
	assert.True(t, strings.HasSuffix(got, "!"))
}

func TestFixRepeatedRuns(t *testing.T) {
	l := newTestLibrary()

	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"digit run advances middle", "x111x", "x121x"},
		{"substitutable letter uses table", "passsword", "pas$sword"},
		{"plain letter flips case", "ummm", "umMm"},
		{"no run unchanged", "abcabc", "abcabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.FixRepeatedRuns(tt.password))
		})
	}
}

func TestAddStrategicSpecial(t *testing.T) {
	l := newTestLibrary()

	for i := 0; i < 50; i++ {
		got := l.AddStrategicSpecial("standard")
		hasSpecial := false
		for _, r := range got {
			if strings.ContainsRune("!@#$%&*", r) {
				hasSpecial = true
			}
		}
		assert.True(t, hasSpecial, "a special character must appear: %q", got)
	}
}

func TestApplyIntelligentEnhancement_ByPattern(t *testing.T) {
	l := newTestLibrary()

	tests := []struct {
		name     string
		password string
		report   model.StrengthReport
		check    func(t *testing.T, got string)
	}{
		{
			name:     "numeric short gets word wrap",
			password: "123987",
			report:   model.StrengthReport{PatternType: model.PatternNumeric},
			check: func(t *testing.T, got string) {
				assert.Equal(t, "Pass123987!", got)
			},
		},
		{
			name:     "numeric long gets interior word",
			password: "12398712",
			report:   model.StrengthReport{PatternType: model.PatternNumeric},
			check: func(t *testing.T, got string) {
				assert.Equal(t, "1239Pass8712!", got)
			},
		},
		{
			name:     "word with numbers advances and decorates",
			password: "summer99",
			report:   model.StrengthReport{PatternType: model.PatternWordWithNumbers},
			check: func(t *testing.T, got string) {
				assert.Equal(t, "Summer100!", got)
			},
		},
		{
			name:     "alphabetic gets substitutions and year",
			password: "wanderlust",
			report:   model.StrengthReport{PatternType: model.PatternAlphabetic},
			check: func(t *testing.T, got string) {
				assert.True(t, strings.HasPrefix(got, "W@nderlust"))
				assert.True(t, strings.HasSuffix(got, "!"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, l.ApplyIntelligentEnhancement(tt.password, tt.report))
		})
	}
}
