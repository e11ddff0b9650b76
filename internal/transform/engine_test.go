package transform

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/patchline/passforge/internal/model"
	"github.com/patchline/passforge/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(strategy.NewLibrary(rand.New(rand.NewSource(1))))
}

func TestTransform_EmptyPassword(t *testing.T) {
	e := newTestEngine()
	got := e.Transform("", model.StrengthReport{StrengthLevel: model.LevelVeryWeak}, model.DefaultSettings())
	assert.Equal(t, "", got)
}

func TestTransform_PreserveVeryStrong(t *testing.T) {
	e := newTestEngine()
	settings := model.DefaultSettings()
	report := model.StrengthReport{StrengthLevel: model.LevelVeryStrong}

	// No embedded year: nothing to touch.
	assert.Equal(t, "X9$kL#mQ2@pW", e.Transform("X9$kL#mQ2@pW", report, settings))

	// A year more than one year stale is refreshed.
	year := strconv.Itoa(time.Now().Year())
	got := e.Transform("Str0ng!2019pass", report, settings)
	assert.Equal(t, "Str0ng!"+year+"pass", got)

	// With preserve_strong off, the very strong password flows through the
	// strong path instead.
	settings.PreserveStrong = false
	got = e.Transform("Str0ng!2019pass", report, settings)
	assert.NotEqual(t, "Str0ng!2019pass", got)
}

func TestTransform_WeakForcesComplexity(t *testing.T) {
	e := newTestEngine()
	settings := model.DefaultSettings()
	settings.IntelligentPatterns = false
	settings.CharacterSubstitution = false

	report := model.StrengthReport{
		StrengthLevel: model.LevelWeak,
		PatternType:   model.PatternAlphabetic,
	}

	for i := 0; i < 20; i++ {
		got := e.Transform("drizzle", report, settings)

		assert.True(t, hasUppercase(got), "uppercase must be forced: %q", got)

		hasDigit := false
		hasSpecial := false
		for _, r := range got {
			if unicode.IsDigit(r) {
				hasDigit = true
			}
			if strings.ContainsRune("!@#$%", r) {
				hasSpecial = true
			}
		}
		assert.True(t, hasDigit, "digits must be forced: %q", got)
		assert.True(t, hasSpecial, "a special must be forced: %q", got)
	}
}

func TestTransform_WeakConservativeSkipsSpecial(t *testing.T) {
	e := newTestEngine()
	settings := model.DefaultSettings()
	settings.Intensity = model.IntensityConservative
	settings.IntelligentPatterns = false
	settings.CharacterSubstitution = false

	report := model.StrengthReport{
		StrengthLevel: model.LevelVeryWeak,
		PatternType:   model.PatternAlphabetic,
	}

	got := e.Transform("drizzle", report, settings)
	for _, r := range got {
		assert.False(t, strings.ContainsRune("!@#$%", r), "conservative must not add specials: %q", got)
	}
	// Two-digit year suffix, not the full year.
	year := strconv.Itoa(time.Now().Year())
	assert.True(t, strings.HasSuffix(got, year[2:]), "expected two-digit year suffix: %q", got)
	assert.False(t, strings.Contains(got, year), "full year only at aggressive intensity: %q", got)
}

func TestTransform_WeakCommonPassword(t *testing.T) {
	e := newTestEngine()
	report := model.StrengthReport{
		StrengthLevel: model.LevelVeryWeak,
		PatternType:   model.PatternCommon,
		IsCommon:      true,
		HasLowercase:  true,
	}

	for i := 0; i < 20; i++ {
		got := e.Transform("password", report, model.DefaultSettings())
		assert.NotEqual(t, "password", got)
		assert.NotEqual(t, strings.ToLower(got), "password")
	}
}

func TestTransform_ModerateAddsYearWhenShort(t *testing.T) {
	e := newTestEngine()
	settings := model.DefaultSettings()
	settings.IntelligentPatterns = false
	settings.CharacterSubstitution = false
	settings.IncrementNumbers = false

	report := model.StrengthReport{
		StrengthLevel: model.LevelModerate,
		HasSpecial:    true,
	}

	year := strconv.Itoa(time.Now().Year())
	assert.Equal(t, "Berry!pie"+year, e.Transform("Berry!pie", report, settings))

	// Too long already: year is not appended.
	long := "Berry!pielonger"
	assert.Equal(t, long, e.Transform(long, report, settings))

	// A 4-digit run suppresses the year suffix.
	assert.Equal(t, "Berry!"+year, e.Transform("Berry!"+year, report, settings))
}

func TestTransform_ModerateIncrementsNumbers(t *testing.T) {
	e := newTestEngine()
	settings := model.DefaultSettings()
	settings.IntelligentPatterns = false
	settings.CharacterSubstitution = false
	settings.AddYear = false

	report := model.StrengthReport{
		StrengthLevel: model.LevelModerate,
		HasSpecial:    true,
	}

	assert.Equal(t, "Berry!8pie", e.Transform("Berry!7pie", report, settings))
}

func TestTransform_StrongConservative(t *testing.T) {
	e := newTestEngine()
	settings := model.DefaultSettings()
	settings.Intensity = model.IntensityConservative
	settings.IntelligentPatterns = false

	report := model.StrengthReport{StrengthLevel: model.LevelStrong}

	// Small numbers advance; years are out of reach for light increments.
	assert.Equal(t, "Qx!m8zzT", e.Transform("Qx!m7zzT", report, settings))
	assert.Equal(t, "Qx!2019zT", e.Transform("Qx!2019zT", report, settings))
}

func TestTransform_StrongRefreshesYear(t *testing.T) {
	e := newTestEngine()
	settings := model.DefaultSettings()
	settings.IntelligentPatterns = false

	report := model.StrengthReport{StrengthLevel: model.LevelStrong}
	year := strconv.Itoa(time.Now().Year())

	assert.Equal(t, "Qx!"+year+"zT", e.Transform("Qx!2019zT", report, settings))
}

func TestTransform_UnknownLevelUsesDefaults(t *testing.T) {
	e := newTestEngine()
	report := model.StrengthReport{StrengthLevel: "unknown"}
	year := strconv.Itoa(time.Now().Year())

	got := e.Transform("mellow", report, model.DefaultSettings())
	// Basic substitution hits the first 'e', a year lands, case is forced.
	assert.Equal(t, "M3llow"+year, got)
}

func TestTransformAll(t *testing.T) {
	e := newTestEngine()
	passwords := []string{"drizzle", "", "Qx!m7zzT"}
	reports := []model.StrengthReport{
		{StrengthLevel: model.LevelWeak, PatternType: model.PatternAlphabetic},
		{StrengthLevel: model.LevelVeryWeak, PatternType: model.PatternEmpty},
		{StrengthLevel: model.LevelStrong},
	}

	results, skipped := e.TransformAll(passwords, reports, model.DefaultSettings())
	require.Len(t, results, 3)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, "drizzle", results[0].Original)
	assert.NotEqual(t, "drizzle", results[0].Transformed)
	assert.Equal(t, "", results[1].Transformed)
}
