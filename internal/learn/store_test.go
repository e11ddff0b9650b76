package learn

import (
	"context"
	"fmt"
	"testing"

	"github.com/patchline/passforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PatternStore {
	t.Helper()
	return NewPatternStore(context.Background(), nil, nil)
}

func weakReport(pattern model.PatternType, length int) model.StrengthReport {
	return model.StrengthReport{
		PatternType:   pattern,
		StrengthLevel: model.LevelWeak,
		Length:        length,
		DigitCount:    length,
		Entropy:       float64(length) * 3.32,
		Diversity:     0.6,
		StrengthScore: 25,
		HasDigits:     true,
	}
}

func strongerReport(report model.StrengthReport) model.StrengthReport {
	report.StrengthScore += 40
	report.StrengthLevel = model.LevelStrong
	report.HasSpecial = true
	return report
}

func TestLearn_RejectsBadSuccessScore(t *testing.T) {
	store := newTestStore(t)
	report := weakReport(model.PatternNumeric, 6)

	err := store.Learn(context.Background(), "123456", "Pass123457!", report, strongerReport(report), model.DefaultSettings(), 1.5)
	require.Error(t, err)
	assert.Equal(t, 0, store.HistorySize())
}

func TestLearn_RateConvergence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	settings := model.DefaultSettings()

	for i := 0; i < 25; i++ {
		report := weakReport(model.PatternNumeric, 6+i%4)
		err := store.Learn(ctx, fmt.Sprintf("12345%d", i), fmt.Sprintf("Pass12345%d!", i), report, strongerReport(report), settings, 1.0)
		require.NoError(t, err)
	}

	assert.Equal(t, 25, store.HistorySize())
	assert.Greater(t, store.Rate(model.RateKey(model.PatternNumeric, ""), 0), 0.9,
		"consistent successes must converge above 0.9")
	assert.Greater(t, store.Rate(model.RateKey(model.PatternNumeric, model.IntensityModerate), 0), 0.9)
	assert.Equal(t, 0.42, store.Rate("never_seen", 0.42), "missing key reports the fallback")
}

func TestLearn_RefitsClusterModel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 19; i++ {
		report := weakReport(model.PatternNumeric, 4+i)
		require.NoError(t, store.Learn(ctx, "p", "q", report, strongerReport(report), model.DefaultSettings(), 0.8))
	}
	assert.False(t, store.Insights().ClusterModelTrained, "no refit before the 20th record")

	report := weakReport(model.PatternNumeric, 30)
	require.NoError(t, store.Learn(ctx, "p", "q", report, strongerReport(report), model.DefaultSettings(), 0.8))

	insights := store.Insights()
	assert.True(t, insights.ClusterModelTrained)
	assert.Equal(t, 4, insights.Clusters)
}

func TestPredict_EmptyStoreUsesDefaults(t *testing.T) {
	store := newTestStore(t)
	report := weakReport(model.PatternNumeric, 6)
	report.StrengthLevel = model.LevelVeryWeak

	prediction := store.Predict(report)

	assert.Equal(t, model.IntensityAggressive, prediction.Intensity, "highest default prior wins")
	assert.InDelta(t, 0.7, prediction.Confidence, 1e-9)
	assert.Equal(t, 0, prediction.NeighborCount)
	assert.InDelta(t, 0.6, prediction.PatternRate, 1e-9)
	assert.True(t, prediction.Settings.CharacterSubstitution)
	assert.True(t, prediction.Settings.AddYear)
	assert.True(t, prediction.Settings.IntelligentPatterns)
	assert.NotEmpty(t, prediction.Reasoning)
	assert.Contains(t, prediction.Reasoning[0], "numeric")
}

func TestPredict_NeighborsDriveToggles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings := model.DefaultSettings()
	settings.CharacterSubstitution = false
	for i := 0; i < 6; i++ {
		report := weakReport(model.PatternNumeric, 6)
		report.StrengthLevel = model.LevelModerate
		require.NoError(t, store.Learn(ctx, "berry7", "Berry8!", report, strongerReport(report), settings, 1.0))
	}

	query := weakReport(model.PatternNumeric, 6)
	query.StrengthLevel = model.LevelModerate
	prediction := store.Predict(query)

	assert.Equal(t, neighborCount, prediction.NeighborCount)
	assert.False(t, prediction.Settings.CharacterSubstitution,
		"unanimous neighbor vote against substitution must carry")
}

func TestPredict_HeuristicsOverrideVotes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings := model.DefaultSettings()
	settings.CharacterSubstitution = false
	settings.AddYear = false
	for i := 0; i < 6; i++ {
		report := weakReport(model.PatternCommon, 8)
		require.NoError(t, store.Learn(ctx, "password", "P@ssw0rd", report, strongerReport(report), settings, 1.0))
	}

	query := weakReport(model.PatternCommon, 8)
	query.StrengthLevel = model.LevelVeryWeak
	query.IsCommon = true
	prediction := store.Predict(query)

	assert.True(t, prediction.Settings.CharacterSubstitution, "very weak forces substitution")
	assert.True(t, prediction.Settings.AddYear, "very weak forces the year")
	assert.True(t, prediction.Settings.IntelligentPatterns, "common password forces intelligent patterns")
}

func TestPredict_IntensityFollowsRates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings := model.DefaultSettings()
	settings.Intensity = model.IntensityAggressive
	for i := 0; i < 5; i++ {
		report := weakReport(model.PatternAlphabetic, 7)
		require.NoError(t, store.Learn(ctx, "drizzle", "drizzle", report, report, settings, 0.0))
	}

	prediction := store.Predict(weakReport(model.PatternAlphabetic, 7))
	assert.Equal(t, model.IntensityModerate, prediction.Intensity,
		"failing aggressive runs must fall behind the moderate prior")
}

func TestInsights(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, 0, store.Insights().TotalRecords)

	settings := model.DefaultSettings()
	for i := 0; i < 4; i++ {
		report := weakReport(model.PatternNumeric, 6)
		require.NoError(t, store.Learn(ctx, "123456", "Pass123457!", report, strongerReport(report), settings, 0.8))
	}
	report := weakReport(model.PatternAlphabetic, 7)
	require.NoError(t, store.Learn(ctx, "drizzle", "Drizzl3!", report, strongerReport(report), settings, 0.6))

	insights := store.Insights()
	assert.Equal(t, 5, insights.TotalRecords)
	assert.Equal(t, 2, insights.PatternsLearned)
	assert.Equal(t, 4, insights.PatternDistribution[model.PatternNumeric])
	assert.InDelta(t, 40.0, insights.AverageImprovement, 0.01)
	assert.InDelta(t, 0.76, insights.AverageSuccess, 0.001)
	assert.NotEmpty(t, insights.RatesByKey)
	assert.NotEmpty(t, insights.BestSettings)
	assert.LessOrEqual(t, len(insights.BestSettings), 5)
	for _, perf := range insights.BestSettings {
		assert.GreaterOrEqual(t, perf.Samples, minSettingSamples)
	}
	assert.False(t, insights.ClusterModelTrained)
}
