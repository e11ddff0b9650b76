package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/patchline/passforge/internal/behavior"
	"github.com/patchline/passforge/internal/learn"
	"github.com/patchline/passforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The stores must reproduce identical aggregate rates and preference
// confidences after a save/load cycle through SQLite.
func TestStoreRoundTrip_PatternStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roundtrip.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))

	patterns := learn.NewPatternStore(ctx, store, nil)
	before := model.StrengthReport{
		PatternType:   model.PatternNumeric,
		StrengthLevel: model.LevelWeak,
		Length:        6,
		DigitCount:    6,
		StrengthScore: 25,
		HasDigits:     true,
	}
	after := before
	after.StrengthScore = 70
	after.StrengthLevel = model.LevelStrong

	for i := 0; i < 7; i++ {
		require.NoError(t, patterns.Learn(ctx, "123456", "Pass123457!", before, after, model.DefaultSettings(), 0.9))
	}
	wantPattern := patterns.Rate(model.RateKey(model.PatternNumeric, ""), 0)
	wantIntensity := patterns.Rate(model.RateKey(model.PatternNumeric, model.IntensityModerate), 0)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	reloaded := learn.NewPatternStore(ctx, reopened, nil)
	assert.Equal(t, 7, reloaded.HistorySize())
	assert.InDelta(t, wantPattern, reloaded.Rate(model.RateKey(model.PatternNumeric, ""), 0), 1e-9)
	assert.InDelta(t, wantIntensity, reloaded.Rate(model.RateKey(model.PatternNumeric, model.IntensityModerate), 0), 1e-9)
}

func TestStoreRoundTrip_BehaviorStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roundtrip.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))

	behaviors := behavior.NewBehaviorStore(ctx, store, nil)
	event := model.FeedbackEvent{
		BeforeLevel: model.LevelWeak,
		AfterLevel:  model.LevelStrong,
		PatternType: model.PatternNumeric,
		Settings:    model.DefaultSettings(),
		Rating:      7,
		Accepted:    true,
	}
	require.NoError(t, behaviors.RecordFeedback(ctx, event))
	behaviors.RecordSettingChange(ctx, model.SettingAddYear, false)

	key := model.PreferenceKey(model.PatternNumeric, model.SettingAddYear)
	want, ok := behaviors.Preference(key)
	require.True(t, ok)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	reloaded := behavior.NewBehaviorStore(ctx, reopened, nil)
	got, ok := reloaded.Preference(key)
	require.True(t, ok)
	assert.Equal(t, want.Value, got.Value)
	assert.InDelta(t, want.Confidence, got.Confidence, 1e-9)
	assert.Equal(t, want.Count, got.Count)

	general, ok := reloaded.Preference(model.SettingAddYear)
	require.True(t, ok)
	assert.Equal(t, false, general.Value)

	analysis := reloaded.Analyze()
	assert.Equal(t, 1, analysis.RecentFeedback)
}
