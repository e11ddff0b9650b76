package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/patchline/passforge/internal/common"
	"github.com/patchline/passforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testRecord(pattern model.PatternType, successScore float64) model.MutationRecord {
	return model.MutationRecord{
		Timestamp:           time.Now().UTC().Truncate(time.Second),
		Settings:            model.DefaultSettings(),
		PatternType:         pattern,
		OriginalFeatures:    model.FeatureVector{6, 6, 0, 0, 0, 19.93, 0.5, 30, 25, 1, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0},
		TransformedFeatures: model.FeatureVector{11, 7, 1, 3, 1, 62.5, 0.9, 80, 70, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
		Summary:             model.TransformationSummary{LengthChange: 5, CharsAdded: 5},
		StrengthImprovement: 45.2,
		SuccessScore:        successScore,
	}
}

func TestNewSQLiteStorage_Validation(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = NewSQLiteStorage("   ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestMigrate_NewerSchemaVersion(t *testing.T) {
	store := createTestStorage(t)

	// A database written by a newer build carries a version this binary
	// cannot migrate to.
	_, err := store.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)

	err = store.Migrate(context.Background())
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
}

func TestMutationRecords_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	record := testRecord(model.PatternNumeric, 0.875)
	require.NoError(t, store.SaveMutationRecord(ctx, &record))
	assert.NotZero(t, record.ID)

	loaded, err := store.GetMutationRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, model.PatternNumeric, got.PatternType)
	assert.Equal(t, record.OriginalFeatures, got.OriginalFeatures)
	assert.Equal(t, record.TransformedFeatures, got.TransformedFeatures)
	assert.Equal(t, record.Summary, got.Summary)
	assert.Equal(t, record.Settings, got.Settings)
	assert.InDelta(t, 45.2, got.StrengthImprovement, 1e-9)
	assert.InDelta(t, 0.875, got.SuccessScore, 1e-9, "success scores keep at least 3 decimals")
}

func TestMutationRecords_LimitAndOrder(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	scores := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	for _, score := range scores {
		record := testRecord(model.PatternNumeric, score)
		require.NoError(t, store.SaveMutationRecord(ctx, &record))
	}

	loaded, err := store.GetMutationRecords(ctx, 3)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	// Most recent three, oldest first.
	assert.InDelta(t, 0.3, loaded[0].SuccessScore, 1e-9)
	assert.InDelta(t, 0.5, loaded[2].SuccessScore, 1e-9)

	_, err = store.GetMutationRecords(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestSaveMutationRecord_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	err := store.SaveMutationRecord(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	record := testRecord(model.PatternNumeric, 1.5)
	err = store.SaveMutationRecord(ctx, &record)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestCategoryRates_Upsert(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rate := model.CategoryRate{Key: "numeric", Rate: 0.625, Count: 3, UpdatedAt: time.Now()}
	require.NoError(t, store.SaveCategoryRate(ctx, &rate))

	rate.Rate = 0.7
	rate.Count = 4
	require.NoError(t, store.SaveCategoryRate(ctx, &rate))

	rates, err := store.GetCategoryRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "numeric", rates[0].Key)
	assert.InDelta(t, 0.7, rates[0].Rate, 1e-9)
	assert.Equal(t, 4, rates[0].Count)

	bad := model.CategoryRate{Key: "numeric", Rate: 1.5}
	assert.ErrorIs(t, store.SaveCategoryRate(ctx, &bad), ErrInvalidRate)
}

func TestPreferences_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	boolPref := model.PreferenceEntry{
		Key:        "numeric_add_year",
		Value:      false,
		Confidence: 0.725,
		Count:      4,
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, store.SavePreference(ctx, &boolPref))

	stringPref := model.PreferenceEntry{
		Key:        "numeric_intensity",
		Value:      "aggressive",
		Confidence: 0.9,
		Count:      2,
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, store.SavePreference(ctx, &stringPref))

	prefs, err := store.GetPreferences(ctx)
	require.NoError(t, err)
	require.Len(t, prefs, 2)

	byKey := make(map[string]model.PreferenceEntry, len(prefs))
	for _, p := range prefs {
		byKey[p.Key] = p
	}
	assert.Equal(t, false, byKey["numeric_add_year"].Value, "booleans survive the round trip typed")
	assert.InDelta(t, 0.725, byKey["numeric_add_year"].Confidence, 1e-9)
	assert.Equal(t, "aggressive", byKey["numeric_intensity"].Value)

	// Upsert replaces by key.
	boolPref.Confidence = 0.8
	require.NoError(t, store.SavePreference(ctx, &boolPref))
	prefs, err = store.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Len(t, prefs, 2)
}

func TestFeedbackEvents_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	event := model.FeedbackEvent{
		Timestamp:   time.Now().UTC().Truncate(time.Second),
		SessionID:   "session-1",
		BeforeLevel: model.LevelWeak,
		AfterLevel:  model.LevelStrong,
		PatternType: model.PatternNumeric,
		Settings:    model.DefaultSettings(),
		Rating:      8,
		Accepted:    true,
	}
	require.NoError(t, store.SaveFeedbackEvent(ctx, &event))
	assert.NotZero(t, event.ID)

	second := event
	second.ID = 0
	second.Rating = 3
	second.Accepted = false
	require.NoError(t, store.SaveFeedbackEvent(ctx, &second))

	events, err := store.GetFeedbackEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 8, events[0].Rating)
	assert.Equal(t, 3, events[1].Rating)
	assert.Equal(t, model.LevelWeak, events[0].BeforeLevel)
	assert.Equal(t, model.DefaultSettings(), events[0].Settings)
	assert.True(t, events[0].Accepted)
	assert.False(t, events[1].Accepted)

	bad := event
	bad.Rating = 11
	assert.ErrorIs(t, store.SaveFeedbackEvent(ctx, &bad), ErrInvalidEvent)
}

func TestReset(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	record := testRecord(model.PatternNumeric, 0.8)
	require.NoError(t, store.SaveMutationRecord(ctx, &record))
	rate := model.CategoryRate{Key: "numeric", Rate: 0.8}
	require.NoError(t, store.SaveCategoryRate(ctx, &rate))
	pref := model.PreferenceEntry{Key: "add_year", Value: true, Confidence: 0.7}
	require.NoError(t, store.SavePreference(ctx, &pref))

	require.NoError(t, store.Reset(ctx))

	records, err := store.GetMutationRecords(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	rates, err := store.GetCategoryRates(ctx)
	require.NoError(t, err)
	assert.Empty(t, rates)
	prefs, err := store.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, prefs)
}
