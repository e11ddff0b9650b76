package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/patchline/passforge/internal/analyzer"
	"github.com/patchline/passforge/internal/behavior"
	"github.com/patchline/passforge/internal/common"
	"github.com/patchline/passforge/internal/config"
	"github.com/patchline/passforge/internal/learn"
	"github.com/patchline/passforge/internal/model"
	"github.com/patchline/passforge/internal/recommend"
	"github.com/patchline/passforge/internal/storage"
	"github.com/patchline/passforge/internal/strategy"
	"github.com/patchline/passforge/internal/transform"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/passforge/passforge.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	common.LogDebug("Opened learning database", common.Fields{"path": dbPath})
	return store, nil
}

// pipeline bundles the analyzer, transformation engine, and adaptive loop
// a command needs, plus the storage cleanup.
type pipeline struct {
	analyzer  *analyzer.Analyzer
	transform *transform.Engine
	patterns  *learn.PatternStore
	behavior  *behavior.BehaviorStore
	recommend *recommend.Engine
	store     *storage.SQLiteStorage
}

// initPipeline wires the full adaptive loop over SQLite storage. The
// returned cleanup closes the database.
func initPipeline(ctx context.Context) (*pipeline, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, common.NewUserError("could not open the learning database", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}

	patterns := learn.NewPatternStore(ctx, store, nil)
	behaviors := behavior.NewBehaviorStore(ctx, store, nil)

	p := &pipeline{
		analyzer:  analyzer.New(),
		transform: transform.NewEngine(strategy.NewLibrary(rand.New(rand.NewSource(time.Now().UnixNano())))),
		patterns:  patterns,
		behavior:  behaviors,
		recommend: recommend.NewEngine(patterns, behaviors, nil),
		store:     store,
	}
	return p, cleanup, nil
}

// settingsFromConfig reads the transform.* configuration keys.
func settingsFromConfig() model.Settings {
	return model.ParseSettings(map[string]any{
		model.SettingCharacterSubstitution: viper.GetBool("transform.character_substitution"),
		model.SettingAddYear:               viper.GetBool("transform.add_year"),
		model.SettingIntelligentPatterns:   viper.GetBool("transform.intelligent_patterns"),
		model.SettingPreserveStrong:        viper.GetBool("transform.preserve_strong"),
		model.SettingIncrementNumbers:      viper.GetBool("transform.increment_numbers"),
		model.SettingIntensity:             viper.GetString("transform.intensity"),
	})
}
