package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/patchline/passforge/internal/cli"
	"github.com/patchline/passforge/internal/common"
	"github.com/patchline/passforge/internal/loader"
	"github.com/patchline/passforge/internal/model"
	"github.com/patchline/passforge/internal/recommend"
	"github.com/patchline/passforge/internal/transform"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func transformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform [password]",
		Short: "Transform weak passwords into stronger ones",
		Long: `Transform one password or a whole credential file. Transformation
settings come from configuration (transform.* keys) unless --adaptive is
set, in which case the learned recommendation for each password is used.

Every transformation feeds the learning loop with an outcome inferred
from the strength improvement, unless --no-learn is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTransform,
	}

	cmd.Flags().StringP("input", "i", "", "Credential file to transform (txt or csv)")
	cmd.Flags().StringP("output", "o", "", "Output file for transformed credentials")
	cmd.Flags().Bool("adaptive", false, "Use learned recommendations instead of configured settings")
	cmd.Flags().Bool("no-learn", false, "Do not record transformation outcomes")
	cmd.Flags().String("intensity", "", "Override transformation intensity (conservative, moderate, aggressive)")

	_ = viper.BindPFlag("transform.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("transform.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("transform.adaptive", cmd.Flags().Lookup("adaptive"))
	_ = viper.BindPFlag("transform.no_learn", cmd.Flags().Lookup("no-learn"))

	return cmd
}

func runTransform(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, cleanup, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	adaptive := viper.GetBool("transform.adaptive")
	learnOutcomes := !viper.GetBool("transform.no_learn")

	settings := settingsFromConfig()
	if override, _ := cmd.Flags().GetString("intensity"); override != "" {
		intensity := model.Intensity(override)
		if !intensity.Valid() {
			return fmt.Errorf("invalid intensity: %s", override)
		}
		settings.Intensity = intensity
		// An explicit override is an implicit preference signal.
		if learnOutcomes {
			p.behavior.RecordSettingChange(ctx, model.SettingIntensity, override)
		}
	}

	inputPath := viper.GetString("transform.input")
	if inputPath == "" {
		if len(args) == 0 {
			return fmt.Errorf("provide a password argument or --input file")
		}
		return transformOne(ctx, p, args[0], settings, adaptive, learnOutcomes)
	}
	return transformBatch(ctx, p, inputPath, settings, adaptive, learnOutcomes)
}

func transformOne(ctx context.Context, p *pipeline, password string, settings model.Settings, adaptive, learnOutcomes bool) error {
	before := p.analyzer.Analyze(password)
	if adaptive {
		recommendation := p.recommend.Recommend(before, "", recommend.RequestContext{})
		settings = recommendation.Settings
	}

	transformed := p.transform.Transform(password, before, settings)
	after := p.analyzer.Analyze(transformed)

	if learnOutcomes {
		recordOutcome(ctx, p, password, transformed, before, after, settings)
	}

	content := fmt.Sprintf(`Original:    %s  (%s, score %s)
Transformed: %s  (%s, score %s)
Improvement: %+.1f`,
		password, before.StrengthLevel, cli.FormatScore(before.StrengthScore),
		transformed, after.StrengthLevel, cli.FormatScore(after.StrengthScore),
		after.StrengthScore-before.StrengthScore,
	)
	for _, change := range transform.DescribeChanges(password, transformed) {
		content += "\n  • " + change
	}
	fmt.Println(cli.RenderBox("Transformation", content))
	return nil
}

func transformBatch(ctx context.Context, p *pipeline, inputPath string, settings model.Settings, adaptive, learnOutcomes bool) error {
	files := loader.NewLoader(nil)
	result, err := files.Load(inputPath)
	if err != nil {
		return err
	}
	if result.Skipped > 0 {
		slog.Warn("Skipped malformed input lines", "count", result.Skipped)
	}
	if len(result.Entries) == 0 {
		fmt.Println(cli.FormatWarning("No credentials to transform"))
		return nil
	}

	bar := progressbar.NewOptions(len(result.Entries),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Transforming credentials...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	transformed := make([]loader.Entry, len(result.Entries))
	skipped := 0
	for i, entry := range result.Entries {
		before := p.analyzer.Analyze(entry.Password)
		itemSettings := settings
		if adaptive {
			recommendation := p.recommend.Recommend(before, entry.Identifier, recommend.RequestContext{BatchProcessing: true})
			itemSettings = recommendation.Settings
		}

		// TransformAll isolates per-item panics; failed items keep their
		// original password and count as skipped.
		results, itemSkipped := p.transform.TransformAll(
			[]string{entry.Password},
			[]model.StrengthReport{before},
			itemSettings,
		)
		skipped += itemSkipped
		transformed[i] = loader.Entry{Identifier: entry.Identifier, Password: results[0].Transformed}

		if learnOutcomes && itemSkipped == 0 {
			after := p.analyzer.Analyze(results[0].Transformed)
			recordOutcome(ctx, p, entry.Password, results[0].Transformed, before, after, itemSettings)
		}
		_ = bar.Add(1)
	}

	outputPath := viper.GetString("transform.output")
	if outputPath != "" {
		if err := files.Save(outputPath, transformed); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d transformed credentials to %s", len(transformed), outputPath)))
	} else {
		for _, entry := range transformed {
			if entry.Identifier != "" {
				fmt.Printf("%s:%s\n", entry.Identifier, entry.Password)
			} else {
				fmt.Println(entry.Password)
			}
		}
	}

	if skipped > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d credentials could not be transformed and kept their original password", skipped)))
	}
	common.LogInfo("Batch transformation complete", common.Fields{
		"total":   len(result.Entries),
		"skipped": skipped,
	})
	return nil
}

// recordOutcome feeds a transformation into the pattern store with a
// success score inferred from the strength delta. Learning failures are
// logged, never fatal.
func recordOutcome(ctx context.Context, p *pipeline, original, transformed string, before, after model.StrengthReport, settings model.Settings) {
	delta := after.StrengthScore - before.StrengthScore
	successScore := 0.5 + delta/100
	if successScore < 0 {
		successScore = 0
	}
	if successScore > 1 {
		successScore = 1
	}

	if err := p.patterns.Learn(ctx, original, transformed, before, after, settings, successScore); err != nil {
		slog.Warn("Failed to record transformation outcome", "error", err)
	}
}
