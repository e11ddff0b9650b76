package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/patchline/passforge/internal/cli"
	"github.com/patchline/passforge/internal/common"
	"github.com/patchline/passforge/internal/recommend"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <original> <transformed>",
		Short: "Record your verdict on a transformation",
		Long: `Record whether a transformation was accepted and how you rate it on a
0-10 scale. The verdict feeds both learning stores so future
recommendations reflect your preferences.`,
		Args: cobra.ExactArgs(2),
		RunE: runFeedback,
	}

	cmd.Flags().IntP("rating", "r", 5, "Rating from 0 (useless) to 10 (perfect)")
	cmd.Flags().Bool("accepted", true, "Whether you kept the transformed password")
	cmd.Flags().String("session", "", "Session identifier (generated when empty)")

	_ = viper.BindPFlag("feedback.rating", cmd.Flags().Lookup("rating"))
	_ = viper.BindPFlag("feedback.accepted", cmd.Flags().Lookup("accepted"))
	_ = viper.BindPFlag("feedback.session", cmd.Flags().Lookup("session"))

	return cmd
}

func runFeedback(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rating := viper.GetInt("feedback.rating")
	if err := validateRating(rating); err != nil {
		return err
	}

	sessionID := viper.GetString("feedback.session")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	p, cleanup, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	original, transformed := args[0], args[1]
	input := recommend.FeedbackInput{
		Original:    original,
		Transformed: transformed,
		Before:      p.analyzer.Analyze(original),
		After:       p.analyzer.Analyze(transformed),
		Settings:    settingsFromConfig(),
		Rating:      rating,
		Accepted:    viper.GetBool("feedback.accepted"),
		SessionID:   sessionID,
	}

	if err := p.recommend.LearnFromFeedback(ctx, input); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Feedback recorded (session %s)", sessionID)))
	return nil
}

func validateRating(rating int) error {
	if rating < 0 || rating > 10 {
		return fmt.Errorf("%w: rating must be between 0 and 10, got %d", common.ErrMalformedInput, rating)
	}
	return nil
}
