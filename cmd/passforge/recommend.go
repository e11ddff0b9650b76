package main

import (
	"fmt"
	"strings"

	"github.com/patchline/passforge/internal/cli"
	"github.com/patchline/passforge/internal/model"
	"github.com/patchline/passforge/internal/recommend"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <password>",
		Short: "Recommend transformation settings for a password",
		Long: `Produce a merged settings recommendation for one password, combining
learned pattern statistics, personal preference history, and situational
context such as the account's email domain.`,
		Args: cobra.ExactArgs(1),
		RunE: runRecommend,
	}

	cmd.Flags().StringP("email", "e", "", "Account email, used for domain-specific adjustments")
	cmd.Flags().Bool("high-security", false, "Treat this as a high-security context")
	cmd.Flags().Bool("batch", false, "Treat this as part of a batch run")
	cmd.Flags().Bool("json", false, "Emit the recommendation as JSON")

	_ = viper.BindPFlag("recommend.email", cmd.Flags().Lookup("email"))
	_ = viper.BindPFlag("recommend.high_security", cmd.Flags().Lookup("high-security"))
	_ = viper.BindPFlag("recommend.batch", cmd.Flags().Lookup("batch"))
	_ = viper.BindPFlag("recommend.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, cleanup, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	report := p.analyzer.Analyze(args[0])
	recommendation := p.recommend.Recommend(report, viper.GetString("recommend.email"), recommend.RequestContext{
		HighSecurity:    viper.GetBool("recommend.high_security"),
		BatchProcessing: viper.GetBool("recommend.batch"),
	})

	if viper.GetBool("recommend.json") {
		return printJSON(recommendation)
	}

	fmt.Println(renderRecommendation(recommendation))
	return nil
}

func renderRecommendation(r model.Recommendation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Intensity: %s\n", r.Intensity)
	fmt.Fprintf(&b, "Confidence: %.3f\n", r.Confidence)
	if r.Personalized {
		fmt.Fprintf(&b, "%s\n", cli.InfoStyle.Render("Personalized from your feedback history"))
	}

	b.WriteString("\nSettings:\n")
	for _, name := range model.BooleanSettingNames {
		value, _ := r.Settings.BoolSetting(name)
		marker := cli.ErrorIcon
		if value {
			marker = cli.SuccessIcon
		}
		fmt.Fprintf(&b, "  %s %s\n", marker, name)
	}

	prediction := r.Effectiveness
	fmt.Fprintf(&b, "\nPredicted: %.1f → %.1f (+%.1f), success probability %.2f (%s)\n",
		prediction.CurrentScore, prediction.PredictedScore, prediction.PredictedGain,
		prediction.SuccessProbability, prediction.ConfidenceLevel)

	if len(r.Reasoning) > 0 {
		b.WriteString("\nReasoning:\n")
		for _, reason := range r.Reasoning {
			fmt.Fprintf(&b, "  • %s\n", reason)
		}
	}

	if len(r.Alternatives) > 0 {
		b.WriteString("\nAlternatives:\n")
		for _, alt := range r.Alternatives {
			fmt.Fprintf(&b, "  %s: %s\n", cli.BoldStyle.Render(alt.Name), alt.Description)
		}
	}

	return cli.RenderBox("Recommendation", strings.TrimRight(b.String(), "\n"))
}
