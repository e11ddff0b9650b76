package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/patchline/passforge/internal/cli"
	"github.com/patchline/passforge/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show what the learning loop has picked up",
		Long: `Show aggregate learning statistics: transformation history by pattern,
success rates, best-performing settings, and how confident the
preference model is about you.`,
		RunE: runStats,
	}

	cmd.Flags().Bool("json", false, "Emit the statistics as JSON")
	_ = viper.BindPFlag("stats.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	p, cleanup, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	dashboard := p.recommend.Dashboard()
	if viper.GetBool("stats.json") {
		return printJSON(dashboard)
	}

	learning := dashboard.Learning
	var b strings.Builder
	fmt.Fprintf(&b, "Transformations recorded: %d\n", learning.TotalRecords)
	fmt.Fprintf(&b, "Patterns learned: %d\n", learning.PatternsLearned)
	fmt.Fprintf(&b, "Average improvement: %.2f\n", learning.AverageImprovement)
	fmt.Fprintf(&b, "Average success rate: %.3f\n", learning.AverageSuccess)
	if learning.ClusterModelTrained {
		fmt.Fprintf(&b, "Cluster model: trained (%d clusters)\n", learning.Clusters)
	} else {
		b.WriteString("Cluster model: not yet trained\n")
	}

	if len(learning.PatternDistribution) > 0 {
		b.WriteString("\nPattern distribution:\n")
		patterns := make([]string, 0, len(learning.PatternDistribution))
		for pattern := range learning.PatternDistribution {
			patterns = append(patterns, string(pattern))
		}
		sort.Strings(patterns)
		for _, pattern := range patterns {
			fmt.Fprintf(&b, "  %-20s %d\n", pattern, learning.PatternDistribution[model.PatternType(pattern)])
		}
	}

	if len(learning.BestSettings) > 0 {
		b.WriteString("\nBest-performing settings:\n")
		for _, setting := range learning.BestSettings {
			fmt.Fprintf(&b, "  %-36s %.3f (%d samples)\n", setting.Setting, setting.AverageScore, setting.Samples)
		}
	}
	fmt.Println(cli.RenderBox(cli.ChartIcon+" Learning", strings.TrimRight(b.String(), "\n")))

	analysis := dashboard.Behavior
	b.Reset()
	fmt.Fprintf(&b, "Preferences learned: %d (%d general)\n", analysis.TotalPreferences, analysis.GeneralPreferences)
	fmt.Fprintf(&b, "Confident preferences: %d\n", analysis.ConfidentCount)
	fmt.Fprintf(&b, "Average confidence: %.3f\n", analysis.AverageConfidence)
	fmt.Fprintf(&b, "Recent feedback (30d): %d\n", analysis.RecentFeedback)
	fmt.Fprintf(&b, "Quality: %s\n", analysis.LearningQuality)

	if len(analysis.FeedbackByPattern) > 0 {
		b.WriteString("\nFeedback by pattern:\n")
		patterns := make([]string, 0, len(analysis.FeedbackByPattern))
		for pattern := range analysis.FeedbackByPattern {
			patterns = append(patterns, string(pattern))
		}
		sort.Strings(patterns)
		for _, pattern := range patterns {
			feedback := analysis.FeedbackByPattern[model.PatternType(pattern)]
			fmt.Fprintf(&b, "  %-20s rating %.2f, accepted %.0f%% (%d)\n",
				pattern, feedback.AverageRating, feedback.AcceptanceRate*100, feedback.Total)
		}
	}
	fmt.Println(cli.RenderBox(cli.BrainIcon+" Behavior", strings.TrimRight(b.String(), "\n")))

	return nil
}
