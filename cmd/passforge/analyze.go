package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/patchline/passforge/internal/analyzer"
	"github.com/patchline/passforge/internal/cli"
	"github.com/patchline/passforge/internal/loader"
	"github.com/patchline/passforge/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [password]",
		Short: "Analyze password strength",
		Long: `Analyze one password or a whole credential file and report structural
pattern, character composition, entropy, and the overall strength score.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringP("input", "i", "", "Credential file to analyze (txt or csv)")
	cmd.Flags().Bool("json", false, "Emit the report as JSON")

	_ = viper.BindPFlag("analyze.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("analyze.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runAnalyze(_ *cobra.Command, args []string) error {
	inputPath := viper.GetString("analyze.input")
	asJSON := viper.GetBool("analyze.json")
	a := analyzer.New()

	if inputPath == "" {
		if len(args) == 0 {
			return fmt.Errorf("provide a password argument or --input file")
		}
		report := a.Analyze(args[0])
		if asJSON {
			return printJSON(report)
		}
		fmt.Println(renderReport(report))
		return nil
	}

	result, err := loader.NewLoader(nil).Load(inputPath)
	if err != nil {
		return err
	}

	reports := make([]model.StrengthReport, len(result.Entries))
	counts := make(map[model.StrengthLevel]int)
	for i, entry := range result.Entries {
		reports[i] = a.Analyze(entry.Password)
		counts[reports[i].StrengthLevel]++
	}
	if asJSON {
		return printJSON(reports)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Entries analyzed: %d\n", len(result.Entries))
	if result.Skipped > 0 {
		fmt.Fprintf(&b, "Malformed lines skipped: %d\n", result.Skipped)
	}
	for _, level := range []model.StrengthLevel{
		model.LevelVeryWeak, model.LevelWeak, model.LevelModerate,
		model.LevelStrong, model.LevelVeryStrong,
	} {
		if counts[level] > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", cli.FormatLevel(level), counts[level])
		}
	}
	fmt.Println(cli.RenderBox("Strength Analysis", strings.TrimRight(b.String(), "\n")))
	return nil
}

func renderReport(report model.StrengthReport) string {
	content := fmt.Sprintf(`Pattern: %s
Level: %s
Score: %s
Length: %d (digits %d, upper %d, lower %d, special %d)
Entropy: %.2f bits
Diversity: %.2f`,
		report.PatternType,
		cli.FormatLevel(report.StrengthLevel),
		cli.FormatScore(report.StrengthScore),
		report.Length, report.DigitCount, report.UppercaseCount,
		report.LowercaseCount, report.SpecialCount,
		report.Entropy,
		report.Diversity,
	)

	var flags []string
	if report.IsCommon {
		flags = append(flags, "common password")
	}
	if report.HasKeyboardRun {
		flags = append(flags, "keyboard pattern")
	}
	if report.HasSequential {
		flags = append(flags, "sequential characters")
	}
	if report.HasRepeatedChars {
		flags = append(flags, "repeated characters")
	}
	if report.HasDictionaryWord {
		flags = append(flags, "dictionary word")
	}
	if len(flags) > 0 {
		content += "\n" + cli.WarningStyle.Render("Weaknesses: "+strings.Join(flags, ", "))
	}

	return cli.RenderBox("Strength Report", content)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
