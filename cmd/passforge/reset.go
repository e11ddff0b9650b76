package main

import (
	"fmt"
	"os"

	"github.com/patchline/passforge/internal/cli"
	"github.com/spf13/cobra"
)

var resetForce bool

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all learned data",
		Long: `Reset deletes the transformation history, success rates, learned
preferences, and feedback events.

This is a destructive operation. The learning loop starts from scratch
afterwards.`,
		RunE: runReset,
	}
	cmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func runReset(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	p, cleanup, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	insights := p.patterns.Insights()
	analysis := p.behavior.Analyze()
	if insights.TotalRecords == 0 && analysis.TotalPreferences == 0 {
		fmt.Fprintln(os.Stdout, "No learned data found. Nothing to reset.")
		return nil
	}

	// Confirm with user unless --force is used
	if !resetForce {
		fmt.Fprintf(os.Stdout, "This will delete %d transformation records and %d learned preferences.\n",
			insights.TotalRecords, analysis.TotalPreferences)
		fmt.Fprintf(os.Stdout, "\nAre you sure you want to continue? [y/N]: ")

		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if response != "y" && response != "Y" {
			fmt.Fprintln(os.Stdout, "Reset canceled.")
			return nil
		}
	}

	if err := p.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset learned data: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %d transformation records and %d preferences",
		insights.TotalRecords, analysis.TotalPreferences)))
	return nil
}
