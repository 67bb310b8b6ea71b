package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/report"
	"github.com/amishk599/jobscout/internal/review"
)

var reviewDir string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse saved runs interactively (TUI)",
	Long:  "Shows the run picker TUI, then the split-pane view of the chosen run's postings.",
	RunE:  runReviewCmd,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewDir, "dir", "", "report directory (default: report.dir from config)")
	rootCmd.AddCommand(reviewCmd)
}

func runReviewCmd(cmd *cobra.Command, args []string) error {
	dir := reviewDir
	if dir == "" {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		dir = cfg.Report.Dir
	}

	snaps, err := report.ListSnapshots(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list runs: %v\n", err)
		os.Exit(1)
	}
	if len(snaps) == 0 {
		fmt.Printf("No saved runs in %s.\n", dir)
		return nil
	}

	for {
		choice, err := review.RunPicker(snaps)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}

		run, err := report.LoadSnapshot(snaps[choice].Path)
		if err != nil {
			fmt.Printf("Error loading run: %v\n", err)
			continue
		}

		wantQuit, err := review.RunReviewTUI(run)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
