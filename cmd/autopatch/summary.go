package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/autopatch/internal/discovery"
	"github.com/jonathan/autopatch/internal/observability"
	"github.com/jonathan/autopatch/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print pipeline history and missing-architecture statistics",
	RunE:  runSummary,
}

var summaryBaseDir string

func init() {
	summaryCmd.Flags().StringVar(&summaryBaseDir, "base-dir", ".", "Base directory for downloads, logs, and tools")

	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	run := discovery.NewRunContext(summaryBaseDir)
	printer := observability.NewPrinter(os.Stdout)

	history, err := report.ReadHistory(run.HistoryPath())
	if err != nil {
		return err
	}
	printer.PrintHistoryStats(report.SummarizeHistory(history))

	missing, err := report.ReadMissing(run.MissingReportPath())
	if err != nil {
		return err
	}
	printer.PrintMissingReport(missing)

	return nil
}
