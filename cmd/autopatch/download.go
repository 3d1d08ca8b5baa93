package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/autopatch/internal/config"
	"github.com/jonathan/autopatch/internal/discovery"
	"github.com/jonathan/autopatch/internal/download"
	"github.com/jonathan/autopatch/internal/observability"
	"github.com/jonathan/autopatch/internal/patches"
	"github.com/jonathan/autopatch/internal/pipeline"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Discover and download app packages for all configured apps",
	Long: "Reads the apps configuration and the patch-compatibility analysis, walks each " +
		"app's catalog pages, and downloads one artifact per requested architecture.",
	RunE: runDownload,
}

var (
	downloadConfigPath string
	downloadBaseDir    string
	downloadTrigger    string
	downloadVerbose    bool
	downloadNoProgress bool
)

func init() {
	downloadCmd.Flags().StringVarP(&downloadConfigPath, "config", "c", "config/apps.json", "Path to apps configuration file")
	downloadCmd.Flags().StringVar(&downloadBaseDir, "base-dir", ".", "Base directory for downloads, logs, and tools")
	downloadCmd.Flags().StringVar(&downloadTrigger, "trigger", "manual", "Trigger label recorded in the run history")
	downloadCmd.Flags().BoolVarP(&downloadVerbose, "verbose", "v", false, "Enable debug logging")
	downloadCmd.Flags().BoolVar(&downloadNoProgress, "no-progress", false, "Disable the console progress display")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	logger := newLogger(os.Stderr, downloadVerbose)
	ctx := log.WithContext(context.Background(), logger)

	cfg, err := config.Load(downloadConfigPath)
	if err != nil {
		return err
	}

	run := discovery.NewRunContext(downloadBaseDir)
	analysis, err := patches.Load(run.AnalysisPath())
	if err != nil {
		return err
	}
	if len(analysis) == 0 {
		logger.Warn("no patch analysis found; apps fall back to unconstrained discovery")
	}

	// Progress implementation is chosen once here, never inside the
	// download loop.
	var progress download.Progress = download.NewConsoleProgress(os.Stdout)
	if downloadNoProgress {
		progress = download.NopProgress{}
	}

	summary, err := pipeline.Run(ctx, pipeline.Options{
		Config:   cfg,
		Analysis: analysis,
		Run:      run,
		Trigger:  downloadTrigger,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRunSummary(summary.Results)

	switch summary.Outcome() {
	case pipeline.OutcomeNoneSucceeded:
		return &exitCodeError{code: 2, msg: "all downloads failed"}
	case pipeline.OutcomePartial:
		fmt.Fprintln(os.Stdout, "Some apps failed; see the summary above.")
	}
	return nil
}
