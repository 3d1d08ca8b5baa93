package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/autopatch/internal/discovery"
	"github.com/jonathan/autopatch/internal/patcher"
	"github.com/jonathan/autopatch/internal/report"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Patch previously downloaded artifacts with the external tool",
	Long: "Reads the download results of the last run and invokes the external patching " +
		"CLI on every downloaded artifact. Missing tool files abort the run.",
	RunE: runPatch,
}

var (
	patchBaseDir    string
	patchMaxRetries int
	patchVerbose    bool
)

func init() {
	patchCmd.Flags().StringVar(&patchBaseDir, "base-dir", ".", "Base directory for downloads, logs, and tools")
	patchCmd.Flags().IntVar(&patchMaxRetries, "max-retries", 3, "Patch attempts per artifact")
	patchCmd.Flags().BoolVarP(&patchVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(patchCmd)
}

func runPatch(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	logger := newLogger(os.Stderr, patchVerbose)
	ctx := log.WithContext(context.Background(), logger)

	run := discovery.NewRunContext(patchBaseDir)

	// Missing tool files are a configuration error, distinct from a run
	// that patched nothing.
	tools, err := patcher.FindTools(run.ToolsDir())
	if err != nil {
		return err
	}

	results, err := report.LoadResults(run.ResultsPath())
	if err != nil {
		return err
	}

	patched, failed := 0, 0
	for _, item := range results.Successful {
		for _, apkPath := range item.Paths {
			arch := patcher.ArchFromFilename(apkPath)
			outPath := patcher.PatchedPath(apkPath)
			logger.Info("patching artifact", "app", item.App, "arch", arch, "apk", apkPath)

			if err := tools.Patch(ctx, apkPath, outPath, patchMaxRetries); err != nil {
				logger.Error("patching failed", "apk", apkPath, "err", err)
				failed++
				continue
			}
			logger.Info("patched", "out", outPath)
			patched++
		}
	}

	logger.Info("patch run complete", "patched", patched, "failed", failed)
	if patched == 0 && failed > 0 {
		return &exitCodeError{code: 2, msg: "all patch attempts failed"}
	}
	return nil
}
