// Package discovery drives per-app artifact discovery: choosing a version
// strategy, walking version pages, and accumulating at most one retained
// variant per architecture.
package discovery

import (
	"os"
	"path/filepath"
)

// RunContext resolves every filesystem location used during one run. It is
// constructed once and passed to the components that need paths; nothing
// resolves a path from ambient globals.
type RunContext struct {
	baseDir string
}

// NewRunContext creates a RunContext rooted at baseDir.
func NewRunContext(baseDir string) *RunContext {
	return &RunContext{baseDir: baseDir}
}

// DownloadsDir is where per-app artifact directories live.
func (r *RunContext) DownloadsDir() string {
	return filepath.Join(r.baseDir, "downloads")
}

// AppDir is the artifact directory for one package.
func (r *RunContext) AppDir(packageName string) string {
	return filepath.Join(r.DownloadsDir(), packageName)
}

// MissingReportPath is the persisted missing-architecture report.
func (r *RunContext) MissingReportPath() string {
	return filepath.Join(r.DownloadsDir(), "missing_architectures.json")
}

// ResultsPath is the per-run download results summary.
func (r *RunContext) ResultsPath() string {
	return filepath.Join(r.DownloadsDir(), "download_results.json")
}

// AnalysisPath is the patch-compatibility analysis consumed by discovery.
func (r *RunContext) AnalysisPath() string {
	return filepath.Join(r.DownloadsDir(), "patch_analysis.json")
}

// LogsDir holds the run history.
func (r *RunContext) LogsDir() string {
	return filepath.Join(r.baseDir, "logs")
}

// HistoryPath is the persisted pipeline run history.
func (r *RunContext) HistoryPath() string {
	return filepath.Join(r.LogsDir(), "pipeline_history.json")
}

// ToolsDir holds the external patching CLI and its patch definitions.
func (r *RunContext) ToolsDir() string {
	return filepath.Join(r.baseDir, "tools")
}

// EnsureDirs creates the writable directories for a run.
func (r *RunContext) EnsureDirs() error {
	for _, dir := range []string{r.DownloadsDir(), r.LogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
