// Package patcher invokes the external command-line patching tool against
// downloaded artifacts. The tool is a black box: this package only locates
// its files, shells out, and interprets exit status.
package patcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jonathan/autopatch/internal/types"
)

// Tools holds the located patching tool files.
type Tools struct {
	CLIJar      string
	PatchesFile string
}

// ToolsError reports missing required tool files. It is a fatal
// configuration error: the run must abort rather than continue without
// patching capability.
type ToolsError struct {
	Dir     string
	Message string
}

func (e *ToolsError) Error() string {
	return fmt.Sprintf("patch tools error in %s: %s", e.Dir, e.Message)
}

// FindTools locates the patching CLI jar and the patch definitions file
// under dir.
func FindTools(dir string) (*Tools, error) {
	jars, err := filepath.Glob(filepath.Join(dir, "*cli*.jar"))
	if err != nil || len(jars) == 0 {
		return nil, &ToolsError{Dir: dir, Message: "patching CLI jar not found"}
	}
	patchFiles, err := filepath.Glob(filepath.Join(dir, "patches-*.rvp"))
	if err != nil || len(patchFiles) == 0 {
		return nil, &ToolsError{Dir: dir, Message: "patch definitions file not found"}
	}
	return &Tools{CLIJar: jars[0], PatchesFile: patchFiles[0]}, nil
}

// PatchedPath derives the output path for a patched artifact:
// {name}.apk becomes {name}-patched.apk next to the input.
func PatchedPath(apkPath string) string {
	base := strings.TrimSuffix(apkPath, ".apk")
	return base + "-patched.apk"
}

// ArchFromFilename recovers the architecture tag from an artifact filename
// of the form {package}-v{version}-{architecture}.apk.
func ArchFromFilename(name string) types.Architecture {
	base := strings.TrimSuffix(filepath.Base(name), ".apk")
	base = strings.TrimSuffix(base, "-patched")
	for _, arch := range types.AllArchitectures() {
		if strings.HasSuffix(base, "-"+string(arch)) {
			return arch
		}
	}
	return types.ArchUnknown
}

// Patch runs the external tool on one artifact, retrying on failure up to
// maxRetries attempts. The tool's combined output is logged at debug level.
func (t *Tools) Patch(ctx context.Context, apkPath, outPath string, maxRetries int) error {
	logger := log.FromContext(ctx)
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		cmd := exec.CommandContext(ctx, "java", "-jar", t.CLIJar,
			"patch",
			"--patches", t.PatchesFile,
			"--out", outPath,
			apkPath,
		)
		output, err := cmd.CombinedOutput()
		logger.Debug("patch tool output", "attempt", attempt, "output", string(output))

		if err == nil {
			if _, statErr := os.Stat(outPath); statErr == nil {
				return nil
			}
			err = fmt.Errorf("tool exited cleanly but %s was not created", outPath)
		}
		lastErr = err
		logger.Warn("patch attempt failed", "attempt", attempt, "of", maxRetries, "apk", apkPath, "err", err)
	}
	return fmt.Errorf("patching %s failed after %d attempts: %w", apkPath, maxRetries, lastErr)
}
