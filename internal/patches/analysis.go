// Package patches consumes the patch-compatibility analysis produced by the
// external patch tooling. Discovery uses it to pick a version strategy per
// app; this package never produces the analysis itself.
package patches

import (
	"encoding/json"
	"fmt"
	"os"
)

// AppAnalysis holds the version constraints the patch set imposes on one
// package.
type AppAnalysis struct {
	SupportedVersions  []string `json:"supported_versions"`
	RecommendedVersion string   `json:"recommended_version"`
	SupportsAnyVersion bool     `json:"supports_any_version"`
}

// Analysis maps package names to their patch-compatibility constraints.
type Analysis map[string]AppAnalysis

// Load reads an analysis file. A missing file yields an empty Analysis so
// apps fall back to unconstrained discovery; a malformed file is an error.
func Load(path string) (Analysis, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Analysis{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read patch analysis %s: %w", path, err)
	}

	var analysis Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse patch analysis %s: %w", path, err)
	}
	return analysis, nil
}

// For returns the analysis for a package, if present.
func (a Analysis) For(packageName string) (AppAnalysis, bool) {
	info, ok := a[packageName]
	return info, ok
}
