package report

import (
	"fmt"
	"os"
)

// AppResult records one app's successful downloads within a run.
type AppResult struct {
	App      string   `json:"app"`
	Package  string   `json:"package_name"`
	Paths    []string `json:"paths"`
	Count    int      `json:"count"`
	Versions []string `json:"versions_checked,omitempty"`
}

// AppFailure records one app for which nothing could be downloaded.
type AppFailure struct {
	App     string `json:"app"`
	Package string `json:"package_name"`
	Error   string `json:"error"`
}

// RunResults is the per-run success/failure summary consumed by the patch
// step.
type RunResults struct {
	Successful []AppResult  `json:"successful"`
	Failed     []AppFailure `json:"failed"`
}

// TotalArtifacts sums the downloaded artifact count across successful apps.
func (r *RunResults) TotalArtifacts() int {
	total := 0
	for _, item := range r.Successful {
		total += item.Count
	}
	return total
}

// Save writes the results file atomically.
func (r *RunResults) Save(path string) error {
	mu.Lock()
	defer mu.Unlock()
	return writeJSON(path, r)
}

// LoadResults reads a results file written by Save.
func LoadResults(path string) (*RunResults, error) {
	var results RunResults
	if err := readJSON(path, &results); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("results file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to load results %s: %w", path, err)
	}
	return &results, nil
}
