package report

import (
	"os"
	"time"

	"github.com/google/uuid"
)

// RunStats aggregates one pipeline run.
type RunStats struct {
	AppsProcessed       int `json:"apps_processed"`
	AppsSuccessful      int `json:"apps_successful"`
	AppsFailed          int `json:"apps_failed"`
	ArtifactsDownloaded int `json:"artifacts_downloaded"`
}

// AppOutcome is the per-app line item of a run record.
type AppOutcome struct {
	App       string `json:"app"`
	Package   string `json:"package_name"`
	Success   bool   `json:"success"`
	Artifacts int    `json:"artifacts"`
	Error     string `json:"error,omitempty"`
}

// RunRecord is one entry of the persisted pipeline history.
type RunRecord struct {
	ID        string       `json:"run_id"`
	Trigger   string       `json:"trigger"`
	Timestamp string       `json:"timestamp"`
	Stats     RunStats     `json:"stats"`
	Apps      []AppOutcome `json:"apps"`
}

// NewRunRecord creates a record with a fresh run ID and current timestamp.
func NewRunRecord(trigger string) RunRecord {
	return RunRecord{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// AppendHistory appends a run record to the history file at path.
func AppendHistory(path string, rec RunRecord) error {
	mu.Lock()
	defer mu.Unlock()
	return appendToList(path, rec)
}

// ReadHistory loads the run history. A missing file is an empty history.
func ReadHistory(path string) ([]RunRecord, error) {
	mu.Lock()
	defer mu.Unlock()

	var records []RunRecord
	if err := readJSON(path, &records); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

// HistoryStats summarizes a loaded history.
type HistoryStats struct {
	TotalRuns      int
	SuccessfulRuns int
	TotalArtifacts int
	LastRun        string
}

// SummarizeHistory computes aggregate statistics over history records.
func SummarizeHistory(records []RunRecord) HistoryStats {
	stats := HistoryStats{TotalRuns: len(records)}
	for _, rec := range records {
		if rec.Stats.AppsFailed == 0 && rec.Stats.AppsSuccessful > 0 {
			stats.SuccessfulRuns++
		}
		stats.TotalArtifacts += rec.Stats.ArtifactsDownloaded
		stats.LastRun = rec.Timestamp
	}
	return stats
}
