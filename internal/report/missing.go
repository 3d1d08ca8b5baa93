package report

import (
	"os"
	"time"
)

// MissingRecord documents the requested-but-unresolved architectures of one
// app run.
type MissingRecord struct {
	App             string   `json:"app"`
	Package         string   `json:"package_name"`
	Requested       []string `json:"requested_architectures"`
	Found           []string `json:"found_architectures"`
	Missing         []string `json:"missing_architectures"`
	VersionsChecked []string `json:"versions_checked"`
	Timestamp       string   `json:"timestamp"`
}

// AppendMissing appends a record to the missing-architecture report at path.
// The record's timestamp is filled in when empty.
func AppendMissing(path string, rec MissingRecord) error {
	mu.Lock()
	defer mu.Unlock()

	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return appendToList(path, rec)
}

// ReadMissing loads the missing-architecture report. A missing file is an
// empty report.
func ReadMissing(path string) ([]MissingRecord, error) {
	mu.Lock()
	defer mu.Unlock()

	var records []MissingRecord
	if err := readJSON(path, &records); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}
