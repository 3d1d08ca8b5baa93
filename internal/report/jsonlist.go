// Package report persists run records as JSON files: the
// missing-architecture report, per-run download results, and the pipeline
// run history. Appends are serialized under a package mutex and written via
// temp-file rename so concurrent app goroutines never lose updates.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

var mu sync.Mutex

// appendToList appends rec to the JSON array stored at path, creating the
// file if needed. Must be called with mu held.
func appendToList(path string, rec any) error {
	var list []json.RawMessage
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(data) > 0 {
			if err := json.Unmarshal(data, &list); err != nil {
				return fmt.Errorf("existing report %s is not a JSON list: %w", path, err)
			}
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read report %s: %w", path, err)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	list = append(list, raw)

	return writeJSON(path, list)
}

// writeJSON writes v to path atomically via a temp file rename.
func writeJSON(path string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
