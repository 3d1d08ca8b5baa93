package observability

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/autopatch/internal/report"
)

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(&report.RunResults{
		Successful: []report.AppResult{{App: "YouTube", Count: 2}},
		Failed:     []report.AppFailure{{App: "Photos", Error: "no versions found"}},
	})

	out := buf.String()
	assert.Contains(t, out, "Download Summary")
	assert.Contains(t, out, "YouTube: 2 artifact(s)")
	assert.Contains(t, out, "Photos: no versions found")
	assert.Contains(t, out, "Artifacts:       2")
}

func TestPrintRunSummary_NilResults(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintMissingReport_ShowsLastFive(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var records []report.MissingRecord
	for i := 0; i < 8; i++ {
		records = append(records, report.MissingRecord{
			App:     fmt.Sprintf("app-%d", i),
			Missing: []string{"x86"},
		})
	}
	p.PrintMissingReport(records)

	out := buf.String()
	assert.Contains(t, out, "showing last 5 of 8")
	assert.NotContains(t, out, "app-2")
	assert.Contains(t, out, "app-7")
}

func TestPrintMissingReport_EmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMissingReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintHistoryStats(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintHistoryStats(report.HistoryStats{
		TotalRuns:      4,
		SuccessfulRuns: 3,
		TotalArtifacts: 9,
		LastRun:        "2026-08-29T10:00:00Z",
	})

	out := buf.String()
	assert.Contains(t, out, "Pipeline History")
	assert.Contains(t, out, "Total runs:      4")
	assert.Contains(t, out, "2026-08-29T10:00:00Z")
}
