// Package observability provides formatted output utilities for run
// summaries on the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/autopatch/internal/report"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted summary output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs a human-readable summary of a download run.
func (p *Printer) PrintRunSummary(results *report.RunResults) {
	if results == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Apps successful: %d\n", len(results.Successful)))
	sb.WriteString(fmt.Sprintf("Apps failed:     %d\n", len(results.Failed)))
	sb.WriteString(fmt.Sprintf("Artifacts:       %d\n", results.TotalArtifacts()))

	if len(results.Successful) > 0 {
		sb.WriteString("\nSuccessful:\n")
		for _, item := range results.Successful {
			sb.WriteString(fmt.Sprintf("  • %s: %d artifact(s)\n", item.App, item.Count))
		}
	}
	if len(results.Failed) > 0 {
		sb.WriteString("\nFailed:\n")
		for _, item := range results.Failed {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", item.App, item.Error))
		}
	}

	p.printBox("Download Summary", strings.TrimRight(sb.String(), "\n"))
}

// PrintMissingReport outputs the most recent missing-architecture records.
func (p *Printer) PrintMissingReport(records []report.MissingRecord) {
	if len(records) == 0 {
		return
	}

	var sb strings.Builder
	start := 0
	if len(records) > maxItemsToShow {
		start = len(records) - maxItemsToShow
		sb.WriteString(fmt.Sprintf("(showing last %d of %d records)\n\n", maxItemsToShow, len(records)))
	}
	for _, rec := range records[start:] {
		sb.WriteString(fmt.Sprintf("%s (%s)\n", rec.App, rec.Package))
		sb.WriteString(fmt.Sprintf("  missing: %s\n", strings.Join(rec.Missing, ", ")))
		sb.WriteString(fmt.Sprintf("  checked: %s\n", strings.Join(rec.VersionsChecked, ", ")))
	}

	p.printBox("Missing Architectures", strings.TrimRight(sb.String(), "\n"))
}

// PrintHistoryStats outputs aggregate pipeline history statistics.
func (p *Printer) PrintHistoryStats(stats report.HistoryStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total runs:      %d\n", stats.TotalRuns))
	sb.WriteString(fmt.Sprintf("Clean runs:      %d\n", stats.SuccessfulRuns))
	sb.WriteString(fmt.Sprintf("Total artifacts: %d\n", stats.TotalArtifacts))
	if stats.LastRun != "" {
		sb.WriteString(fmt.Sprintf("Last run:        %s\n", stats.LastRun))
	}

	p.printBox("Pipeline History", strings.TrimRight(sb.String(), "\n"))
}
