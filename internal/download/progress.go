// Package download streams resolved artifact URLs to disk with retry and
// progress observation.
package download

import (
	"fmt"
	"io"
)

// Progress observes cumulative download progress. Implementations are chosen
// once at startup and injected into the Downloader; the download loop never
// branches on which implementation it holds.
type Progress interface {
	// Start begins tracking one artifact. total is -1 when unknown.
	Start(label string, total int64)
	// Advance reports n additional bytes written.
	Advance(n int64)
	// Done finishes the current artifact.
	Done()
}

// NopProgress discards all progress updates.
type NopProgress struct{}

func (NopProgress) Start(string, int64) {}
func (NopProgress) Advance(int64)       {}
func (NopProgress) Done()               {}

// ConsoleProgress renders an in-place percentage line on a terminal.
type ConsoleProgress struct {
	out     io.Writer
	label   string
	total   int64
	written int64
}

// NewConsoleProgress creates a ConsoleProgress writing to out.
func NewConsoleProgress(out io.Writer) *ConsoleProgress {
	return &ConsoleProgress{out: out}
}

func (p *ConsoleProgress) Start(label string, total int64) {
	p.label = label
	p.total = total
	p.written = 0
}

func (p *ConsoleProgress) Advance(n int64) {
	p.written += n
	if p.total > 0 {
		percent := float64(p.written) / float64(p.total) * 100
		fmt.Fprintf(p.out, "\r  %s %.1f%%", p.label, percent)
		return
	}
	fmt.Fprintf(p.out, "\r  %s %d bytes", p.label, p.written)
}

func (p *ConsoleProgress) Done() {
	fmt.Fprintln(p.out)
}
