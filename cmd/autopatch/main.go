// Package main provides the autopatch CLI: discover, download, and patch
// versioned app packages from a catalog site.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autopatch",
	Short: "Automated app package discovery, download, and patching",
	Long: "autopatch discovers versioned app packages on a catalog site, selects the " +
		"correct per-architecture artifact, downloads it through the site's confirmation " +
		"chain, and hands it to an external patching tool.",
}

// exitCodeError carries a specific process exit code up through cobra.
// Exit 1 is reserved for configuration and crash failures; exit 2 means the
// run completed but produced nothing.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string {
	return e.msg
}

// newLogger creates a leveled logger with timestamp formatting.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}
