package download

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/autopatch/internal/fetch"
	"github.com/jonathan/autopatch/internal/types"
)

// chunkSize is the fixed write granularity for progress reporting.
const chunkSize = 8192

// Downloader streams final URLs to disk. A failed attempt truncates and
// rewrites the output on retry, never appends; cleanup of the partial file
// after the final failure is the caller's responsibility.
type Downloader struct {
	client     *fetch.Client
	maxRetries int
	retryDelay time.Duration
	progress   Progress
}

// NewDownloader creates a Downloader. maxRetries below 1 is clamped to 1; a
// nil progress uses NopProgress.
func NewDownloader(client *fetch.Client, maxRetries int, retryDelay time.Duration, progress Progress) *Downloader {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if progress == nil {
		progress = NopProgress{}
	}
	return &Downloader{
		client:     client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		progress:   progress,
	}
}

// Download fetches urlStr into outPath, retrying transport failures up to
// the configured attempt count with a fixed delay between attempts.
func (d *Downloader) Download(ctx context.Context, urlStr, outPath string) types.DownloadOutcome {
	logger := log.FromContext(ctx)
	outcome := types.DownloadOutcome{Path: outPath}

	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		outcome.Attempts = attempt

		written, err := d.attempt(ctx, urlStr, outPath)
		if err == nil {
			outcome.Success = true
			outcome.Bytes = written
			return outcome
		}

		logger.Warn("download attempt failed", "attempt", attempt, "of", d.maxRetries, "url", urlStr, "err", err)
		if attempt < d.maxRetries {
			select {
			case <-time.After(d.retryDelay):
			case <-ctx.Done():
				return outcome
			}
		}
	}
	return outcome
}

func (d *Downloader) attempt(ctx context.Context, urlStr, outPath string) (int64, error) {
	stream, err := d.client.GetStream(ctx, urlStr)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stream.Body.Close() }()

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() { _ = out.Close() }()

	if stream.ContentLength <= 0 {
		// No length to report against; write the full body in one pass.
		return io.Copy(out, stream.Body)
	}

	d.progress.Start(filepath.Base(outPath), stream.ContentLength)
	defer d.progress.Done()

	var written int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := stream.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return written, writeErr
			}
			written += int64(n)
			d.progress.Advance(int64(n))
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
