package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/autopatch/internal/catalog"
	"github.com/jonathan/autopatch/internal/download"
	"github.com/jonathan/autopatch/internal/fetch"
	"github.com/jonathan/autopatch/internal/report"
	"github.com/jonathan/autopatch/internal/resolve"
	"github.com/jonathan/autopatch/internal/types"
	"github.com/jonathan/autopatch/internal/variants"
)

const (
	// DefaultPageDelay is the polite delay between version-page fetches.
	DefaultPageDelay = 1 * time.Second
	// DefaultDiscoverLimit caps discovered version pages for apps without
	// version constraints.
	DefaultDiscoverLimit = 10
	// DefaultFallbackLimit is the smaller cap used when no
	// patch-compatibility analysis exists for an app.
	DefaultFallbackLimit = 5
)

// Orchestrator runs discovery for one app at a time. It holds no cross-app
// mutable state, so independent goroutines may each call DiscoverApp
// concurrently for different apps.
type Orchestrator struct {
	client     *fetch.Client
	downloader *download.Downloader
	run        *RunContext

	PageDelay     time.Duration
	DiscoverLimit int
	FallbackLimit int
}

// NewOrchestrator creates an Orchestrator with default limits.
func NewOrchestrator(client *fetch.Client, downloader *download.Downloader, run *RunContext) *Orchestrator {
	return &Orchestrator{
		client:        client,
		downloader:    downloader,
		run:           run,
		PageDelay:     DefaultPageDelay,
		DiscoverLimit: DefaultDiscoverLimit,
		FallbackLimit: DefaultFallbackLimit,
	}
}

// Result accumulates one app's discovery run. Found grows monotonically: an
// architecture retained on an earlier version page is never overwritten by a
// later one.
type Result struct {
	Entry           types.CatalogEntry
	Found           map[types.Architecture]string
	Downloaded      []string
	VersionsChecked []string
	Missing         []types.Architecture
}

// Success reports whether at least one artifact was obtained.
func (r *Result) Success() bool {
	return len(r.Downloaded) > 0
}

// DiscoverApp walks version pages for one catalog entry, downloading at most
// one artifact per requested architecture. Per-page and per-variant failures
// are logged and skipped; the run always completes with a Result.
func (o *Orchestrator) DiscoverApp(ctx context.Context, entry types.CatalogEntry) *Result {
	logger := log.FromContext(ctx).With("app", entry.Name)
	ctx = log.WithContext(ctx, logger)

	result := &Result{
		Entry: entry,
		Found: make(map[types.Architecture]string),
	}

	pages := o.versionPages(ctx, entry)
	if len(pages) == 0 {
		logger.Warn("no version pages found", "catalog", entry.CatalogURL)
		o.recordMissing(ctx, result)
		return result
	}
	logger.Info("version pages to check", "count", len(pages), "strategy", entry.Strategy())

	appDir := o.run.AppDir(entry.PackageName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		logger.Error("cannot create app directory", "dir", appDir, "err", err)
		o.recordMissing(ctx, result)
		return result
	}

pageLoop:
	for _, page := range pages {
		result.VersionsChecked = append(result.VersionsChecked, page.Version)

		select {
		case <-time.After(o.PageDelay):
		case <-ctx.Done():
			break pageLoop
		}

		logger.Info("checking version", "version", page.Version, "provenance", page.Provenance)
		retained := variants.FilterPreferred(variants.Discover(ctx, o.client, page.URL, entry.Architectures))
		if len(retained) == 0 {
			logger.Info("no variants found", "version", page.Version)
			continue
		}

		for _, cand := range retained {
			if _, ok := result.Found[cand.Arch]; ok {
				continue
			}

			filename := fmt.Sprintf("%s-v%s-%s.apk", entry.PackageName, page.Version, cand.Arch)
			outPath := filepath.Join(appDir, filename)

			if _, err := os.Stat(outPath); err == nil {
				logger.Info("artifact already on disk", "file", filename)
				result.Found[cand.Arch] = outPath
				result.Downloaded = append(result.Downloaded, outPath)
				continue
			}

			resolved := resolve.Resolve(ctx, o.client, cand.URL)
			if resolved == nil {
				logger.Warn("could not resolve download link", "arch", cand.Arch, "version", page.Version)
				continue
			}

			logger.Info("downloading", "file", filename)
			outcome := o.downloader.Download(ctx, resolved.URL, outPath)
			if !outcome.Success {
				logger.Error("download failed", "file", filename, "attempts", outcome.Attempts)
				_ = os.Remove(outPath)
				continue
			}

			logger.Info("downloaded", "file", filename, "bytes", outcome.Bytes)
			result.Found[cand.Arch] = outPath
			result.Downloaded = append(result.Downloaded, outPath)
		}

		if len(result.Found) >= len(entry.Architectures) {
			break
		}
		if !entry.DownloadMultiple && len(result.Found) > 0 {
			break
		}
		if entry.RecommendedVersion != "" && len(result.Found) > 0 &&
			catalog.VersionsEqual(page.Version, entry.RecommendedVersion) {
			logger.Info("recommended version satisfied", "version", entry.RecommendedVersion)
			break
		}
	}

	o.recordMissing(ctx, result)
	return result
}

// versionPages selects the version strategy and produces the pages to walk.
func (o *Orchestrator) versionPages(ctx context.Context, entry types.CatalogEntry) []types.VersionPage {
	switch entry.Strategy() {
	case types.StrategySpecificVersions:
		return constructVersionPages(entry)
	case types.StrategyAnyVersion:
		return catalog.DiscoverVersionPages(ctx, o.client, entry.CatalogURL, o.DiscoverLimit)
	default:
		return catalog.DiscoverVersionPages(ctx, o.client, entry.CatalogURL, o.FallbackLimit)
	}
}

// constructVersionPages builds direct version-page URLs from a known
// supported-version list. The catalog's release slugs follow
// {app}-{dashed version}-release/ under the catalog root.
func constructVersionPages(entry types.CatalogEntry) []types.VersionPage {
	base := strings.TrimRight(entry.CatalogURL, "/")
	slug := base[strings.LastIndex(base, "/")+1:]

	pages := make([]types.VersionPage, 0, len(entry.SupportedVersions))
	for _, version := range entry.SupportedVersions {
		if version == types.VersionAny {
			continue
		}
		pages = append(pages, types.VersionPage{
			URL:        fmt.Sprintf("%s/%s-%s-release/", base, slug, strings.ReplaceAll(version, ".", "-")),
			Version:    version,
			Provenance: types.ProvenanceConstructed,
		})
	}
	return pages
}

// recordMissing computes the missing-architecture set and appends it to the
// persisted report when non-empty.
func (o *Orchestrator) recordMissing(ctx context.Context, result *Result) {
	logger := log.FromContext(ctx)

	for _, arch := range result.Entry.Architectures {
		if _, ok := result.Found[arch]; !ok {
			result.Missing = append(result.Missing, arch)
		}
	}
	if len(result.Missing) == 0 {
		return
	}

	logger.Warn("missing architectures", "missing", result.Missing)
	rec := report.MissingRecord{
		App:             result.Entry.Name,
		Package:         result.Entry.PackageName,
		Requested:       archStrings(result.Entry.Architectures),
		Found:           foundStrings(result.Found),
		Missing:         archStrings(result.Missing),
		VersionsChecked: result.VersionsChecked,
	}
	if err := report.AppendMissing(o.run.MissingReportPath(), rec); err != nil {
		logger.Error("failed to append missing-architecture report", "err", err)
	}
}

func archStrings(set []types.Architecture) []string {
	out := make([]string, len(set))
	for i, a := range set {
		out[i] = string(a)
	}
	return out
}

func foundStrings(found map[types.Architecture]string) []string {
	out := make([]string, 0, len(found))
	for _, a := range types.AllArchitectures() {
		if _, ok := found[a]; ok {
			out = append(out, string(a))
		}
	}
	return out
}
