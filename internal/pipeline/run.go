// Package pipeline coordinates a full multi-app discovery run: building
// catalog entries from configuration and patch analysis, fanning out per-app
// discovery, and persisting the run results and history.
package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/autopatch/internal/config"
	"github.com/jonathan/autopatch/internal/discovery"
	"github.com/jonathan/autopatch/internal/download"
	"github.com/jonathan/autopatch/internal/fetch"
	"github.com/jonathan/autopatch/internal/patches"
	"github.com/jonathan/autopatch/internal/report"
	"github.com/jonathan/autopatch/internal/types"
)

// Outcome classifies a completed run.
type Outcome int

const (
	// OutcomeAllSucceeded means every enabled app produced artifacts.
	OutcomeAllSucceeded Outcome = iota
	// OutcomePartial means some apps produced artifacts and some did not.
	OutcomePartial
	// OutcomeNoneSucceeded means the run completed but nothing downloaded.
	OutcomeNoneSucceeded
)

// Options configures one pipeline run.
type Options struct {
	Config   *config.Config
	Analysis patches.Analysis
	Run      *discovery.RunContext
	Trigger  string
	Progress download.Progress
	Fetch    *fetch.Options
}

// Summary is the aggregate of one run.
type Summary struct {
	Results    *report.RunResults
	AppResults []*discovery.Result
}

// Outcome classifies the summary into the three terminal run states.
func (s *Summary) Outcome() Outcome {
	switch {
	case len(s.Results.Successful) == 0:
		return OutcomeNoneSucceeded
	case len(s.Results.Failed) > 0:
		return OutcomePartial
	default:
		return OutcomeAllSucceeded
	}
}

// Run executes discovery for every enabled app. Per-app failures never abort
// the run; only setup failures (unwritable directories, unpersistable
// results) return an error.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	logger := log.FromContext(ctx)

	if err := opts.Run.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("failed to create run directories: %w", err)
	}

	settings := opts.Config.Settings
	client := fetch.NewClient(opts.Fetch)
	downloader := download.NewDownloader(client, settings.MaxRetries, settings.RetryDelay(), opts.Progress)
	orchestrator := discovery.NewOrchestrator(client, downloader, opts.Run)

	apps := opts.Config.EnabledApps()
	parallel := settings.ParallelApps
	if parallel < 1 {
		parallel = 1
	}
	logger.Info("processing apps", "count", len(apps), "parallel", parallel)

	results := make([]*discovery.Result, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			results[i] = orchestrator.DiscoverApp(gctx, buildEntry(app, settings, opts.Analysis))
			return nil
		})
	}
	// Discovery never returns errors through the group; Wait only joins.
	_ = g.Wait()

	summary := summarize(results)
	if err := summary.Results.Save(opts.Run.ResultsPath()); err != nil {
		return nil, fmt.Errorf("failed to save run results: %w", err)
	}
	if err := report.AppendHistory(opts.Run.HistoryPath(), historyRecord(opts.Trigger, summary)); err != nil {
		logger.Error("failed to append run history", "err", err)
	}

	return summary, nil
}

// buildEntry merges configuration and patch analysis into one immutable
// catalog entry.
func buildEntry(app config.App, settings config.Settings, analysis patches.Analysis) types.CatalogEntry {
	entry := types.CatalogEntry{
		Name:             app.Name,
		PackageName:      app.PackageName,
		CatalogURL:       app.DownloadURL,
		Architectures:    settings.ArchitectureSet(),
		PreferNoDPI:      settings.PreferNoDPI,
		DownloadMultiple: settings.DownloadMultiple(),
	}
	if info, ok := analysis.For(app.PackageName); ok {
		entry.SupportedVersions = info.SupportedVersions
		entry.RecommendedVersion = info.RecommendedVersion
		entry.SupportsAnyVersion = info.SupportsAnyVersion
	}
	return entry
}

func summarize(results []*discovery.Result) *Summary {
	runResults := &report.RunResults{}
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.Success() {
			runResults.Successful = append(runResults.Successful, report.AppResult{
				App:      res.Entry.Name,
				Package:  res.Entry.PackageName,
				Paths:    res.Downloaded,
				Count:    len(res.Downloaded),
				Versions: res.VersionsChecked,
			})
		} else {
			runResults.Failed = append(runResults.Failed, report.AppFailure{
				App:     res.Entry.Name,
				Package: res.Entry.PackageName,
				Error:   "no artifact variants could be downloaded",
			})
		}
	}
	return &Summary{Results: runResults, AppResults: results}
}

func historyRecord(trigger string, summary *Summary) report.RunRecord {
	rec := report.NewRunRecord(trigger)
	rec.Stats = report.RunStats{
		AppsProcessed:       len(summary.AppResults),
		AppsSuccessful:      len(summary.Results.Successful),
		AppsFailed:          len(summary.Results.Failed),
		ArtifactsDownloaded: summary.Results.TotalArtifacts(),
	}
	for _, res := range summary.AppResults {
		if res == nil {
			continue
		}
		outcome := report.AppOutcome{
			App:       res.Entry.Name,
			Package:   res.Entry.PackageName,
			Success:   res.Success(),
			Artifacts: len(res.Downloaded),
		}
		if !res.Success() {
			outcome.Error = "no artifact variants could be downloaded"
		}
		rec.Apps = append(rec.Apps, outcome)
	}
	return rec
}
