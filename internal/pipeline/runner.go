// Package pipeline rips one or more sets end to end: collect every card,
// write the output file, and tally warnings. Sets run one after another so
// the page source never sees more than one request at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/guarzo/cardrip/internal/collector"
	"github.com/guarzo/cardrip/internal/diag"
	"github.com/guarzo/cardrip/internal/manifest"
	"github.com/guarzo/cardrip/internal/model"
	"github.com/guarzo/cardrip/internal/registry"
	"github.com/guarzo/cardrip/internal/report"
)

// Config holds runner configuration.
type Config struct {
	OutputDir string
	Format    string
	// Source labels the run in the manifest, e.g. "rip" or "watch".
	Source string
	// Progress returns the indicator for one set. Nil disables progress.
	Progress func(setName string) collector.Progress
	Logger   *slog.Logger
}

// Result is the outcome of one set.
type Result struct {
	Set      string
	Code     string
	Path     string
	Cards    int
	Warnings []diag.Warning
	Elapsed  time.Duration
	Err      error
}

// Metrics tracks a whole run.
type Metrics struct {
	StartTime time.Time
	EndTime   time.Time
	Sets      int
	Failed    int
	Cards     int
	Warnings  int
}

// Runner rips sets through a shared page source.
type Runner struct {
	source   collector.PageSource
	registry *registry.Registry
	cfg      Config
	logger   *slog.Logger

	mu      sync.RWMutex
	metrics Metrics
}

// NewRunner creates a runner. A nil registry means registry.Default().
func NewRunner(source collector.PageSource, reg *registry.Registry, cfg Config) *Runner {
	if reg == nil {
		reg = registry.Default()
	}
	if cfg.Format == "" {
		cfg.Format = report.FormatJSON
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Source == "" {
		cfg.Source = "rip"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		source:   source,
		registry: reg,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run rips each set in order. A failing set does not stop the others; the
// returned error joins every failure. Cancellation stops the run at once.
func (r *Runner) Run(ctx context.Context, sets []string) ([]Result, error) {
	r.mu.Lock()
	r.metrics.StartTime = time.Now()
	r.mu.Unlock()

	var (
		results []Result
		errs    []error
	)
	for _, name := range sets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res := r.RipSet(ctx, name)
		results = append(results, res)
		if res.Err != nil {
			errs = append(errs, res.Err)
			if ctx.Err() != nil {
				break
			}
		}
	}

	r.mu.Lock()
	r.metrics.EndTime = time.Now()
	r.mu.Unlock()

	r.updateManifest(results)
	return results, errors.Join(errs...)
}

// updateManifest records the run in the output directory. Manifest
// failures are logged; the set files are already written.
func (r *Runner) updateManifest(results []Result) {
	m := manifest.New(r.cfg.OutputDir)
	metrics := r.GetMetrics()

	var summaries []manifest.SetSummary
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		summaries = append(summaries, manifest.SetSummary{
			Name:        res.Set,
			Code:        res.Code,
			File:        filepath.Base(res.Path),
			CardCount:   res.Cards,
			Warnings:    len(res.Warnings),
			LastUpdated: metrics.EndTime,
		})
	}

	if err := m.MergeSetsSummary(summaries); err != nil {
		r.logger.Warn("failed to update sets summary", "dir", r.cfg.OutputDir, "err", err)
	}
	if err := m.SaveMetadata(&manifest.Metadata{
		LastRun:     metrics.EndTime,
		Source:      r.cfg.Source,
		TotalSets:   metrics.Sets,
		FailedSets:  metrics.Failed,
		TotalCards:  metrics.Cards,
		Warnings:    metrics.Warnings,
		RunDuration: metrics.EndTime.Sub(metrics.StartTime).Round(time.Millisecond).String(),
	}); err != nil {
		r.logger.Warn("failed to save run metadata", "dir", r.cfg.OutputDir, "err", err)
	}
}

// RipSet collects and writes a single set.
func (r *Runner) RipSet(ctx context.Context, name string) Result {
	start := time.Now()
	res := Result{Set: name}

	warnings := &diag.Collector{}
	sink := diag.Tee(warnings, diag.SlogSink{Logger: r.logger.With("set", name)})

	opts := []collector.Option{collector.WithSink(sink)}
	var fail func(error)
	if r.cfg.Progress != nil {
		p := r.cfg.Progress(name)
		opts = append(opts, collector.WithProgress(p))
		if f, ok := p.(interface{ Fail(error) }); ok {
			fail = f.Fail
		}
	}

	r.logger.Info("ripping set", "set", name)
	set, err := collector.New(r.source, r.registry, opts...).Collect(ctx, name)
	if err == nil {
		res.Path, err = r.write(set)
	} else if fail != nil {
		fail(err)
	}

	res.Elapsed = time.Since(start)
	res.Warnings = warnings.Warnings()
	if err != nil {
		res.Err = fmt.Errorf("set %q: %w", name, err)
		r.logger.Error("rip failed", "set", name, "err", err)
	} else {
		res.Cards = len(set.Cards)
		res.Code = set.Code
		r.logger.Info("rip finished", "set", name, "cards", res.Cards,
			"warnings", len(res.Warnings), "path", res.Path, "elapsed", res.Elapsed)
	}

	r.record(res)
	return res
}

func (r *Runner) write(set *model.CardSet) (string, error) {
	path, err := report.Write(r.cfg.OutputDir, r.cfg.Format, set)
	if err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return path, nil
}

func (r *Runner) record(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.Sets++
	r.metrics.Warnings += len(res.Warnings)
	if res.Err != nil {
		r.metrics.Failed++
		return
	}
	r.metrics.Cards += res.Cards
}

// GetMetrics returns a snapshot of the run metrics.
func (r *Runner) GetMetrics() Metrics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metrics
}
