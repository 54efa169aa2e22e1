// Package app wires the parser, resolver, graph, report writer and history
// store into the scan/watch pipeline behind the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"surface/internal/core/config"
	coreerrors "surface/internal/core/errors"
	"surface/internal/core/watcher"
	"surface/internal/data/history"
	"surface/internal/engine/graph"
	"surface/internal/engine/parser"
	"surface/internal/engine/resolver"
	"surface/internal/shared/observability"
	"surface/internal/shared/util"
	"surface/internal/shared/version"
	"surface/internal/ui/report"
)

// Update is the state pushed to the UI after every pipeline run.
type Update struct {
	Cycles      [][]string
	Diagnostics []parser.Diagnostic
	UnitCount   int
	TypeCount   int
	EdgeCount   int
}

type App struct {
	Config *config.Config
	Parser *parser.Parser
	Graph  *graph.Graph

	output  *report.Output
	history *history.Store

	activeWatcher *watcher.Watcher
	rescanLimiter *util.Limiter

	// Diagnostics are keyed by path so a successful re-parse clears the
	// earlier failure for the same file.
	diagMu      sync.RWMutex
	diagnostics map[string]parser.Diagnostic

	updateMu sync.RWMutex
	onUpdate func(Update)
}

func New(cfg *config.Config) (*App, error) {
	p := parser.New()
	p.MinFileDocLen = cfg.Docs.MinFileDocLen

	a := &App{
		Config:        cfg,
		Parser:        p,
		Graph:         graph.New(),
		output:        report.NewOutput(cfg.Output, version.Version),
		rescanLimiter: util.NewLimiter(cfg.Watch.RescanRate, 1),
		diagnostics:   make(map[string]parser.Diagnostic),
	}

	if cfg.DB.Enabled {
		store, err := history.Open(cfg.DB.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		a.history = store
	}

	return a, nil
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

func (a *App) CurrentUpdate() Update {
	return Update{
		Cycles:      a.Graph.DetectCycles(),
		Diagnostics: a.Diagnostics(),
		UnitCount:   a.Graph.UnitCount(),
		TypeCount:   a.Graph.TypeCount(),
		EdgeCount:   a.Graph.EdgeCount(),
	}
}

// InitialScan walks the configured roots, parses every source file through
// the worker pool and runs one full resolve/report pass.
func (a *App) InitialScan(ctx context.Context) error {
	files, err := a.ScanDirectories(uniqueScanRoots(a.Config.ScanPaths), a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return err
	}

	a.parseBatch(ctx, files)

	_, err = a.Refresh(ctx)
	return err
}

// parseBatch fans paths out to Performance.ParseWorkers goroutines. Graph
// writes are serialized inside the graph itself; parse failures land in the
// diagnostics map instead of aborting the batch.
func (a *App) parseBatch(ctx context.Context, paths []string) {
	ctx, span := observability.Tracer.Start(ctx, "parse-batch")
	defer span.End()

	workers := a.Config.Performance.ParseWorkers
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := a.ProcessFile(path); err != nil {
					slog.Warn("failed to process file", "path", path, "error", err)
				}
			}
		}()
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()
}

// ProcessFile parses one source file and publishes the unit to the graph. A
// parse failure is recorded as a diagnostic and returned; the caller decides
// whether to log or abort.
func (a *App) ProcessFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		a.recordDiagnostic(path, err.Error())
		return coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeNotFound, "read source file"),
			coreerrors.CtxPath, path)
	}

	start := time.Now()
	unit, err := a.Parser.Parse(path, content)
	if err != nil {
		observability.ParseDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		observability.ParseFailuresTotal.Inc()
		a.recordDiagnostic(path, err.Error())
		return coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeParseFailure, "parse unit"),
			coreerrors.CtxPath, path)
	}
	observability.ParseDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	observability.UnitsParsedTotal.Inc()

	a.Graph.AddUnit(unit)
	a.clearDiagnostic(path)
	return nil
}

// Refresh re-resolves the whole corpus, rewrites the reports and, when
// history is enabled, persists a snapshot. Resolution is always global:
// with first-wins name claiming, an incremental re-resolve of changed units
// could disagree with a from-scratch run.
func (a *App) Refresh(ctx context.Context) (Update, error) {
	_, span := observability.Tracer.Start(ctx, "resolve")
	start := time.Now()

	units := a.Graph.Units()
	resolver.New(units).Resolve(units)
	for _, u := range units {
		a.Graph.AddUnit(u)
	}

	observability.ResolveDuration.Observe(time.Since(start).Seconds())
	span.End()

	observability.CorpusUnits.Set(float64(a.Graph.UnitCount()))
	observability.CorpusTypes.Set(float64(a.Graph.TypeCount()))
	observability.DependencyEdges.Set(float64(a.Graph.EdgeCount()))

	cycles := a.Graph.DetectCycles()

	if err := a.output.WriteAll(a.Graph, cycles); err != nil {
		return Update{}, err
	}

	if a.history != nil {
		if err := a.history.SaveSnapshot(a.projectKey(), a.buildSnapshot(cycles)); err != nil {
			slog.Warn("failed to persist history snapshot", "error", err)
		}
	}

	update := Update{
		Cycles:      cycles,
		Diagnostics: a.Diagnostics(),
		UnitCount:   a.Graph.UnitCount(),
		TypeCount:   a.Graph.TypeCount(),
		EdgeCount:   a.Graph.EdgeCount(),
	}
	a.emitUpdate(update)
	return update, nil
}

func (a *App) buildSnapshot(cycles [][]string) history.Snapshot {
	metrics := a.Graph.ComputeUnitMetrics()

	var sumIn, sumOut float64
	var maxIn, maxOut int
	for _, m := range metrics {
		sumIn += float64(m.FanIn)
		sumOut += float64(m.FanOut)
		if m.FanIn > maxIn {
			maxIn = m.FanIn
		}
		if m.FanOut > maxOut {
			maxOut = m.FanOut
		}
	}
	avgIn, avgOut := 0.0, 0.0
	if len(metrics) > 0 {
		avgIn = sumIn / float64(len(metrics))
		avgOut = sumOut / float64(len(metrics))
	}

	return history.Snapshot{
		UnitCount:    a.Graph.UnitCount(),
		TypeCount:    a.Graph.TypeCount(),
		EdgeCount:    a.Graph.EdgeCount(),
		CycleCount:   len(cycles),
		FailureCount: len(a.Diagnostics()),
		AvgFanIn:     avgIn,
		AvgFanOut:    avgOut,
		MaxFanIn:     maxIn,
		MaxFanOut:    maxOut,
	}
}

// projectKey identifies the scanned corpus across runs. The first scan root
// resolved to an absolute path is stable enough for a local tool.
func (a *App) projectKey() string {
	roots := uniqueScanRoots(a.Config.ScanPaths)
	if len(roots) == 0 {
		return "surface"
	}
	return roots[0]
}

// TrendReport loads all persisted snapshots for this project and computes
// run-over-run deltas.
func (a *App) TrendReport() (history.TrendReport, error) {
	if a.history == nil {
		return history.TrendReport{}, coreerrors.New(coreerrors.CodeValidationError, "history store is disabled; enable [db] in the config")
	}
	snapshots, err := a.history.LoadSnapshots(a.projectKey(), time.Time{})
	if err != nil {
		return history.TrendReport{}, err
	}
	return history.ComputeTrend(snapshots), nil
}

func (a *App) recordDiagnostic(path, reason string) {
	a.diagMu.Lock()
	defer a.diagMu.Unlock()
	a.diagnostics[path] = parser.Diagnostic{Path: path, Reason: reason}
}

func (a *App) clearDiagnostic(path string) {
	a.diagMu.Lock()
	defer a.diagMu.Unlock()
	delete(a.diagnostics, path)
}

// Diagnostics returns the parse failures of the current corpus, sorted by
// path.
func (a *App) Diagnostics() []parser.Diagnostic {
	a.diagMu.RLock()
	defer a.diagMu.RUnlock()

	out := make([]parser.Diagnostic, 0, len(a.diagnostics))
	for _, d := range a.diagnostics {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// PrintSummary writes the one-run digest to stdout for non-UI runs.
func (a *App) PrintSummary(update Update, duration time.Duration) {
	fmt.Printf("Scanned %d scripts (%d types, %d dependency edges) in %v\n",
		update.UnitCount, update.TypeCount, update.EdgeCount, duration.Round(time.Millisecond))

	if len(update.Diagnostics) > 0 {
		fmt.Printf("Skipped %d files:\n", len(update.Diagnostics))
		for _, d := range update.Diagnostics {
			fmt.Printf("  %s: %s\n", d.Path, d.Reason)
		}
	}

	if len(update.Cycles) == 0 {
		fmt.Println("No dependency cycles.")
		return
	}
	fmt.Printf("%d dependency cycles:\n", len(update.Cycles))
	for _, cycle := range update.Cycles {
		fmt.Printf("  %s\n", joinCycle(cycle))
	}
}

func joinCycle(cycle []string) string {
	out := ""
	for i, name := range cycle {
		if i > 0 {
			out += " -> "
		}
		out += name
	}
	return out
}

// Close releases the watcher and the history store.
func (a *App) Close() error {
	var firstErr error
	if a.activeWatcher != nil {
		firstErr = a.activeWatcher.Close()
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func uniqueScanRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized := filepath.Clean(p)
		if abs, err := filepath.Abs(normalized); err == nil {
			normalized = filepath.Clean(abs)
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		roots = append(roots, normalized)
	}
	sort.Strings(roots)
	return roots
}
