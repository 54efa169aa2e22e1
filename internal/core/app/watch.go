package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"surface/internal/core/watcher"
)

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	a.activeWatcher = w
	return w.Watch(uniqueScanRoots(a.Config.ScanPaths))
}

// HandleChanges re-processes a debounced batch of changed paths and reruns
// the resolve/report pass. The limiter caps full rescans per second; batches
// arriving faster than that are parked in the graph's dirty set and drained
// once a token is available. The watcher serializes callbacks, so the block
// here backpressures the event stream rather than racing it.
func (a *App) HandleChanges(paths []string) {
	a.Graph.MarkDirty(paths)

	if err := a.rescanLimiter.Wait(context.Background(), 1); err != nil {
		slog.Error("rescan limiter wait failed", "error", err)
		return
	}

	batch := a.Graph.TakeDirty()
	if len(batch) == 0 {
		return
	}

	slog.Info("detected changes", "count", len(batch))
	start := time.Now()

	for _, path := range batch {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.Graph.RemoveUnit(path)
			a.clearDiagnostic(path)
			continue
		}
		if err := a.ProcessFile(path); err != nil {
			slog.Warn("failed to re-process file", "path", path, "error", err)
		}
	}

	update, err := a.Refresh(context.Background())
	if err != nil {
		slog.Error("failed to rewrite interface maps", "error", err)
		return
	}

	duration := time.Since(start)
	if a.Config.Alerts.Terminal {
		a.PrintSummary(update, duration)
	} else {
		slog.Info("rescan complete",
			"changed", len(batch),
			"units", update.UnitCount,
			"cycles", len(update.Cycles),
			"duration", duration)
	}

	if a.Config.Alerts.Beep && (len(update.Cycles) > 0 || len(update.Diagnostics) > 0) {
		fmt.Print("\a")
	}
}
