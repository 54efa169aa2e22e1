package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"surface/internal/core/app"
	"surface/internal/core/config"
	"surface/internal/data/history"
	"surface/internal/shared/version"
)

var (
	configPath  = flag.String("config", "./surface.toml", "Path to config file")
	once        = flag.Bool("once", false, "Run single scan and exit")
	ui          = flag.Bool("ui", false, "Enable terminal UI mode")
	trend       = flag.Bool("trend", false, "Print metric trend from the history store and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("surface v%s\n", version.Version)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
			if err == nil {
				output = f
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./surface.toml" {
			cfg, err = config.Load("./surface.example.toml")
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	// A positional argument overrides the configured scan roots.
	if flag.NArg() > 0 {
		cfg.ScanPaths = flag.Args()
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *trend {
		report, err := application.TrendReport()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Print(formatTrendReport(report))
		os.Exit(0)
	}

	start := time.Now()
	if err := application.InitialScan(context.Background()); err != nil {
		slog.Error("initial scan failed", "error", err)
		os.Exit(1)
	}

	if !*ui {
		application.PrintSummary(application.CurrentUpdate(), time.Since(start))
	}

	if *once {
		return
	}

	// Watch mode
	if err := application.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := runUI(application); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "surface", "surface.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "surface", "surface.log")
	}

	return "surface.log"
}

func formatTrendReport(report history.TrendReport) string {
	var b strings.Builder

	b.WriteString("Metric Trend\n")
	b.WriteString("============\n")
	b.WriteString(fmt.Sprintf("Scans: %d\n", report.ScanCount))
	if report.ScanCount == 0 {
		return b.String()
	}
	b.WriteString(fmt.Sprintf("From %s to %s\n\n",
		report.Since.Local().Format("2006-01-02 15:04"),
		report.Until.Local().Format("2006-01-02 15:04")))

	for _, p := range report.Points {
		b.WriteString(fmt.Sprintf("%s  scripts=%d (%+d)  types=%d (%+d)  edges=%d (%+d)  cycles=%d (%+d)\n",
			p.Timestamp.Local().Format("2006-01-02 15:04"),
			p.UnitCount, p.DeltaUnits,
			p.TypeCount, p.DeltaTypes,
			p.EdgeCount, p.DeltaEdges,
			p.CycleCount, p.DeltaCycles))
	}

	return b.String()
}
