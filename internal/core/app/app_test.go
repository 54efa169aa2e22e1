package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"surface/internal/core/config"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		ScanPaths: []string{dir},
		Exclude: config.Exclude{
			Dirs:  []string{"Library"},
			Files: []string{"*.designer.cs"},
		},
		Docs:        config.Docs{MinFileDocLen: 80},
		Output:      config.Output{Dir: filepath.Join(dir, "maps"), Index: "README.md"},
		Watch:       config.Watch{Debounce: 50 * time.Millisecond, RescanRate: 100},
		Performance: config.Performance{ParseWorkers: 2},
	}
}

func TestAppInitialScan(t *testing.T) {
	tmpDir := t.TempDir()

	writeFixture(t, tmpDir, "Player.cs", `
public class Player
{
    public Inventory Bag;
}
`)
	writeFixture(t, tmpDir, "Inventory.cs", `
public class Inventory
{
    public Player Owner;
}
`)
	writeFixture(t, tmpDir, "notes.txt", "not a script")
	writeFixture(t, tmpDir, filepath.Join("Library", "Cached.cs"), "public class Cached { }")
	broken := writeFixture(t, tmpDir, "Broken.cs", "\xff\xfepublic class Broken { }")

	application, err := New(testConfig(tmpDir))
	if err != nil {
		t.Fatal(err)
	}
	defer application.Close()

	if err := application.InitialScan(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := application.Graph.UnitCount(); got != 2 {
		t.Errorf("expected 2 units, got %d", got)
	}

	diags := application.Diagnostics()
	if len(diags) != 1 || diags[0].Path != broken {
		t.Errorf("expected one diagnostic for %s, got %v", broken, diags)
	}

	// Mutual references form one cycle.
	update := application.CurrentUpdate()
	if len(update.Cycles) != 1 {
		t.Errorf("expected 1 cycle, got %v", update.Cycles)
	}
	if update.EdgeCount != 2 {
		t.Errorf("expected 2 edges, got %d", update.EdgeCount)
	}

	playerMap, err := os.ReadFile(filepath.Join(tmpDir, "maps", "Player.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(playerMap), "**Depends on:** `Inventory`") {
		t.Error("Player map is missing the resolved dependency line")
	}

	index, err := os.ReadFile(filepath.Join(tmpDir, "maps", "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), "## Dependency Cycles") {
		t.Error("index is missing the cycle section")
	}
}

func TestAppHandleChanges(t *testing.T) {
	tmpDir := t.TempDir()

	writeFixture(t, tmpDir, "Player.cs", "public class Player { public Inventory Bag; }")
	inventory := writeFixture(t, tmpDir, "Inventory.cs", "public class Inventory { }")

	application, err := New(testConfig(tmpDir))
	if err != nil {
		t.Fatal(err)
	}
	defer application.Close()

	if err := application.InitialScan(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := application.Graph.UnitCount(); got != 2 {
		t.Fatalf("expected 2 units after scan, got %d", got)
	}

	// Deleting a file removes its unit and drops the dangling edge.
	if err := os.Remove(inventory); err != nil {
		t.Fatal(err)
	}
	application.HandleChanges([]string{inventory})

	if got := application.Graph.UnitCount(); got != 1 {
		t.Errorf("expected 1 unit after removal, got %d", got)
	}
	if got := application.Graph.EdgeCount(); got != 0 {
		t.Errorf("expected 0 edges after removal, got %d", got)
	}

	// A re-parse of a previously broken file clears its diagnostic.
	bad := writeFixture(t, tmpDir, "Flaky.cs", "\xfflatin-1 junk")
	application.HandleChanges([]string{bad})
	if len(application.Diagnostics()) != 1 {
		t.Fatalf("expected a diagnostic for %s", bad)
	}

	writeFixture(t, tmpDir, "Flaky.cs", "public class Flaky { }")
	application.HandleChanges([]string{bad})
	if len(application.Diagnostics()) != 0 {
		t.Errorf("expected diagnostics to clear, got %v", application.Diagnostics())
	}
}

func TestAppHistorySnapshots(t *testing.T) {
	tmpDir := t.TempDir()
	writeFixture(t, tmpDir, "Player.cs", "public class Player { }")

	cfg := testConfig(tmpDir)
	cfg.DB = config.Database{Enabled: true, Path: filepath.Join(tmpDir, "history.db")}

	application, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer application.Close()

	if err := application.InitialScan(context.Background()); err != nil {
		t.Fatal(err)
	}

	trend, err := application.TrendReport()
	if err != nil {
		t.Fatal(err)
	}
	if len(trend.Points) != 1 {
		t.Fatalf("expected 1 trend point, got %d", len(trend.Points))
	}
	if trend.Points[0].UnitCount != 1 {
		t.Errorf("expected snapshot with 1 unit, got %d", trend.Points[0].UnitCount)
	}
}

func TestAppTrendRequiresHistory(t *testing.T) {
	application, err := New(testConfig(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	defer application.Close()

	if _, err := application.TrendReport(); err == nil {
		t.Fatal("expected error when history store is disabled")
	}
}

func TestScanDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	keep := writeFixture(t, tmpDir, "Player.cs", "public class Player { }")
	writeFixture(t, tmpDir, "Form.designer.cs", "generated")
	writeFixture(t, tmpDir, filepath.Join("Library", "Cached.cs"), "cached")
	writeFixture(t, tmpDir, "readme.md", "docs")

	application, err := New(testConfig(tmpDir))
	if err != nil {
		t.Fatal(err)
	}
	defer application.Close()

	files, err := application.ScanDirectories([]string{tmpDir}, []string{"Library"}, []string{"*.designer.cs"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != keep {
		t.Errorf("expected only %s, got %v", keep, files)
	}

	if _, err := application.ScanDirectories([]string{tmpDir}, []string{"[bad"}, nil); err == nil {
		t.Error("expected error for invalid exclude pattern")
	}
}
