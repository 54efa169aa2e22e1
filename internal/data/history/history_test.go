package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("   ")
	require.Error(t, err)
}

func TestOpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{
		RunID:        "run-1",
		Timestamp:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		UnitCount:    42,
		TypeCount:    57,
		EdgeCount:    91,
		CycleCount:   2,
		FailureCount: 1,
		AvgFanIn:     2.1,
		MaxFanOut:    9,
	}
	require.NoError(t, store.SaveSnapshot("game", snap))

	loaded, err := store.LoadSnapshots("game", time.Time{})
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	assert.Equal(t, "run-1", loaded[0].RunID)
	assert.Equal(t, 42, loaded[0].UnitCount)
	assert.Equal(t, 91, loaded[0].EdgeCount)
	assert.Equal(t, 2, loaded[0].CycleCount)
	assert.Equal(t, SchemaVersion, loaded[0].SchemaVersion)
	assert.InDelta(t, 2.1, loaded[0].AvgFanIn, 1e-9)
}

func TestSaveSnapshotUpsertsByRunID(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{RunID: "run-1", Timestamp: time.Now().UTC(), UnitCount: 10}
	require.NoError(t, store.SaveSnapshot("", snap))

	snap.UnitCount = 11
	require.NoError(t, store.SaveSnapshot("", snap))

	loaded, err := store.LoadSnapshots("default", time.Time{})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 11, loaded[0].UnitCount)
}

func TestSaveSnapshotFillsRunID(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SaveSnapshot("game", Snapshot{UnitCount: 1}))

	loaded, err := store.LoadSnapshots("game", time.Time{})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.NotEmpty(t, loaded[0].RunID)
	assert.False(t, loaded[0].Timestamp.IsZero())
}

func TestLoadSnapshotsSinceFilter(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveSnapshot("game", Snapshot{
			RunID:     "run-" + string(rune('a'+i)),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			UnitCount: i,
		}))
	}

	loaded, err := store.LoadSnapshots("game", base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].UnitCount)
	assert.Equal(t, 2, loaded[1].UnitCount)
}

func TestComputeTrend(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	report := ComputeTrend([]Snapshot{
		{RunID: "a", Timestamp: base, UnitCount: 10, EdgeCount: 20, CycleCount: 1},
		{RunID: "b", Timestamp: base.Add(time.Hour), UnitCount: 12, EdgeCount: 19, CycleCount: 0},
	})

	assert.Equal(t, 2, report.ScanCount)
	assert.Equal(t, base, report.Since)
	require.Len(t, report.Points, 2)

	assert.Zero(t, report.Points[0].DeltaUnits)
	assert.Equal(t, 2, report.Points[1].DeltaUnits)
	assert.Equal(t, -1, report.Points[1].DeltaEdges)
	assert.Equal(t, -1, report.Points[1].DeltaCycles)
}

func TestComputeTrendEmpty(t *testing.T) {
	report := ComputeTrend(nil)
	assert.Zero(t, report.ScanCount)
	assert.Empty(t, report.Points)
}
