package history

import "time"

const SchemaVersion = 1

// Snapshot is one persisted scan result: corpus-level counts only, no
// per-unit detail. RunID ties the snapshot to the scan that produced it.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version"`
	RunID         string    `json:"run_id"`
	Timestamp     time.Time `json:"timestamp"`
	UnitCount     int       `json:"unit_count"`
	TypeCount     int       `json:"type_count"`
	EdgeCount     int       `json:"edge_count"`
	CycleCount    int       `json:"cycle_count"`
	FailureCount  int       `json:"failure_count"`
	AvgFanIn      float64   `json:"avg_fan_in"`
	AvgFanOut     float64   `json:"avg_fan_out"`
	MaxFanIn      int       `json:"max_fan_in"`
	MaxFanOut     int       `json:"max_fan_out"`
}

// TrendPoint pairs a snapshot with deltas against its predecessor.
type TrendPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id"`
	UnitCount    int       `json:"unit_count"`
	TypeCount    int       `json:"type_count"`
	EdgeCount    int       `json:"edge_count"`
	CycleCount   int       `json:"cycle_count"`
	FailureCount int       `json:"failure_count"`
	DeltaUnits   int       `json:"delta_units"`
	DeltaTypes   int       `json:"delta_types"`
	DeltaEdges   int       `json:"delta_edges"`
	DeltaCycles  int       `json:"delta_cycles"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}

// ComputeTrend turns an ordered snapshot series into per-scan deltas. The
// first point carries zero deltas.
func ComputeTrend(snapshots []Snapshot) TrendReport {
	report := TrendReport{SchemaVersion: SchemaVersion, ScanCount: len(snapshots)}
	if len(snapshots) == 0 {
		return report
	}
	report.Since = snapshots[0].Timestamp
	report.Until = snapshots[len(snapshots)-1].Timestamp

	report.Points = make([]TrendPoint, 0, len(snapshots))
	for i, s := range snapshots {
		point := TrendPoint{
			Timestamp:    s.Timestamp,
			RunID:        s.RunID,
			UnitCount:    s.UnitCount,
			TypeCount:    s.TypeCount,
			EdgeCount:    s.EdgeCount,
			CycleCount:   s.CycleCount,
			FailureCount: s.FailureCount,
		}
		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaUnits = s.UnitCount - prev.UnitCount
			point.DeltaTypes = s.TypeCount - prev.TypeCount
			point.DeltaEdges = s.EdgeCount - prev.EdgeCount
			point.DeltaCycles = s.CycleCount - prev.CycleCount
		}
		report.Points = append(report.Points, point)
	}
	return report
}
