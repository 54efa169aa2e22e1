// Package report writes the generated interface maps to disk: one markdown
// file per unit plus a corpus-level index.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"surface/internal/core/config"
	"surface/internal/engine/graph"
	"surface/internal/shared/observability"
	"surface/internal/shared/util"
	"surface/internal/ui/report/formats"
)

type Output struct {
	dir     string
	index   string
	mermaid bool
	version string

	maps  *formats.MapGenerator
	idxGn *formats.IndexGenerator
}

// NewOutput wires the generators to the configured output directory.
func NewOutput(cfg config.Output, version string) *Output {
	return &Output{
		dir:     cfg.Dir,
		index:   cfg.Index,
		mermaid: cfg.Mermaid,
		version: version,
		maps:    formats.NewMapGenerator(),
		idxGn:   formats.NewIndexGenerator(),
	}
}

// WriteAll renders every unit map and the index. A failed unit write aborts
// the batch: a half-written map directory is worse than a stale one.
func (o *Output) WriteAll(g *graph.Graph, cycles [][]string) error {
	timer := prometheus.NewTimer(observability.ReportWriteDuration)
	defer timer.ObserveDuration()

	units := g.Units()

	for _, unit := range units {
		content, err := o.maps.Generate(unit)
		if err != nil {
			return fmt.Errorf("render map for %s: %w", unit.Name, err)
		}
		path := filepath.Join(o.dir, unit.Name+".md")
		if err := util.WriteStringWithDirs(path, content, 0o644); err != nil {
			return fmt.Errorf("write map %s: %w", path, err)
		}
	}

	mermaid := ""
	if o.mermaid {
		gen := formats.NewMermaidGenerator(g)
		gen.SetUnitMetrics(g.ComputeUnitMetrics())
		diagram, err := gen.Generate(cycles)
		if err != nil {
			return fmt.Errorf("render mermaid diagram: %w", err)
		}
		mermaid = diagram
	}

	indexContent, err := o.idxGn.Generate(units, cycles, formats.IndexOptions{
		Version: o.version,
		Mermaid: mermaid,
	})
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	indexPath := filepath.Join(o.dir, o.index)
	if err := util.WriteStringWithDirs(indexPath, indexContent, 0o644); err != nil {
		return fmt.Errorf("write index %s: %w", indexPath, err)
	}

	return nil
}
