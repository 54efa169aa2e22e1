package formats

import (
	"fmt"
	"strings"

	"surface/internal/engine/graph"
	"surface/internal/shared/util"
)

// MermaidGenerator renders the unit dependency graph as a flowchart. Units
// in a cycle get a highlighted node style and their edges a CYCLE label.
type MermaidGenerator struct {
	graph   *graph.Graph
	metrics map[string]graph.UnitMetrics
}

func NewMermaidGenerator(g *graph.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

func (m *MermaidGenerator) SetUnitMetrics(metrics map[string]graph.UnitMetrics) {
	if len(metrics) == 0 {
		m.metrics = nil
		return
	}
	m.metrics = make(map[string]graph.UnitMetrics, len(metrics))
	for name, metric := range metrics {
		m.metrics[name] = metric
	}
}

func (m *MermaidGenerator) Generate(cycles [][]string) (string, error) {
	var b strings.Builder
	b.WriteString("%%{init: {'theme': 'base', 'themeVariables': {'textColor': '#000000', 'primaryTextColor': '#000000', 'lineColor': '#333333'}, 'flowchart': {'nodeSpacing': 80, 'rankSpacing': 110, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	adjacency := m.graph.Adjacency()
	names := util.SortedStringKeys(adjacency)
	ids := makeIDs(names)

	for _, name := range names {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[name], escapeLabel(m.unitLabel(name))))
	}

	b.WriteString("\n")
	if len(names) > 0 {
		b.WriteString("  classDef unitNode fill:#f7fbff,stroke:#4d6480,stroke-width:1px,color:#000000;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(names, ids), ","))
		b.WriteString(" unitNode;\n")
	}

	cycleUnits := cycleUnitSet(cycles)
	if len(cycleUnits) > 0 {
		cycleNames := intersectOrdered(names, cycleUnits)
		if len(cycleNames) > 0 {
			b.WriteString("  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px,color:#000000;\n")
			b.WriteString("  class ")
			b.WriteString(strings.Join(toIDs(cycleNames, ids), ","))
			b.WriteString(" cycleNode;\n")
		}
	}

	b.WriteString("\n")
	cycleEdges := cycleEdgeSet(cycles)
	linkIndex := 0
	cycleLinkIndexes := make([]int, 0)
	for _, from := range names {
		for _, to := range adjacency[from] {
			toID, known := ids[to]
			if !known {
				continue
			}
			edgeLabel := ""
			if cycleEdges[from+"->"+to] {
				edgeLabel = "|CYCLE|"
				cycleLinkIndexes = append(cycleLinkIndexes, linkIndex)
			}
			b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[from], edgeLabel, toID))
			linkIndex++
		}
	}

	if len(cycleLinkIndexes) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(cycleLinkIndexes)))
	}

	b.WriteString("\n")
	b.WriteString("  subgraph legend_info[\"Legend\"]\n")
	b.WriteString("    legend_nodes[\"Node line 1: script\\nline 2: types/deps\\n(d=depth in=fan-in out=fan-out)\"]\n")
	b.WriteString("    legend_edges[\"Edge label CYCLE = member of a dependency cycle\"]\n")
	b.WriteString("  end\n")
	b.WriteString("  classDef legendNode fill:#fff8dc,stroke:#b8a24c,stroke-width:1px,color:#000000;\n")
	b.WriteString("  class legend_nodes,legend_edges legendNode;\n")

	return b.String(), nil
}

func (m *MermaidGenerator) unitLabel(name string) string {
	typeCount := 0
	depCount := 0
	if u, ok := m.graph.GetUnit(name); ok {
		typeCount = len(u.Types)
		depCount = len(u.Dependencies)
	}

	parts := []string{fmt.Sprintf("%s\\n(%d types, %d deps)", name, typeCount, depCount)}
	if metric, ok := m.metrics[name]; ok {
		parts = append(parts, fmt.Sprintf("(d=%d in=%d out=%d)", metric.Depth, metric.FanIn, metric.FanOut))
	}
	return strings.Join(parts, "\\n")
}

func cycleEdgeSet(cycles [][]string) map[string]bool {
	out := make(map[string]bool)
	for _, cycle := range cycles {
		if len(cycle) < 2 {
			continue
		}
		for i := 0; i < len(cycle); i++ {
			from := cycle[i]
			to := cycle[(i+1)%len(cycle)]
			out[from+"->"+to] = true
		}
	}
	return out
}

func cycleUnitSet(cycles [][]string) map[string]bool {
	out := make(map[string]bool)
	for _, cycle := range cycles {
		for _, name := range cycle {
			out[name] = true
		}
	}
	return out
}

func intersectOrdered(ordered []string, set map[string]bool) []string {
	out := make([]string, 0)
	for _, item := range ordered {
		if set[item] {
			out = append(out, item)
		}
	}
	return out
}
