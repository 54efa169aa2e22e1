// Package graph holds the corpus dependency graph built from resolved
// units. It owns no parsing logic: units arrive with their Dependencies
// already filled in and the graph indexes them for queries, metrics and
// cycle detection.
package graph

import (
	"sort"
	"sync"

	"surface/internal/engine/parser"
)

type Graph struct {
	mu sync.RWMutex

	units  map[string]*parser.Unit // path -> unit
	byName map[string]string       // unit name -> path

	edges      map[string]map[string]bool // from unit name -> to
	dependedBy map[string]map[string]bool // to -> from

	// Paths flagged by the watcher as needing a re-parse.
	dirty map[string]bool
}

type UnitMetrics struct {
	Depth  int
	FanIn  int
	FanOut int
}

func New() *Graph {
	return &Graph{
		units:      make(map[string]*parser.Unit),
		byName:     make(map[string]string),
		edges:      make(map[string]map[string]bool),
		dependedBy: make(map[string]map[string]bool),
		dirty:      make(map[string]bool),
	}
}

// AddUnit indexes a resolved unit. Re-adding a path removes its prior
// contributions first, so stale edges do not survive file edits.
func (g *Graph) AddUnit(u *parser.Unit) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.units[u.Path]; exists {
		g.removeUnitLocked(u.Path)
	}

	clone := cloneUnit(u)
	g.units[clone.Path] = clone
	g.byName[clone.Name] = clone.Path

	targets := make(map[string]bool, len(clone.Dependencies))
	for _, dep := range clone.Dependencies {
		targets[dep] = true
		if g.dependedBy[dep] == nil {
			g.dependedBy[dep] = make(map[string]bool)
		}
		g.dependedBy[dep][clone.Name] = true
	}
	g.edges[clone.Name] = targets
}

func (g *Graph) RemoveUnit(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeUnitLocked(path)
}

func (g *Graph) removeUnitLocked(path string) {
	u, ok := g.units[path]
	if !ok {
		return
	}

	for to := range g.edges[u.Name] {
		if g.dependedBy[to] != nil {
			delete(g.dependedBy[to], u.Name)
			if len(g.dependedBy[to]) == 0 {
				delete(g.dependedBy, to)
			}
		}
	}
	delete(g.edges, u.Name)

	// Only unmap the name if it still points at this path; a same-named
	// unit added from another path keeps its mapping.
	if g.byName[u.Name] == path {
		delete(g.byName, u.Name)
	}
	delete(g.units, path)
}

func (g *Graph) GetUnit(name string) (*parser.Unit, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	path, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return cloneUnit(g.units[path]), true
}

// Units returns all indexed units sorted by name.
func (g *Graph) Units() []*parser.Unit {
	g.mu.RLock()
	defer g.mu.RUnlock()

	units := make([]*parser.Unit, 0, len(g.units))
	for _, u := range g.units {
		units = append(units, cloneUnit(u))
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units
}

func (g *Graph) UnitCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.units)
}

func (g *Graph) TypeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, u := range g.units {
		total += len(u.Types)
	}
	return total
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, targets := range g.edges {
		total += len(targets)
	}
	return total
}

// Adjacency returns the dependency map keyed by unit name, targets sorted.
func (g *Graph) Adjacency() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.adjacencyLocked()
}

func (g *Graph) adjacencyLocked() map[string][]string {
	adjacency := make(map[string][]string, len(g.edges))
	for from, targetSet := range g.edges {
		targets := make([]string, 0, len(targetSet))
		for to := range targetSet {
			targets = append(targets, to)
		}
		sort.Strings(targets)
		adjacency[from] = targets
	}
	return adjacency
}

// ComputeUnitMetrics derives fan-in, fan-out and dependency depth per unit.
// Depth is measured over the condensation of the graph, so members of a
// cycle share one depth instead of recursing forever.
func (g *Graph) ComputeUnitMetrics() map[string]UnitMetrics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.edges))
	for name := range g.edges {
		names = append(names, name)
	}
	sort.Strings(names)

	adjacency := g.adjacencyLocked()

	fanIn := make(map[string]int, len(names))
	fanOut := make(map[string]int, len(names))
	for _, from := range names {
		fanOut[from] = len(adjacency[from])
		for _, to := range adjacency[from] {
			fanIn[to]++
		}
	}

	componentOf, components := stronglyConnectedComponents(names, adjacency)
	componentEdges := make(map[int]map[int]bool, len(components))
	for _, from := range names {
		fromComp := componentOf[from]
		for _, to := range adjacency[from] {
			toComp, ok := componentOf[to]
			if !ok || fromComp == toComp {
				continue
			}
			if componentEdges[fromComp] == nil {
				componentEdges[fromComp] = make(map[int]bool)
			}
			componentEdges[fromComp][toComp] = true
		}
	}

	depthByComp := make(map[int]int, len(components))
	var computeDepth func(int) int
	computeDepth = func(comp int) int {
		if depth, ok := depthByComp[comp]; ok {
			return depth
		}
		maxDepth := 0
		for next := range componentEdges[comp] {
			if candidate := 1 + computeDepth(next); candidate > maxDepth {
				maxDepth = candidate
			}
		}
		depthByComp[comp] = maxDepth
		return maxDepth
	}
	for comp := range components {
		computeDepth(comp)
	}

	metrics := make(map[string]UnitMetrics, len(names))
	for _, name := range names {
		metrics[name] = UnitMetrics{
			Depth:  depthByComp[componentOf[name]],
			FanIn:  fanIn[name],
			FanOut: fanOut[name],
		}
	}
	return metrics
}

func (g *Graph) MarkDirty(paths []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range paths {
		g.dirty[p] = true
	}
}

// TakeDirty drains and returns the set of paths marked since the last call.
func (g *Graph) TakeDirty() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	paths := make([]string, 0, len(g.dirty))
	for p := range g.dirty {
		paths = append(paths, p)
		delete(g.dirty, p)
	}
	sort.Strings(paths)
	return paths
}

func cloneUnit(u *parser.Unit) *parser.Unit {
	if u == nil {
		return nil
	}
	c := *u
	c.Usings = append([]string(nil), u.Usings...)
	c.Types = append([]parser.TypeDecl(nil), u.Types...)
	c.Enums = append([]parser.Enum(nil), u.Enums...)
	c.Dependencies = append([]string(nil), u.Dependencies...)
	return &c
}

func stronglyConnectedComponents(nodes []string, adjacency map[string][]string) (map[string]int, [][]string) {
	index := 0
	stack := make([]string, 0, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	indexByNode := make(map[string]int, len(nodes))
	lowLink := make(map[string]int, len(nodes))
	componentOf := make(map[string]int, len(nodes))
	components := make([][]string, 0)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indexByNode[v] = index
		lowLink[v] = index
		index++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adjacency[v] {
			if _, seen := indexByNode[w]; !seen {
				strongConnect(w)
				if lowLink[w] < lowLink[v] {
					lowLink[v] = lowLink[w]
				}
			} else if onStack[w] && indexByNode[w] < lowLink[v] {
				lowLink[v] = indexByNode[w]
			}
		}

		if lowLink[v] != indexByNode[v] {
			return
		}

		component := make([]string, 0)
		for {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[last] = false
			component = append(component, last)
			if last == v {
				break
			}
		}
		sort.Strings(component)
		compID := len(components)
		components = append(components, component)
		for _, n := range component {
			componentOf[n] = compID
		}
	}

	for _, node := range nodes {
		if _, seen := indexByNode[node]; !seen {
			strongConnect(node)
		}
	}

	return componentOf, components
}
