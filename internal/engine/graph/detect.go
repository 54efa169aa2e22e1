package graph

import "sort"

// DetectCycles reports every dependency cycle reachable in the graph as a
// path of unit names. Mutual references come back as two-element cycles;
// longer rings keep their traversal order. Start nodes are visited in
// sorted order so repeated runs report the same cycles.
func (g *Graph) DetectCycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.edges))
	for name := range g.edges {
		names = append(names, name)
	}
	sort.Strings(names)

	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	for _, name := range names {
		if !visited[name] {
			g.findCycles(name, visited, onStack, []string{}, &cycles)
		}
	}
	return cycles
}

func (g *Graph) findCycles(curr string, visited, onStack map[string]bool, path []string, cycles *[][]string) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	targets := make([]string, 0, len(g.edges[curr]))
	for next := range g.edges[curr] {
		targets = append(targets, next)
	}
	sort.Strings(targets)

	for _, next := range targets {
		if onStack[next] {
			cycleStart := -1
			for i, name := range path {
				if name == next {
					cycleStart = i
					break
				}
			}
			if cycleStart != -1 {
				cycle := make([]string, len(path)-cycleStart)
				copy(cycle, path[cycleStart:])
				*cycles = append(*cycles, cycle)
			}
		} else if !visited[next] {
			g.findCycles(next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}

// DependentsClosure returns the names of every unit that transitively
// depends on the named unit, the unit itself excluded. Watch mode uses it
// to decide which reports are stale after an edit.
func (g *Graph) DependentsClosure(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := map[string]bool{name: true}
	var closure []string

	queue := []string{name}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for dependent := range g.dependedBy[curr] {
			if seen[dependent] {
				continue
			}
			seen[dependent] = true
			closure = append(closure, dependent)
			queue = append(queue, dependent)
		}
	}

	sort.Strings(closure)
	return closure
}
