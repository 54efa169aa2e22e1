package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surface/internal/engine/parser"
)

func testUnit(name string, deps ...string) *parser.Unit {
	return &parser.Unit{
		Path:         name + ".cs",
		Name:         name,
		Types:        []parser.TypeDecl{{Name: name, Kind: parser.KindClass}},
		Dependencies: deps,
	}
}

func TestAddUnitCounts(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Player", "Inventory"))
	g.AddUnit(testUnit("Inventory"))

	assert.Equal(t, 2, g.UnitCount())
	assert.Equal(t, 2, g.TypeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, []string{"Inventory"}, g.Adjacency()["Player"])
}

func TestReAddReplacesEdges(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Player", "Inventory"))
	g.AddUnit(testUnit("Inventory"))

	// Edited file no longer references Inventory.
	g.AddUnit(testUnit("Player"))

	assert.Equal(t, 2, g.UnitCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.DependentsClosure("Inventory"))
}

func TestRemoveUnit(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Player", "Inventory"))
	g.AddUnit(testUnit("Inventory"))

	g.RemoveUnit("Player.cs")

	assert.Equal(t, 1, g.UnitCount())
	assert.Equal(t, 0, g.EdgeCount())
	_, ok := g.GetUnit("Player")
	assert.False(t, ok)
}

func TestUnitsSortedByName(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Zone"))
	g.AddUnit(testUnit("Actor"))

	units := g.Units()
	require.Len(t, units, 2)
	assert.Equal(t, "Actor", units[0].Name)
	assert.Equal(t, "Zone", units[1].Name)
}

func TestGetUnitReturnsCopy(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Player", "Inventory"))

	u, ok := g.GetUnit("Player")
	require.True(t, ok)
	u.Dependencies[0] = "Mutated"

	again, _ := g.GetUnit("Player")
	assert.Equal(t, []string{"Inventory"}, again.Dependencies)
}

func TestDetectCycles(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Player", "Inventory"))
	g.AddUnit(testUnit("Inventory", "Player"))
	g.AddUnit(testUnit("Camera"))

	cycles := g.DetectCycles()
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"Player", "Inventory"}, cycles[0])
}

func TestDetectCyclesAcyclic(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Player", "Inventory"))
	g.AddUnit(testUnit("Inventory", "Item"))
	g.AddUnit(testUnit("Item"))

	assert.Empty(t, g.DetectCycles())
}

func TestDependentsClosure(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Hud", "Player"))
	g.AddUnit(testUnit("Player", "Inventory"))
	g.AddUnit(testUnit("Inventory", "Item"))
	g.AddUnit(testUnit("Item"))

	assert.Equal(t, []string{"Hud", "Inventory", "Player"}, g.DependentsClosure("Item"))
	assert.Equal(t, []string{"Hud"}, g.DependentsClosure("Player"))
}

func TestComputeUnitMetrics(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Hud", "Player"))
	g.AddUnit(testUnit("Player", "Inventory"))
	g.AddUnit(testUnit("Inventory"))

	metrics := g.ComputeUnitMetrics()

	assert.Equal(t, UnitMetrics{Depth: 2, FanIn: 0, FanOut: 1}, metrics["Hud"])
	assert.Equal(t, UnitMetrics{Depth: 1, FanIn: 1, FanOut: 1}, metrics["Player"])
	assert.Equal(t, UnitMetrics{Depth: 0, FanIn: 1, FanOut: 0}, metrics["Inventory"])
}

func TestComputeUnitMetricsCycleSharesDepth(t *testing.T) {
	g := New()
	g.AddUnit(testUnit("Player", "Inventory"))
	g.AddUnit(testUnit("Inventory", "Player"))

	metrics := g.ComputeUnitMetrics()
	assert.Equal(t, metrics["Player"].Depth, metrics["Inventory"].Depth)
}

func TestTakeDirtyDrains(t *testing.T) {
	g := New()
	g.MarkDirty([]string{"b.cs", "a.cs"})

	assert.Equal(t, []string{"a.cs", "b.cs"}, g.TakeDirty())
	assert.Empty(t, g.TakeDirty())
}
