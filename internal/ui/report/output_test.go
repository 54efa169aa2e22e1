package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surface/internal/core/config"
	"surface/internal/engine/graph"
	"surface/internal/engine/parser"
)

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()

	g := graph.New()
	g.AddUnit(&parser.Unit{
		Path: "Player.cs", Name: "Player",
		Types:        []parser.TypeDecl{{Name: "Player", Visibility: "public", Kind: parser.KindClass}},
		Dependencies: []string{"Inventory"},
	})
	g.AddUnit(&parser.Unit{
		Path: "Inventory.cs", Name: "Inventory",
		Types: []parser.TypeDecl{{Name: "Inventory", Visibility: "public", Kind: parser.KindClass}},
	})

	out := NewOutput(config.Output{
		Dir:     filepath.Join(dir, "maps"),
		Index:   "README.md",
		Mermaid: true,
	}, "0.3.0")

	require.NoError(t, out.WriteAll(g, g.DetectCycles()))

	playerMap, err := os.ReadFile(filepath.Join(dir, "maps", "Player.md"))
	require.NoError(t, err)
	assert.Contains(t, string(playerMap), "# Player.cs")
	assert.Contains(t, string(playerMap), "**Depends on:** `Inventory`")

	_, err = os.Stat(filepath.Join(dir, "maps", "Inventory.md"))
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "maps", "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "# Project Interface Map")
	assert.Contains(t, string(index), "```mermaid")
	assert.Contains(t, string(index), "surface 0.3.0")
}

func TestWriteAllWithoutMermaid(t *testing.T) {
	dir := t.TempDir()

	out := NewOutput(config.Output{Dir: dir, Index: "README.md"}, "")
	require.NoError(t, out.WriteAll(graph.New(), nil))

	index, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(index), "```mermaid")
	assert.Contains(t, string(index), "surface unknown")
}
