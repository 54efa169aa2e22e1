package formats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"surface/internal/engine/parser"
)

// MapGenerator renders one unit's interface map: declared surface plus
// resolved project dependencies, nothing about method bodies.
type MapGenerator struct{}

func NewMapGenerator() *MapGenerator {
	return &MapGenerator{}
}

func (g *MapGenerator) Generate(unit *parser.Unit) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s.cs\n\n", unit.Name)

	if unit.Namespace != "" {
		fmt.Fprintf(&b, "**Namespace:** `%s`\n\n", unit.Namespace)
	}
	if unit.EditorOnly {
		b.WriteString("*Editor-only script (compiled inside `#if UNITY_EDITOR`).*\n\n")
	}
	if unit.Doc != "" {
		fmt.Fprintf(&b, "> %s\n\n", unit.Doc)
	}
	if len(unit.Dependencies) > 0 {
		fmt.Fprintf(&b, "**Depends on:** %s\n\n", backtickJoin(unit.Dependencies))
	}

	for _, enum := range unit.Enums {
		fmt.Fprintf(&b, "## enum `%s`\n", enum.Name)
		fmt.Fprintf(&b, "Values: %s\n\n", backtickJoin(enum.Values))
	}

	for _, decl := range unit.Types {
		g.writeType(&b, decl)
	}

	return b.String(), nil
}

func (g *MapGenerator) writeType(b *strings.Builder, decl parser.TypeDecl) {
	mods := make([]string, 0, 3)
	if decl.Abstract {
		mods = append(mods, "abstract")
	}
	if decl.Static {
		mods = append(mods, "static")
	}
	if decl.Partial {
		mods = append(mods, "partial")
	}
	header := fmt.Sprintf("## %s %s%s `%s`", decl.Visibility, modPrefix(mods), decl.Kind, decl.Name)
	if len(decl.Bases) > 0 {
		header += " : " + backtickJoin(decl.Bases)
	}
	b.WriteString(header + "\n\n")

	if decl.Doc != "" {
		fmt.Fprintf(b, "> %s\n\n", decl.Doc)
	}

	for _, enum := range decl.Enums {
		fmt.Fprintf(b, "### enum `%s`\n", enum.Name)
		fmt.Fprintf(b, "Values: %s\n\n", backtickJoin(enum.Values))
	}

	g.writeFields(b, decl.Fields)
	g.writeProperties(b, decl.Properties)
	g.writeMethods(b, decl)
}

func (g *MapGenerator) writeFields(b *strings.Builder, fields []parser.Field) {
	var public, serialized []parser.Field
	for _, f := range fields {
		if f.Visibility == "public" {
			public = append(public, f)
		} else if f.Serialized {
			serialized = append(serialized, f)
		}
	}

	if len(public) > 0 {
		b.WriteString("### Public Fields\n")
		b.WriteString("| Type | Name | Notes |\n")
		b.WriteString("|------|------|-------|\n")
		for _, f := range public {
			notes := make([]string, 0, 3)
			if f.Static {
				notes = append(notes, "static")
			}
			if f.ReadOnly {
				notes = append(notes, "readonly")
			}
			if f.Const {
				notes = append(notes, "const")
			}
			if f.Default != "" {
				notes = append(notes, "= "+f.Default)
			}
			fmt.Fprintf(b, "| `%s` | `%s` | %s |\n", f.Type, f.Name, strings.Join(notes, ", "))
		}
		b.WriteString("\n")
	}

	if len(serialized) > 0 {
		b.WriteString("### Serialized Fields (Inspector)\n")
		b.WriteString("| Type | Name | Notes |\n")
		b.WriteString("|------|------|-------|\n")
		for _, f := range serialized {
			notes := make([]string, 0, 3)
			if f.Header != "" {
				notes = append(notes, "header: "+f.Header)
			}
			if f.Tooltip != "" {
				notes = append(notes, f.Tooltip)
			}
			if f.Default != "" {
				notes = append(notes, "= "+f.Default)
			}
			fmt.Fprintf(b, "| `%s` | `%s` | %s |\n", f.Type, f.Name, strings.Join(notes, ", "))
		}
		b.WriteString("\n")
	}
}

func (g *MapGenerator) writeProperties(b *strings.Builder, props []parser.Property) {
	if len(props) == 0 {
		return
	}
	b.WriteString("### Properties\n")
	b.WriteString("| Type | Name | get | set | Notes |\n")
	b.WriteString("|------|------|-----|-----|-------|\n")
	for _, p := range props {
		notes := ""
		if p.Static {
			notes = "static"
		}
		fmt.Fprintf(b, "| `%s` | `%s` | %s | %s | %s |\n",
			p.Type, p.Name, checkmark(p.HasGetter), checkmark(p.HasSetter), notes)
	}
	b.WriteString("\n")
}

// writeMethods splits the method list into lifecycle callbacks, the public
// API and overridable members. The lifecycle split only applies to types
// derived from an engine base class.
func (g *MapGenerator) writeMethods(b *strings.Builder, decl parser.TypeDecl) {
	engineType := IsEngineDerived(decl.Bases)

	var lifecycle, public, overridable []parser.Method
	for _, m := range decl.Methods {
		switch {
		case engineType && IsLifecycleCallback(m.Name):
			lifecycle = append(lifecycle, m)
		case m.Visibility == "public":
			public = append(public, m)
		default:
			overridable = append(overridable, m)
		}
	}

	if len(lifecycle) > 0 {
		names := make([]string, 0, len(lifecycle))
		for _, m := range lifecycle {
			names = append(names, m.Name)
		}
		b.WriteString("### Unity Lifecycle\n")
		b.WriteString(backtickJoin(names) + "\n\n")
	}

	if len(public) > 0 {
		b.WriteString("### Public Methods\n")
		for _, m := range public {
			g.writeMethodLine(b, m)
		}
		b.WriteString("\n")
	}

	if len(overridable) > 0 {
		b.WriteString("### Overridable (protected/internal)\n")
		for _, m := range overridable {
			g.writeMethodLine(b, m)
		}
		b.WriteString("\n")
	}
}

func (g *MapGenerator) writeMethodLine(b *strings.Builder, m parser.Method) {
	mods := make([]string, 0, 3)
	if m.Static {
		mods = append(mods, "static")
	}
	if m.Async {
		mods = append(mods, "async")
	}
	if m.Coroutine {
		mods = append(mods, "coroutine")
	}
	if m.Virtual {
		mods = append(mods, "virtual")
	}
	if m.Override {
		mods = append(mods, "override")
	}
	if m.Abstract {
		mods = append(mods, "abstract")
	}
	line := fmt.Sprintf("- `%s %s(%s)`", m.ReturnType, m.Name, formatParams(m.Params))
	if len(mods) > 0 {
		line += " *(" + strings.Join(mods, ", ") + ")*"
	}
	b.WriteString(line + "\n")
	if m.Doc != "" {
		fmt.Fprintf(b, "  - %s\n", m.Doc)
	}
}

func modPrefix(mods []string) string {
	if len(mods) == 0 {
		return ""
	}
	return strings.Join(mods, " ") + " "
}

func checkmark(set bool) string {
	if set {
		return "yes"
	}
	return "-"
}

type IndexOptions struct {
	Version     string
	GeneratedAt time.Time
	// Mermaid, when non-empty, is embedded as a fenced diagram block.
	Mermaid string
}

// IndexGenerator renders the corpus-level README: script index, dependency
// adjacency, detected cycles and consolidated quick references.
type IndexGenerator struct{}

func NewIndexGenerator() *IndexGenerator {
	return &IndexGenerator{}
}

func (g *IndexGenerator) Generate(units []*parser.Unit, cycles [][]string, opts IndexOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	sorted := append([]*parser.Unit(nil), units...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	var b strings.Builder
	b.WriteString("# Project Interface Map\n\n")
	fmt.Fprintf(&b, "Auto-generated API surface for **%d** C# scripts.\n", len(sorted))
	b.WriteString("Each linked file contains the public API, serialized fields, dependencies\n")
	b.WriteString("and lifecycle hooks of one script.\n\n")
	fmt.Fprintf(&b, "Generated at %s by surface %s.\n\n",
		opts.GeneratedAt.UTC().Format(time.RFC3339), nonEmpty(opts.Version, "unknown"))

	g.writeScriptIndex(&b, sorted)
	g.writeAdjacency(&b, sorted)
	g.writeCycles(&b, cycles)
	g.writeQuickReference(&b, sorted)
	g.writeEnumIndex(&b, sorted)

	if strings.TrimSpace(opts.Mermaid) != "" {
		b.WriteString("## Dependency Diagram\n")
		b.WriteString("```mermaid\n")
		b.WriteString(strings.TrimSpace(opts.Mermaid))
		b.WriteString("\n```\n")
	}

	return b.String(), nil
}

func (g *IndexGenerator) writeScriptIndex(b *strings.Builder, units []*parser.Unit) {
	b.WriteString("## Script Index\n\n")
	b.WriteString("| Script | Types | Base | Depends On |\n")
	b.WriteString("|--------|-------|------|------------|\n")
	for _, u := range units {
		typeNames := make([]string, 0, len(u.Types))
		baseSet := make(map[string]bool)
		for _, decl := range u.Types {
			typeNames = append(typeNames, decl.Name)
			for _, base := range decl.Bases {
				baseSet[base] = true
			}
		}
		bases := make([]string, 0, len(baseSet))
		for base := range baseSet {
			bases = append(bases, base)
		}
		sort.Strings(bases)

		fmt.Fprintf(b, "| [%s.cs](%s.md) | %s | %s | %s |\n",
			u.Name, u.Name,
			nonEmpty(backtickJoin(typeNames), "-"),
			nonEmpty(backtickJoin(bases), "-"),
			nonEmpty(backtickJoin(u.Dependencies), "-"))
	}
	b.WriteString("\n")
}

func (g *IndexGenerator) writeAdjacency(b *strings.Builder, units []*parser.Unit) {
	b.WriteString("## Dependency Graph (Adjacency)\n")
	b.WriteString("```\n")
	for _, u := range units {
		for _, dep := range u.Dependencies {
			fmt.Fprintf(b, "%s -> %s\n", u.Name, dep)
		}
	}
	b.WriteString("```\n\n")
}

func (g *IndexGenerator) writeCycles(b *strings.Builder, cycles [][]string) {
	if len(cycles) == 0 {
		return
	}
	b.WriteString("## Dependency Cycles\n\n")
	for i, cycle := range cycles {
		fmt.Fprintf(b, "%d. `%s`\n", i+1, strings.Join(cycle, " -> "))
	}
	b.WriteString("\n")
}

func (g *IndexGenerator) writeQuickReference(b *strings.Builder, units []*parser.Unit) {
	b.WriteString("## All Public Methods (Quick Reference)\n\n")
	for _, u := range units {
		for _, decl := range u.Types {
			engineType := IsEngineDerived(decl.Bases)
			var api []parser.Method
			for _, m := range decl.Methods {
				if m.Visibility != "public" {
					continue
				}
				if engineType && IsLifecycleCallback(m.Name) {
					continue
				}
				api = append(api, m)
			}
			if len(api) == 0 {
				continue
			}
			fmt.Fprintf(b, "### `%s`\n", decl.Name)
			for _, m := range api {
				fmt.Fprintf(b, "- `%s %s(%s)`\n", m.ReturnType, m.Name, formatParams(m.Params))
			}
			b.WriteString("\n")
		}
	}
}

func (g *IndexGenerator) writeEnumIndex(b *strings.Builder, units []*parser.Unit) {
	type enumEntry struct {
		unit  string
		scope string
		enum  parser.Enum
	}
	var entries []enumEntry
	for _, u := range units {
		for _, e := range u.Enums {
			entries = append(entries, enumEntry{unit: u.Name, enum: e})
		}
		for _, decl := range u.Types {
			for _, e := range decl.Enums {
				entries = append(entries, enumEntry{unit: u.Name, scope: decl.Name + ".", enum: e})
			}
		}
	}
	if len(entries) == 0 {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].enum.Name < entries[j].enum.Name })

	b.WriteString("## All Enums\n\n")
	for _, entry := range entries {
		fmt.Fprintf(b, "- **%s%s**: %s  *(in %s.cs)*\n",
			entry.scope, entry.enum.Name, backtickJoin(entry.enum.Values), entry.unit)
	}
	b.WriteString("\n")
}
