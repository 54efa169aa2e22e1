// Package resolver links parsed units into a dependency adjacency by plain
// name matching. There is no symbol table and no namespace resolution: a
// token that equals a declared type name is an edge, full stop. Collisions
// between identically named types in different namespaces collapse to the
// unit seen first.
package resolver

import (
	"sort"
	"strings"

	"surface/internal/engine/parser"
)

// typePunct separates type-expression punctuation so that generic
// arguments, arrays and qualified names decompose into bare name tokens.
var typePunct = strings.NewReplacer(
	"<", " ", ">", " ",
	"[", " ", "]", " ",
	"(", " ", ")", " ",
	",", " ", "?", " ", ".", " ",
)

type Resolver struct {
	// owner maps a declared type or enum name to the unit that declares it.
	owner map[string]string
}

// New builds the corpus-wide name table. Duplicate declared names keep
// their first owner in input order; callers that care about determinism
// pass units in a stable order.
func New(units []*parser.Unit) *Resolver {
	owner := make(map[string]string)
	claim := func(name, unit string) {
		if _, taken := owner[name]; !taken {
			owner[name] = unit
		}
	}
	for _, u := range units {
		for _, t := range u.Types {
			claim(t.Name, u.Name)
		}
		for _, e := range u.Enums {
			claim(e.Name, u.Name)
		}
	}
	return &Resolver{owner: owner}
}

// Resolve fills each unit's Dependencies slice and returns the adjacency
// list keyed by unit name. Self references are dropped; mutual references
// between two units are kept as two separate edges, cycles included.
func (r *Resolver) Resolve(units []*parser.Unit) map[string][]string {
	edges := make(map[string][]string, len(units))
	for _, u := range units {
		deps := r.unitDeps(u)
		u.Dependencies = deps
		edges[u.Name] = deps
	}
	return edges
}

func (r *Resolver) unitDeps(u *parser.Unit) []string {
	seen := make(map[string]bool)
	for _, decl := range u.Types {
		for _, base := range decl.Bases {
			r.match(base, u.Name, seen)
		}
		for _, f := range decl.Fields {
			r.match(f.Type, u.Name, seen)
		}
		for _, prop := range decl.Properties {
			r.match(prop.Type, u.Name, seen)
		}
		for _, m := range decl.Methods {
			r.match(m.ReturnType, u.Name, seen)
			for _, p := range m.Params {
				r.match(p.Type, u.Name, seen)
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	deps := make([]string, 0, len(seen))
	for name := range seen {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps
}

// match records every known declared name inside one type expression,
// excluding the referencing unit itself.
func (r *Resolver) match(expr, self string, seen map[string]bool) {
	for _, token := range strings.Fields(typePunct.Replace(expr)) {
		target, known := r.owner[token]
		if known && target != self {
			seen[target] = true
		}
	}
}
