package parser

import (
	"regexp"
	"strings"
)

var (
	paramAttrRe = regexp.MustCompile(`\[[\w\s,()="\.]+\]\s*`)

	// Parameter-passing modifiers stripped from the front of a fragment.
	paramModifiers = []string{"ref ", "out ", "in ", "params ", "this "}
)

// SplitParams parses the raw text between a method's parameter parentheses
// into individual parameter specs. Splitting happens on top-level commas
// only, with depth tracked across angle brackets and parentheses, so commas
// inside nested generics stay put.
func SplitParams(raw string) []Param {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var fragments []string
	depth := 0
	var current strings.Builder
	for _, ch := range raw {
		switch {
		case ch == '<' || ch == '(':
			depth++
		case ch == '>' || ch == ')':
			depth--
		case ch == ',' && depth == 0:
			if frag := strings.TrimSpace(current.String()); frag != "" {
				fragments = append(fragments, frag)
			}
			current.Reset()
			continue
		}
		current.WriteRune(ch)
	}
	if frag := strings.TrimSpace(current.String()); frag != "" {
		fragments = append(fragments, frag)
	}

	params := make([]Param, 0, len(fragments))
	for _, frag := range fragments {
		p := parseParamFragment(frag)
		if p.Name == "" {
			continue
		}
		params = append(params, p)
	}
	return params
}

func parseParamFragment(frag string) Param {
	frag = strings.TrimSpace(paramAttrRe.ReplaceAllString(frag, ""))
	for _, mod := range paramModifiers {
		if strings.HasPrefix(frag, mod) {
			frag = strings.TrimPrefix(frag, mod)
			break
		}
	}

	var p Param
	if i := strings.LastIndexByte(frag, '='); i >= 0 {
		p.Default = strings.TrimSpace(frag[i+1:])
		frag = strings.TrimSpace(frag[:i])
	}

	// Rightmost whitespace boundary separates name from type. A fragment
	// with no interior whitespace degrades to an unknown-type sentinel
	// instead of failing the batch.
	if i := strings.LastIndexAny(frag, " \t"); i >= 0 {
		p.Name = strings.TrimSpace(frag[i+1:])
		p.Type = strings.TrimSpace(frag[:i])
	} else {
		p.Name = frag
		p.Type = "?"
	}
	return p
}
