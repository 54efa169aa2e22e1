// Package parser turns raw C# source text into a structural declaration
// model. It is deliberately not a compiler front end: declarations are
// recovered with ordered regex matchers over a comment-stripped view plus
// balanced-brace block extraction, and constructs that cannot be classified
// with confidence are silently omitted rather than rejected.
package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"surface/internal/engine/lexer"
)

var (
	usingRe     = regexp.MustCompile(`(?m)^\s*using\s+([\w.]+)\s*;`)
	namespaceRe = regexp.MustCompile(`(?m)^\s*namespace\s+([\w.]+)`)

	typeRe = regexp.MustCompile(
		`(?P<access>public|private|protected|internal)?\s*` +
			`(?P<abstract>abstract\s+)?` +
			`(?P<static>static\s+)?` +
			`(?P<partial>partial\s+)?` +
			`(?P<kind>class|struct|interface)\s+` +
			`(?P<name>\w+)` +
			`(?:<[^>]+>)?` + // generic params
			`(?:\s*:\s*(?P<bases>[^{]+?))?` +
			`\s*\{`)

	enumRe = regexp.MustCompile(
		`(?P<access>public|private|protected|internal)?\s*` +
			`enum\s+(?P<name>\w+)\s*(?::\s*\w+\s*)?\{`)
)

const editorGuard = "#if UNITY_EDITOR"

// defaultVisibility is assumed when a declaration carries no access keyword.
const defaultVisibility = "internal"

type Parser struct {
	// MinFileDocLen discards file-level documentation shorter than this,
	// filtering out one-line copyright stubs.
	MinFileDocLen int
}

func New() *Parser {
	return &Parser{MinFileDocLen: 80}
}

// Parse builds the structural model for one source file. A non-nil error
// means the unit could not be processed at all; partial extraction inside a
// readable file is not an error.
func (p *Parser) Parse(path string, content []byte) (*Unit, error) {
	src := lexer.StripBOM(string(content))
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("invalid UTF-8 in %s", path)
	}

	clean := lexer.StripComments(src)

	unit := &Unit{
		Path:       path,
		Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		EditorOnly: strings.Contains(src, editorGuard),
	}

	for _, m := range usingRe.FindAllStringSubmatch(clean, -1) {
		unit.Usings = append(unit.Usings, m[1])
	}
	if m := namespaceRe.FindStringSubmatch(clean); m != nil {
		unit.Namespace = m[1]
	}
	unit.Doc = FileDoc(src, p.MinFileDocLen)

	// Top-level enums are only accepted before the first type declaration;
	// anything after that boundary belongs to a type body and is picked up
	// by the member extractor instead.
	typeMatches := typeRe.FindAllStringSubmatchIndex(clean, -1)
	enumBoundary := len(clean)
	if len(typeMatches) > 0 {
		enumBoundary = typeMatches[0][0]
	}
	for _, em := range enumRe.FindAllStringSubmatchIndex(clean, -1) {
		if em[0] >= enumBoundary {
			break
		}
		unit.Enums = append(unit.Enums, enumAt(clean, em))
	}

	for _, tm := range typeMatches {
		unit.Types = append(unit.Types, p.typeAt(clean, src, tm))
	}

	return unit, nil
}

func (p *Parser) typeAt(clean, src string, m []int) TypeDecl {
	group := groupFn(typeRe, clean, m)

	decl := TypeDecl{
		Name:       group("name"),
		Visibility: defaultVisibility,
		Kind:       TypeKind(group("kind")),
		Abstract:   group("abstract") != "",
		Static:     group("static") != "",
		Partial:    group("partial") != "",
		Bases:      splitBases(group("bases")),
	}
	if access := group("access"); access != "" {
		decl.Visibility = access
	}
	decl.Doc = MemberDoc(src, decl.Name)

	// The pattern ends on the opening brace, so the block starts at the
	// last matched byte.
	body := lexer.InnerBlock(lexer.BraceBlock(clean, m[1]-1))
	p.extractMembers(&decl, body, src)

	return decl
}

// splitBases splits a raw base-list string on top-level commas, tracking
// generic-bracket depth so that commas inside a generic argument list do not
// fragment the split. A trailing where-constraint clause truncates the list.
func splitBases(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var bases []string
	depth := 0
	var current strings.Builder
	flush := func(last bool) {
		name := strings.TrimSpace(current.String())
		current.Reset()
		if name == "" || name == "where" || strings.HasPrefix(name, "where ") {
			return
		}
		if last {
			if i := strings.Index(name, " where "); i >= 0 {
				name = strings.TrimSpace(name[:i])
			}
		}
		bases = append(bases, name)
	}

	for _, ch := range raw {
		switch {
		case ch == '<':
			depth++
		case ch == '>':
			depth--
		case ch == ',' && depth == 0:
			flush(false)
			continue
		}
		current.WriteRune(ch)
	}
	flush(true)

	return bases
}

func enumAt(clean string, m []int) Enum {
	group := groupFn(enumRe, clean, m)

	e := Enum{
		Name:       group("name"),
		Visibility: defaultVisibility,
	}
	if access := group("access"); access != "" {
		e.Visibility = access
	}

	body := lexer.InnerBlock(lexer.BraceBlock(clean, m[1]-1))
	e.Values = enumValues(body)
	return e
}

// enumValues keeps the symbolic member names and discards explicit numeric
// assignments.
func enumValues(body string) []string {
	var values []string
	for _, part := range strings.Split(body, ",") {
		name := strings.TrimSpace(part)
		if i := strings.Index(name, "="); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name != "" {
			values = append(values, name)
		}
	}
	return values
}
