package parser

import (
	"regexp"
	"strings"

	"surface/internal/engine/lexer"
)

var (
	fieldRe = regexp.MustCompile(
		`(?m)^\s*` +
			`(?P<attrs>(?:\[[\w\s,()="\.]+\]\s*)*)` +
			`(?P<access>public|private|protected|internal)\s+` +
			`(?P<static>static\s+)?` +
			`(?P<readonly>readonly\s+)?` +
			`(?P<const>const\s+)?` +
			`(?P<type>[\w<>\[\],\s\?\.]+?)\s+` +
			`(?P<name>\w+)\s*` +
			`(?:=\s*(?P<default>[^;]+))?\s*;`)

	propertyRe = regexp.MustCompile(
		`(?m)^\s*` +
			`(?P<access>public|private|protected|internal)\s+` +
			`(?P<static>static\s+)?` +
			`(?P<type>[\w<>\[\],\s\?\.]+?)\s+` +
			`(?P<name>\w+)\s*\{`)

	methodRe = regexp.MustCompile(
		`(?m)^\s*` +
			`(?P<attrs>(?:\[[\w\s,()="\.]+\]\s*)*)` +
			`(?P<access>public|private|protected|internal)\s+` +
			`(?P<static>static\s+)?` +
			`(?P<virtual>virtual\s+)?` +
			`(?P<override>override\s+)?` +
			`(?P<abstract>abstract\s+)?` +
			`(?P<async>async\s+)?` +
			`(?P<return>[\w<>\[\],\s\?\.]+?)\s+` +
			`(?P<name>\w+)\s*` +
			`(?:<[^>]+>)?\s*` + // generic params
			`\((?P<params>[^)]*)\)`)

	serializeFieldRe = regexp.MustCompile(`\[SerializeField\]`)
	headerAttrRe     = regexp.MustCompile(`\[Header\("([^"]+)"\)\]`)
	tooltipAttrRe    = regexp.MustCompile(`\[Tooltip\("([^"]+)"\)\]`)

	privateGetterRe = regexp.MustCompile(`private\s+get`)
	privateSetterRe = regexp.MustCompile(`private\s+set`)

	nestedTypeLineRe = regexp.MustCompile(`^(?:public|private|protected|internal)\s+(?:enum|class|struct|interface)\s+`)

	// iteratorMarker flags generator-style methods. The check is string
	// equality on the return type, nothing more.
	iteratorMarker = "IEnumerator"
)

// reservedTypeTokens guards against control-flow statements being misparsed
// as declarations when comment stripping leaves ambiguous text.
var reservedTypeTokens = map[string]bool{
	"return":    true,
	"yield":     true,
	"var":       true,
	"throw":     true,
	"new":       true,
	"class":     true,
	"enum":      true,
	"struct":    true,
	"interface": true,
	"event":     true,
}

// extractMembers fills decl with the members found in body (the type's
// inner text, outer braces already stripped). src is the original unstripped
// source, used only for documentation lookup.
func (p *Parser) extractMembers(decl *TypeDecl, body, src string) {
	// Nested enums first: field/property candidates are cross-checked
	// against sibling enum names.
	for _, m := range enumRe.FindAllStringSubmatchIndex(body, -1) {
		e := enumAt(body, m)
		if e.Visibility != "public" && e.Visibility != defaultVisibility {
			continue
		}
		decl.Enums = append(decl.Enums, e)
	}

	p.extractFields(decl, body)
	p.extractProperties(decl, body)
	p.extractMethods(decl, body, src)
}

func (p *Parser) extractFields(decl *TypeDecl, body string) {
	for _, m := range fieldRe.FindAllStringSubmatchIndex(body, -1) {
		group := groupFn(fieldRe, body, m)

		f := Field{
			Name:       group("name"),
			Type:       strings.TrimSpace(group("type")),
			Visibility: group("access"),
			Static:     group("static") != "",
			ReadOnly:   group("readonly") != "",
			Const:      group("const") != "",
			Serialized: serializeFieldRe.MatchString(group("attrs")),
			Default:    strings.TrimSpace(group("default")),
		}
		if reservedTypeTokens[f.Type] {
			continue
		}
		if !includeField(f) {
			continue
		}
		if am := headerAttrRe.FindStringSubmatch(group("attrs")); am != nil {
			f.Header = am[1]
		}
		if am := tooltipAttrRe.FindStringSubmatch(group("attrs")); am != nil {
			f.Tooltip = am[1]
		}

		decl.Fields = append(decl.Fields, f)
	}
}

// includeField implements the visibility-inclusion policy: each clause
// toggles inclusion independently.
func includeField(f Field) bool {
	if f.Visibility == "public" {
		return true
	}
	if f.Serialized {
		return true
	}
	if (f.Const || (f.Static && f.ReadOnly)) && f.Visibility != "private" {
		return true
	}
	return false
}

func (p *Parser) extractProperties(decl *TypeDecl, body string) {
	siblingNames := make(map[string]bool, len(decl.Enums))
	for _, e := range decl.Enums {
		siblingNames[e.Name] = true
	}

	for _, m := range propertyRe.FindAllStringSubmatchIndex(body, -1) {
		group := groupFn(propertyRe, body, m)

		if group("access") != "public" {
			continue
		}
		typeName := strings.TrimSpace(group("type"))
		if reservedTypeTokens[typeName] {
			continue
		}
		name := group("name")
		if siblingNames[name] {
			continue
		}
		// A nested type declaration line also matches the property shape.
		lineStart := strings.LastIndexByte(body[:m[0]+1], '\n') + 1
		if nestedTypeLineRe.MatchString(strings.TrimSpace(body[lineStart:m[1]])) {
			continue
		}

		accessors := lexer.BraceBlock(body, m[1]-1)
		prop := Property{
			Name:       name,
			Type:       typeName,
			Visibility: "public",
			HasGetter:  strings.Contains(accessors, "get") && !privateGetterRe.MatchString(accessors),
			HasSetter:  strings.Contains(accessors, "set") && !privateSetterRe.MatchString(accessors),
			Static:     group("static") != "",
		}
		decl.Properties = append(decl.Properties, prop)
	}
}

func (p *Parser) extractMethods(decl *TypeDecl, body, src string) {
	for _, m := range methodRe.FindAllStringSubmatchIndex(body, -1) {
		group := groupFn(methodRe, body, m)

		meth := Method{
			Name:       group("name"),
			ReturnType: strings.TrimSpace(group("return")),
			Visibility: group("access"),
			Static:     group("static") != "",
			Virtual:    group("virtual") != "",
			Override:   group("override") != "",
			Abstract:   group("abstract") != "",
			Async:      group("async") != "",
		}
		if reservedTypeTokens[meth.ReturnType] {
			continue
		}
		if !includeMethod(meth) {
			continue
		}
		meth.Coroutine = meth.ReturnType == iteratorMarker
		meth.Params = SplitParams(group("params"))
		meth.Doc = MemberDoc(src, meth.Name)

		decl.Methods = append(decl.Methods, meth)
	}
}

// includeMethod keeps public methods plus non-private ones a subclass could
// override. Private methods are never part of the interface summary.
func includeMethod(m Method) bool {
	switch m.Visibility {
	case "public":
		return true
	case "private":
		return false
	default:
		return m.Virtual || m.Override || m.Abstract
	}
}

// groupFn adapts FindAllStringSubmatchIndex output to named-group lookup.
func groupFn(re *regexp.Regexp, text string, m []int) func(string) string {
	return func(name string) string {
		i := re.SubexpIndex(name)
		if i < 0 || m[2*i] < 0 {
			return ""
		}
		return text[m[2*i]:m[2*i+1]]
	}
}
