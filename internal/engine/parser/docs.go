package parser

import (
	"regexp"
	"strings"
)

var (
	attrOnlyLineRe = regexp.MustCompile(`^\[.*\]$`)

	// Inline structuring tags stripped from doc lines.
	docTagRe = regexp.MustCompile(`</?(?:summary|remarks|para|returns|value|example|code|param[^>]*|typeparam[^>]*|see[^>]*|inheritdoc[^>]*)\s*/?>`)

	spaceRunRe = regexp.MustCompile(`\s+`)
)

// MemberDoc extracts the documentation block immediately preceding the
// declaration of name in the original (unstripped) source. It walks
// backward from the declaration line: blank lines terminate the scan once
// something has been collected, attribute-only lines are skipped
// transparently, comment lines accumulate, and a plain code line stops the
// scan empty-handed. The resolver never guesses.
func MemberDoc(src, name string) string {
	lines := strings.Split(src, "\n")
	decl := findDeclarationLine(lines, name)
	if decl <= 0 {
		return ""
	}
	return collectDocAbove(lines, decl)
}

func findDeclarationLine(lines []string, name string) int {
	declRe := regexp.MustCompile(`\b(?:public|private|protected|internal)\b.*\b` + regexp.QuoteMeta(name) + `\b`)
	for i, line := range lines {
		if declRe.MatchString(line) {
			return i
		}
	}
	return -1
}

// collectDocAbove is a small explicit state machine:
// seeking-start -> collecting-line-comments | collecting-block-comment -> done.
func collectDocAbove(lines []string, decl int) string {
	// Collected most-recent-first; reversed to reading order at the end.
	var collected []string
	collecting := false

	for i := decl - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case trimmed == "":
			if collecting {
				return joinDoc(reversed(collected))
			}
			// Blank lines above the declaration are skipped until the
			// first doc line is found.
			continue

		case attrOnlyLineRe.MatchString(trimmed):
			continue

		case strings.HasPrefix(trimmed, "//"):
			if text := stripDocLine(trimmed); text != "" {
				collected = append(collected, text)
			}
			collecting = true

		case strings.HasSuffix(trimmed, "*/"):
			block := collectBlockCommentAbove(lines, i)
			collected = append(collected, reversed(block)...)
			return joinDoc(reversed(collected))

		default:
			// Plain code: stop, reporting only what was already found.
			return joinDoc(reversed(collected))
		}
	}
	return joinDoc(reversed(collected))
}

// collectBlockCommentAbove gathers the block comment whose closing marker
// sits on lines[end], walking upward to the matching opening marker. Lines
// are returned in reading order.
func collectBlockCommentAbove(lines []string, end int) []string {
	start := end
	for start >= 0 && !strings.Contains(lines[start], "/*") {
		start--
	}
	if start < 0 {
		start = 0
	}

	var block []string
	for i := start; i <= end; i++ {
		if text := cleanBlockLine(lines[i]); text != "" {
			block = append(block, text)
		}
	}
	return block
}

// FileDoc extracts a file-level documentation block from the top of the
// source, before any using/namespace/declaration line. Blocks shorter than
// minLen are discarded: a one-line copyright stub is not architectural
// prose.
func FileDoc(src string, minLen int) string {
	lines := strings.Split(src, "\n")
	var collected []string
	inBlock := false

scan:
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inBlock {
			if strings.Contains(trimmed, "*/") {
				head, _, _ := strings.Cut(trimmed, "*/")
				if text := cleanBlockLine(head); text != "" {
					collected = append(collected, text)
				}
				break scan
			}
			if text := cleanBlockLine(trimmed); text != "" {
				collected = append(collected, text)
			}
			continue
		}

		switch {
		case trimmed == "":
			if len(collected) > 0 {
				break scan
			}

		case strings.HasPrefix(trimmed, "/*"):
			rest := strings.TrimPrefix(trimmed, "/*")
			if head, _, closed := strings.Cut(rest, "*/"); closed {
				if text := cleanBlockLine(head); text != "" {
					collected = append(collected, text)
				}
				break scan
			}
			if text := cleanBlockLine(rest); text != "" {
				collected = append(collected, text)
			}
			inBlock = true

		case strings.HasPrefix(trimmed, "//"):
			if text := stripDocLine(trimmed); text != "" {
				collected = append(collected, text)
			}

		case attrOnlyLineRe.MatchString(trimmed):
			continue

		default:
			break scan
		}
	}

	doc := joinDoc(collected)
	if len(doc) < minLen {
		return ""
	}
	return doc
}

func stripDocLine(line string) string {
	text := strings.TrimLeft(line, "/")
	text = docTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func cleanBlockLine(line string) string {
	text := strings.TrimSpace(line)
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	text = strings.TrimLeft(text, "* \t")
	text = docTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func joinDoc(parts []string) string {
	joined := strings.TrimSpace(strings.Join(parts, " "))
	return spaceRunRe.ReplaceAllString(joined, " ")
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
