// Package lexer holds the two text primitives everything above it relies
// on: comment stripping and balanced-brace block extraction. Both are pure
// functions over the raw source text; neither understands the grammar.
package lexer

import (
	"regexp"
	"strings"
)

var (
	lineCommentRe  = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// StripBOM removes a leading UTF-8 byte-order mark if present.
func StripBOM(src string) string {
	return strings.TrimPrefix(src, "\uFEFF")
}

// StripComments removes single-line and block comments from a copy of the
// source. Newlines inside block comments are preserved so that line-based
// heuristics downstream keep seeing declarations on their original lines.
//
// Known limitation: string and character literals are not understood, so a
// comment-like sequence inside a string literal is stripped as if it were a
// comment. Acceptable for an interface summary, not for round-tripping.
func StripComments(src string) string {
	src = lineCommentRe.ReplaceAllString(src, "")
	src = blockCommentRe.ReplaceAllStringFunc(src, func(m string) string {
		return strings.Repeat("\n", strings.Count(m, "\n"))
	})
	return src
}

// BraceBlock returns the substring from the opening brace at or after start
// through its matching closing brace, tracking nesting depth one rune at a
// time. If the braces never balance before the end of the text, the
// remainder from start is returned: downstream consumers still produce
// partial output for the rest of the file instead of failing.
func BraceBlock(src string, start int) string {
	depth := 0
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[start : i+1]
			}
		}
	}
	return src[start:]
}

// InnerBlock strips the outer brace pair from a block returned by
// BraceBlock. Degraded blocks without a closing brace lose only the
// opening brace.
func InnerBlock(block string) string {
	if len(block) == 0 || block[0] != '{' {
		return block
	}
	if block[len(block)-1] == '}' {
		return block[1 : len(block)-1]
	}
	return block[1:]
}
