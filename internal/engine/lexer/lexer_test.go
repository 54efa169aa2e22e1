package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripBOM(t *testing.T) {
	assert.Equal(t, "class A {}", StripBOM("\uFEFFclass A {}"))
	assert.Equal(t, "class A {}", StripBOM("class A {}"))
}

func TestStripCommentsLineAndBlock(t *testing.T) {
	src := "int x; // trailing\n/* gone */int y;\nint z;"
	out := StripComments(src)

	assert.NotContains(t, out, "trailing")
	assert.NotContains(t, out, "gone")
	assert.Contains(t, out, "int x;")
	assert.Contains(t, out, "int y;")
	assert.Contains(t, out, "int z;")
}

func TestStripCommentsPreservesLineCount(t *testing.T) {
	src := "a\n/* one\ntwo\nthree */\nb"
	out := StripComments(src)

	assert.Equal(t, strings.Count(src, "\n"), strings.Count(out, "\n"))
}

func TestStripCommentsInsideStringIsKnownLossy(t *testing.T) {
	// Documented approximation: the normalizer has no literal awareness.
	out := StripComments(`string s = "http://example";`)
	assert.Equal(t, `string s = "http:`, out)
}

func TestBraceBlockNested(t *testing.T) {
	src := "class A { void M() { if (x) { y(); } } } trailing"
	block := BraceBlock(src, strings.Index(src, "{"))

	assert.Equal(t, byte('{'), block[0])
	assert.Equal(t, byte('}'), block[len(block)-1])
	assert.Equal(t, "{ void M() { if (x) { y(); } } }", block)

	// Depth returns to zero exactly once, at the end.
	depth, zeroCrossings := 0, 0
	for _, r := range block {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				zeroCrossings++
			}
		}
	}
	assert.Equal(t, 1, zeroCrossings)
}

func TestBraceBlockUnbalancedReturnsRemainder(t *testing.T) {
	src := "class A { void M() {"
	block := BraceBlock(src, strings.Index(src, "{"))
	assert.Equal(t, "{ void M() {", block)
}

func TestInnerBlock(t *testing.T) {
	assert.Equal(t, " body ", InnerBlock("{ body }"))
	assert.Equal(t, " open", InnerBlock("{ open"))
	assert.Equal(t, "", InnerBlock(""))
}
