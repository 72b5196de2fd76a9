// Package codeframe renders the two-line source excerpt ParseError
// attaches to every diagnostic: the offending line, and a caret line
// pointing at the column the token started on. No library in the
// corpus addresses this narrow a concern (pretty-printing a single
// source line with a caret); it is a handful of lines of string
// slicing, so it stays on the standard library rather than pulling in
// a dependency for it.
package codeframe

import (
	"strconv"
	"strings"

	"github.com/wippyai/wasm-runtime/token"
)

// FromSource renders the code frame for loc within source: the full
// line loc.Start is on, prefixed with its line number, followed by a
// caret line pointing at loc.Start.Col.
func FromSource(source string, loc token.Loc) string {
	lines := strings.Split(source, "\n")
	lineNo := loc.Start.Line
	if lineNo < 1 || lineNo > len(lines) {
		return ""
	}
	line := lines[lineNo-1]

	prefix := strconv.Itoa(lineNo) + " | "
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(line)
	b.WriteByte('\n')

	col := loc.Start.Col
	if col < 1 {
		col = 1
	}
	b.WriteString(strings.Repeat(" ", len(prefix)+col-1))
	b.WriteByte('^')
	return b.String()
}
