package codeframe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wippyai/wasm-runtime/token"
)

func TestFromSourcePointsAtColumn(t *testing.T) {
	src := "(module\n  (foo)\n)"
	loc := token.Loc{Start: token.Position{Line: 2, Col: 3}}
	frame := FromSource(src, loc)
	assert.Equal(t, "2 | "+"  (foo)"+"\n"+strings.Repeat(" ", 6)+"^", frame)
}

func TestFromSourceOutOfRangeLineReturnsEmpty(t *testing.T) {
	src := "(module)"
	loc := token.Loc{Start: token.Position{Line: 5, Col: 1}}
	assert.Equal(t, "", FromSource(src, loc))
}

func TestFromSourceClampsColumnBelowOne(t *testing.T) {
	src := "abc"
	loc := token.Loc{Start: token.Position{Line: 1, Col: 0}}
	frame := FromSource(src, loc)
	assert.Equal(t, "1 | abc\n"+strings.Repeat(" ", 4)+"^", frame)
}
