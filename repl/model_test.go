package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/values"
)

func TestParseArgCoercesByValtype(t *testing.T) {
	v := parseArg("i32", "42")
	assert.Equal(t, values.I32, v.Type)
	assert.Equal(t, int32(42), v.I32())
}

func TestParseArgDefaultsToI32OnUnknownValtype(t *testing.T) {
	v := parseArg("bogus", "5")
	assert.Equal(t, values.I32, v.Type)
}

func TestParseArgIgnoresUnparseableInput(t *testing.T) {
	v := parseArg("f32", "not-a-number")
	assert.Equal(t, values.F32, v.Type)
	assert.Equal(t, float32(0), v.F32())
}

func TestDescribeInstrNamesEachNodeKind(t *testing.T) {
	assert.Equal(t, "i32.add", describeInstr(ast.NewInstr("add", "i32", nil, nil)))
	assert.Equal(t, "nop", describeInstr(ast.NewInstr("nop", "", nil, nil)))
	assert.Equal(t, "block", describeInstr(ast.NewBlockInstruction(nil, "", nil)))
	assert.Equal(t, "loop", describeInstr(ast.NewLoopInstruction(nil, "", nil)))
	assert.Equal(t, "if", describeInstr(ast.NewIfInstruction(nil, "", nil, nil, nil)))
	assert.Equal(t, "call", describeInstr(ast.NewCallInstruction(nil, nil)))
	assert.Equal(t, "call_indirect", describeInstr(ast.NewCallIndirectInstruction(nil, nil)))
}

func TestFormatStackRendersTypeAndValue(t *testing.T) {
	out := formatStack([]values.Value{values.I32Value(3), values.F32Value(1.5)})
	assert.Equal(t, "[i32:3, f32:1.5]", out)
}

func TestFormatStackEmpty(t *testing.T) {
	assert.Equal(t, "[]", formatStack(nil))
}
