package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/values"
)

func numArg(v float64, typ string) ast.Expression {
	return ast.NewNumberLiteral("", typ, v)
}

func TestGetLocalAddYieldsSum(t *testing.T) {
	code := []ast.Instruction{
		ast.NewInstr("get_local", "", []ast.Expression{numArg(0, "i32")}, nil),
		ast.NewInstr("get_local", "", []ast.Expression{numArg(1, "i32")}, nil),
		ast.NewInstr("add", "i32", nil, nil),
	}
	locals := []values.Value{values.I32Value(1), values.I32Value(1)}
	frame := CreateStackFrame(code, locals, nil, nil, nil)

	results, trap, err := ExecuteStackFrame(frame, 1)
	require.NoError(t, err)
	require.Nil(t, trap)
	require.Len(t, results, 1)
	assert.Equal(t, values.I32, results[0].Type)
	assert.Equal(t, int32(2), results[0].I32())
}

func TestF32MinSignOfZero(t *testing.T) {
	code := []ast.Instruction{
		ast.NewInstr("get_local", "", []ast.Expression{numArg(0, "i32")}, nil),
		ast.NewInstr("get_local", "", []ast.Expression{numArg(1, "i32")}, nil),
		ast.NewInstr("min", "f32", nil, nil),
	}
	locals := []values.Value{values.F32Value(0), values.F32Value(float32(math.Copysign(0, -1)))}
	frame := CreateStackFrame(code, locals, nil, nil, nil)

	results, trap, err := ExecuteStackFrame(frame, 1)
	require.NoError(t, err)
	require.Nil(t, trap)
	require.Len(t, results, 1)
	assert.Equal(t, values.F32, results[0].Type)
	assert.True(t, math.Signbit(float64(results[0].F32())))
}

func TestF32MinPropagatesNaN(t *testing.T) {
	code := []ast.Instruction{
		ast.NewInstr("get_local", "", []ast.Expression{numArg(0, "i32")}, nil),
		ast.NewInstr("get_local", "", []ast.Expression{numArg(1, "i32")}, nil),
		ast.NewInstr("min", "f32", nil, nil),
	}
	locals := []values.Value{values.F32Value(float32(math.NaN())), values.F32Value(1234)}
	frame := CreateStackFrame(code, locals, nil, nil, nil)

	results, trap, err := ExecuteStackFrame(frame, 1)
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.True(t, math.IsNaN(float64(results[0].F32())))
}

func TestPop1OnEmptyStackErrors(t *testing.T) {
	frame := CreateStackFrame(nil, nil, nil, nil, nil)
	_, err := frame.pop1()
	assert.Error(t, err)
}

func TestReturnSignalIsAbsorbedByExecuteStackFrame(t *testing.T) {
	code := []ast.Instruction{
		ast.NewInstr("get_local", "", []ast.Expression{numArg(0, "i32")}, nil),
		ast.NewInstr("return", "", nil, nil),
	}
	locals := []values.Value{values.I32Value(9)}
	frame := CreateStackFrame(code, locals, nil, nil, nil)

	results, trap, err := ExecuteStackFrame(frame, 1)
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, int32(9), results[0].I32())
}

func TestUnreachableProducesTrap(t *testing.T) {
	code := []ast.Instruction{ast.NewInstr("unreachable", "", nil, nil)}
	frame := CreateStackFrame(code, nil, nil, nil, nil)
	_, trap, err := ExecuteStackFrame(frame, 0)
	require.NoError(t, err)
	require.NotNil(t, trap)
}

func TestDivideByZeroTraps(t *testing.T) {
	code := []ast.Instruction{
		ast.NewInstr("const", "i32", []ast.Expression{numArg(1, "i32")}, nil),
		ast.NewInstr("const", "i32", []ast.Expression{numArg(0, "i32")}, nil),
		ast.NewInstr("div_s", "i32", nil, nil),
	}
	frame := CreateStackFrame(code, nil, nil, nil, nil)
	_, trap, err := ExecuteStackFrame(frame, 1)
	require.NoError(t, err)
	require.NotNil(t, trap)
}

func TestBlockBranchDepthZeroFallsThrough(t *testing.T) {
	block := ast.NewBlockInstruction(nil, "", []ast.Instruction{
		ast.NewInstr("br", "", []ast.Expression{numArg(0, "i32")}, nil),
		ast.NewInstr("const", "i32", []ast.Expression{numArg(99, "i32")}, nil),
	})
	frame := CreateStackFrame([]ast.Instruction{block}, nil, nil, nil, nil)
	_, trap, err := ExecuteStackFrame(frame, 0)
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Empty(t, frame.Stack)
}

func TestLoopBranchDepthZeroRestartsBody(t *testing.T) {
	iterations := 0
	_ = iterations
	loop := ast.NewLoopInstruction(nil, "", []ast.Instruction{
		ast.NewInstr("get_local", "", []ast.Expression{numArg(0, "i32")}, nil),
		ast.NewInstr("const", "i32", []ast.Expression{numArg(1, "i32")}, nil),
		ast.NewInstr("sub", "i32", nil, nil),
		ast.NewInstr("tee_local", "", []ast.Expression{numArg(0, "i32")}, nil),
		ast.NewInstr("br_if", "", []ast.Expression{numArg(0, "i32")}, nil),
	})
	locals := []values.Value{values.I32Value(3)}
	frame := CreateStackFrame([]ast.Instruction{loop}, locals, nil, nil, nil)
	_, trap, err := ExecuteStackFrame(frame, 0)
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, int32(0), locals[0].I32())
}
