package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/token"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	toks, err := token.Tokenize(source)
	require.NoError(t, err)
	prog, err := Parse(toks, source)
	require.NoError(t, err)
	return prog
}

func TestParseEmptyModule(t *testing.T) {
	prog := mustParse(t, "(module)")
	require.Len(t, prog.Body, 1)
	mod, ok := prog.Body[0].(*ast.Module)
	require.True(t, ok)
	assert.Nil(t, mod.ID)
	assert.Empty(t, mod.Fields)
}

func TestParseMemoryAndFuncWithExplicitExports(t *testing.T) {
	src := `(module (memory $m 1) (func $f (param i32) (result i32) (get_local 0) (i32.load)) (export "m" (memory $m)) (export "f" (func $f)))`
	prog := mustParse(t, src)
	mod := prog.Body[0].(*ast.Module)
	require.Len(t, mod.Fields, 4)

	mem, ok := mod.Fields[0].(*ast.Memory)
	require.True(t, ok)
	assert.Equal(t, "m", mem.ID.Value)
	require.NotNil(t, mem.Limits)
	assert.EqualValues(t, 1, mem.Limits.Min)

	fn, ok := mod.Fields[1].(*ast.Func)
	require.True(t, ok)
	assert.Equal(t, "f", fn.ID.Value)
	require.Len(t, fn.Signature.Params, 1)
	assert.Equal(t, "i32", fn.Signature.Params[0].Valtype)
	assert.Equal(t, []string{"i32"}, fn.Signature.Results)
	require.Len(t, fn.Body, 2)

	getLocal, ok := fn.Body[0].(*ast.Instr)
	require.True(t, ok)
	assert.Equal(t, "get_local", getLocal.ID)
	require.Len(t, getLocal.Args, 1)
	numLit, ok := getLocal.Args[0].(*ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, 0.0, numLit.Value)

	load, ok := fn.Body[1].(*ast.Instr)
	require.True(t, ok)
	assert.Equal(t, "load", load.ID)
	assert.Equal(t, "i32", load.Object)

	memExport, ok := mod.Fields[2].(*ast.ModuleExport)
	require.True(t, ok)
	assert.Equal(t, "m", memExport.Name)
	assert.Equal(t, ast.ExportMemory, memExport.Descr.ExportType)

	fnExport, ok := mod.Fields[3].(*ast.ModuleExport)
	require.True(t, ok)
	assert.Equal(t, "f", fnExport.Name)
	assert.Equal(t, ast.ExportFunc, fnExport.Descr.ExportType)
}

func TestParseShorthandExportIsSynthesizedAfterField(t *testing.T) {
	prog := mustParse(t, `(module (func $f (export "foo")))`)
	mod := prog.Body[0].(*ast.Module)
	require.Len(t, mod.Fields, 2)

	fn, ok := mod.Fields[0].(*ast.Func)
	require.True(t, ok)
	assert.Equal(t, "f", fn.ID.Value)

	exp, ok := mod.Fields[1].(*ast.ModuleExport)
	require.True(t, ok)
	assert.Equal(t, "foo", exp.Name)
	assert.Equal(t, ast.ExportFunc, exp.Descr.ExportType)
	id, ok := exp.Descr.ID.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "f", id.Value)
}

func TestParseDataSegment(t *testing.T) {
	prog := mustParse(t, `(data (i32.const 0) "hi")`)
	require.Len(t, prog.Body, 1)
	data, ok := prog.Body[0].(*ast.Data)
	require.True(t, ok)

	offset, ok := data.Offset.(*ast.Instr)
	require.True(t, ok)
	assert.Equal(t, "const", offset.ID)
	assert.Equal(t, "i32", offset.Object)
	require.Len(t, offset.Args, 1)
	lit := offset.Args[0].(*ast.NumberLiteral)
	assert.Equal(t, 0.0, lit.Value)
	assert.Equal(t, "i32", lit.Type)

	require.NotNil(t, data.Init)
	assert.Equal(t, []byte("hi"), data.Init.Values)
}

func TestParseFuncBodyNeverContainsStructuredKeywordAsPlainInstr(t *testing.T) {
	src := `(module (func $f (block (nop)) (loop (nop)) (if (then (nop)) (else (nop)))))`
	prog := mustParse(t, src)
	mod := prog.Body[0].(*ast.Module)
	fn := mod.Fields[0].(*ast.Func)

	require.Len(t, fn.Body, 3)
	_, isBlock := fn.Body[0].(*ast.BlockInstruction)
	assert.True(t, isBlock)
	_, isLoop := fn.Body[1].(*ast.LoopInstruction)
	assert.True(t, isLoop)
	_, isIf := fn.Body[2].(*ast.IfInstruction)
	assert.True(t, isIf)

	ast.Traverse(fn, ast.Visitors{
		ast.KInstr: func(p *ast.Path) {
			instr := p.Node().(*ast.Instr)
			assert.NotContains(t, []string{"block", "if", "loop"}, instr.ID)
		},
	})
}

func TestParseAnonymousFuncsGetDistinctMonotonicNames(t *testing.T) {
	prog := mustParse(t, `(module (func (nop)) (func (nop)))`)
	mod := prog.Body[0].(*ast.Module)
	require.Len(t, mod.Fields, 2)

	f0 := mod.Fields[0].(*ast.Func)
	f1 := mod.Fields[1].(*ast.Func)
	require.NotNil(t, f0.ID)
	require.NotNil(t, f1.ID)
	assert.NotEqual(t, f0.ID.Value, f1.ID.Value)
	assert.Equal(t, "", f0.ID.Raw)
}

func TestParseUnknownModuleFieldErrors(t *testing.T) {
	toks, err := token.Tokenize(`(module (bogus))`)
	require.NoError(t, err)
	_, err = Parse(toks, `(module (bogus))`)
	assert.Error(t, err)
}
