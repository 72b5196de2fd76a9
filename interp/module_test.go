package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wippyai/wasm-runtime/allocator"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/parser"
	"github.com/wippyai/wasm-runtime/token"
	"github.com/wippyai/wasm-runtime/values"
)

func parseModule(t *testing.T, source string) *ast.Module {
	t.Helper()
	toks, err := token.Tokenize(source)
	require.NoError(t, err)
	prog, err := parser.Parse(toks, source)
	require.NoError(t, err)
	return prog.Body[0].(*ast.Module)
}

func TestCreateInstanceAndInvokeExportedFunc(t *testing.T) {
	src := `(module
		(func $add (export "add") (param i32) (param i32) (result i32)
			(get_local 0) (get_local 1) (i32.add)))`
	mod := parseModule(t, src)
	alloc := allocator.New()

	inst, err := CreateInstance(alloc, mod, Imports{})
	require.NoError(t, err)

	exp, ok := inst.Exports["add"]
	require.True(t, ok)
	assert.Equal(t, ast.ExportFunc, exp.Type)

	results, trap, err := InvokeFuncAddr(alloc, exp.Addr, []values.Value{values.I32Value(2), values.I32Value(3)})
	require.NoError(t, err)
	require.Nil(t, trap)
	require.Len(t, results, 1)
	assert.Equal(t, int32(5), results[0].I32())
}

func TestCreateInstanceInitializesDataSegment(t *testing.T) {
	src := `(module (memory $m 1) (data (i32.const 0) "hi"))`
	mod := parseModule(t, src)
	alloc := allocator.New()

	inst, err := CreateInstance(alloc, mod, Imports{})
	require.NoError(t, err)

	mem := alloc.Memory(inst.DefaultMemory)
	got, err := mem.Read(0, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), got)
}

func TestCreateInstanceEvaluatesGlobalInit(t *testing.T) {
	src := `(module (global $g i32 (i32.const 42)))`
	mod := parseModule(t, src)
	alloc := allocator.New()

	inst, err := CreateInstance(alloc, mod, Imports{})
	require.NoError(t, err)
	require.Len(t, inst.GlobalAddrs, 1)

	g := alloc.Get(inst.GlobalAddrs[0]).(*GlobalInstance)
	assert.Equal(t, int32(42), g.Value.I32())
	assert.False(t, g.Mutable)
}

func TestCreateInstanceRunsStartFunction(t *testing.T) {
	src := `(module
		(global $g (mut i32) (i32.const 0))
		(func $init (set_global $g (i32.const 7)))
		(start $init))`
	mod := parseModule(t, src)
	alloc := allocator.New()

	inst, err := CreateInstance(alloc, mod, Imports{})
	require.NoError(t, err)

	trap, err := RunStart(alloc, inst, mod)
	require.NoError(t, err)
	require.Nil(t, trap)

	g := alloc.Get(inst.GlobalAddrs[0]).(*GlobalInstance)
	assert.Equal(t, int32(7), g.Value.I32())
}

func TestCreateInstanceResolvesFunctionImport(t *testing.T) {
	src := `(module (import "env" "log" (func $log (param i32))) (func $call_log (call $log (i32.const 1))))`
	mod := parseModule(t, src)
	alloc := allocator.New()

	var seen int32
	imports := Imports{Funcs: map[string]*HostFunc{
		"env.log": {
			Signature: &ast.Signature{Params: []ast.Param{{Valtype: "i32"}}},
			Code: func(args []values.Value) ([]values.Value, error) {
				seen = args[0].I32()
				return nil, nil
			},
		},
	}}

	inst, err := CreateInstance(alloc, mod, imports)
	require.NoError(t, err)

	addr, err := inst.resolveFunc(&ast.Identifier{Value: "call_log"})
	require.NoError(t, err)
	_, trap, err := InvokeFuncAddr(alloc, addr, nil)
	require.NoError(t, err)
	require.Nil(t, trap)
	assert.Equal(t, int32(1), seen)
}

func TestCreateInstanceMissingFunctionImportErrors(t *testing.T) {
	src := `(module (import "env" "log" (func $log (param i32))))`
	mod := parseModule(t, src)
	alloc := allocator.New()

	_, err := CreateInstance(alloc, mod, Imports{})
	assert.Error(t, err)
}
