package interp

import "github.com/wippyai/wasm-runtime/values"

// ValueTypeOf maps a valtype name ("i32", "i64", "f32", "f64") to its
// runtime Type tag, for callers outside the package (the repl's
// argument-parsing) that need the same mapping the executors use.
func ValueTypeOf(name string) (values.Type, bool) { return valueType(name) }

// valueType maps a valtype name ("i32", "i64", "f32", "f64") to its
// runtime Type tag. Reference types (funcref, externref) and any other
// spelling return ok=false; its callers (the executors, global and
// local setup during instantiation and calls, and ValueTypeOf) only map
// numeric valtypes.
func valueType(name string) (values.Type, bool) {
	switch name {
	case "i32":
		return values.I32, true
	case "i64":
		return values.I64, true
	case "f32":
		return values.F32, true
	case "f64":
		return values.F64, true
	default:
		return "", false
	}
}
