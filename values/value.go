// Package values implements the interpreter's typed runtime value: a
// small tagged union over i32/i64/f32/f64 (plus an internal "label"
// tag; the interp control flow tracks labels by name and does not use
// it), the host-numeric coercion rules
// ("createValue") and the IEEE-754/two's-complement binary operators
// the executors dispatch to.
package values

import "math"

// Type tags a Value with the valtype it was created as.
type Type string

const (
	I32   Type = "i32"
	I64   Type = "i64"
	F32   Type = "f32"
	F64   Type = "f64"
	Label Type = "label"
)

// Value is a typed runtime value. Integers and floats of both widths
// fit in the 64-bit Bits field; the accessor matching Type interprets
// it. A bare bit pattern without its Type tag is meaningless, which is
// why Value carries both rather than using `any`.
type Value struct {
	Type Type
	Bits uint64
}

func I32Value(v int32) Value { return Value{Type: I32, Bits: uint64(uint32(v))} }
func I64Value(v int64) Value { return Value{Type: I64, Bits: uint64(v)} }
func F32Value(v float32) Value { return Value{Type: F32, Bits: uint64(math.Float32bits(v))} }
func F64Value(v float64) Value { return Value{Type: F64, Bits: math.Float64bits(v)} }

// LabelValue carries a branch target's relative depth on the label
// stack; it is never pushed to the operand stack.
func LabelValue(depth int) Value { return Value{Type: Label, Bits: uint64(uint32(depth))} }

func (v Value) I32() int32     { return int32(uint32(v.Bits)) }
func (v Value) I64() int64     { return int64(v.Bits) }
func (v Value) F32() float32   { return math.Float32frombits(uint32(v.Bits)) }
func (v Value) F64() float64   { return math.Float64frombits(v.Bits) }
func (v Value) Depth() int     { return int(int32(uint32(v.Bits))) }

// Float64 widens any numeric Value to a float64, used for generic
// coercion ahead of CreateValue and for printing.
func (v Value) Float64() float64 {
	switch v.Type {
	case I32:
		return float64(v.I32())
	case I64:
		return float64(v.I64())
	case F32:
		return float64(v.F32())
	case F64:
		return v.F64()
	default:
		return 0
	}
}

// CreateValue applies the §4.3 host-numeric coercion for t to x: i32/i64
// wrap modulo their width after flooring any fractional part; f32/f64 pass
// through as floating point. t must be one of I32, I64, F32, F64.
func CreateValue(t Type, x float64) Value {
	switch t {
	case I32:
		return I32Value(wrapInt32(x))
	case I64:
		return I64Value(wrapInt64(x))
	case F32:
		return F32Value(float32(x))
	case F64:
		return F64Value(x)
	default:
		panic("values: CreateValue of non-numeric type " + string(t))
	}
}

// wrapInt32 floors x (rounding toward negative infinity, not toward
// zero, as §4.3 specifies floor before the modulo) and wraps the result
// into the 32-bit range.
func wrapInt32(x float64) int32 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f := math.Floor(x)
	m := math.Mod(f, 4294967296.0)
	if m < 0 {
		m += 4294967296.0
	}
	return int32(uint32(uint64(m)))
}

func wrapInt64(x float64) int64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f := math.Floor(x)
	if f >= -9223372036854775808.0 && f < 9223372036854775808.0 {
		// In range: convert directly, since 2^64 + f rounds away small
		// negative values in float64.
		return int64(f)
	}
	m := math.Mod(f, 18446744073709551616.0)
	if m < 0 {
		m += 18446744073709551616.0
	}
	return int64(uint64(m))
}
