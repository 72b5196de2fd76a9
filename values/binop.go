package values

import (
	"errors"
	"math"
)

// ErrDivideByZero and ErrDivideOverflow are the two ways integer
// division traps; the interpreter turns either into a WebAssembly
// Trap rather than a host-level error.
var (
	ErrDivideByZero   = errors.New("integer divide by zero")
	ErrDivideOverflow = errors.New("integer overflow")
	ErrUnsupportedOp  = errors.New("unsupported operand type for operator")
)

// Add, Sub, Mul apply across all four numeric types: two's-complement
// wraparound for i32/i64 (Go's native overflow behavior already wraps),
// IEEE-754 for f32/f64.
func Add(a, b Value) (Value, error) { return arith(a, b, addI32, addI64, addF32, addF64) }
func Sub(a, b Value) (Value, error) { return arith(a, b, subI32, subI64, subF32, subF64) }
func Mul(a, b Value) (Value, error) { return arith(a, b, mulI32, mulI64, mulF32, mulF64) }

// Div is signed integer division for i32/i64 (the source, and this
// port, share one implementation for signed and unsigned division —
// see the Open Questions in the design notes) and IEEE-754 division
// for f32/f64.
func Div(a, b Value) (Value, error) {
	switch a.Type {
	case I32:
		v, err := divS32(a.I32(), b.I32())
		if err != nil {
			return Value{}, err
		}
		return I32Value(v), nil
	case I64:
		v, err := divS64(a.I64(), b.I64())
		if err != nil {
			return Value{}, err
		}
		return I64Value(v), nil
	case F32:
		return F32Value(a.F32() / b.F32()), nil
	case F64:
		return F64Value(a.F64() / b.F64()), nil
	default:
		return Value{}, ErrUnsupportedOp
	}
}

// Min and Max are defined only for f32/f64: both preserve the sign of
// zero (min(+0,-0) = -0, max(+0,-0) = +0) and propagate NaN, matching
// Go's math.Min/math.Max special cases exactly.
func Min(a, b Value) (Value, error) {
	switch a.Type {
	case F32:
		return F32Value(float32(math.Min(float64(a.F32()), float64(b.F32())))), nil
	case F64:
		return F64Value(math.Min(a.F64(), b.F64())), nil
	default:
		return Value{}, ErrUnsupportedOp
	}
}

func Max(a, b Value) (Value, error) {
	switch a.Type {
	case F32:
		return F32Value(float32(math.Max(float64(a.F32()), float64(b.F32())))), nil
	case F64:
		return F64Value(math.Max(a.F64(), b.F64())), nil
	default:
		return Value{}, ErrUnsupportedOp
	}
}

func CopySign(a, b Value) (Value, error) {
	switch a.Type {
	case F32:
		return F32Value(float32(math.Copysign(float64(a.F32()), float64(b.F32())))), nil
	case F64:
		return F64Value(math.Copysign(a.F64(), b.F64())), nil
	default:
		return Value{}, ErrUnsupportedOp
	}
}

func arith(a, b Value, i32f func(int32, int32) int32, i64f func(int64, int64) int64, f32f func(float32, float32) float32, f64f func(float64, float64) float64) (Value, error) {
	switch a.Type {
	case I32:
		return I32Value(i32f(a.I32(), b.I32())), nil
	case I64:
		return I64Value(i64f(a.I64(), b.I64())), nil
	case F32:
		return F32Value(f32f(a.F32(), b.F32())), nil
	case F64:
		return F64Value(f64f(a.F64(), b.F64())), nil
	default:
		return Value{}, ErrUnsupportedOp
	}
}

func addI32(a, b int32) int32     { return a + b }
func addI64(a, b int64) int64     { return a + b }
func addF32(a, b float32) float32 { return a + b }
func addF64(a, b float64) float64 { return a + b }

func subI32(a, b int32) int32     { return a - b }
func subI64(a, b int64) int64     { return a - b }
func subF32(a, b float32) float32 { return a - b }
func subF64(a, b float64) float64 { return a - b }

func mulI32(a, b int32) int32     { return a * b }
func mulI64(a, b int64) int64     { return a * b }
func mulF32(a, b float32) float32 { return a * b }
func mulF64(a, b float64) float64 { return a * b }

func divS32(a, b int32) (int32, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == math.MinInt32 && b == -1 {
		return 0, ErrDivideOverflow
	}
	return a / b, nil
}

func divS64(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, ErrDivideOverflow
	}
	return a / b, nil
}

// RemS and RemU are the source's unresolved rem_s/rem_u (see the design
// notes' open questions): RemS truncates toward zero and keeps the
// dividend's sign, matching Go's native %; RemU reinterprets both
// operands as unsigned before taking the remainder.
func RemS(a, b Value) (Value, error) {
	switch a.Type {
	case I32:
		if b.I32() == 0 {
			return Value{}, ErrDivideByZero
		}
		return I32Value(a.I32() % b.I32()), nil
	case I64:
		if b.I64() == 0 {
			return Value{}, ErrDivideByZero
		}
		return I64Value(a.I64() % b.I64()), nil
	default:
		return Value{}, ErrUnsupportedOp
	}
}

func RemU(a, b Value) (Value, error) {
	switch a.Type {
	case I32:
		ub := uint32(b.I32())
		if ub == 0 {
			return Value{}, ErrDivideByZero
		}
		return I32Value(int32(uint32(a.I32()) % ub)), nil
	case I64:
		ub := uint64(b.I64())
		if ub == 0 {
			return Value{}, ErrDivideByZero
		}
		return I64Value(int64(uint64(a.I64()) % ub)), nil
	default:
		return Value{}, ErrUnsupportedOp
	}
}
