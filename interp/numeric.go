package interp

import (
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/values"
)

// binop is a binary numeric operator's implementation, looked up by
// name off the dotted instruction's Object-typed pair.
type binop func(a, b values.Value) (values.Value, error)

// binops dispatches on the instruction name alone; object-specific
// typing is carried by the operand Values themselves, not by this
// table. div_s and div_u alias the same implementation (see
// values.Div's doc comment), matching the source's own delegation to a
// single host division.
var binops = map[string]binop{
	"add":      values.Add,
	"sub":      values.Sub,
	"mul":      values.Mul,
	"div":      values.Div,
	"div_s":    values.Div,
	"div_u":    values.Div,
	"rem_s":    values.RemS,
	"rem_u":    values.RemU,
	"min":      values.Min,
	"max":      values.Max,
	"copysign": values.CopySign,
}

// executeNumericOrMemory handles every dotted (object.op) instruction:
// numeric const/binops and the full-width memory load/store ops.
func executeNumericOrMemory(frame *StackFrame, in *ast.Instr) error {
	t, ok := valueType(in.Object)
	if !ok {
		return errors.NewRuntimeError(errors.KindUnsupportedOp, "unsupported value type %q", in.Object)
	}

	switch in.ID {
	case "const":
		return executeConst(frame, in, t)
	case "load":
		return executeLoad(frame, in, t)
	case "store":
		return executeStore(frame, in, t)
	}

	if op, ok := binops[in.ID]; ok {
		return executeBinop(frame, op)
	}
	return errors.NewRuntimeError(errors.KindUnsupportedOp, "unsupported operation %q on %s", in.ID, in.Object)
}

func executeConst(frame *StackFrame, in *ast.Instr, t values.Type) error {
	if len(in.Args) == 0 {
		return errors.NewRuntimeError(errors.KindMissingArgument, "const requires a value")
	}
	lit, ok := in.Args[0].(*ast.NumberLiteral)
	if !ok {
		return errors.NewRuntimeError(errors.KindInvalidIndex, "const operand must be a number literal")
	}
	frame.castIntoStackLocalOfType(t, lit.Value)
	return nil
}

func executeBinop(frame *StackFrame, op binop) error {
	left, right, err := frame.pop2()
	if err != nil {
		return err
	}
	result, err := op(left, right)
	if err != nil {
		if err == values.ErrDivideByZero || err == values.ErrDivideOverflow {
			return errors.NewTrap("%s", err.Error())
		}
		return err
	}
	frame.pushResult(result)
	return nil
}
