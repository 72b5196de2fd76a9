package interp

import (
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/values"
)

// executeInstr dispatches one instruction node against frame. It
// returns nil on ordinary completion, or one of branchSignal,
// returnSignal, *errors.Trap, or a plain error (RuntimeError) that the
// caller propagates unchanged.
func executeInstr(frame *StackFrame, in ast.Instruction) error {
	switch n := in.(type) {
	case *ast.BlockInstruction:
		return executeBlock(frame, n)
	case *ast.LoopInstruction:
		return executeLoop(frame, n)
	case *ast.IfInstruction:
		return executeIf(frame, n)
	case *ast.CallInstruction:
		return executeCall(frame, n)
	case *ast.CallIndirectInstruction:
		return executeCallIndirect(frame, n)
	case *ast.Instr:
		return executePlainInstr(frame, n)
	default:
		return errors.NewRuntimeError(errors.KindUnsupportedOp, "unexecutable instruction node")
	}
}

// executePlainInstr handles every Instr: control instructions with no
// type object (nop, drop, select, unreachable, return, br, br_if,
// br_table), locals/globals, and dotted (object.op) numeric/memory
// instructions.
func executePlainInstr(frame *StackFrame, in *ast.Instr) error {
	if in.Object == "" {
		switch in.ID {
		case "nop":
			return nil
		case "drop":
			_, err := frame.pop1()
			return err
		case "select":
			return executeSelect(frame)
		case "unreachable":
			return errors.NewTrap("unreachable instruction executed")
		case "return":
			return returnSignal{}
		case "br":
			return executeBr(frame, in)
		case "br_if":
			return executeBrIf(frame, in)
		case "br_table":
			return executeBrTable(frame, in)
		case "get_local":
			return executeGetLocal(frame, in)
		case "set_local":
			return executeSetLocal(frame, in, false)
		case "tee_local":
			return executeSetLocal(frame, in, true)
		case "get_global":
			return executeGetGlobal(frame, in)
		case "set_global":
			return executeSetGlobal(frame, in)
		case "memory.grow":
			return executeMemoryGrow(frame)
		case "memory.size":
			return executeMemorySize(frame)
		case "memory.fill":
			return executeMemoryFill(frame)
		case "memory.copy":
			return executeMemoryCopy(frame)
		default:
			return errors.NewRuntimeError(errors.KindUnsupportedOp, "unsupported instruction %q", in.ID)
		}
	}
	return executeNumericOrMemory(frame, in)
}

func executeSelect(frame *StackFrame) error {
	cond, err := frame.pop1()
	if err != nil {
		return err
	}
	onFalse, err := frame.pop1()
	if err != nil {
		return err
	}
	onTrue, err := frame.pop1()
	if err != nil {
		return err
	}
	if cond.I32() != 0 {
		frame.push(onTrue)
	} else {
		frame.push(onFalse)
	}
	return nil
}

// labelOperandDepth resolves a br/br_if/br_table target, which is
// either a NumberLiteral relative depth or an Identifier naming an
// enclosing label.
func labelOperandDepth(frame *StackFrame, operand ast.Instruction) (int, error) {
	switch v := operand.(type) {
	case *ast.NumberLiteral:
		return int(v.Value), nil
	case *ast.Identifier:
		depth, ok := frame.labelDepth(v.Value)
		if !ok {
			return 0, errors.NewRuntimeError(errors.KindInvalidIndex, "unresolved branch label %q", v.Value)
		}
		return depth, nil
	default:
		return 0, errors.NewRuntimeError(errors.KindInvalidIndex, "branch target must be a literal depth or a label")
	}
}

func executeBr(frame *StackFrame, in *ast.Instr) error {
	if len(in.Args) == 0 {
		return errors.NewRuntimeError(errors.KindMissingArgument, "br requires a target")
	}
	depth, err := labelOperandDepth(frame, in.Args[0])
	if err != nil {
		return err
	}
	return branchSignal{depth: depth}
}

func executeBrIf(frame *StackFrame, in *ast.Instr) error {
	if len(in.Args) == 0 {
		return errors.NewRuntimeError(errors.KindMissingArgument, "br_if requires a target")
	}
	cond, err := frame.pop1()
	if err != nil {
		return err
	}
	depth, err := labelOperandDepth(frame, in.Args[0])
	if err != nil {
		return err
	}
	if cond.I32() == 0 {
		return nil
	}
	return branchSignal{depth: depth}
}

// executeBrTable pops the index operand, selects Args[index] if in
// range or the final Args entry (the required default) otherwise.
func executeBrTable(frame *StackFrame, in *ast.Instr) error {
	if len(in.Args) == 0 {
		return errors.NewRuntimeError(errors.KindMissingArgument, "br_table requires at least a default target")
	}
	idx, err := frame.pop1()
	if err != nil {
		return err
	}
	i := int(idx.I32())
	targets := in.Args[:len(in.Args)-1]
	var target ast.Instruction
	if i >= 0 && i < len(targets) {
		target = targets[i]
	} else {
		target = in.Args[len(in.Args)-1]
	}
	depth, err := labelOperandDepth(frame, target)
	if err != nil {
		return err
	}
	return branchSignal{depth: depth}
}

func executeGetLocal(frame *StackFrame, in *ast.Instr) error {
	idx, err := localIndex(frame, in)
	if err != nil {
		return err
	}
	v, err := frame.getLocalByIndex(idx)
	if err != nil {
		return err
	}
	frame.push(v)
	return nil
}

// executeSetLocal implements both set_local and tee_local. The value
// comes from a folded init expression (a second Arg) when present,
// otherwise from the stack (the flat form, where a sibling instruction
// already pushed it). tee additionally pushes the value back.
func executeSetLocal(frame *StackFrame, in *ast.Instr, tee bool) error {
	idx, err := localIndex(frame, in)
	if err != nil {
		return err
	}
	v, err := resolveSetValue(frame, in)
	if err != nil {
		return err
	}
	if err := frame.setLocalByIndex(idx, v); err != nil {
		return err
	}
	if tee {
		frame.push(v)
	}
	return nil
}

// resolveSetValue evaluates the new value for set_local/tee_local:
// folded form carries it as in.Args[1], a nested instruction evaluated
// for its result; flat form leaves it already on the stack.
func resolveSetValue(frame *StackFrame, in *ast.Instr) (values.Value, error) {
	if len(in.Args) > 1 {
		if err := runSequence(frame, []ast.Instruction{in.Args[1]}); err != nil {
			return values.Value{}, err
		}
	}
	return frame.pop1()
}

func localIndex(frame *StackFrame, in *ast.Instr) (int, error) {
	op, err := operandIndex(in, 0, in.ID)
	if err != nil {
		return 0, err
	}
	if op.Numeric {
		return op.Value, nil
	}
	i, ok := frame.LocalNames[op.Name]
	if !ok {
		return 0, errors.NewRuntimeError(errors.KindInvalidIndex, "unresolved local %q", op.Name)
	}
	return i, nil
}

func executeGetGlobal(frame *StackFrame, in *ast.Instr) error {
	i, err := operandIndex(in, 0, in.ID)
	if err != nil {
		return err
	}
	addr, err := frame.Module.resolveGlobal(i)
	if err != nil {
		return err
	}
	g := frame.Alloc.Get(addr).(*GlobalInstance)
	frame.push(g.Value)
	return nil
}

func executeSetGlobal(frame *StackFrame, in *ast.Instr) error {
	i, err := operandIndex(in, 0, in.ID)
	if err != nil {
		return err
	}
	addr, err := frame.Module.resolveGlobal(i)
	if err != nil {
		return err
	}
	v, err := resolveSetValue(frame, in)
	if err != nil {
		return err
	}
	g := frame.Alloc.Get(addr).(*GlobalInstance)
	if !g.Mutable {
		return errors.NewRuntimeError(errors.KindTypeMismatch, "set_global of immutable global")
	}
	g.Value = v
	frame.Alloc.Set(addr, g)
	return nil
}

// operandIndex resolves Args[argPos] to either its numeric value (a
// coerced NumberLiteral) or its symbolic name (an Identifier), letting
// the caller's own namespace map resolve the name.
type indexOperand struct {
	Numeric bool
	Value   int
	Name    string
}

func operandIndex(in *ast.Instr, argPos int, op string) (indexOperand, error) {
	if len(in.Args) <= argPos {
		return indexOperand{}, errors.NewRuntimeError(errors.KindMissingArgument, "%s requires an index", op)
	}
	switch v := in.Args[argPos].(type) {
	case *ast.NumberLiteral:
		return indexOperand{Numeric: true, Value: int(v.Value)}, nil
	case *ast.Identifier:
		return indexOperand{Name: v.Value}, nil
	default:
		return indexOperand{}, errors.NewRuntimeError(errors.KindInvalidIndex, "%s index must be a literal or identifier", op)
	}
}

func executeMemoryGrow(frame *StackFrame) error {
	v, err := frame.pop1()
	if err != nil {
		return err
	}
	mem := frame.Alloc.Memory(frame.Module.DefaultMemory)
	frame.push(values.I32Value(mem.Grow(uint32(v.I32()))))
	return nil
}

func executeMemorySize(frame *StackFrame) error {
	mem := frame.Alloc.Memory(frame.Module.DefaultMemory)
	frame.push(values.I32Value(int32(mem.Pages())))
	return nil
}

// executeMemoryFill pops n, val, d and sets memory[d:d+n] to val.
func executeMemoryFill(frame *StackFrame) error {
	n, err := frame.pop1()
	if err != nil {
		return err
	}
	val, err := frame.pop1()
	if err != nil {
		return err
	}
	d, err := frame.pop1()
	if err != nil {
		return err
	}
	mem := frame.Alloc.Memory(frame.Module.DefaultMemory)
	if err := mem.Fill(uint32(d.I32()), uint32(n.I32()), byte(val.I32())); err != nil {
		return errors.NewTrap("%s", err.Error())
	}
	return nil
}

// executeMemoryCopy pops n, s, d and copies memory[s:s+n] to [d:d+n].
func executeMemoryCopy(frame *StackFrame) error {
	n, err := frame.pop1()
	if err != nil {
		return err
	}
	s, err := frame.pop1()
	if err != nil {
		return err
	}
	d, err := frame.pop1()
	if err != nil {
		return err
	}
	mem := frame.Alloc.Memory(frame.Module.DefaultMemory)
	if err := mem.CopyWithin(uint32(d.I32()), uint32(s.I32()), uint32(n.I32())); err != nil {
		return errors.NewTrap("%s", err.Error())
	}
	return nil
}

// executeBlock runs a BlockInstruction's body in a child frame. A
// branchSignal targeting the block (depth 0) is absorbed as normal
// completion; deeper signals and returnSignal bubble to the caller.
func executeBlock(frame *StackFrame, n *ast.BlockInstruction) error {
	err := createAndExecuteChildStackFrame(frame, n.Instr, labelName(n.Label))
	return absorbBranch(err)
}

// executeLoop runs a LoopInstruction's body repeatedly: a branchSignal
// targeting the loop (depth 0) restarts the body in a fresh child
// frame instead of falling through.
func executeLoop(frame *StackFrame, n *ast.LoopInstruction) error {
	for {
		err := createAndExecuteChildStackFrame(frame, n.Instr, labelName(n.Label))
		if err == nil {
			return nil
		}
		if bs, ok := err.(branchSignal); ok && bs.depth == 0 {
			continue
		}
		return decrementBranch(err)
	}
}

// executeIf evaluates n.Test (when present; the flat form leaves it
// empty because a preceding sibling already pushed the condition), then
// runs Consequent or Alternate in a child frame.
func executeIf(frame *StackFrame, n *ast.IfInstruction) error {
	if len(n.Test) > 0 {
		if err := runSequence(frame, n.Test); err != nil {
			return err
		}
	}
	cond, err := frame.pop1()
	if err != nil {
		return err
	}
	branch := n.Alternate
	if cond.I32() != 0 {
		branch = n.Consequent
	}
	err = createAndExecuteChildStackFrame(frame, branch, labelName(n.Label))
	return absorbBranch(err)
}

func labelName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Value
}

// absorbBranch turns a branchSignal targeting the current construct
// (depth 0) into normal completion and decrements everything else on
// its way out.
func absorbBranch(err error) error {
	if bs, ok := err.(branchSignal); ok && bs.depth == 0 {
		return nil
	}
	return decrementBranch(err)
}

func decrementBranch(err error) error {
	if bs, ok := err.(branchSignal); ok {
		return branchSignal{depth: bs.depth - 1}
	}
	return err
}
