// Package interp implements the tree-walking execution kernel: the
// per-call StackFrame and its instruction executors, plus module
// instantiation. The parser and allocator stay pure data structures;
// this package is where a parsed Module actually runs.
package interp

import (
	"strconv"

	"github.com/wippyai/wasm-runtime/allocator"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/values"
)

// branchSignal is returned up the recursive executeInstr/runSequence
// call chain by br/br_if/br_table. depth counts how many enclosing
// structured instructions remain to unwind before this branch reaches
// its target; each block/loop/if boundary that isn't the target
// decrements depth and re-returns the signal.
type branchSignal struct {
	depth int
}

func (branchSignal) Error() string { return "branch signal (internal control flow)" }

// returnSignal unwinds straight to the enclosing function-call boundary,
// passing through every intermediate block/loop/if frame untouched.
type returnSignal struct{}

func (returnSignal) Error() string { return "return signal (internal control flow)" }

// StackFrame is one activation of executeStackFrame: either the root
// frame of a function call, or a child frame for a block/loop/if body.
// Child frames share their parent's Locals/LocalNames (function-scoped)
// but get their own Stack and an extended Labels entry.
type StackFrame struct {
	Code   []ast.Instruction
	Locals []values.Value
	// LocalNames maps a local's symbolic name to its index, shared by
	// every frame within one function activation.
	LocalNames map[string]int
	Stack      []values.Value
	// Labels is the named branch-target stack, innermost entry last.
	// br $name searches it from the end.
	Labels []string

	Module *ModuleInstance
	Alloc  *allocator.Allocator
}

// CreateStackFrame builds the root frame for a function activation.
func CreateStackFrame(code []ast.Instruction, locals []values.Value, localNames map[string]int, mod *ModuleInstance, alloc *allocator.Allocator) *StackFrame {
	return &StackFrame{
		Code:       code,
		Locals:     locals,
		LocalNames: localNames,
		Module:     mod,
		Alloc:      alloc,
	}
}

func (f *StackFrame) child(code []ast.Instruction, label string) *StackFrame {
	labels := make([]string, len(f.Labels)+1)
	copy(labels, f.Labels)
	labels[len(labels)-1] = label
	return &StackFrame{
		Code:       code,
		Locals:     f.Locals,
		LocalNames: f.LocalNames,
		Labels:     labels,
		Module:     f.Module,
		Alloc:      f.Alloc,
	}
}

// push appends v to the operand stack.
func (f *StackFrame) push(v values.Value) { f.Stack = append(f.Stack, v) }

// pop1 pops and returns the top operand stack value.
func (f *StackFrame) pop1() (values.Value, error) {
	if len(f.Stack) == 0 {
		return values.Value{}, errors.NewRuntimeError(errors.KindStackUnderflow, "pop1 on empty stack")
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v, nil
}

// pop2 pops the two values an operator consumes, returning them in
// left-then-right operand order (the right operand was pushed last).
func (f *StackFrame) pop2() (left, right values.Value, err error) {
	right, err = f.pop1()
	if err != nil {
		return values.Value{}, values.Value{}, err
	}
	left, err = f.pop1()
	if err != nil {
		return values.Value{}, values.Value{}, err
	}
	return left, right, nil
}

// popN pops n values and returns them in the order they were pushed.
func (f *StackFrame) popN(n int) ([]values.Value, error) {
	if len(f.Stack) < n {
		return nil, errors.NewRuntimeError(errors.KindStackUnderflow, "popN on stack shorter than requested")
	}
	out := make([]values.Value, n)
	copy(out, f.Stack[len(f.Stack)-n:])
	f.Stack = f.Stack[:len(f.Stack)-n]
	return out, nil
}

// pushResult pushes v, the caller having already ensured v carries the
// type the producing operation declares.
func (f *StackFrame) pushResult(v values.Value) { f.push(v) }

// castIntoStackLocalOfType applies the host-numeric coercion rule to
// rawValue and pushes the resulting typed value.
func (f *StackFrame) castIntoStackLocalOfType(t values.Type, rawValue float64) {
	f.push(values.CreateValue(t, rawValue))
}

func (f *StackFrame) getLocalByIndex(i int) (values.Value, error) {
	if i < 0 || i >= len(f.Locals) {
		return values.Value{}, errors.NewRuntimeError(errors.KindInvalidIndex, "local index out of range")
	}
	return f.Locals[i], nil
}

func (f *StackFrame) setLocalByIndex(i int, v values.Value) error {
	if i < 0 || i >= len(f.Locals) {
		return errors.NewRuntimeError(errors.KindInvalidIndex, "local index out of range")
	}
	f.Locals[i] = v
	return nil
}

// labelDepth resolves a named branch target to its relative nesting
// depth (0 = innermost), searching Labels from the end.
func (f *StackFrame) labelDepth(name string) (int, bool) {
	for depth, i := 0, len(f.Labels)-1; i >= 0; depth, i = depth+1, i-1 {
		if f.Labels[i] == name {
			return depth, true
		}
	}
	return 0, false
}

// ExecuteStackFrame runs frame.Code to completion, absorbing the
// returnSignal a "return" instruction raises (this is the only place it
// is absorbed — every intermediate block/loop/if lets it bubble
// through). It returns the frame's result values, a trap, or an error.
func ExecuteStackFrame(frame *StackFrame, resultCount int) ([]values.Value, *errors.Trap, error) {
	err := runSequence(frame, frame.Code)
	if err != nil {
		if _, ok := err.(returnSignal); ok {
			return popResults(frame, resultCount)
		}
		if bs, ok := err.(branchSignal); ok {
			return nil, nil, errors.NewRuntimeError(errors.KindInvalidIndex, "branch of depth "+strconv.Itoa(bs.depth)+" escaped function body")
		}
		if t, ok := isTrapped(err); ok {
			return nil, t, nil
		}
		return nil, nil, err
	}
	return popResults(frame, resultCount)
}

func popResults(frame *StackFrame, n int) ([]values.Value, *errors.Trap, error) {
	out, err := frame.popN(n)
	if err != nil {
		return nil, nil, err
	}
	return out, nil, nil
}

// runSequence executes instrs in order against frame, stopping (and
// propagating) on the first branchSignal, returnSignal, trap, or error.
func runSequence(frame *StackFrame, instrs []ast.Instruction) error {
	for _, in := range instrs {
		if err := executeInstr(frame, in); err != nil {
			return err
		}
	}
	return nil
}

// createAndExecuteChildStackFrame runs a nested instruction sequence
// (a block/loop/if body) in a fresh child frame sharing locals with
// parent, merging its leftover operand(s) back into parent's stack and
// propagating any branch/return signal, trap, or error to the caller.
func createAndExecuteChildStackFrame(parent *StackFrame, code []ast.Instruction, label string) error {
	child := parent.child(code, label)
	err := runSequence(child, code)
	parent.Stack = append(parent.Stack, child.Stack...)
	return err
}

// isTrapped reports whether err names a propagating Trap sentinel.
func isTrapped(err error) (*errors.Trap, bool) {
	t, ok := err.(*errors.Trap)
	return t, ok
}

// Step executes exactly one top-level instruction of a frame's code
// against it, exposed for the step-through debugger. A structured
// instruction (block/loop/if) or a call runs to completion as a single
// step: the kernel's recursive-descent execution has no continuation to
// pause mid-construct, so single-stepping is only exact at the
// outermost instruction sequence of whatever frame is being stepped.
func Step(frame *StackFrame, instr ast.Instruction) error {
	return executeInstr(frame, instr)
}
