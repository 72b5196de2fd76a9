package interp

import (
	"github.com/wippyai/wasm-runtime/allocator"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/values"
)

// executeCall evaluates any folded InstrArgs against the caller's own
// stack, then invokes the target function, popping exactly its
// parameter count and pushing its results. Folded and flat argument
// passing are unified this way: a flat call's arguments were already
// pushed by preceding sibling instructions before Call ran.
func executeCall(frame *StackFrame, n *ast.CallInstruction) error {
	if err := runSequence(frame, n.InstrArgs); err != nil {
		return err
	}
	addr, err := frame.Module.resolveFunc(n.Index)
	if err != nil {
		return err
	}
	return invokeInto(frame, addr)
}

// executeCallIndirect resolves its callee by popping a table index off
// the stack (after any folded arguments), looks that index up in the
// module's default table, and invokes the resulting function.
func executeCallIndirect(frame *StackFrame, n *ast.CallIndirectInstruction) error {
	if err := runSequence(frame, n.InstrArgs); err != nil {
		return err
	}
	tableIdxVal, err := frame.pop1()
	if err != nil {
		return err
	}
	tableAddr, err := frame.Module.resolveTable(nil)
	if err != nil {
		return err
	}
	ti := frame.Alloc.Get(tableAddr).(*TableInstance)
	i := int(tableIdxVal.I32())
	if i < 0 || i >= len(ti.Elems) || ti.Elems[i] < 0 {
		return errors.NewTrap("call_indirect: uninitialized or out-of-range table element %d", i)
	}
	fIdx := ti.Elems[i]
	if fIdx < 0 || fIdx >= len(frame.Module.FuncAddrs) {
		return errors.NewRuntimeError(errors.KindUnknownAddress, "call_indirect target function index out of range")
	}
	return invokeInto(frame, frame.Module.FuncAddrs[fIdx])
}

// invokeInto pops the callee's declared parameter count from frame's
// stack, invokes it, and pushes its results back onto frame's stack.
func invokeInto(frame *StackFrame, addr allocator.Address) error {
	paramCount, err := funcParamCount(frame.Alloc, addr)
	if err != nil {
		return err
	}
	args, err := frame.popN(paramCount)
	if err != nil {
		return err
	}
	results, trap, err := InvokeFuncAddr(frame.Alloc, addr, args)
	if err != nil {
		return err
	}
	if trap != nil {
		return trap
	}
	for _, r := range results {
		frame.push(r)
	}
	return nil
}

func funcParamCount(alloc *allocator.Allocator, addr allocator.Address) (int, error) {
	switch fi := alloc.Get(addr).(type) {
	case *WasmFunc:
		return len(fi.Signature.Params), nil
	case *HostFunc:
		return len(fi.Signature.Params), nil
	default:
		return 0, errors.NewRuntimeError(errors.KindUnknownAddress, "address does not hold a function instance")
	}
}

// InvokeFuncAddr calls the function instance at addr with args,
// building a fresh root StackFrame for a WasmFunc or calling straight
// through to the host callable for a HostFunc.
func InvokeFuncAddr(alloc *allocator.Allocator, addr allocator.Address, args []values.Value) ([]values.Value, *errors.Trap, error) {
	switch fi := alloc.Get(addr).(type) {
	case *HostFunc:
		results, err := fi.Code(args)
		return results, nil, err
	case *WasmFunc:
		locals, names := buildLocals(fi, args)
		frame := CreateStackFrame(fi.Body, locals, names, fi.Module, alloc)
		return ExecuteStackFrame(frame, len(fi.Signature.Results))
	default:
		return nil, nil, errors.NewRuntimeError(errors.KindUnknownAddress, "address does not hold a function instance")
	}
}
