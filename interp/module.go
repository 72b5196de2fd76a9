package interp

import (
	"github.com/wippyai/wasm-runtime/allocator"
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/values"
)

// ModuleInstance is the record createInstance produces: every
// namespace's addresses plus the name maps the interpreter resolves
// Identifier operands against at call time (see the root package doc on
// name resolution).
type ModuleInstance struct {
	Types     []*ast.Signature
	TypeNames map[string]int

	FuncAddrs []allocator.Address
	FuncNames map[string]int

	GlobalAddrs []allocator.Address
	GlobalNames map[string]int

	MemAddrs []allocator.Address
	MemNames map[string]int

	TableAddrs []allocator.Address
	TableNames map[string]int

	Exports map[string]ExportValue

	// DefaultMemory is the first declared/imported memory, used by the
	// single-memory load/store/grow/size executors (multi-memory is out
	// of scope).
	DefaultMemory allocator.Address
}

// ExportValue is one exported name, resolved to its namespace and
// address.
type ExportValue struct {
	Type ast.ExportType
	Addr allocator.Address
}

// WasmFunc is a function instance defined in the module itself.
type WasmFunc struct {
	Signature  *ast.Signature
	Locals     []ast.Param
	Body       []ast.Instruction
	Module     *ModuleInstance
}

// HostFunc is a function instance satisfying an imported function: a
// host-supplied Go callable, with the signature the import declared.
type HostFunc struct {
	Signature *ast.Signature
	Code      func(args []values.Value) ([]values.Value, error)
}

// GlobalInstance is a global variable's runtime state.
type GlobalInstance struct {
	Value   values.Value
	Mutable bool
	Type    string
}

// TableInstance holds function addresses (by index into a FuncAddrs
// namespace); Elems[i] is -1 for an uninitialized slot.
type TableInstance struct {
	ElementType string
	Elems       []int
	Max         *uint32
}

// Imports supplies the host-provided values a module's ModuleImport
// fields bind to, keyed by "module.name".
type Imports struct {
	Funcs   map[string]*HostFunc
	Globals map[string]values.Value
}

func importKey(mod, name string) string { return mod + "." + name }

// CreateInstance walks mod.Fields in the order spec.md §4.7 describes
// (types, then funcs, then globals, then memories, then tables, then
// active element/data segments, then exports) and returns the resulting
// instance. It does not run the start function; call RunStart for that.
func CreateInstance(alloc *allocator.Allocator, mod *ast.Module, imports Imports) (*ModuleInstance, error) {
	inst := &ModuleInstance{
		TypeNames:   map[string]int{},
		FuncNames:   map[string]int{},
		GlobalNames: map[string]int{},
		MemNames:    map[string]int{},
		TableNames:  map[string]int{},
		Exports:     map[string]ExportValue{},
	}

	for _, field := range mod.Fields {
		if t, ok := field.(*ast.TypeInstruction); ok {
			registerName(inst.TypeNames, t.ID, len(inst.Types))
			inst.Types = append(inst.Types, t.Signature)
		}
	}

	if err := instantiateFuncs(alloc, inst, mod, imports); err != nil {
		return nil, err
	}
	if err := instantiateGlobals(alloc, inst, mod, imports); err != nil {
		return nil, err
	}
	if err := instantiateMemories(alloc, inst, mod); err != nil {
		return nil, err
	}
	if err := instantiateTables(alloc, inst, mod); err != nil {
		return nil, err
	}
	if err := instantiateSegments(alloc, inst, mod); err != nil {
		return nil, err
	}
	instantiateExports(inst, mod)

	return inst, nil
}

func registerName(names map[string]int, id *ast.Identifier, idx int) {
	if id != nil && id.Value != "" {
		names[id.Value] = idx
	}
}

func instantiateFuncs(alloc *allocator.Allocator, inst *ModuleInstance, mod *ast.Module, imports Imports) error {
	for _, field := range mod.Fields {
		switch f := field.(type) {
		case *ast.ModuleImport:
			descr, ok := f.Descr.(*ast.FuncImportDescr)
			if !ok {
				continue
			}
			host, ok := imports.Funcs[importKey(f.Module, f.Name)]
			if !ok {
				return errors.NewRuntimeError(errors.KindUnknownAddress, "unresolved function import %s.%s", f.Module, f.Name)
			}
			addr := alloc.Malloc(allocator.KindFunc, host)
			inst.FuncAddrs = append(inst.FuncAddrs, addr)
			registerName(inst.FuncNames, descr.ID, len(inst.FuncAddrs)-1)
		case *ast.Func:
			sig := resolveSignature(inst, f.Signature)
			wf := &WasmFunc{Signature: sig, Locals: f.Locals, Body: f.Body, Module: inst}
			addr := alloc.Malloc(allocator.KindFunc, wf)
			inst.FuncAddrs = append(inst.FuncAddrs, addr)
			registerName(inst.FuncNames, f.ID, len(inst.FuncAddrs)-1)
		}
	}
	return nil
}

func instantiateGlobals(alloc *allocator.Allocator, inst *ModuleInstance, mod *ast.Module, imports Imports) error {
	for _, field := range mod.Fields {
		switch g := field.(type) {
		case *ast.ModuleImport:
			gt, ok := g.Descr.(*ast.GlobalType)
			if !ok {
				continue
			}
			v, ok := imports.Globals[importKey(g.Module, g.Name)]
			if !ok {
				t, _ := valueType(gt.Valtype)
				v = values.CreateValue(t, 0)
			}
			gi := &GlobalInstance{Value: v, Mutable: gt.Mutability == ast.Var, Type: gt.Valtype}
			addr := alloc.Malloc(allocator.KindGlobal, gi)
			inst.GlobalAddrs = append(inst.GlobalAddrs, addr)
		case *ast.Global:
			v, err := evalConst(alloc, inst, g.Init)
			if err != nil {
				return err
			}
			gi := &GlobalInstance{Value: v, Mutable: g.GlobalType.Mutability == ast.Var, Type: g.GlobalType.Valtype}
			addr := alloc.Malloc(allocator.KindGlobal, gi)
			inst.GlobalAddrs = append(inst.GlobalAddrs, addr)
			registerName(inst.GlobalNames, g.ID, len(inst.GlobalAddrs)-1)
		}
	}
	return nil
}

func instantiateMemories(alloc *allocator.Allocator, inst *ModuleInstance, mod *ast.Module) error {
	for _, field := range mod.Fields {
		switch m := field.(type) {
		case *ast.ModuleImport:
			mem, ok := m.Descr.(*ast.Memory)
			if !ok {
				continue
			}
			addr := alloc.MallocMemory(mem.Limits.Min, mem.Limits.Max)
			inst.MemAddrs = append(inst.MemAddrs, addr)
			registerName(inst.MemNames, mem.ID, len(inst.MemAddrs)-1)
		case *ast.Memory:
			addr := alloc.MallocMemory(m.Limits.Min, m.Limits.Max)
			inst.MemAddrs = append(inst.MemAddrs, addr)
			registerName(inst.MemNames, m.ID, len(inst.MemAddrs)-1)
		}
	}
	if len(inst.MemAddrs) > 0 {
		inst.DefaultMemory = inst.MemAddrs[0]
	}
	return nil
}

func instantiateTables(alloc *allocator.Allocator, inst *ModuleInstance, mod *ast.Module) error {
	for _, field := range mod.Fields {
		switch t := field.(type) {
		case *ast.ModuleImport:
			tb, ok := t.Descr.(*ast.Table)
			if !ok {
				continue
			}
			ti := buildTableInstance(tb, inst)
			addr := alloc.Malloc(allocator.KindTable, ti)
			inst.TableAddrs = append(inst.TableAddrs, addr)
			registerName(inst.TableNames, tb.ID, len(inst.TableAddrs)-1)
		case *ast.Table:
			ti := buildTableInstance(t, inst)
			addr := alloc.Malloc(allocator.KindTable, ti)
			inst.TableAddrs = append(inst.TableAddrs, addr)
			registerName(inst.TableNames, t.ID, len(inst.TableAddrs)-1)
		}
	}
	return nil
}

func buildTableInstance(t *ast.Table, inst *ModuleInstance) *TableInstance {
	size := t.Limits.Min
	if len(t.ElemIndices) > int(size) {
		size = uint32(len(t.ElemIndices))
	}
	elems := make([]int, size)
	for i := range elems {
		elems[i] = -1
	}
	for i, idx := range t.ElemIndices {
		if fi, err := resolveIndexInNames(idx, inst.FuncNames); err == nil {
			elems[i] = fi
		}
	}
	return &TableInstance{ElementType: t.ElementType, Elems: elems, Max: t.Limits.Max}
}

func instantiateSegments(alloc *allocator.Allocator, inst *ModuleInstance, mod *ast.Module) error {
	for _, field := range mod.Fields {
		switch seg := field.(type) {
		case *ast.Elem:
			tableAddr, err := inst.resolveTable(seg.TableIndex)
			if err != nil {
				return err
			}
			offsetV, err := evalConst(alloc, inst, seg.Offset)
			if err != nil {
				return err
			}
			ti := alloc.Get(tableAddr).(*TableInstance)
			offset := int(offsetV.I32())
			for i, fIdx := range seg.Funcs {
				fi, err := resolveIndexInNames(fIdx, inst.FuncNames)
				if err != nil {
					return err
				}
				if offset+i < len(ti.Elems) {
					ti.Elems[offset+i] = fi
				}
			}
		case *ast.Data:
			memAddr := inst.DefaultMemory
			if seg.MemoryIndex != nil {
				if a, err := inst.resolveMemory(seg.MemoryIndex); err == nil {
					memAddr = a
				}
			}
			offsetV, err := evalConst(alloc, inst, []ast.Instruction{seg.Offset})
			if err != nil {
				return err
			}
			mem := alloc.Memory(memAddr)
			if err := mem.Write(0, uint32(offsetV.I32()), seg.Init.Values); err != nil {
				return err
			}
		}
	}
	return nil
}

func instantiateExports(inst *ModuleInstance, mod *ast.Module) {
	for _, field := range mod.Fields {
		exp, ok := field.(*ast.ModuleExport)
		if !ok {
			continue
		}
		var addr allocator.Address
		var err error
		switch exp.Descr.ExportType {
		case ast.ExportFunc:
			addr, err = inst.resolveFunc(exp.Descr.ID)
		case ast.ExportGlobal:
			addr, err = inst.resolveGlobalIndex(exp.Descr.ID)
		case ast.ExportMemory:
			addr, err = inst.resolveMemory(exp.Descr.ID)
		case ast.ExportTable:
			addr, err = inst.resolveTable(exp.Descr.ID)
		}
		if err == nil {
			inst.Exports[exp.Name] = ExportValue{Type: exp.Descr.ExportType, Addr: addr}
		}
	}
}

// resolveSignature merges a (type $t)-referencing Signature with the
// already-registered TypeInstruction it names, so a caller only ever
// needs to look at Params/Results.
func resolveSignature(inst *ModuleInstance, sig *ast.Signature) *ast.Signature {
	if sig == nil {
		return &ast.Signature{}
	}
	if sig.TypeIndex == nil {
		return sig
	}
	idx, err := resolveIndexInNames(sig.TypeIndex, inst.TypeNames)
	if err != nil || idx < 0 || idx >= len(inst.Types) {
		return sig
	}
	typeSig := inst.Types[idx]
	merged := *sig
	merged.Results = typeSig.Results
	if len(merged.Params) == 0 {
		merged.Params = typeSig.Params
	}
	return &merged
}

// resolveIndexInNames resolves an ast.Index (IndexLiteral or Identifier)
// against a namespace's name map.
func resolveIndexInNames(idx ast.Index, names map[string]int) (int, error) {
	switch v := idx.(type) {
	case *ast.IndexLiteral:
		return int(v.Value), nil
	case *ast.Identifier:
		i, ok := names[v.Value]
		if !ok {
			return 0, errors.NewRuntimeError(errors.KindInvalidIndex, "unresolved name %q", v.Value)
		}
		return i, nil
	default:
		return 0, errors.NewRuntimeError(errors.KindInvalidIndex, "index must be a literal or identifier")
	}
}

func (inst *ModuleInstance) resolveFunc(idx ast.Index) (allocator.Address, error) {
	i, err := resolveIndexInNames(idx, inst.FuncNames)
	if err != nil {
		return allocator.Address{}, err
	}
	if i < 0 || i >= len(inst.FuncAddrs) {
		return allocator.Address{}, errors.NewRuntimeError(errors.KindUnknownAddress, "function index %d out of range", i)
	}
	return inst.FuncAddrs[i], nil
}

func (inst *ModuleInstance) resolveGlobalIndex(idx ast.Index) (allocator.Address, error) {
	i, err := resolveIndexInNames(idx, inst.GlobalNames)
	if err != nil {
		return allocator.Address{}, err
	}
	if i < 0 || i >= len(inst.GlobalAddrs) {
		return allocator.Address{}, errors.NewRuntimeError(errors.KindUnknownAddress, "global index %d out of range", i)
	}
	return inst.GlobalAddrs[i], nil
}

// resolveGlobal resolves an already-decoded indexOperand (used by the
// get_global/set_global executors, which parse their own operand shape
// ahead of the module's Index-based resolution).
func (inst *ModuleInstance) resolveGlobal(op indexOperand) (allocator.Address, error) {
	var i int
	if op.Numeric {
		i = op.Value
	} else {
		idx, ok := inst.GlobalNames[op.Name]
		if !ok {
			return allocator.Address{}, errors.NewRuntimeError(errors.KindInvalidIndex, "unresolved global %q", op.Name)
		}
		i = idx
	}
	if i < 0 || i >= len(inst.GlobalAddrs) {
		return allocator.Address{}, errors.NewRuntimeError(errors.KindUnknownAddress, "global index %d out of range", i)
	}
	return inst.GlobalAddrs[i], nil
}

func (inst *ModuleInstance) resolveMemory(idx ast.Index) (allocator.Address, error) {
	if idx == nil {
		return inst.DefaultMemory, nil
	}
	i, err := resolveIndexInNames(idx, inst.MemNames)
	if err != nil {
		return allocator.Address{}, err
	}
	if i < 0 || i >= len(inst.MemAddrs) {
		return allocator.Address{}, errors.NewRuntimeError(errors.KindUnknownAddress, "memory index %d out of range", i)
	}
	return inst.MemAddrs[i], nil
}

func (inst *ModuleInstance) resolveTable(idx ast.Index) (allocator.Address, error) {
	if idx == nil {
		if len(inst.TableAddrs) == 0 {
			return allocator.Address{}, errors.NewRuntimeError(errors.KindUnknownAddress, "module has no table")
		}
		return inst.TableAddrs[0], nil
	}
	i, err := resolveIndexInNames(idx, inst.TableNames)
	if err != nil {
		return allocator.Address{}, err
	}
	if i < 0 || i >= len(inst.TableAddrs) {
		return allocator.Address{}, errors.NewRuntimeError(errors.KindUnknownAddress, "table index %d out of range", i)
	}
	return inst.TableAddrs[i], nil
}

// evalConst runs a constant-expression instruction sequence (a Global's
// Init or a Data/Elem segment's Offset) in a transient root frame and
// returns its single result.
func evalConst(alloc *allocator.Allocator, inst *ModuleInstance, code []ast.Instruction) (values.Value, error) {
	frame := CreateStackFrame(code, nil, nil, inst, alloc)
	results, trap, err := ExecuteStackFrame(frame, 1)
	if err != nil {
		return values.Value{}, err
	}
	if trap != nil {
		return values.Value{}, trap
	}
	if len(results) == 0 {
		return values.Value{}, errors.NewRuntimeError(errors.KindMissingArgument, "constant expression produced no value")
	}
	return results[0], nil
}

// RunStart invokes the module's declared start function, if any.
func RunStart(alloc *allocator.Allocator, inst *ModuleInstance, mod *ast.Module) (*errors.Trap, error) {
	for _, field := range mod.Fields {
		start, ok := field.(*ast.Start)
		if !ok {
			continue
		}
		addr, err := inst.resolveFunc(start.Index)
		if err != nil {
			return nil, err
		}
		_, trap, err := InvokeFuncAddr(alloc, addr, nil)
		return trap, err
	}
	return nil, nil
}

// buildLocals constructs a WasmFunc activation's Locals array (params
// first, then zero-initialized declared locals) and the name map used
// to resolve get_local/set_local/tee_local identifiers.
func buildLocals(wf *WasmFunc, args []values.Value) ([]values.Value, map[string]int) {
	locals := make([]values.Value, 0, len(wf.Signature.Params)+len(wf.Locals))
	names := map[string]int{}
	for i, p := range wf.Signature.Params {
		var v values.Value
		if i < len(args) {
			v = args[i]
		} else {
			t, _ := valueType(p.Valtype)
			v = values.CreateValue(t, 0)
		}
		locals = append(locals, v)
		if p.ID != nil {
			names[p.ID.Value] = len(locals) - 1
		}
	}
	for _, p := range wf.Locals {
		t, _ := valueType(p.Valtype)
		locals = append(locals, values.CreateValue(t, 0))
		if p.ID != nil {
			names[p.ID.Value] = len(locals) - 1
		}
	}
	return locals, names
}

// PrepareCall resolves an exported function by name and builds the root
// StackFrame for a call to it with args, without running it — the entry
// point the step-through debugger uses so it can execute the frame's
// code one top-level instruction at a time via Step.
func PrepareCall(alloc *allocator.Allocator, inst *ModuleInstance, funcName string, args []values.Value) (*StackFrame, *WasmFunc, error) {
	exp, ok := inst.Exports[funcName]
	if !ok || exp.Type != ast.ExportFunc {
		return nil, nil, errors.NewRuntimeError(errors.KindUnknownAddress, "no exported function named %q", funcName)
	}
	fi, ok := alloc.Get(exp.Addr).(*WasmFunc)
	if !ok {
		return nil, nil, errors.NewRuntimeError(errors.KindUnsupportedOp, "%q is a host import, not steppable", funcName)
	}
	locals, names := buildLocals(fi, args)
	return CreateStackFrame(fi.Body, locals, names, inst, alloc), fi, nil
}

// ExportedFuncNames lists the module's exported function names in no
// particular order (Exports is a map), for a caller (the debugger's
// function picker) that wants to present a menu without walking Exports
// itself.
func (inst *ModuleInstance) ExportedFuncNames() []string {
	var out []string
	for name, exp := range inst.Exports {
		if exp.Type == ast.ExportFunc {
			out = append(out, name)
		}
	}
	return out
}
