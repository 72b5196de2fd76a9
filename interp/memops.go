package interp

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/values"
)

// memWidth is the byte width of a full-width i32/i64/f32/f64 load or
// store. Narrower access (i32.load8_s and friends) is not implemented:
// the parser keeps the width suffix in the op name, but the executor
// dispatches only the bare "load"/"store" names, so those ops fail as
// unsupported operations.
func memWidth(t values.Type) int {
	switch t {
	case values.I32, values.F32:
		return 4
	case values.I64, values.F64:
		return 8
	default:
		return 0
	}
}

// memOffset reads the instruction's offset= named argument, defaulting
// to 0 when absent.
func memOffset(in *ast.Instr) uint32 {
	if lit, ok := in.NamedArgs["offset"]; ok {
		return uint32(lit.Value)
	}
	return 0
}

func executeLoad(frame *StackFrame, in *ast.Instr, t values.Type) error {
	addr, err := frame.pop1()
	if err != nil {
		return err
	}
	memAddr, err := frame.Module.resolveMemory(nil)
	if err != nil {
		return err
	}
	mem := frame.Alloc.Memory(memAddr)
	width := memWidth(t)
	raw, err := mem.Read(memOffset(in), uint32(addr.I32()), uint32(width))
	if err != nil {
		return errors.NewTrap("%s", err.Error())
	}
	frame.push(decodeValue(t, raw))
	return nil
}

func executeStore(frame *StackFrame, in *ast.Instr, t values.Type) error {
	v, err := frame.pop1()
	if err != nil {
		return err
	}
	addr, err := frame.pop1()
	if err != nil {
		return err
	}
	memAddr, err := frame.Module.resolveMemory(nil)
	if err != nil {
		return err
	}
	mem := frame.Alloc.Memory(memAddr)
	raw := encodeValue(t, v)
	if err := mem.Write(memOffset(in), uint32(addr.I32()), raw); err != nil {
		return errors.NewTrap("%s", err.Error())
	}
	return nil
}

func decodeValue(t values.Type, raw []byte) values.Value {
	switch t {
	case values.I32:
		return values.I32Value(int32(binary.LittleEndian.Uint32(raw)))
	case values.I64:
		return values.I64Value(int64(binary.LittleEndian.Uint64(raw)))
	case values.F32:
		return values.F32Value(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	case values.F64:
		return values.F64Value(math.Float64frombits(binary.LittleEndian.Uint64(raw)))
	default:
		return values.Value{}
	}
}

func encodeValue(t values.Type, v values.Value) []byte {
	buf := make([]byte, memWidth(t))
	switch t {
	case values.I32:
		binary.LittleEndian.PutUint32(buf, uint32(v.I32()))
	case values.I64:
		binary.LittleEndian.PutUint64(buf, uint64(v.I64()))
	case values.F32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v.F32()))
	case values.F64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v.F64()))
	}
	return buf
}
