// Package allocator implements the interpreter's process-lifetime
// store: an address-indexed arena for function/global/table instances
// plus the linear memory buffers backing "memory" addresses. Module
// instances hold addresses into this store rather than direct
// references, which is what lets a function instance point back at its
// owning module without a reference cycle.
package allocator

import "fmt"

// Kind names one of the four namespaces an Address can belong to.
type Kind string

const (
	KindFunc   Kind = "func"
	KindGlobal Kind = "global"
	KindMemory Kind = "memory"
	KindTable  Kind = "table"
)

// Address is an opaque handle into the allocator, stable for the
// allocator's lifetime.
type Address struct {
	Kind  Kind
	Index int
}

func (a Address) String() string { return fmt.Sprintf("%s#%d", a.Kind, a.Index) }

// Allocator is the store described in §4.4: four parallel arenas (one
// per Kind) of host-opaque instances, addressed by monotonically
// assigned index. It is not safe for concurrent use — the design
// assumes one allocator per module, with the host serializing access.
type Allocator struct {
	funcs    []any
	globals  []any
	memories []*Memory
	tables   []any
}

func New() *Allocator { return &Allocator{} }

// Malloc allocates a new slot of kind k holding instance and returns
// its address. kind must not be KindMemory — memories are allocated
// with MallocMemory, since they need page-count arguments rather than
// an opaque instance.
func (a *Allocator) Malloc(k Kind, instance any) Address {
	switch k {
	case KindFunc:
		a.funcs = append(a.funcs, instance)
		return Address{Kind: k, Index: len(a.funcs) - 1}
	case KindGlobal:
		a.globals = append(a.globals, instance)
		return Address{Kind: k, Index: len(a.globals) - 1}
	case KindTable:
		a.tables = append(a.tables, instance)
		return Address{Kind: k, Index: len(a.tables) - 1}
	default:
		panic("allocator: Malloc called with kind " + string(k) + "; use MallocMemory")
	}
}

// MallocMemory allocates a new linear memory buffer and returns its
// address.
func (a *Allocator) MallocMemory(initialPages uint32, maxPages *uint32) Address {
	a.memories = append(a.memories, NewMemory(initialPages, maxPages))
	return Address{Kind: KindMemory, Index: len(a.memories) - 1}
}

// Get resolves addr to its stored instance. It panics on an address
// from the wrong arena or out of range — that is always an interpreter
// bug (a dangling or miscomputed address), not a recoverable runtime
// condition.
func (a *Allocator) Get(addr Address) any {
	switch addr.Kind {
	case KindFunc:
		return a.funcs[addr.Index]
	case KindGlobal:
		return a.globals[addr.Index]
	case KindTable:
		return a.tables[addr.Index]
	case KindMemory:
		return a.memories[addr.Index]
	default:
		panic("allocator: Get of unknown address kind " + string(addr.Kind))
	}
}

// Set overwrites the instance stored at addr (used for mutable globals
// and table element updates).
func (a *Allocator) Set(addr Address, instance any) {
	switch addr.Kind {
	case KindFunc:
		a.funcs[addr.Index] = instance
	case KindGlobal:
		a.globals[addr.Index] = instance
	case KindTable:
		a.tables[addr.Index] = instance
	default:
		panic("allocator: Set of unknown or immutable address kind " + string(addr.Kind))
	}
}

// Memory returns the memory buffer at addr, which must be a KindMemory
// address.
func (a *Allocator) Memory(addr Address) *Memory {
	if addr.Kind != KindMemory {
		panic("allocator: Memory called with non-memory address " + addr.String())
	}
	return a.memories[addr.Index]
}
