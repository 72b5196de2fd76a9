package allocator

import "fmt"

// PageSize is the fixed WebAssembly linear-memory page size (64 KiB).
const PageSize = 65536

// Memory is a linear memory instance: a growable byte buffer sized in
// pages, with the bounds-checked accessors the load/store executors
// need.
type Memory struct {
	data []byte
	max  *uint32
}

// NewMemory allocates a Memory with the given initial page count and
// optional page maximum (nil for unbounded).
func NewMemory(initialPages uint32, maxPages *uint32) *Memory {
	return &Memory{data: make([]byte, uint64(initialPages)*PageSize), max: maxPages}
}

// Pages reports the current size in pages.
func (m *Memory) Pages() uint32 { return uint32(len(m.data) / PageSize) }

// Grow extends the memory by delta pages, returning the previous size
// in pages, or -1 if growth would exceed the declared maximum.
func (m *Memory) Grow(delta uint32) int32 {
	before := m.Pages()
	if m.max != nil && before+delta > *m.max {
		return -1
	}
	m.data = append(m.data, make([]byte, uint64(delta)*PageSize)...)
	return int32(before)
}

func (m *Memory) checkBounds(offset uint32, addr uint32, length uint32) (uint64, error) {
	start := uint64(offset) + uint64(addr)
	end := start + uint64(length)
	if end > uint64(len(m.data)) {
		return 0, fmt.Errorf("out of bounds memory access (offset=%d addr=%d len=%d size=%d)", offset, addr, length, len(m.data))
	}
	return start, nil
}

// Read returns a copy of length bytes at addr+offset.
func (m *Memory) Read(offset, addr, length uint32) ([]byte, error) {
	start, err := m.checkBounds(offset, addr, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.data[start:start+uint64(length)])
	return out, nil
}

// Write copies values into memory starting at addr+offset.
func (m *Memory) Write(offset, addr uint32, values []byte) error {
	start, err := m.checkBounds(offset, addr, uint32(len(values)))
	if err != nil {
		return err
	}
	copy(m.data[start:], values)
	return nil
}

// Fill sets length bytes starting at addr to val.
func (m *Memory) Fill(addr, length uint32, val byte) error {
	start, err := m.checkBounds(0, addr, length)
	if err != nil {
		return err
	}
	for i := uint64(0); i < uint64(length); i++ {
		m.data[start+i] = val
	}
	return nil
}

// CopyWithin copies length bytes from src to dst inside the same
// memory, correctly handling overlap.
func (m *Memory) CopyWithin(dst, src, length uint32) error {
	if _, err := m.checkBounds(0, src, length); err != nil {
		return err
	}
	if _, err := m.checkBounds(0, dst, length); err != nil {
		return err
	}
	copy(m.data[dst:uint64(dst)+uint64(length)], m.data[src:uint64(src)+uint64(length)])
	return nil
}
