package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMallocAndGetRoundTrip(t *testing.T) {
	a := New()
	addr := a.Malloc(KindFunc, "some-func-instance")
	assert.Equal(t, "some-func-instance", a.Get(addr))
	assert.Equal(t, KindFunc, addr.Kind)
	assert.Equal(t, 0, addr.Index)
}

func TestMallocAssignsMonotonicIndices(t *testing.T) {
	a := New()
	a1 := a.Malloc(KindGlobal, 1)
	a2 := a.Malloc(KindGlobal, 2)
	assert.Equal(t, 0, a1.Index)
	assert.Equal(t, 1, a2.Index)
}

func TestMallocMemoryDistinctArena(t *testing.T) {
	a := New()
	addr := a.MallocMemory(1, nil)
	assert.Equal(t, KindMemory, addr.Kind)
	mem := a.Memory(addr)
	require.NotNil(t, mem)
	assert.EqualValues(t, 1, mem.Pages())
}

func TestSetOverwritesInstance(t *testing.T) {
	a := New()
	addr := a.Malloc(KindGlobal, 1)
	a.Set(addr, 42)
	assert.Equal(t, 42, a.Get(addr))
}

func TestMallocPanicsOnMemoryKind(t *testing.T) {
	a := New()
	assert.Panics(t, func() { a.Malloc(KindMemory, nil) })
}

func TestMemoryPanicsOnNonMemoryAddress(t *testing.T) {
	a := New()
	addr := a.Malloc(KindFunc, 1)
	assert.Panics(t, func() { a.Memory(addr) })
}
