package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadWriteRoundTrip(t *testing.T) {
	m := NewMemory(1, nil)
	require.NoError(t, m.Write(0, 10, []byte{1, 2, 3}))
	got, err := m.Read(0, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestMemoryOutOfBoundsErrors(t *testing.T) {
	m := NewMemory(1, nil)
	_, err := m.Read(0, PageSize-1, 4)
	assert.Error(t, err)
}

func TestMemoryGrowRespectsMax(t *testing.T) {
	max := uint32(1)
	m := NewMemory(1, &max)
	assert.EqualValues(t, -1, m.Grow(1))
}

func TestMemoryGrowReturnsPreviousSize(t *testing.T) {
	m := NewMemory(2, nil)
	prev := m.Grow(3)
	assert.EqualValues(t, 2, prev)
	assert.EqualValues(t, 5, m.Pages())
}

func TestMemoryFill(t *testing.T) {
	m := NewMemory(1, nil)
	require.NoError(t, m.Fill(0, 4, 0xAB))
	got, err := m.Read(0, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xAB, 0xAB, 0xAB}, got)
}

func TestMemoryCopyWithinOverlap(t *testing.T) {
	m := NewMemory(1, nil)
	require.NoError(t, m.Write(0, 0, []byte{1, 2, 3, 4}))
	require.NoError(t, m.CopyWithin(1, 0, 3))
	got, err := m.Read(0, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 2, 3}, got)
}
