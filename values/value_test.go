package values

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateValueI32Wraparound(t *testing.T) {
	v := CreateValue(I32, 4294967296+5)
	require.Equal(t, I32, v.Type)
	assert.EqualValues(t, 5, v.I32())
}

func TestCreateValueI32Negative(t *testing.T) {
	v := CreateValue(I32, -1)
	assert.EqualValues(t, -1, v.I32())
	assert.EqualValues(t, 0xFFFFFFFF, uint32(v.I32()))
}

func TestCreateValueI32FloorsFraction(t *testing.T) {
	v := CreateValue(I32, 3.9)
	assert.EqualValues(t, 3, v.I32())
}

func TestCreateValueI32NaNAndInfAreZero(t *testing.T) {
	assert.EqualValues(t, 0, CreateValue(I32, math.NaN()).I32())
	assert.EqualValues(t, 0, CreateValue(I32, math.Inf(1)).I32())
}

func TestCreateValueFloatsPassThrough(t *testing.T) {
	v := CreateValue(F64, 3.5)
	assert.Equal(t, F64, v.Type)
	assert.Equal(t, 3.5, v.F64())
}

func TestCreateValuePanicsOnNonNumericType(t *testing.T) {
	assert.Panics(t, func() { CreateValue(Label, 0) })
}

func TestFloat64Widening(t *testing.T) {
	assert.Equal(t, float64(7), I32Value(7).Float64())
	assert.Equal(t, float64(-3), I64Value(-3).Float64())
	assert.Equal(t, float64(1.5), F32Value(1.5).Float64())
}
