package values

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddI32(t *testing.T) {
	v, err := Add(I32Value(1), I32Value(1))
	require.NoError(t, err)
	assert.EqualValues(t, 2, v.I32())
	assert.Equal(t, I32, v.Type)
}

func TestMinMaxSignOfZero(t *testing.T) {
	v, err := Min(F32Value(0), F32Value(float32(math.Copysign(0, -1))))
	require.NoError(t, err)
	assert.True(t, math.Signbit(float64(v.F32())))

	v, err = Max(F32Value(0), F32Value(float32(math.Copysign(0, -1))))
	require.NoError(t, err)
	assert.False(t, math.Signbit(float64(v.F32())))
}

func TestMinMaxPropagatesNaN(t *testing.T) {
	v, err := Min(F32Value(float32(math.NaN())), F32Value(1234))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(v.F32())))

	v, err = Max(F64Value(math.NaN()), F64Value(1234))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.F64()))
}

func TestDivByZeroTraps(t *testing.T) {
	_, err := Div(I32Value(1), I32Value(0))
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestDivOverflowTraps(t *testing.T) {
	_, err := Div(I32Value(math.MinInt32), I32Value(-1))
	assert.ErrorIs(t, err, ErrDivideOverflow)
}

func TestDivSharesSignedUnsignedImplementation(t *testing.T) {
	v, err := Div(I32Value(-4), I32Value(2))
	require.NoError(t, err)
	assert.EqualValues(t, -2, v.I32())
}

func TestRemSFollowsDividendSign(t *testing.T) {
	v, err := RemS(I32Value(-7), I32Value(3))
	require.NoError(t, err)
	assert.EqualValues(t, -1, v.I32())
}

func TestRemUReinterpretsAsUnsigned(t *testing.T) {
	v, err := RemU(I32Value(-1), I32Value(7))
	require.NoError(t, err)
	want := int32(uint32(0xFFFFFFFF) % 7)
	assert.Equal(t, want, v.I32())
}

func TestRemByZeroTraps(t *testing.T) {
	_, err := RemS(I32Value(1), I32Value(0))
	assert.ErrorIs(t, err, ErrDivideByZero)
	_, err = RemU(I32Value(1), I32Value(0))
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestCopySign(t *testing.T) {
	v, err := CopySign(F64Value(3), F64Value(-1))
	require.NoError(t, err)
	assert.Equal(t, -3.0, v.F64())
}
