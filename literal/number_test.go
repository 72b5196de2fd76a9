package literal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNumberDecimal(t *testing.T) {
	v, err := DecodeNumber("42")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}

func TestDecodeNumberNegative(t *testing.T) {
	v, err := DecodeNumber("-17")
	require.NoError(t, err)
	assert.Equal(t, -17.0, v)
}

func TestDecodeNumberUnderscoresIgnored(t *testing.T) {
	v, err := DecodeNumber("1_000_000")
	require.NoError(t, err)
	assert.Equal(t, 1000000.0, v)
}

func TestDecodeNumberFloat(t *testing.T) {
	v, err := DecodeNumber("3.5")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)
}

func TestDecodeNumberHex(t *testing.T) {
	v, err := DecodeNumber("0xff")
	require.NoError(t, err)
	assert.Equal(t, 255.0, v)
}

func TestDecodeNumberInfAndNaN(t *testing.T) {
	v, err := DecodeNumber("inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))

	v, err = DecodeNumber("-inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, -1))

	v, err = DecodeNumber("nan")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}
