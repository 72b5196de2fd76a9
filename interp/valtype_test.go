package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wippyai/wasm-runtime/values"
)

func TestValueTypeOfKnownTypes(t *testing.T) {
	cases := map[string]values.Type{"i32": values.I32, "i64": values.I64, "f32": values.F32, "f64": values.F64}
	for name, want := range cases {
		got, ok := ValueTypeOf(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestValueTypeOfRejectsReferenceTypes(t *testing.T) {
	_, ok := ValueTypeOf("funcref")
	assert.False(t, ok)
}
