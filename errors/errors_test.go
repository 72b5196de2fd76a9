package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = NewParseError(KindUnexpectedToken, "1: (foo\n     ^", "expected identifier")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected_token")
	assert.Contains(t, err.Error(), "expected identifier")
}

func TestRuntimeErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = NewRuntimeError(KindStackUnderflow, "pop on empty stack")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack_underflow")
}

func TestRuntimeErrorFormatsDetail(t *testing.T) {
	rerr := NewRuntimeError(KindUnknownAddress, "unresolved function import %s.%s", "env", "log")
	assert.Equal(t, "unresolved function import env.log", rerr.Err.Detail)
}

func TestAssertionErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = NewAssertionError("block built as plain Instr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invariant_violation")
}

func TestTrapMessage(t *testing.T) {
	trap := NewTrap("divide by zero")
	assert.Equal(t, "trap: divide by zero", trap.Error())
}

func TestErrorIsMatchesPhaseAndKind(t *testing.T) {
	a := New(PhaseRuntime, KindTypeMismatch).Build()
	b := New(PhaseRuntime, KindTypeMismatch).Detail("different detail").Build()
	assert.True(t, a.Is(b))
}

func TestParseErrorUnwrap(t *testing.T) {
	pe := NewParseError(KindMalformedLiteral, "", "bad literal")
	assert.Same(t, pe.Err, pe.Unwrap())
}
