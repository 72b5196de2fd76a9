// Package errors provides the structured error types used across the
// parser and interpreter.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindUnexpectedToken).
//		Detail("expected identifier, got number").
//		Frame(frame).
//		Build()
//
// Or use the convenience constructors for the four error families the
// core recognizes: ParseError, RuntimeError, Trap, and AssertionError.
package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred.
type Phase string

const (
	PhaseParse   Phase = "parse"
	PhaseRuntime Phase = "runtime"
)

// Kind categorizes the error within its phase.
type Kind string

const (
	// Parse-phase kinds.
	KindUnexpectedToken  Kind = "unexpected_token"
	KindMissingToken     Kind = "missing_token"
	KindUnknownKeyword   Kind = "unknown_keyword"
	KindMalformedLiteral Kind = "malformed_literal"
	KindUnexpectedEOF    Kind = "unexpected_eof"

	// Runtime-phase kinds.
	KindMissingArgument Kind = "missing_argument"
	KindUnsupportedOp   Kind = "unsupported_op"
	KindUnknownAddress  Kind = "unknown_address"
	KindInvalidIndex    Kind = "invalid_index"
	KindStackUnderflow  Kind = "stack_underflow"
	KindTypeMismatch    Kind = "type_mismatch"

	// Kind used only by AssertionError.
	KindInvariantViolation Kind = "invariant_violation"
)

// Error is the structured error type used throughout the core.
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Detail    string
	CodeFrame string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.CodeFrame != "" {
		b.WriteString(e.CodeFrame)
		b.WriteByte('\n')
	}
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New starts building an error for the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Detail(msg string, args ...any) *Builder {
	b.err.Detail = fmt.Sprintf(msg, args...)
	return b
}

func (b *Builder) Frame(codeFrame string) *Builder {
	b.err.CodeFrame = codeFrame
	return b
}

func (b *Builder) Cause(cause error) *Builder {
	b.err.Cause = cause
	return b
}

func (b *Builder) Build() *Error {
	err := b.err
	return &err
}

// ParseError reports a fatal, non-recoverable failure of the WAT parser:
// an unexpected token, a missing required token, an unknown keyword, or
// a malformed literal. Its CodeFrame holds the two-line code frame of
// the offending token.
type ParseError struct {
	Err *Error
}

func NewParseError(kind Kind, codeFrame, detail string) *ParseError {
	return &ParseError{Err: New(PhaseParse, kind).Detail("%s", detail).Frame(codeFrame).Build()}
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// RuntimeError reports a failure raised by the interpreter kernel that is
// not itself a WebAssembly trap: a missing instruction argument, an
// unsupported (object, op) combination, an unknown local/global address,
// or a non-numeric-literal index where one was required. RuntimeError
// always propagates out of executeStackFrame.
type RuntimeError struct {
	Err *Error
}

func NewRuntimeError(kind Kind, detail string, args ...any) *RuntimeError {
	return &RuntimeError{Err: New(PhaseRuntime, kind).Detail(detail, args...).Build()}
}

func (e *RuntimeError) Error() string { return e.Err.Error() }
func (e *RuntimeError) Unwrap() error { return e.Err }

// Trap is a value-shaped sentinel carried on a stack frame indicating a
// WebAssembly-level trap (division by zero, unreachable, out-of-bounds
// memory access). Unlike RuntimeError it is not thrown: it propagates by
// being returned up the call-frame chain until ExecuteStackFrame hands
// it to the host as its *Trap result.
type Trap struct {
	Message string
}

func NewTrap(format string, args ...any) *Trap {
	return &Trap{Message: fmt.Sprintf(format, args...)}
}

func (t *Trap) Error() string { return "trap: " + t.Message }

// AssertionError indicates an internal invariant violation: a producer
// (usually an AST builder) handed the consumer a shape the invariant
// forbids. It signals a bug in the caller, not malformed input.
type AssertionError struct {
	Err *Error
}

func NewAssertionError(detail string, args ...any) *AssertionError {
	return &AssertionError{Err: New(PhaseRuntime, KindInvariantViolation).Detail(detail, args...).Build()}
}

func (e *AssertionError) Error() string { return e.Err.Error() }
func (e *AssertionError) Unwrap() error { return e.Err }
