// Package types defines the core data model shared across the payoff
// scripting pipeline: the AST node table, structured errors, and the
// Product/Event container that carries a script through parsing,
// analysis, compilation and evaluation.
package types

import "fmt"

// ErrorCode identifies the category of a pipeline error (spec §6).
type ErrorCode string

const (
	// Parser/syntax errors.
	ErrParse ErrorCode = "P0001"

	// Function-call errors.
	ErrUnknownFunction ErrorCode = "A0001"
	ErrArity           ErrorCode = "A0002"

	// Domain-processor errors.
	ErrDomain ErrorCode = "D0001"

	// Product-construction errors.
	ErrEventInPast  ErrorCode = "E0001"
	ErrEmptyProduct ErrorCode = "E0002"

	// Scenario/random-generator errors.
	ErrRandomGeneratorNotSkippable ErrorCode = "R0001"
)

// Error is a structured pipeline error carrying a stable code, a source
// position (byte offset into the event text that produced it, or -1 if not
// applicable) and an optional wrapped cause.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates an Error with no source position.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Position: -1}
}

// NewPositionalError creates an Error tied to a byte offset in source text.
func NewPositionalError(code ErrorCode, message string, position int) *Error {
	return &Error{Code: code, Message: message, Position: position}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken attaches the offending token text and returns the receiver.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause attaches a wrapped cause and returns the receiver.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
