// Package errs defines the error taxonomy shared across the solver core:
// ParseError, ShapeError, LookupError, and StateError. It has no
// dependencies on any other package in this module so every layer, from
// card parsing up through the session façade, can construct and wrap these
// directly without import cycles. sdk/errors.go re-exports these as the
// public-facing types.
package errs

import "fmt"

// ParseError reports an unparsable card string, malformed config, or
// unknown action keyword.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError builds a ParseError wrapping err for the given offending input.
func NewParseError(input string, err error) *ParseError {
	return &ParseError{Input: input, Err: err}
}

// ShapeError reports a board/range/hand/index that doesn't match the shape
// the operation requires (board != 5 cards, empty range, hand != 2 cards,
// node index out of range).
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape error: %s", e.Reason)
}

// NewShapeError builds a ShapeError with the given human-readable reason.
func NewShapeError(reason string) *ShapeError {
	return &ShapeError{Reason: reason}
}

// LookupError reports a hand not found in the indicated range, an action
// not reachable at the queried node, or a node with no infoset queried for
// strategy.
type LookupError struct {
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup error: %s", e.Reason)
}

// NewLookupError builds a LookupError with the given human-readable reason.
func NewLookupError(reason string) *LookupError {
	return &LookupError{Reason: reason}
}

// StateError reports an operation invalid in the session's current state,
// such as a strategy query at a terminal node.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error: %s", e.Reason)
}

// NewStateError builds a StateError with the given human-readable reason.
func NewStateError(reason string) *StateError {
	return &StateError{Reason: reason}
}
