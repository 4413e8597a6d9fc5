package sdk

import "github.com/lox/riversolver/internal/errs"

// ParseError, ShapeError, LookupError, and StateError are the four error
// kinds callers of this package distinguish between, per the error taxonomy
// in the session façade's contract. They are defined once in internal/errs
// (importable from every layer of the core, since it has no dependencies of
// its own) and re-exported here as the types external callers should name.
type (
	ParseError  = errs.ParseError
	ShapeError  = errs.ShapeError
	LookupError = errs.LookupError
	StateError  = errs.StateError
)
