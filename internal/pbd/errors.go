package pbd

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrOutOfRange indicates a particle or constraint index that is not valid.
	ErrOutOfRange = errors.New("pbd: index out of range")

	// ErrInvalidEndpoints indicates a constraint whose endpoints coincide or do not exist.
	ErrInvalidEndpoints = errors.New("pbd: invalid constraint endpoints")

	// ErrInvalidParams indicates simulation parameters outside their valid range.
	ErrInvalidParams = errors.New("pbd: invalid parameters")
)

// IndexError wraps an index failure with the operation that rejected it.
type IndexError struct {
	Op    string
	Index int
	Len   int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d (len %d): %v", e.Op, e.Index, e.Len, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

func outOfRange(op string, index, n int) error {
	return &IndexError{Op: op, Index: index, Len: n, Err: ErrOutOfRange}
}
