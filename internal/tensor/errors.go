package tensor

import (
	"errors"
	"fmt"
)

// Error classes returned by fallible tensor operations. Callers match
// them with errors.Is; the wrapping message carries the offending
// shapes, indices or values.
var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrKindMismatch    = errors.New("datum type mismatch")
	ErrUnsupportedCast = errors.New("unsupported cast")
	ErrParse           = errors.New("parse error")
	ErrUnresolvedDim   = errors.New("unresolved symbolic dimension")
	ErrRankMismatch    = errors.New("rank mismatch")
	ErrAllocation      = errors.New("invalid allocation layout")
)

// errorf wraps a sentinel error with formatted context.
func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, sentinel)...)
}
