package nn

import "github.com/pkg/errors"

// Common errors.
var (
	ErrShapeMismatch   = errors.New("vector length does not match network topology")
	ErrInvalidTopology = errors.New("invalid network topology")
)

// shapeError wraps ErrShapeMismatch with the offending lengths.
func shapeError(what string, got, want int) error {
	return errors.Wrapf(ErrShapeMismatch, "%s: got %d values, want %d", what, got, want)
}
