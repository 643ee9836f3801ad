package serialization

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrUnsupportedVersion = errors.New("unsupported format version")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "empty_layer", "weight_count")
	Layer   int    // Layer index, -1 if not layer specific
	Neuron  int    // Neuron index, -1 if not neuron specific
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Neuron >= 0:
		return fmt.Sprintf("%s: layer %d neuron %d: %s", e.Type, e.Layer, e.Neuron, e.Details)
	case e.Layer >= 0:
		return fmt.Sprintf("%s: layer %d: %s", e.Type, e.Layer, e.Details)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Details)
	}
}
