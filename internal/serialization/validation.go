package serialization

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Validation limits for resource protection.
const (
	MaxLayers  = 1024      // Maximum number of layers in a file
	MaxWidth   = 1 << 16   // Maximum neurons per layer and inputs per neuron
	MaxFileLen = 256 << 20 // 256MB - maximum document size accepted by Decode
)

// Validate checks the document version, shape and values.
//
// Returns an error wrapping ErrUnsupportedVersion for files newer than
// FormatVersion, a *ValidationError for malformed topology or non-finite
// parameters, or an error wrapping ErrChecksumMismatch if a stored checksum
// does not match. A missing checksum (hand-written files) is accepted.
func Validate(d *Document) error {
	if d.FormatVersion < 0 || d.FormatVersion > FormatVersion {
		return errors.Wrapf(ErrUnsupportedVersion, "got %d, max %d", d.FormatVersion, FormatVersion)
	}

	if d.Inputs <= 0 || d.Inputs > MaxWidth {
		return &ValidationError{
			Type:    "invalid_inputs",
			Layer:   -1,
			Neuron:  -1,
			Details: fmt.Sprintf("inputs %d not in [1, %d]", d.Inputs, MaxWidth),
		}
	}

	if len(d.Layers) == 0 || len(d.Layers) > MaxLayers {
		return &ValidationError{
			Type:    "layer_count",
			Layer:   -1,
			Neuron:  -1,
			Details: fmt.Sprintf("got %d layers, want 1 to %d", len(d.Layers), MaxLayers),
		}
	}

	current := d.Inputs
	for i, l := range d.Layers {
		if len(l.Neurons) == 0 || len(l.Neurons) > MaxWidth {
			return &ValidationError{
				Type:    "empty_layer",
				Layer:   i,
				Neuron:  -1,
				Details: fmt.Sprintf("got %d neurons, want 1 to %d", len(l.Neurons), MaxWidth),
			}
		}

		for j, n := range l.Neurons {
			if len(n.Weights) != current {
				return &ValidationError{
					Type:    "weight_count",
					Layer:   i,
					Neuron:  j,
					Details: fmt.Sprintf("got %d weights, want %d", len(n.Weights), current),
				}
			}
			if !finite(n.Bias) {
				return &ValidationError{Type: "non_finite", Layer: i, Neuron: j, Details: "bias"}
			}
			for k, w := range n.Weights {
				if !finite(w) {
					return &ValidationError{Type: "non_finite", Layer: i, Neuron: j, Details: fmt.Sprintf("weight %d", k)}
				}
			}
		}

		current = len(l.Neurons)
	}

	if d.Checksum != "" {
		if err := ValidateChecksum(d.Layers, d.Checksum); err != nil {
			return err
		}
	}

	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
