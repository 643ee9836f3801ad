package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/born-ml/perceptron/internal/nn"
)

// ComputeChecksum returns the hex SHA-256 of the compact JSON encoding of layers.
//
// Go encodes float64 values in their shortest round-tripping form, so a
// decoded document re-encodes to the same bytes.
func ComputeChecksum(layers []nn.LayerSnapshot) (string, error) {
	data, err := json.Marshal(layers)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode layers")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ValidateChecksum compares the checksum of layers against stored.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(layers []nn.LayerSnapshot, stored string) error {
	computed, err := ComputeChecksum(layers)
	if err != nil {
		return err
	}
	if computed != stored {
		return errors.Wrapf(ErrChecksumMismatch, "stored %s, computed %s", stored, computed)
	}
	return nil
}
