package serialization

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/perceptron/internal/nn"
)

// DecodeDocument reads and validates a model document from r.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(io.LimitReader(r, MaxFileLen))
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode model")
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Decode reads a model document from r and rebuilds the network.
func Decode(r io.Reader) (*nn.Network, error) {
	doc, err := DecodeDocument(r)
	if err != nil {
		return nil, err
	}
	return nn.FromSnapshot(doc.Snapshot())
}

// Load reads the model file at path.
func Load(path string) (*nn.Network, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return nn.FromSnapshot(doc.Snapshot())
}

// LoadDocument reads and validates the model file at path.
func LoadDocument(path string) (*Document, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "model %s", path)
	}
	return doc, nil
}
