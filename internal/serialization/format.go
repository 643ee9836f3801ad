package serialization

import (
	"time"

	"github.com/born-ml/perceptron/internal/nn"
)

// FormatVersion is the model file version written by this package.
const FormatVersion = 1

// Document is the on-disk representation of a network.
type Document struct {
	FormatVersion int                `json:"format_version"`     // Version of the file format
	CreatedAt     time.Time          `json:"created_at"`         // When the file was created
	Inputs        int                `json:"inputs"`             // Network input width
	Layers        []nn.LayerSnapshot `json:"layers"`             // Parameters, layer by layer
	Metadata      map[string]string  `json:"metadata,omitempty"` // Custom metadata
	Checksum      string             `json:"checksum,omitempty"` // Hex SHA-256 of Layers
}

// NewDocument captures net into a document stamped with the current time.
func NewDocument(net *nn.Network, metadata map[string]string) (*Document, error) {
	s := net.Snapshot()
	checksum, err := ComputeChecksum(s.Layers)
	if err != nil {
		return nil, err
	}

	return &Document{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Inputs:        s.Inputs,
		Layers:        s.Layers,
		Metadata:      metadata,
		Checksum:      checksum,
	}, nil
}

// Snapshot returns the network snapshot held by the document.
func (d *Document) Snapshot() nn.Snapshot {
	return nn.Snapshot{Inputs: d.Inputs, Layers: d.Layers}
}

// Network validates the document and rebuilds the network it describes.
func (d *Document) Network() (*nn.Network, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	return nn.FromSnapshot(d.Snapshot())
}
