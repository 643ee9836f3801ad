package serialization

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/perceptron/internal/nn"
)

// Encode writes net to w as an indented JSON document.
//
// Fails if any parameter is NaN or infinite; JSON has no encoding for them.
func Encode(w io.Writer, net *nn.Network, metadata map[string]string) error {
	doc, err := NewDocument(net, metadata)
	if err != nil {
		return err
	}
	return EncodeDocument(w, doc)
}

// EncodeDocument writes doc to w as indented JSON.
func EncodeDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// Save writes net to the file at path, replacing it if it exists.
//
// The document is written to a temporary file next to path and renamed into
// place, so a failed save never leaves a truncated model behind.
func Save(path string, net *nn.Network) error {
	return SaveWithMetadata(path, net, nil)
}

// SaveWithMetadata is Save with custom metadata stored in the document.
func SaveWithMetadata(path string, net *nn.Network, metadata map[string]string) error {
	tmp := path + ".tmp"
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}

	if err := Encode(f, net, metadata); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "failed to close file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "failed to move model into place")
	}
	return nil
}
