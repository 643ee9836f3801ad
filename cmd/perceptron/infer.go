package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/perceptron/internal/dataset"
	"github.com/born-ml/perceptron/internal/serialization"
)

func runInfer(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("infer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	model := fs.String("model", "nn.json", "Model file written by train")
	input := fs.String("input", "", "Comma-separated input values")
	raw := fs.Bool("raw", false, "Skip the scaling stored with the model")
	if err := fs.Parse(args); err != nil {
		return err
	}

	values, err := parseFloats(*input)
	if err != nil {
		return errors.Wrap(err, "-input")
	}

	doc, err := serialization.LoadDocument(*model)
	if err != nil {
		return err
	}
	net, err := doc.Network()
	if err != nil {
		return err
	}

	var dividers []float64
	if !*raw {
		dividers, err = parseFloats(doc.Metadata[metaDividers])
		if err != nil {
			return errors.Wrapf(err, "%s metadata", metaDividers)
		}
		if dividers != nil && len(dividers) != net.InputWidth()+net.OutputWidth() {
			return errors.Errorf("model has %d dividers for %d columns", len(dividers), net.InputWidth()+net.OutputWidth())
		}
	}

	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v
		if dividers != nil && i < len(dividers) {
			scaled[i] = v / dividers[i]
		}
	}

	out, err := net.Infer(scaled)
	if err != nil {
		return err
	}

	if dividers == nil {
		fmt.Fprintln(stdout, formatFloats(out))
		return nil
	}

	for i := range out {
		out[i] = dataset.Unscale(out[i], dividers, net.InputWidth()+i)
	}
	fmt.Fprintln(stdout, formatFloats(out))

	labels, err := decodeLabels(doc.Metadata[metaLabels])
	if err != nil {
		return err
	}
	if labels != nil && labels.Len() > 0 {
		names := make([]string, len(out))
		for i, v := range out {
			name, ok := labels.Nearest(v)
			if !ok {
				name = unknownLabel
			}
			names[i] = name
		}
		fmt.Fprintf(stdout, "label: %s\n", strings.Join(names, ","))
	}
	return nil
}
