package nn

import "gonum.org/v1/gonum/floats"

// Layer is an ordered set of neurons sharing the same input width.
//
// The neuron index is significant: the next layer addresses its inputs by it,
// and trainers address per-neuron state by it. The layer also owns the output
// vector of its last forward pass, allocated once and overwritten by every pass.
type Layer struct {
	neurons []Neuron
	inputs  int
	output  []float64
}

func newLayer(inputs int, neurons []Neuron) *Layer {
	return &Layer{
		neurons: neurons,
		inputs:  inputs,
		output:  make([]float64, len(neurons)),
	}
}

// Neurons returns the layer's neurons in index order.
//
// The slice aliases the layer's parameters and is meant for read-only
// enumeration (visualization, export). Use Network.Snapshot for a copy.
func (l *Layer) Neurons() []Neuron {
	return l.neurons
}

// Neuron returns a pointer to the i-th neuron for in-place parameter updates.
func (l *Layer) Neuron(i int) *Neuron {
	return &l.neurons[i]
}

// Width returns the number of neurons.
func (l *Layer) Width() int {
	return len(l.neurons)
}

// InputWidth returns the number of inputs each neuron consumes.
func (l *Layer) InputWidth() int {
	return l.inputs
}

// Output returns the live output cache of the last forward pass.
//
// The next forward pass overwrites it; callers that need to keep the values
// must copy them.
func (l *Layer) Output() []float64 {
	return l.output
}

// forward computes the activation of every neuron for input and writes it to out.
func (l *Layer) forward(input, out []float64) {
	for i := range l.neurons {
		n := &l.neurons[i]
		out[i] = Activation(n.Bias + floats.Dot(n.Weights, input))
	}
}
