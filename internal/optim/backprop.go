package optim

import (
	"github.com/born-ml/perceptron/internal/nn"
)

// pass bundles the buffers one forward/backward pass writes to.
//
// The trainer's own pass aliases the network's layer output caches and the
// State layers. Parallel batch shards get private scratch buffers so they can
// run side by side over the same (read-only) parameters.
type pass struct {
	outputs [][]float64
	layers  []LayerState
}

func statePass(net *nn.Network, st *State) *pass {
	p := &pass{
		outputs: make([][]float64, net.LayerCount()),
		layers:  st.Layers,
	}
	for i, l := range net.Layers() {
		p.outputs[i] = l.Output()
	}
	return p
}

func scratchPass(net *nn.Network) *pass {
	p := &pass{
		outputs: net.OutputBuffers(),
		layers:  make([]LayerState, net.LayerCount()),
	}
	for i, l := range net.Layers() {
		p.layers[i] = newLayerState(l, false)
	}
	return p
}

// forward runs the network on input and records the activation derivative of
// every output. Returns the final output.
func (p *pass) forward(net *nn.Network, input []float64) []float64 {
	out := net.ForwardInto(input, p.outputs)
	for i, o := range p.outputs {
		d := p.layers[i].Derivatives
		for j, y := range o {
			d[j] = nn.ActivationDerivative(y)
		}
	}
	return out
}

// backward fills in per-neuron gradients for target. forward must have run
// on the same pass first.
func (p *pass) backward(net *nn.Network, target []float64) {
	last := len(p.layers) - 1
	{
		out := p.outputs[last]
		ls := p.layers[last]
		for i, t := range target {
			ls.Gradients[i] = (t - out[i]) * ls.Derivatives[i]
		}
	}

	// Pull the error back through the weights of the next layer.
	for i := last; i >= 1; i-- {
		neurons := net.Layer(i).Neurons()
		gradients := p.layers[i].Gradients
		prev := p.layers[i-1]

		for j := range prev.Gradients {
			var sum float64
			for k, g := range gradients {
				sum += g * neurons[k].Weights[j]
			}
			prev.Gradients[j] = sum * prev.Derivatives[j]
		}
	}
}

// accumulate adds this pass's parameter gradients into acc, using the flat
// State ordering: per layer, per neuron, bias then each weight.
func (p *pass) accumulate(input []float64, acc []float64) {
	k := 0
	current := input
	for i, ls := range p.layers {
		for _, g := range ls.Gradients {
			acc[k] += g
			k++
			for _, signal := range current {
				acc[k] += g * signal
				k++
			}
		}
		current = p.outputs[i]
	}
}
