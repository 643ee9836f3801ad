package optim

import (
	"github.com/pkg/errors"

	"github.com/born-ml/perceptron/internal/nn"
)

// Default online training parameters.
const (
	DefaultLR            = 0.1
	DefaultMaxIterations = 1
)

// SampleConfig holds configuration for online (per-sample) training.
type SampleConfig struct {
	LR             float64 // Learning rate (default: 0.1)
	Momentum       float64 // Fraction of the previous update added to the next (default: 0)
	ErrorTolerance float64 // Stop as soon as the error drops below this (default: 0)
	MaxIterations  int     // Upper bound on updates for this sample (default: 1)
}

func (c SampleConfig) withDefaults() SampleConfig {
	if c.LR == 0 {
		c.LR = DefaultLR
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	return c
}

// TrainSample trains net on one (input, target) pair using gradient descent
// with momentum and returns the last measured error.
//
// Each iteration runs a forward pass and measures nn.MeanError. If the error
// is below cfg.ErrorTolerance the call returns at once without touching the
// parameters. Otherwise the gradients are backpropagated and every parameter
// (per layer, per neuron, bias first, then each weight) moves by
//
//	delta = LR * gradient * input + previousDelta * Momentum
//
// where input is 1 for the bias. The deltas are kept in st, so momentum
// carries over to the next call with the same State.
//
// Returns an error wrapping nn.ErrShapeMismatch if input or target do not fit
// the network, or ErrStateMismatch if st was built for another shape. Nothing
// is mutated in either case. Non-finite values are not corrected; they show
// up in the returned error value.
func TrainSample(net *nn.Network, st *State, input, target []float64, cfg SampleConfig) (float64, error) {
	if err := checkShapes(net, st, input, target); err != nil {
		return 0, err
	}
	cfg = cfg.withDefaults()

	p := statePass(net, st)
	var e float64
	for iteration := 0; iteration < cfg.MaxIterations; iteration++ {
		out := p.forward(net, input)

		e = nn.MeanError(target, out)
		if e < cfg.ErrorTolerance {
			return e, nil
		}

		p.backward(net, target)
		applyMomentum(net, st, input, cfg.LR, cfg.Momentum)
	}

	return e, nil
}

// Sample is TrainSample with positional arguments.
func Sample(net *nn.Network, st *State, input, target []float64, lr, momentum, errorTolerance float64, maxIterations int) (float64, error) {
	return TrainSample(net, st, input, target, SampleConfig{
		LR:             lr,
		Momentum:       momentum,
		ErrorTolerance: errorTolerance,
		MaxIterations:  maxIterations,
	})
}

func applyMomentum(net *nn.Network, st *State, input []float64, lr, momentum float64) {
	current := input
	for i, l := range net.Layers() {
		ls := st.Layers[i]

		for j := 0; j < l.Width(); j++ {
			neuron := l.Neuron(j)
			gradient := ls.Gradients[j]
			delta := &ls.Deltas[j]

			d := lr*gradient + delta.Bias*momentum
			neuron.Bias += d
			delta.Bias = d

			for k := range neuron.Weights {
				d := lr*gradient*current[k] + delta.Weights[k]*momentum
				neuron.Weights[k] += d
				delta.Weights[k] = d
			}
		}

		current = l.Output()
	}
}

func checkShapes(net *nn.Network, st *State, input, target []float64) error {
	if len(input) != net.InputWidth() {
		return errors.Wrapf(nn.ErrShapeMismatch, "input: got %d values, want %d", len(input), net.InputWidth())
	}
	if len(target) != net.OutputWidth() {
		return errors.Wrapf(nn.ErrShapeMismatch, "target: got %d values, want %d", len(target), net.OutputWidth())
	}
	if st == nil || !st.Matches(net) {
		return ErrStateMismatch
	}
	return nil
}
