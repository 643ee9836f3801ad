package optim

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/parallel"
)

// Rprop constants.
const (
	InitialStep    = 0.1  // Step size of every parameter before the first epoch
	MinStep        = 1e-6 // Lower bound of the step size
	MaxStep        = 50.0 // Upper bound of the step size
	IncreaseFactor = 1.2  // Step growth when the gradient keeps its sign
	DecreaseFactor = 0.5  // Step shrink when the gradient flips sign
)

// EpochFunc observes batch training progress after each epoch that did not
// reach the tolerance. It must not be required for correctness.
type EpochFunc func(epoch int, meanError float64)

// BatchConfig holds configuration for full-batch Rprop training.
type BatchConfig struct {
	ErrorTolerance float64         // Stop once the mean epoch error drops below this
	MaxIterations  int             // Maximum number of epochs (default: 1)
	OnEpoch        EpochFunc       // Optional progress hook
	Parallel       parallel.Config // Sample sharding within an epoch (default: disabled)
}

// TrainBatch trains net on all samples with resilient backpropagation and
// returns the mean error of the last epoch.
//
// Every epoch runs each sample forward and backward, summing the parameter
// gradients and errors. If the mean error is below cfg.ErrorTolerance the
// call returns without applying that epoch's update. Otherwise cfg.OnEpoch is
// called and each parameter takes one Rprop step (see rpropStep). Step sizes
// and previous gradients live in st and carry over to later calls.
//
// With cfg.Parallel enabled, samples are split into contiguous shards that
// accumulate into private buffers; the partial sums are merged in shard order
// before any parameter changes.
//
// Returns ErrEmptyBatch if there are no samples, an error wrapping
// nn.ErrShapeMismatch if inputs and targets differ in count or any vector does
// not fit the network, or ErrStateMismatch if st was built for another shape.
func TrainBatch(net *nn.Network, st *State, inputs, targets [][]float64, cfg BatchConfig) (float64, error) {
	if len(inputs) == 0 {
		return 0, ErrEmptyBatch
	}
	if len(inputs) != len(targets) {
		return 0, errors.Wrapf(nn.ErrShapeMismatch, "%d inputs but %d targets", len(inputs), len(targets))
	}
	for i := range inputs {
		if err := checkShapes(net, st, inputs[i], targets[i]); err != nil {
			return 0, errors.WithMessagef(err, "sample %d", i)
		}
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	acc := newAccumulator(net, st, len(inputs), cfg.Parallel)

	var e float64
	for epoch := 0; epoch < cfg.MaxIterations; epoch++ {
		e = acc.epoch(net, inputs, targets) / float64(len(inputs))
		if e < cfg.ErrorTolerance {
			return e, nil
		}

		if cfg.OnEpoch != nil {
			cfg.OnEpoch(epoch, e)
		}

		st.applyRprop(net)
	}

	return e, nil
}

// accumulator sums gradients of one epoch into State.accumulated.
type accumulator struct {
	st       *State
	cfg      parallel.Config
	shards   []*pass
	partials [][]float64
	errs     []float64
}

func newAccumulator(net *nn.Network, st *State, n int, cfg parallel.Config) *accumulator {
	chunks := parallel.Chunks(n, cfg)
	a := &accumulator{st: st, cfg: cfg}
	if len(chunks) == 1 {
		a.shards = []*pass{statePass(net, st)}
		a.partials = [][]float64{st.accumulated}
		a.errs = make([]float64, 1)
		return a
	}

	a.shards = make([]*pass, len(chunks))
	a.partials = make([][]float64, len(chunks))
	a.errs = make([]float64, len(chunks))
	for i := range chunks {
		a.shards[i] = scratchPass(net)
		a.partials[i] = make([]float64, len(st.accumulated))
	}
	return a
}

// epoch accumulates the gradients of all samples and returns the error sum.
func (a *accumulator) epoch(net *nn.Network, inputs, targets [][]float64) float64 {
	clear(a.st.accumulated)
	for i := range a.partials {
		clear(a.partials[i])
		a.errs[i] = 0
	}

	parallel.ForChunks(len(inputs), func(chunk, start, end int) {
		p := a.shards[chunk]
		for i := start; i < end; i++ {
			out := p.forward(net, inputs[i])
			a.errs[chunk] += nn.MeanError(targets[i], out)
			p.backward(net, targets[i])
			p.accumulate(inputs[i], a.partials[chunk])
		}
	}, a.cfg)

	var sum float64
	for i, e := range a.errs {
		sum += e
		if len(a.shards) > 1 {
			floats.Add(a.st.accumulated, a.partials[i])
		}
	}
	return sum
}

// applyRprop takes one Rprop step on every parameter using the accumulated
// gradients, in the flat State order.
func (s *State) applyRprop(net *nn.Network) {
	k := 0
	for _, l := range net.Layers() {
		for j := 0; j < l.Width(); j++ {
			neuron := l.Neuron(j)

			neuron.Bias = rpropStep(neuron.Bias, &s.accumulated[k], &s.previous[k], &s.magnitude[k])
			k++

			for w := range neuron.Weights {
				neuron.Weights[w] = rpropStep(neuron.Weights[w], &s.accumulated[k], &s.previous[k], &s.magnitude[k])
				k++
			}
		}
	}
}

// rpropStep applies the resilient propagation rule to one parameter and
// returns its new value. Only the sign of the gradient is used:
//
//   - same sign as last time: grow the step, move the parameter by
//     sign(gradient)*step and remember the gradient
//   - sign flipped: shrink the step, leave the parameter alone and forget the
//     gradient so the next epoch counts as a fresh start
//   - no previous gradient (first epoch, after a flip, or a zero gradient):
//     move by sign(gradient)*step with the step unchanged and remember the
//     gradient
//
// The step stays within [MinStep, MaxStep]. The accumulated gradient is
// reset to zero in every case.
func rpropStep(param float64, gradient, previous, step *float64) float64 {
	product := *previous * *gradient
	switch {
	case product > 0:
		*step = math.Min(*step*IncreaseFactor, MaxStep)
		param += sign(*gradient) * *step
		*previous = *gradient
	case product < 0:
		*step = math.Max(*step*DecreaseFactor, MinStep)
		*previous = 0
	default:
		param += sign(*gradient) * *step
		*previous = *gradient
	}

	*gradient = 0
	return param
}
