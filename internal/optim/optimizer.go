// Package optim implements the training algorithms for nn.Network.
//
// This package provides:
//   - State: per-network training buffers (gradients, derivatives, momentum
//     deltas, Rprop step sizes)
//   - TrainSample: per-sample gradient descent with momentum
//   - TrainBatch: full-batch resilient backpropagation (Rprop)
//
// Both trainers share one forward pass (which also records activation
// derivatives) and one backward pass. They differ only in how parameters are
// updated.
//
// Example usage:
//
//	net, _ := nn.CreateRandom(4, 1, 2, 12, rand.New(rand.NewSource(1)))
//	state := optim.NewState(net)
//
//	// Online training, one sample at a time
//	e, err := optim.TrainSample(net, state, input, target, optim.SampleConfig{
//	    LR:       0.1,
//	    Momentum: 0.05,
//	})
//
//	// Batch training
//	e, err = optim.TrainBatch(net, state, inputs, targets, optim.BatchConfig{
//	    ErrorTolerance: 0.1,
//	    MaxIterations:  10000,
//	})
package optim

import "github.com/pkg/errors"

// Common errors.
var (
	ErrEmptyBatch    = errors.New("batch has no samples")
	ErrStateMismatch = errors.New("training state does not match network shape")
)

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
