// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/optim"
	"github.com/born-ml/perceptron/internal/parallel"
)

// State holds the training buffers of one network.
type State = optim.State

// LayerState holds the per-neuron buffers of one layer.
type LayerState = optim.LayerState

// NewState creates a zeroed training state sized for net.
func NewState(net *nn.Network) *State {
	return optim.NewState(net)
}

// Errors

var (
	// ErrEmptyBatch is returned by TrainBatch when there are no samples.
	ErrEmptyBatch = optim.ErrEmptyBatch

	// ErrStateMismatch is returned when a State was built for another shape.
	ErrStateMismatch = optim.ErrStateMismatch
)

// Online training

// SampleConfig configures TrainSample.
type SampleConfig = optim.SampleConfig

// TrainSample trains net on one sample with gradient descent and momentum.
//
// Example:
//
//	e, err := optim.TrainSample(net, state, input, target, optim.SampleConfig{
//	    LR:       0.1,
//	    Momentum: 0.05,
//	})
func TrainSample(net *nn.Network, st *State, input, target []float64, cfg SampleConfig) (float64, error) {
	return optim.TrainSample(net, st, input, target, cfg)
}

// Sample is TrainSample with positional arguments.
func Sample(net *nn.Network, st *State, input, target []float64, lr, momentum, errorTolerance float64, maxIterations int) (float64, error) {
	return optim.Sample(net, st, input, target, lr, momentum, errorTolerance, maxIterations)
}

// Batch training

// BatchConfig configures TrainBatch.
type BatchConfig = optim.BatchConfig

// EpochFunc observes batch training progress.
type EpochFunc = optim.EpochFunc

// ParallelConfig controls sharding of samples within an epoch.
type ParallelConfig = parallel.Config

// DefaultParallelConfig enables sharding across all CPUs.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// TrainBatch trains net on all samples with resilient backpropagation.
//
// Example:
//
//	e, err := optim.TrainBatch(net, state, inputs, targets, optim.BatchConfig{
//	    ErrorTolerance: 0.1,
//	    MaxIterations:  10000,
//	    Parallel:       optim.DefaultParallelConfig(),
//	})
func TrainBatch(net *nn.Network, st *State, inputs, targets [][]float64, cfg BatchConfig) (float64, error) {
	return optim.TrainBatch(net, st, inputs, targets, cfg)
}
