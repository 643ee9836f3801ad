// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/serialization"
)

// Network is a fully connected feed-forward network.
type Network = nn.Network

// Layer is an ordered set of neurons with a shared input width.
type Layer = nn.Layer

// Neuron holds one weight per input and a bias.
type Neuron = nn.Neuron

// Config describes a network topology.
type Config = nn.Config

// DefaultConfig returns a configuration with two hidden layers of 12 neurons.
func DefaultConfig(inputs, outputs int) Config {
	return nn.DefaultConfig(inputs, outputs)
}

// Source is the random source used for initialization.
type Source = nn.Source

// Snapshot is a detached copy of a network's parameters.
type Snapshot = nn.Snapshot

// LayerSnapshot holds the neurons of one layer.
type LayerSnapshot = nn.LayerSnapshot

// Errors

var (
	// ErrShapeMismatch is returned when a vector does not fit the topology.
	ErrShapeMismatch = nn.ErrShapeMismatch

	// ErrInvalidTopology is returned for bad configurations and snapshots.
	ErrInvalidTopology = nn.ErrInvalidTopology
)

// Construction

// NewRandom creates a network with parameters drawn uniformly from [-1, 1].
//
// Example:
//
//	net, err := nn.NewRandom(nn.Config{Inputs: 2, Outputs: 1, HiddenLayers: 1, HiddenWidth: 4}, rng)
func NewRandom(cfg Config, rng Source) (*Network, error) {
	return nn.NewRandom(cfg, rng)
}

// CreateRandom is NewRandom with positional arguments.
func CreateRandom(inputs, outputs, hiddenLayers, hiddenWidth int, rng Source) (*Network, error) {
	return nn.CreateRandom(inputs, outputs, hiddenLayers, hiddenWidth, rng)
}

// FromSnapshot rebuilds a network from exported parameters.
func FromSnapshot(s Snapshot) (*Network, error) {
	return nn.FromSnapshot(s)
}

// Math

// Activation is the bipolar logistic function 2/(1+exp(-x)) - 1.
func Activation(x float64) float64 {
	return nn.Activation(x)
}

// ActivationDerivative returns the activation slope given its output y.
func ActivationDerivative(y float64) float64 {
	return nn.ActivationDerivative(y)
}

// MeanError returns the mean absolute difference between target and output.
func MeanError(target, output []float64) float64 {
	return nn.MeanError(target, output)
}

// Persistence

// Save writes net to a JSON model file.
func Save(path string, net *Network) error {
	return serialization.Save(path, net)
}

// Load reads a JSON model file.
func Load(path string) (*Network, error) {
	return serialization.Load(path)
}
