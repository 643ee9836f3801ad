package nn

import (
	"github.com/pkg/errors"
)

// Snapshot is a detached copy of a network's topology and parameters.
//
// It is the exchange format with persistence and presentation code. No
// training state is part of a snapshot.
type Snapshot struct {
	Inputs int             `json:"inputs"`
	Layers []LayerSnapshot `json:"layers"`
}

// LayerSnapshot holds the neurons of one layer in index order.
type LayerSnapshot struct {
	Neurons []Neuron `json:"neurons"`
}

// Snapshot returns a deep copy of the network parameters.
func (n *Network) Snapshot() Snapshot {
	s := Snapshot{
		Inputs: n.inputs,
		Layers: make([]LayerSnapshot, len(n.layers)),
	}
	for i, l := range n.layers {
		neurons := make([]Neuron, len(l.neurons))
		for j, neuron := range l.neurons {
			neurons[j] = neuron.Clone()
		}
		s.Layers[i] = LayerSnapshot{Neurons: neurons}
	}
	return s
}

// FromSnapshot rebuilds a network from a snapshot.
//
// The snapshot is copied; later changes to it do not affect the network.
// Returns an error wrapping ErrInvalidTopology if the snapshot has no layers,
// an empty layer, or a neuron whose weight count does not match the width of
// the previous layer (or Inputs for the first layer).
func FromSnapshot(s Snapshot) (*Network, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	net := &Network{
		inputs: s.Inputs,
		layers: make([]*Layer, len(s.Layers)),
	}

	current := s.Inputs
	for i, ls := range s.Layers {
		neurons := make([]Neuron, len(ls.Neurons))
		for j, neuron := range ls.Neurons {
			neurons[j] = neuron.Clone()
		}
		net.layers[i] = newLayer(current, neurons)
		current = len(neurons)
	}

	return net, nil
}

// Validate checks that the snapshot describes a well-formed network.
func (s Snapshot) Validate() error {
	if s.Inputs <= 0 {
		return errors.Wrapf(ErrInvalidTopology, "inputs must be positive, got %d", s.Inputs)
	}
	if len(s.Layers) == 0 {
		return errors.Wrap(ErrInvalidTopology, "network has no layers")
	}

	current := s.Inputs
	for i, ls := range s.Layers {
		if len(ls.Neurons) == 0 {
			return errors.Wrapf(ErrInvalidTopology, "layer %d has no neurons", i)
		}
		for j, neuron := range ls.Neurons {
			if len(neuron.Weights) != current {
				return errors.Wrapf(ErrInvalidTopology,
					"layer %d neuron %d has %d weights, want %d", i, j, len(neuron.Weights), current)
			}
		}
		current = len(ls.Neurons)
	}

	return nil
}
