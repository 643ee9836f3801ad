package optim

import (
	"github.com/born-ml/perceptron/internal/nn"
)

// LayerState holds the per-neuron training buffers of one layer.
type LayerState struct {
	Gradients   []float64   // Backpropagated error signal of the current sample
	Derivatives []float64   // Activation derivative at the last forward output
	Deltas      []nn.Neuron // Previous online update, for momentum
}

func newLayerState(l *nn.Layer, withDeltas bool) LayerState {
	ls := LayerState{
		Gradients:   make([]float64, l.Width()),
		Derivatives: make([]float64, l.Width()),
	}
	if withDeltas {
		ls.Deltas = make([]nn.Neuron, l.Width())
		for i := range ls.Deltas {
			ls.Deltas[i] = nn.NewZeroNeuron(l.InputWidth())
		}
	}
	return ls
}

// State is the training state of one network.
//
// It is sized once from the network shape and is never persisted: after
// loading a network, create a fresh State with NewState. Momentum deltas and
// Rprop step sizes carry over between trainer calls that share a State.
//
// Rprop buffers are flat, one slot per parameter, ordered layer by layer,
// neuron by neuron, bias first and then each weight.
type State struct {
	Layers []LayerState

	accumulated []float64 // Gradient sum of the current epoch
	previous    []float64 // Gradient of the last applied epoch
	magnitude   []float64 // Adaptive step size
}

// NewState creates a zeroed training state sized for net.
func NewState(net *nn.Network) *State {
	params := net.ParameterCount()
	st := &State{
		Layers:      make([]LayerState, net.LayerCount()),
		accumulated: make([]float64, params),
		previous:    make([]float64, params),
		magnitude:   make([]float64, params),
	}
	for i, l := range net.Layers() {
		st.Layers[i] = newLayerState(l, true)
	}
	st.resetSteps()
	return st
}

// Matches reports whether the state was sized for a network of net's shape.
func (s *State) Matches(net *nn.Network) bool {
	if len(s.Layers) != net.LayerCount() || len(s.magnitude) != net.ParameterCount() {
		return false
	}
	for i, l := range net.Layers() {
		ls := s.Layers[i]
		if len(ls.Gradients) != l.Width() || len(ls.Derivatives) != l.Width() || len(ls.Deltas) != l.Width() {
			return false
		}
		for _, d := range ls.Deltas {
			if len(d.Weights) != l.InputWidth() {
				return false
			}
		}
	}
	return true
}

// Reset zeroes every buffer and restores Rprop step sizes to InitialStep.
func (s *State) Reset() {
	for _, ls := range s.Layers {
		clear(ls.Gradients)
		clear(ls.Derivatives)
		for i := range ls.Deltas {
			ls.Deltas[i].Bias = 0
			clear(ls.Deltas[i].Weights)
		}
	}
	clear(s.accumulated)
	clear(s.previous)
	s.resetSteps()
}

// StepMagnitudes returns a copy of the Rprop step sizes.
func (s *State) StepMagnitudes() []float64 {
	return append([]float64(nil), s.magnitude...)
}

// PreviousGradients returns a copy of the gradients remembered by Rprop.
func (s *State) PreviousGradients() []float64 {
	return append([]float64(nil), s.previous...)
}

func (s *State) resetSteps() {
	for i := range s.magnitude {
		s.magnitude[i] = InitialStep
	}
}
