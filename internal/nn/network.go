package nn

import (
	"github.com/pkg/errors"
)

// Config describes the topology of a fully connected network.
//
// A network has HiddenLayers layers of HiddenWidth neurons followed by an
// output layer of Outputs neurons. HiddenLayers may be zero, in which case the
// network is a single layer mapping Inputs directly to Outputs.
type Config struct {
	Inputs       int // Input vector width
	Outputs      int // Output vector width
	HiddenLayers int // Number of hidden layers
	HiddenWidth  int // Neurons per hidden layer
}

// Default hidden topology.
const (
	DefaultHiddenLayers = 2
	DefaultHiddenWidth  = 12
)

// DefaultConfig returns a configuration with two hidden layers of 12 neurons.
func DefaultConfig(inputs, outputs int) Config {
	return Config{
		Inputs:       inputs,
		Outputs:      outputs,
		HiddenLayers: DefaultHiddenLayers,
		HiddenWidth:  DefaultHiddenWidth,
	}
}

// Validate reports whether the configuration describes a buildable network.
func (c Config) Validate() error {
	switch {
	case c.Inputs <= 0:
		return errors.Wrapf(ErrInvalidTopology, "inputs must be positive, got %d", c.Inputs)
	case c.Outputs <= 0:
		return errors.Wrapf(ErrInvalidTopology, "outputs must be positive, got %d", c.Outputs)
	case c.HiddenLayers < 0:
		return errors.Wrapf(ErrInvalidTopology, "hidden layer count must not be negative, got %d", c.HiddenLayers)
	case c.HiddenLayers > 0 && c.HiddenWidth <= 0:
		return errors.Wrapf(ErrInvalidTopology, "hidden width must be positive, got %d", c.HiddenWidth)
	}
	return nil
}

// Network is a feed-forward multilayer perceptron.
//
// Layer i consumes the output of layer i-1 (layer 0 consumes the network
// input). The topology is fixed at construction; only parameter values change
// during training.
//
// A Network is not safe for concurrent use: Infer and Forward overwrite the
// per-layer output caches. ForwardInto only reads parameters and may run
// concurrently as long as nothing mutates them.
type Network struct {
	inputs int
	layers []*Layer
}

// NewRandom creates a network with parameters drawn uniformly from [-1, 1].
//
// Parameters are drawn layer by layer, neuron by neuron (bias first), so a
// seeded Source always yields the same network.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	net, err := nn.NewRandom(nn.Config{Inputs: 4, Outputs: 1, HiddenLayers: 2, HiddenWidth: 12}, rng)
func NewRandom(cfg Config, rng Source) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("nil random source")
	}

	net := &Network{
		inputs: cfg.Inputs,
		layers: make([]*Layer, 0, cfg.HiddenLayers+1),
	}

	current := cfg.Inputs
	for i := 0; i < cfg.HiddenLayers; i++ {
		net.layers = append(net.layers, randomLayer(current, cfg.HiddenWidth, rng))
		current = cfg.HiddenWidth
	}
	net.layers = append(net.layers, randomLayer(current, cfg.Outputs, rng))

	return net, nil
}

// CreateRandom is NewRandom with positional arguments.
func CreateRandom(inputs, outputs, hiddenLayers, hiddenWidth int, rng Source) (*Network, error) {
	return NewRandom(Config{
		Inputs:       inputs,
		Outputs:      outputs,
		HiddenLayers: hiddenLayers,
		HiddenWidth:  hiddenWidth,
	}, rng)
}

func randomLayer(inputs, width int, rng Source) *Layer {
	neurons := make([]Neuron, width)
	for i := range neurons {
		neurons[i] = NewRandomNeuron(inputs, rng)
	}
	return newLayer(inputs, neurons)
}

// InputWidth returns the expected input vector length.
func (n *Network) InputWidth() int {
	return n.inputs
}

// OutputWidth returns the length of the output vector.
func (n *Network) OutputWidth() int {
	return n.layers[len(n.layers)-1].Width()
}

// Layers returns the layers in forward order.
func (n *Network) Layers() []*Layer {
	return n.layers
}

// Layer returns the i-th layer.
func (n *Network) Layer(i int) *Layer {
	return n.layers[i]
}

// LayerCount returns the number of layers, including the output layer.
func (n *Network) LayerCount() int {
	return len(n.layers)
}

// ParameterCount returns the number of trainable scalars (weights and biases).
func (n *Network) ParameterCount() int {
	count := 0
	for _, l := range n.layers {
		count += l.Width() * (l.InputWidth() + 1)
	}
	return count
}

// Infer runs a forward pass and returns a copy of the output vector.
//
// Returns an error wrapping ErrShapeMismatch if len(input) differs from
// InputWidth. Besides overwriting the layer output caches, Infer has no side
// effects; identical inputs on unchanged parameters give identical outputs.
func (n *Network) Infer(input []float64) ([]float64, error) {
	if len(input) != n.inputs {
		return nil, shapeError("input", len(input), n.inputs)
	}

	out := n.Forward(input)
	result := make([]float64, len(out))
	copy(result, out)
	return result, nil
}

// Forward runs a forward pass through the layer output caches and returns
// the last layer's cache. The input length is not checked.
func (n *Network) Forward(input []float64) []float64 {
	current := input
	for _, l := range n.layers {
		l.forward(current, l.output)
		current = l.output
	}
	return current
}

// ForwardInto runs a forward pass writing layer i's output into outputs[i]
// instead of the layer caches. outputs must hold one buffer per layer, each
// of the layer's width. The input length is not checked.
func (n *Network) ForwardInto(input []float64, outputs [][]float64) []float64 {
	current := input
	for i, l := range n.layers {
		l.forward(current, outputs[i])
		current = outputs[i]
	}
	return current
}

// OutputBuffers allocates one zeroed buffer per layer sized for ForwardInto.
func (n *Network) OutputBuffers() [][]float64 {
	bufs := make([][]float64, len(n.layers))
	for i, l := range n.layers {
		bufs[i] = make([]float64, l.Width())
	}
	return bufs
}
