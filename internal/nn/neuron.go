package nn

// Source is the random number source used for weight initialization.
//
// *math/rand.Rand and *math/rand/v2.Rand both satisfy it. Tests seed their own
// source to reproduce exact parameter draws.
type Source interface {
	Float64() float64
}

// Neuron is a single weighted unit: one weight per input plus a bias.
//
// The length of Weights equals the input width of the owning layer and never
// changes after creation.
type Neuron struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// NewRandomNeuron creates a neuron with bias and weights drawn uniformly from
// [-1, 1]. The bias is drawn first, then the weights in order.
func NewRandomNeuron(inputs int, rng Source) Neuron {
	n := Neuron{
		Bias:    uniform(rng),
		Weights: make([]float64, inputs),
	}
	for i := range n.Weights {
		n.Weights[i] = uniform(rng)
	}
	return n
}

// NewZeroNeuron creates a zero-initialized neuron with the given input width.
func NewZeroNeuron(inputs int) Neuron {
	return Neuron{Weights: make([]float64, inputs)}
}

// Clone returns a deep copy of the neuron.
func (n Neuron) Clone() Neuron {
	w := make([]float64, len(n.Weights))
	copy(w, n.Weights)
	return Neuron{Weights: w, Bias: n.Bias}
}

func uniform(rng Source) float64 {
	return rng.Float64()*2 - 1
}
