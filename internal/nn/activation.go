package nn

import "math"

// Activation is the bipolar logistic function used by every neuron.
//
//	f(x) = 2 / (1 + exp(-x)) - 1
//
// It is a logistic curve rescaled to the open range (-1, 1) with f(0) = 0.
func Activation(x float64) float64 {
	return 2/(1+math.Exp(-x)) - 1
}

// ActivationDerivative returns f'(x) expressed through the activation output
// y = f(x):
//
//	f'(x) = 0.5 * (1 + y) * (1 - y)
//
// y must be an already computed Activation value, not the pre-activation sum.
func ActivationDerivative(y float64) float64 {
	return 0.5 * (1 + y) * (1 - y)
}
