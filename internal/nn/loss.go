package nn

import "math"

// MeanError returns the mean absolute difference between target and output.
//
//	error = Σ sqrt((target[i] - output[i])²) / len(target)
//
// This is the convergence signal used by both trainers. Tolerances are tuned
// to this metric, so it must not be swapped for squared or RMS error.
// target and output must have the same length.
func MeanError(target, output []float64) float64 {
	var sum float64
	for i, t := range target {
		d := t - output[i]
		sum += math.Sqrt(d * d)
	}
	return sum / float64(len(target))
}

// Error returns MeanError of target against the output cache of the last layer.
func (n *Network) Error(target []float64) float64 {
	return MeanError(target, n.layers[len(n.layers)-1].output)
}
