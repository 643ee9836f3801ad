// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim trains networks built with package nn.
//
// # Overview
//
// This package contains:
//   - State: training buffers sized from a network
//   - TrainSample: per-sample gradient descent with momentum
//   - TrainBatch: full-batch resilient backpropagation (Rprop)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/perceptron/nn"
//	    "github.com/born-ml/perceptron/optim"
//	)
//
//	func main() {
//	    net, _ := nn.CreateRandom(2, 1, 1, 4, rng)
//	    state := optim.NewState(net)
//
//	    e, err := optim.TrainBatch(net, state, inputs, targets, optim.BatchConfig{
//	        ErrorTolerance: 0.05,
//	        MaxIterations:  5000,
//	        OnEpoch: func(epoch int, e float64) {
//	            log.Printf("epoch %d: error %.4f", epoch, e)
//	        },
//	    })
//	}
//
// # Online Training
//
//	for _, s := range samples {
//	    e, err := optim.TrainSample(net, state, s.Input, s.Target, optim.SampleConfig{
//	        LR:             0.1,
//	        Momentum:       0.05,
//	        ErrorTolerance: 0.1,
//	    })
//	}
//
// Momentum deltas and Rprop step sizes live in the State and carry over
// between calls. State is never saved with the model; create a new one after
// loading a network.
package optim
