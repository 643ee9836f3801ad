// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a fully connected feed-forward network.
//
// # Overview
//
// This package contains:
//   - Network, Layer, Neuron: the model and its parameters
//   - Activation, ActivationDerivative: the bipolar logistic activation
//   - MeanError: the error metric used for convergence checks
//   - Snapshot: detached copies of the parameters for export and import
//   - Save, Load: JSON model files
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/perceptron/nn"
//	)
//
//	func main() {
//	    rng := rand.New(rand.NewSource(1))
//
//	    // 4 inputs, 1 output, 2 hidden layers of 12 neurons
//	    net, err := nn.CreateRandom(4, 1, 2, 12, rng)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    output, err := net.Infer([]float64{0.1, 0.5, 0.3, 0.9})
//	}
//
// # Activation
//
// Every neuron applies f(x) = 2/(1+exp(-x)) - 1, a logistic curve with
// range (-1, 1). Targets should be scaled into that range.
//
// # Persistence
//
//	if err := nn.Save("nn.json", net); err != nil {
//	    log.Fatal(err)
//	}
//	net, err := nn.Load("nn.json")
//
// Training state is not stored; see package optim.
package nn
