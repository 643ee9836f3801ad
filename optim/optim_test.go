// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim_test

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/perceptron/nn"
	"github.com/born-ml/perceptron/optim"
)

func TestPublicTrainSample(t *testing.T) {
	net, err := nn.CreateRandom(1, 1, 0, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	st := optim.NewState(net)

	first, err := optim.TrainSample(net, st, []float64{0.5}, []float64{0.8}, optim.SampleConfig{LR: 0.1})
	require.NoError(t, err)

	var last float64
	for i := 0; i < 200; i++ {
		last, err = optim.TrainSample(net, st, []float64{0.5}, []float64{0.8}, optim.SampleConfig{LR: 0.1})
		require.NoError(t, err)
	}
	assert.Less(t, last, first)
}

func TestPublicTrainBatch(t *testing.T) {
	net, err := nn.CreateRandom(2, 1, 1, 3, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	st := optim.NewState(net)

	inputs := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	targets := [][]float64{{0}, {0}, {0}, {1}}

	epochs := 0
	_, err = optim.TrainBatch(net, st, inputs, targets, optim.BatchConfig{
		ErrorTolerance: -1,
		MaxIterations:  10,
		OnEpoch:        func(int, float64) { epochs++ },
		Parallel:       optim.DefaultParallelConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, epochs)

	_, err = optim.TrainBatch(net, st, nil, nil, optim.BatchConfig{})
	assert.True(t, errors.Is(err, optim.ErrEmptyBatch))

	other, err := nn.CreateRandom(2, 1, 0, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = optim.TrainBatch(other, st, inputs, targets, optim.BatchConfig{})
	assert.True(t, errors.Is(err, optim.ErrStateMismatch))
}

func TestPublicSampleMatchesTrainSample(t *testing.T) {
	a, err := nn.CreateRandom(2, 1, 1, 3, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	b, err := nn.CreateRandom(2, 1, 1, 3, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	sa, sb := optim.NewState(a), optim.NewState(b)

	in, target := []float64{0.2, 0.7}, []float64{0.4}
	for i := 0; i < 3; i++ {
		ea, err := optim.Sample(a, sa, in, target, 0.2, 0.1, 0, 2)
		require.NoError(t, err)
		eb, err := optim.TrainSample(b, sb, in, target, optim.SampleConfig{
			LR: 0.2, Momentum: 0.1, MaxIterations: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, eb, ea)
	}
	assert.Equal(t, b.Snapshot(), a.Snapshot())
}
