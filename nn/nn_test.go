// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/perceptron/nn"
)

func TestPublicAPI(t *testing.T) {
	net, err := nn.CreateRandom(3, 2, 1, 5, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	out, err := net.Infer([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = net.Infer([]float64{1})
	assert.True(t, errors.Is(err, nn.ErrShapeMismatch))

	_, err = nn.NewRandom(nn.Config{Inputs: 0, Outputs: 1}, rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, nn.ErrInvalidTopology))
}

func TestPublicSaveLoad(t *testing.T) {
	net, err := nn.CreateRandom(2, 1, 1, 4, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nn.json")
	require.NoError(t, nn.Save(path, net))

	loaded, err := nn.Load(path)
	require.NoError(t, err)
	assert.Equal(t, net.Snapshot(), loaded.Snapshot())

	rebuilt, err := nn.FromSnapshot(loaded.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, 2, rebuilt.LayerCount())
}

func TestPublicMath(t *testing.T) {
	assert.Equal(t, 0.0, nn.Activation(0))
	assert.Equal(t, 0.5, nn.ActivationDerivative(0))
	assert.InDelta(t, 0.5, nn.MeanError([]float64{1, 0}, []float64{0, 0}), 1e-15)
}
