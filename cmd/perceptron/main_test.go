package main

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/perceptron/internal/dataset"
	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/optim"
	"github.com/born-ml/perceptron/internal/parallel"
	"github.com/born-ml/perceptron/internal/serialization"
)

const irisData = `5.1,3.5,1.4,0.2,Iris-setosa
4.9,3.0,1.4,0.2,Iris-setosa
7.0,3.2,4.7,1.4,Iris-versicolor
6.4,3.2,4.5,1.5,Iris-versicolor
6.3,3.3,6.0,2.5,Iris-virginica
5.8,2.7,5.1,1.9,Iris-virginica
`

const andData = `0,0,0
0,1,0
1,0,0
1,1,1
`

func writeData(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"version"}, &out, &out))
	assert.Equal(t, "perceptron "+version+"\n", out.String())
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, &out, &out))
	assert.Contains(t, out.String(), "train")

	err := run([]string{"serve"}, &out, &out)
	require.Error(t, err)
	assert.Equal(t, `unknown command "serve"`, err.Error())
}

func TestTrain_BatchThenInfer(t *testing.T) {
	data := writeData(t, andData)
	model := filepath.Join(t.TempDir(), "nn.json")

	var stdout, stderr bytes.Buffer
	err := run([]string{"train",
		"-data", data, "-model", model,
		"-hidden-layers", "1", "-hidden-width", "3",
		"-epochs", "50", "-split", "0", "-workers", "1",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stderr.String(), "saved model")

	doc, err := serialization.LoadDocument(model)
	require.NoError(t, err)
	assert.Equal(t, "1,1,1", doc.Metadata[metaDividers])
	assert.Equal(t, "1", doc.Metadata[metaTargets])
	assert.Equal(t, "batch", doc.Metadata[metaMode])
	assert.Len(t, doc.Layers, 2)

	stdout.Reset()
	require.NoError(t, run([]string{"infer", "-model", model, "-input", "1,1"}, &stdout, &stderr))
	fields := strings.Split(strings.TrimSpace(stdout.String()), ",")
	require.Len(t, fields, 1)
	v, err := strconv.ParseFloat(fields[0], 64)
	require.NoError(t, err)
	assert.True(t, v > -1 && v < 1, "output %v outside activation range", v)
}

func TestTrain_OnlineReusesModel(t *testing.T) {
	data := writeData(t, andData)
	model := filepath.Join(t.TempDir(), "nn.json")
	args := []string{"train", "-data", data, "-model", model, "-mode", "online", "-epochs", "5", "-tolerance", "-1", "-split", "0"}

	var out bytes.Buffer
	require.NoError(t, run(args, &out, &out))
	first, err := serialization.Load(model)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, run(args, &out, &out))
	assert.Contains(t, out.String(), "loaded model")

	second, err := serialization.Load(model)
	require.NoError(t, err)
	assert.Equal(t, first.LayerCount(), second.LayerCount())
	assert.NotEqual(t, first.Snapshot(), second.Snapshot(), "second run should keep training")
}

func TestTrain_ModelShapeMismatch(t *testing.T) {
	model := filepath.Join(t.TempDir(), "nn.json")
	var out bytes.Buffer
	require.NoError(t, run([]string{"train", "-data", writeData(t, andData), "-model", model,
		"-epochs", "1", "-split", "0"}, &out, &out))

	err := run([]string{"train", "-data", writeData(t, "1,2,3,4\n"), "-model", model,
		"-epochs", "1", "-split", "0"}, &out, &out)
	assert.True(t, errors.Is(err, nn.ErrShapeMismatch), "got %v", err)
}

func TestTrain_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing data", []string{"train"}},
		{"unknown mode", []string{"train", "-data", "x.csv", "-mode", "adam"}},
		{"split out of range", []string{"train", "-data", "x.csv", "-split", "1"}},
		{"missing file", []string{"train", "-data", filepath.Join(os.TempDir(), "does-not-exist.csv")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(tt.args, &out, &out))
		})
	}
}

func TestInfer_Errors(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"infer", "-model", filepath.Join(t.TempDir(), "none.json"), "-input", "1"}, &out, &out)
	assert.Error(t, err)

	err = run([]string{"infer", "-input", "1,abc"}, &out, &out)
	assert.Error(t, err)
}

func TestFloatsRoundTrip(t *testing.T) {
	values := []float64{1, 0.25, 7.9}
	got, err := parseFloats(formatFloats(values))
	require.NoError(t, err)
	assert.Equal(t, values, got)

	got, err = parseFloats("  ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEvaluate_ParallelMatchesSequential(t *testing.T) {
	net, err := nn.CreateRandom(3, 1, 1, 4, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(4))
	tbl := &dataset.Table{}
	for i := 0; i < 40; i++ {
		tbl.Rows = append(tbl.Rows, []float64{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()})
	}

	seq, err := evaluate(net, tbl, 1, nil, nil, parallel.Config{})
	require.NoError(t, err)
	par, err := evaluate(net, tbl, 1, nil, nil, parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 5})
	require.NoError(t, err)
	assert.Equal(t, seq, par)
	assert.Empty(t, seq.Rows)

	var sum float64
	for _, row := range tbl.Rows {
		out, err := net.Infer(row[:3])
		require.NoError(t, err)
		sum += nn.MeanError(row[3:], out)
	}
	assert.InDelta(t, sum/40, seq.MeanError, 1e-12)

	_, err = evaluate(net, &dataset.Table{Rows: [][]float64{{1, 2}}}, 1, nil, nil, parallel.Config{})
	assert.True(t, errors.Is(err, nn.ErrShapeMismatch))
}

func TestTrain_StoresLabelsAndInferPrintsThem(t *testing.T) {
	data := writeData(t, irisData)
	model := filepath.Join(t.TempDir(), "nn.json")

	var stdout, stderr bytes.Buffer
	err := run([]string{"train", "-data", data, "-model", model,
		"-hidden-layers", "1", "-hidden-width", "4", "-epochs", "20", "-split", "0", "-workers", "1",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	doc, err := serialization.LoadDocument(model)
	require.NoError(t, err)
	assert.Equal(t, `["Iris-setosa","Iris-versicolor","Iris-virginica"]`, doc.Metadata[metaLabels])

	labels, err := decodeLabels(doc.Metadata[metaLabels])
	require.NoError(t, err)
	assert.Equal(t, 3, labels.Len())

	stdout.Reset()
	require.NoError(t, run([]string{"infer", "-model", model, "-input", "6.3,3.3,6.0,2.5"}, &stdout, &stderr))
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "label: "), "got %q", lines[1])

	stdout.Reset()
	require.NoError(t, run([]string{"infer", "-model", model, "-input", "0.9,0.9,0.9,0.9", "-raw"}, &stdout, &stderr))
	assert.NotContains(t, stdout.String(), "label:")
}

func TestTrain_NumericDataHasNoLabels(t *testing.T) {
	model := filepath.Join(t.TempDir(), "nn.json")
	var out bytes.Buffer
	require.NoError(t, run([]string{"train", "-data", writeData(t, andData), "-model", model,
		"-epochs", "1", "-split", "0"}, &out, &out))

	doc, err := serialization.LoadDocument(model)
	require.NoError(t, err)
	_, ok := doc.Metadata[metaLabels]
	assert.False(t, ok)
}

func TestEvaluate_Labels(t *testing.T) {
	// Constant output Activation(ln 3) = 0.5, which unscales to id 1.
	net, err := nn.FromSnapshot(nn.Snapshot{
		Inputs: 1,
		Layers: []nn.LayerSnapshot{{Neurons: []nn.Neuron{{Weights: []float64{0}, Bias: math.Log(3)}}}},
	})
	require.NoError(t, err)

	labels := dataset.NewLabels()
	for _, name := range []string{"a", "b", "c"} {
		labels.Intern(name)
	}
	dividers := []float64{1, 2}
	tbl := &dataset.Table{Labels: labels, Rows: [][]float64{
		{0.1, 0.5}, // b
		{0.2, 0},   // a
		{0.3, 0.5}, // b
		{0.4, 1},   // c
	}}

	ev, err := evaluate(net, tbl, 1, dividers, labels, parallel.Config{Enabled: true, NumWorkers: 2, MinChunkSize: 1})
	require.NoError(t, err)

	require.Len(t, ev.Rows, 4)
	assert.Equal(t, 2, ev.Matched)
	assert.Equal(t, 0.5, ev.Accuracy())
	assert.Equal(t, classification{Actual: "b", Expected: "b", Match: true}, ev.Rows[0])
	assert.Equal(t, classification{Actual: "b", Expected: "a", Match: false}, ev.Rows[1])
	assert.Equal(t, classification{Actual: "b", Expected: "c", Match: false}, ev.Rows[3])

	_, err = evaluate(net, tbl, 1, []float64{1}, labels, parallel.Config{})
	assert.Error(t, err)
}

func TestTrainOnline_StopsOnLargestSampleError(t *testing.T) {
	newNet := func() *nn.Network {
		net, err := nn.CreateRandom(2, 1, 1, 3, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		return net
	}
	inputs := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	targets := [][]float64{{0}, {1}, {1}, {0}}
	o := &trainOptions{lr: 0.1, momentum: 0.05, tolerance: -1, epochs: 1}

	// One epoch reports the largest error seen before each sample's update.
	ref := newNet()
	refState := optim.NewState(ref)
	var worst float64
	for i := range inputs {
		out, err := ref.Infer(inputs[i])
		require.NoError(t, err)
		worst = math.Max(worst, nn.MeanError(targets[i], out))
		_, err = optim.TrainSample(ref, refState, inputs[i], targets[i], optim.SampleConfig{LR: o.lr, Momentum: o.momentum, ErrorTolerance: o.tolerance, MaxIterations: 1})
		require.NoError(t, err)
	}

	net := newNet()
	got, err := trainOnline(net, optim.NewState(net), inputs, targets, o, func(int, float64) {})
	require.NoError(t, err)
	assert.Equal(t, worst, got)
	assert.Equal(t, ref.Snapshot(), net.Snapshot())

	// A tolerance above every sample error stops after the first epoch.
	o = &trainOptions{lr: 0.1, tolerance: 10, epochs: 50}
	epochs := 0
	net = newNet()
	got, err = trainOnline(net, optim.NewState(net), inputs, targets, o, func(int, float64) { epochs++ })
	require.NoError(t, err)
	assert.Less(t, got, 10.0)
	assert.Zero(t, epochs)
	assert.Equal(t, newNet().Snapshot(), net.Snapshot())
}
