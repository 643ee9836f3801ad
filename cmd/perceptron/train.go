package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/perceptron/internal/dataset"
	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/optim"
	"github.com/born-ml/perceptron/internal/parallel"
	"github.com/born-ml/perceptron/internal/serialization"
)

// Metadata keys written next to trained models.
const (
	metaDividers = "dividers"
	metaTargets  = "targets"
	metaMode     = "mode"
	metaLabels   = "labels"
)

// unknownLabel stands for outputs that round to no known label id.
const unknownLabel = "?"

// logEvery is the epoch interval for info-level progress lines.
const logEvery = 100

type trainOptions struct {
	data         string
	model        string
	mode         string
	hiddenLayers int
	hiddenWidth  int
	targets      int
	tolerance    float64
	epochs       int
	lr           float64
	momentum     float64
	seed         int64
	split        float64
	workers      int
	verbose      bool
}

func parseTrainFlags(args []string, stderr io.Writer) (*trainOptions, error) {
	o := &trainOptions{}
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.data, "data", "", "CSV file with input columns followed by target columns")
	fs.StringVar(&o.model, "model", "nn.json", "Model file; loaded if it exists, written after training")
	fs.StringVar(&o.mode, "mode", "batch", "Training mode: batch (Rprop) or online (SGD with momentum)")
	fs.IntVar(&o.hiddenLayers, "hidden-layers", nn.DefaultHiddenLayers, "Number of hidden layers for a new network")
	fs.IntVar(&o.hiddenWidth, "hidden-width", nn.DefaultHiddenWidth, "Neurons per hidden layer for a new network")
	fs.IntVar(&o.targets, "targets", 1, "Number of trailing target columns")
	fs.Float64Var(&o.tolerance, "tolerance", 0.1, "Stop once the mean error drops below this")
	fs.IntVar(&o.epochs, "epochs", 10000, "Maximum number of epochs")
	fs.Float64Var(&o.lr, "lr", optim.DefaultLR, "Learning rate (online mode)")
	fs.Float64Var(&o.momentum, "momentum", 0.05, "Momentum (online mode)")
	fs.Int64Var(&o.seed, "seed", 1, "Random seed for initialization and splitting")
	fs.Float64Var(&o.split, "split", 0.3, "Fraction of rows held out for testing")
	fs.IntVar(&o.workers, "workers", 0, "Worker goroutines for batch epochs (0 = all CPUs, 1 = sequential)")
	fs.BoolVar(&o.verbose, "v", false, "Log every epoch")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if o.data == "" {
		return nil, errors.New("-data is required")
	}
	if o.mode != "batch" && o.mode != "online" {
		return nil, errors.Errorf("unknown mode %q", o.mode)
	}
	if o.split < 0 || o.split >= 1 {
		return nil, errors.Errorf("split %v must be in [0, 1)", o.split)
	}
	return o, nil
}

func runTrain(args []string, stdout, stderr io.Writer) error {
	o, err := parseTrainFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, o.verbose)
	rng := rand.New(rand.NewSource(o.seed))

	tbl, err := dataset.LoadFile(o.data)
	if err != nil {
		return err
	}
	dividers := tbl.Scale()
	train, test := tbl.Split(rng, o.split)
	if train.Len() == 0 {
		return errors.Errorf("no training rows left in %s", o.data)
	}

	inputs, targets, err := train.XY(o.targets)
	if err != nil {
		return err
	}
	logger.Info("loaded data", "file", o.data, "train", train.Len(), "test", test.Len(), "columns", tbl.Width())

	net, err := loadOrCreate(o, len(inputs[0]), rng, logger)
	if err != nil {
		return err
	}
	st := optim.NewState(net)
	par := parallelConfig(o.workers)

	var e float64
	switch o.mode {
	case "batch":
		e, err = optim.TrainBatch(net, st, inputs, targets, optim.BatchConfig{
			ErrorTolerance: o.tolerance,
			MaxIterations:  o.epochs,
			OnEpoch:        epochLogger(logger),
			Parallel:       par,
		})
	case "online":
		e, err = trainOnline(net, st, inputs, targets, o, epochLogger(logger))
	}
	if err != nil {
		return errors.Wrap(err, "training")
	}
	logger.Info("training finished", "mode", o.mode, "error", e)

	if test.Len() > 0 {
		ev, err := evaluate(net, test, o.targets, dividers, tbl.Labels, par)
		if err != nil {
			return err
		}
		for i, r := range ev.Rows {
			logger.Debug("test row", "row", i, "actual", r.Actual, "expected", r.Expected, "match", r.Match)
		}
		logger.Info("test set", "rows", test.Len(), "error", ev.MeanError)
		fmt.Fprintf(stdout, "test error: %.6f\n", ev.MeanError)
		if len(ev.Rows) > 0 {
			logger.Info("test labels", "matched", ev.Matched, "rows", len(ev.Rows), "accuracy", ev.Accuracy())
			fmt.Fprintf(stdout, "test accuracy: %.4f (%d/%d)\n", ev.Accuracy(), ev.Matched, len(ev.Rows))
		}
	}

	meta := map[string]string{
		metaDividers: formatFloats(dividers),
		metaTargets:  strconv.Itoa(o.targets),
		metaMode:     o.mode,
	}
	if tbl.Labels != nil && tbl.Labels.Len() > 0 {
		names, err := encodeLabels(tbl.Labels)
		if err != nil {
			return err
		}
		meta[metaLabels] = names
	}
	if err := serialization.SaveWithMetadata(o.model, net, meta); err != nil {
		return err
	}
	logger.Info("saved model", "file", o.model, "parameters", net.ParameterCount())
	return nil
}

func loadOrCreate(o *trainOptions, inputs int, rng *rand.Rand, logger *slog.Logger) (*nn.Network, error) {
	if _, err := os.Stat(o.model); err == nil {
		net, err := serialization.Load(o.model)
		if err != nil {
			return nil, err
		}
		if net.InputWidth() != inputs || net.OutputWidth() != o.targets {
			return nil, errors.Wrapf(nn.ErrShapeMismatch, "%s is %d-in %d-out, data has %d inputs and %d targets",
				o.model, net.InputWidth(), net.OutputWidth(), inputs, o.targets)
		}
		logger.Info("loaded model", "file", o.model, "layers", net.LayerCount())
		return net, nil
	}

	net, err := nn.NewRandom(nn.Config{
		Inputs:       inputs,
		Outputs:      o.targets,
		HiddenLayers: o.hiddenLayers,
		HiddenWidth:  o.hiddenWidth,
	}, rng)
	if err != nil {
		return nil, err
	}
	logger.Info("created network", "inputs", inputs, "outputs", o.targets,
		"hidden_layers", o.hiddenLayers, "hidden_width", o.hiddenWidth)
	return net, nil
}

// trainOnline runs epochs of one update per sample until the largest sample
// error of an epoch drops below the tolerance. It returns that largest error.
func trainOnline(net *nn.Network, st *optim.State, inputs, targets [][]float64, o *trainOptions, onEpoch optim.EpochFunc) (float64, error) {
	cfg := optim.SampleConfig{
		LR:             o.lr,
		Momentum:       o.momentum,
		ErrorTolerance: o.tolerance,
		MaxIterations:  1,
	}

	var worst float64
	for epoch := 0; epoch < max(o.epochs, 1); epoch++ {
		worst = 0
		for i := range inputs {
			e, err := optim.TrainSample(net, st, inputs[i], targets[i], cfg)
			if err != nil {
				return 0, errors.WithMessagef(err, "sample %d", i)
			}
			worst = math.Max(worst, e)
		}
		if worst < o.tolerance {
			return worst, nil
		}
		onEpoch(epoch, worst)
	}
	return worst, nil
}

func epochLogger(logger *slog.Logger) optim.EpochFunc {
	return func(epoch int, e float64) {
		logger.Debug("epoch", "epoch", epoch, "error", e)
		if epoch%logEvery == 0 {
			logger.Info("epoch", "epoch", epoch, "error", e)
		}
	}
}

func parallelConfig(workers int) parallel.Config {
	cfg := parallel.DefaultConfig()
	switch {
	case workers == 1:
		cfg.Enabled = false
	case workers > 1:
		cfg.NumWorkers = workers
		cfg.Enabled = true
	}
	return cfg
}

// evaluation is the outcome of scoring a network on held-out rows.
type evaluation struct {
	MeanError float64
	Rows      []classification // Empty when the data has no labels
	Matched   int
}

// classification compares the label nearest to a row's outputs with the
// label of its targets.
type classification struct {
	Actual   string
	Expected string
	Match    bool
}

// Accuracy returns the share of labelled rows whose predicted label matches.
func (e evaluation) Accuracy() float64 {
	if len(e.Rows) == 0 {
		return 0
	}
	return float64(e.Matched) / float64(len(e.Rows))
}

// evaluate scores net over the rows of tbl. Rows are scored concurrently with
// private forward buffers. When labels is non-empty, outputs and targets are
// unscaled with dividers and mapped to their nearest label.
func evaluate(net *nn.Network, tbl *dataset.Table, targets int, dividers []float64, labels *dataset.Labels, cfg parallel.Config) (evaluation, error) {
	inputs, want, err := tbl.XY(targets)
	if err != nil {
		return evaluation{}, err
	}
	if len(inputs[0]) != net.InputWidth() {
		return evaluation{}, errors.Wrapf(nn.ErrShapeMismatch, "test rows have %d inputs, want %d", len(inputs[0]), net.InputWidth())
	}
	classify := labels != nil && labels.Len() > 0
	if classify && len(dividers) != tbl.Width() {
		return evaluation{}, errors.Errorf("%d dividers for %d columns", len(dividers), tbl.Width())
	}

	errs := make([]float64, len(inputs))
	var rows []classification
	if classify {
		rows = make([]classification, len(inputs))
	}
	parallel.For(len(inputs), func(i int) {
		out := net.ForwardInto(inputs[i], net.OutputBuffers())
		errs[i] = nn.MeanError(want[i], out)
		if classify {
			rows[i] = classifyRow(out, want[i], dividers[len(inputs[i]):], labels)
		}
	}, cfg)

	ev := evaluation{MeanError: floats.Sum(errs) / float64(len(inputs)), Rows: rows}
	for _, r := range rows {
		if r.Match {
			ev.Matched++
		}
	}
	return ev, nil
}

func classifyRow(out, want, dividers []float64, labels *dataset.Labels) classification {
	actual := make([]string, len(out))
	expected := make([]string, len(out))
	match := true
	for k := range out {
		a, okA := labels.Nearest(dataset.Unscale(out[k], dividers, k))
		e, okE := labels.Nearest(dataset.Unscale(want[k], dividers, k))
		if !okA {
			a = unknownLabel
		}
		if !okE {
			e = unknownLabel
		}
		actual[k], expected[k] = a, e
		match = match && okA && okE && a == e
	}
	return classification{
		Actual:   strings.Join(actual, ","),
		Expected: strings.Join(expected, ","),
		Match:    match,
	}
}

func encodeLabels(labels *dataset.Labels) (string, error) {
	data, err := json.Marshal(labels.Names())
	if err != nil {
		return "", errors.Wrap(err, "failed to encode labels")
	}
	return string(data), nil
}

func decodeLabels(s string) (*dataset.Labels, error) {
	if s == "" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return nil, errors.Wrapf(err, "%s metadata", metaLabels)
	}
	return dataset.LabelsFromNames(names), nil
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i)
		}
		values[i] = v
	}
	return values, nil
}
