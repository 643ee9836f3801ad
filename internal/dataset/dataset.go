// Package dataset loads numeric training data from CSV files.
//
// Numeric cells are parsed as float64; any other cell is interned through a
// Labels table (so class names become 0, 1, 2, ...). Tables can be scaled
// column-wise, split into train and test sets, and cut into the input and
// target vectors the trainers consume.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrRaggedRow is returned when rows have different cell counts.
var ErrRaggedRow = errors.New("row width differs from first row")

// Source is the random source used by Split.
type Source interface {
	Float64() float64
}

// Table is a set of equal-width numeric rows.
type Table struct {
	Rows   [][]float64
	Labels *Labels
}

// Width returns the number of columns, or 0 for an empty table.
func (t *Table) Width() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Load reads comma-separated rows from r.
//
// Blank lines are skipped. Returns an error wrapping ErrRaggedRow if a row
// has a different number of cells than the first one.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	t := &Table{Labels: NewLabels()}
	for n := 1; ; n++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV")
		}
		if isBlank(record) {
			continue
		}

		if w := t.Width(); w > 0 && len(record) != w {
			return nil, errors.Wrapf(ErrRaggedRow, "row %d: got %d cells, want %d", n, len(record), w)
		}

		row := make([]float64, len(record))
		for i, cell := range record {
			cell = strings.TrimSpace(cell)
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				row[i] = v
			} else {
				row[i] = float64(t.Labels.Intern(cell))
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// LoadFile reads the CSV file at path.
func LoadFile(path string) (*Table, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for datasets
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "dataset %s", path)
	}
	return t, nil
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Scale divides every column by its largest value and returns the divisors.
//
// Columns whose maximum is not positive are left unchanged and get a divisor
// of 1, so Unscale is always the inverse of Scale.
func (t *Table) Scale() []float64 {
	dividers := make([]float64, t.Width())
	for _, row := range t.Rows {
		for i, v := range row {
			dividers[i] = max(dividers[i], v)
		}
	}
	for i, d := range dividers {
		if d <= 0 {
			dividers[i] = 1
		}
	}

	for _, row := range t.Rows {
		for i := range row {
			row[i] /= dividers[i]
		}
	}
	return dividers
}

// Unscale maps a scaled value of column back to the original range.
func Unscale(value float64, dividers []float64, column int) float64 {
	return value * dividers[column]
}

// Split moves rows into a test table with probability ratio each.
//
// Rows are visited from last to first, so test rows end up in reverse order.
// Both tables share the receiver's Labels. The receiver is not modified.
func (t *Table) Split(rng Source, ratio float64) (train, test *Table) {
	train = &Table{Labels: t.Labels}
	test = &Table{Labels: t.Labels}

	keep := make([]bool, len(t.Rows))
	for i := len(t.Rows) - 1; i >= 0; i-- {
		if rng.Float64() < ratio {
			test.Rows = append(test.Rows, t.Rows[i])
		} else {
			keep[i] = true
		}
	}
	for i, row := range t.Rows {
		if keep[i] {
			train.Rows = append(train.Rows, row)
		}
	}
	return train, test
}

// XY splits every row into an input vector and a target vector made of the
// last targets cells. The vectors alias the table rows.
func (t *Table) XY(targets int) (inputs, outputs [][]float64, err error) {
	w := t.Width()
	if targets <= 0 || targets >= w {
		return nil, nil, errors.Errorf("target column count %d must be in [1, %d)", targets, w)
	}

	inputs = make([][]float64, len(t.Rows))
	outputs = make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		inputs[i] = row[: w-targets : w-targets]
		outputs[i] = row[w-targets:]
	}
	return inputs, outputs, nil
}
