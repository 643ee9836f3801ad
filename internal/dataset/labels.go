package dataset

import "math"

// Labels interns non-numeric cells as consecutive numeric ids.
//
// Ids are assigned in order of first appearance, starting at 0, and are
// shared by all columns of a table.
type Labels struct {
	ids   map[string]int
	names []string
}

// NewLabels creates an empty label table.
func NewLabels() *Labels {
	return &Labels{ids: make(map[string]int)}
}

// LabelsFromNames rebuilds a label table whose ids are the positions of
// names, as returned by Names.
func LabelsFromNames(names []string) *Labels {
	l := NewLabels()
	for _, name := range names {
		l.Intern(name)
	}
	return l
}

// Intern returns the id of name, assigning the next free id if it is new.
func (l *Labels) Intern(name string) int {
	if id, ok := l.ids[name]; ok {
		return id
	}
	id := len(l.names)
	l.ids[name] = id
	l.names = append(l.names, name)
	return id
}

// ID returns the id of name.
func (l *Labels) ID(name string) (int, bool) {
	id, ok := l.ids[name]
	return id, ok
}

// Name returns the label with the given id.
func (l *Labels) Name(id int) (string, bool) {
	if id < 0 || id >= len(l.names) {
		return "", false
	}
	return l.names[id], true
}

// Len returns the number of distinct labels.
func (l *Labels) Len() int {
	return len(l.names)
}

// Names returns the labels ordered by id.
func (l *Labels) Names() []string {
	return append([]string(nil), l.names...)
}

// Nearest returns the label whose id is closest to value, as produced by an
// unscaled network output.
func (l *Labels) Nearest(value float64) (string, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", false
	}
	return l.Name(int(math.Round(value)))
}
