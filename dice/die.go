// Package dice models weighted dice: a fixed, ordered set of distinct face
// labels with a mutable relative weight per face, and weighted random
// draws from a pluggable Source.
package dice

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/nathoo/dicelab/table"
)

// Face is a die face label, numeric or text.
type Face = table.Label

// WeightsColumn labels the single column of a die snapshot.
const WeightsColumn = "Weights"

// MaxRolls is the largest number of rolls a single Roll or play accepts.
const MaxRolls = 1_000_000

// Die is a weighted die. Faces are fixed at construction; weights may
// change afterwards. The key set of the weight mapping is always exactly
// the face set.
type Die struct {
	mu      sync.RWMutex
	faces   []Face
	index   map[Face]int
	weights []float64
	src     Source
}

// Option configures a Die.
type Option func(*Die)

// WithSource makes the die draw from src instead of DefaultSource().
func WithSource(src Source) Option {
	return func(d *Die) {
		if src != nil {
			d.src = src
		}
	}
}

// New creates a die with the given faces, each weighted 1.0.
// Faces must be non-empty and distinct.
func New(faces []Face, opts ...Option) (*Die, error) {
	if len(faces) == 0 {
		return nil, validationf("dice.New", "at least one face is required")
	}
	index := make(map[Face]int, len(faces))
	for i, f := range faces {
		if f.IsNaN() {
			return nil, validationf("dice.New", "face %d is NaN", i)
		}
		if _, dup := index[f]; dup {
			return nil, validationf("dice.New", "faces must be distinct, %q repeats", f.String())
		}
		index[f] = i
	}

	d := &Die{
		faces:   append([]Face(nil), faces...),
		index:   index,
		weights: make([]float64, len(faces)),
	}
	for i := range d.weights {
		d.weights[i] = 1.0
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.src == nil {
		d.src = DefaultSource()
	}
	return d, nil
}

// ParseWeight converts text such as "5" or " 2.5 " into a weight. It is the
// explicit coercion step for weights supplied as strings.
func ParseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, validationf("dice.ParseWeight", "%q is not a number", s)
	}
	if err := checkWeight("dice.ParseWeight", w); err != nil {
		return 0, err
	}
	return w, nil
}

func checkWeight(op string, w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return validationf(op, "weight must be finite, got %v", w)
	}
	if w < 0 {
		return validationf(op, "weight must be non-negative, got %v", w)
	}
	return nil
}

// SetWeight changes the weight of a single face. Unknown faces yield a
// *LookupError whatever the weight; negative or non-finite weights a
// *ValidationError.
func (d *Die) SetWeight(face Face, weight float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, ok := d.index[face]
	if !ok {
		return &LookupError{Op: "Die.SetWeight", Face: face}
	}
	if err := checkWeight("Die.SetWeight", weight); err != nil {
		return err
	}
	d.weights[i] = weight
	return nil
}

// SetWeightString is SetWeight with the weight given as numeric text.
func (d *Die) SetWeightString(face Face, weight string) error {
	if _, err := d.Weight(face); err != nil {
		return &LookupError{Op: "Die.SetWeightString", Face: face}
	}
	w, err := ParseWeight(weight)
	if err != nil {
		return err
	}
	return d.SetWeight(face, w)
}

// Roll draws count faces independently, with replacement. The probability
// of face f on each draw is weight(f) / sum of weights.
func (d *Die) Roll(count int) ([]Face, error) {
	if count < 1 || count > MaxRolls {
		return nil, validationf("Die.Roll", "number of rolls must be between 1 and %d, got %d", MaxRolls, count)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	total := 0.0
	for _, w := range d.weights {
		total += w
	}
	if total <= 0 {
		return nil, validationf("Die.Roll", "weights sum to zero")
	}

	out := make([]Face, count)
	for i := range out {
		out[i] = d.faces[d.src.WeightedSelect(d.weights)]
	}
	return out, nil
}

// Snapshot returns a copy of the die's weights as a table keyed by face in
// insertion order, with a single "Weights" column.
func (d *Die) Snapshot() *table.Table[float64] {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows := make([]table.Key, len(d.faces))
	for i, f := range d.faces {
		rows[i] = table.Key{f}
	}
	t := table.New[float64]([]string{"Face"}, rows, []table.Label{table.Text(WeightsColumn)})
	for i, w := range d.weights {
		_ = t.Set(i, 0, w)
	}
	return t
}

// Faces returns the face labels in insertion order.
func (d *Die) Faces() []Face {
	return append([]Face(nil), d.faces...)
}

// Weights returns the current weights in face order.
func (d *Die) Weights() []float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]float64(nil), d.weights...)
}

// Weight returns the weight of a single face.
func (d *Die) Weight(face Face) (float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.index[face]
	if !ok {
		return 0, &LookupError{Op: "Die.Weight", Face: face}
	}
	return d.weights[i], nil
}

// Sides returns the number of faces.
func (d *Die) Sides() int {
	return len(d.faces)
}

// Face resolves a face from its rendered text, so that "6" finds the
// numeric face 6 and "H" finds the text face H.
func (d *Die) Face(name string) (Face, bool) {
	for _, f := range d.faces {
		if f.String() == name {
			return f, true
		}
	}
	if f := table.ParseLabel(name); !f.IsText() {
		if _, ok := d.index[f]; ok {
			return f, true
		}
	}
	return Face{}, false
}

// SameFaces reports whether other has the same faces in the same order.
func (d *Die) SameFaces(other *Die) bool {
	if other == nil || len(d.faces) != len(other.faces) {
		return false
	}
	for i := range d.faces {
		if d.faces[i] != other.faces[i] {
			return false
		}
	}
	return true
}
