// Package table provides the labeled 2D table shared by dice, games and
// analyzers: an ordered row index of tuple keys, an ordered set of column
// labels, and dense row-major storage.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Label is a numeric or text value used for faces, index levels and column
// names. The zero Label is the number 0. Labels are comparable and can be
// used as map keys.
type Label struct {
	text   string
	num    float64
	isText bool
}

// Number returns a numeric label.
func Number(f float64) Label {
	return Label{num: f}
}

// Int returns a numeric label for an integer.
func Int(i int) Label {
	return Label{num: float64(i)}
}

// Text returns a text label.
func Text(s string) Label {
	return Label{text: s, isText: true}
}

// ParseLabel returns a numeric label when s parses as a finite float,
// otherwise a text label holding s verbatim.
func ParseLabel(s string) Label {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	return Text(s)
}

// IsText reports whether the label holds text.
func (l Label) IsText() bool { return l.isText }

// Float returns the numeric value and true for numeric labels.
func (l Label) Float() (float64, bool) {
	if l.isText {
		return 0, false
	}
	return l.num, true
}

// IsNaN reports whether l is the numeric NaN, which never equals itself.
func (l Label) IsNaN() bool {
	return !l.isText && math.IsNaN(l.num)
}

// String renders numbers in shortest form and text verbatim.
func (l Label) String() string {
	if l.isText {
		return l.text
	}
	return strconv.FormatFloat(l.num, 'g', -1, 64)
}

// Compare orders labels: numbers before text, numbers by value, text
// lexicographically. It returns -1, 0 or +1.
func Compare(a, b Label) int {
	switch {
	case a.isText != b.isText:
		if a.isText {
			return 1
		}
		return -1
	case a.isText:
		return strings.Compare(a.text, b.text)
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.isText {
		return json.Marshal(l.text)
	}
	if math.IsNaN(l.num) || math.IsInf(l.num, 0) {
		return nil, fmt.Errorf("table: cannot encode label %v", l.num)
	}
	return json.Marshal(l.num)
}

// UnmarshalJSON accepts a JSON number or string.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("table: label must be a number or string: %w", err)
	}
	*l = Number(f)
	return nil
}

// Key is a row key: one label per index level.
type Key []Label

// Equal reports whether two keys hold the same labels in the same order.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders a single-level key as its label and a multi-level key as
// a parenthesized tuple, e.g. "(2, 3)".
func (k Key) String() string {
	if len(k) == 1 {
		return k[0].String()
	}
	parts := make([]string, len(k))
	for i, l := range k {
		parts[i] = l.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (k Key) clone() Key {
	out := make(Key, len(k))
	copy(out, k)
	return out
}
