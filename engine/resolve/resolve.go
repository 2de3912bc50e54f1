// Package resolve maps die references from commands to game columns.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/dicelab/engine/state"
)

// AmbiguityError indicates a die ID used by more than one column.
type AmbiguityError struct {
	Name    string
	Columns []int
}

func (e *AmbiguityError) Error() string {
	cols := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		cols[i] = strconv.Itoa(c)
	}
	return fmt.Sprintf("which %s? it is in columns %s; use a column number", e.Name, strings.Join(cols, ", "))
}

// NotFoundError indicates no column matched a reference.
type NotFoundError struct {
	Name    string
	Columns int
}

func (e *NotFoundError) Error() string {
	if e.Columns == 0 {
		return fmt.Sprintf("no die %q; the game has no dice", e.Name)
	}
	return fmt.Sprintf("no die %q; use a column number from 0 to %d or a die ID", e.Name, e.Columns-1)
}

// Column resolves ref to a 0-based column. A number is taken as a column
// index; anything else is matched against die IDs, exactly first and then
// ignoring case.
func Column(defs *state.Defs, ref string) (int, error) {
	n := len(defs.Game.Dice)
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= n {
			return -1, &NotFoundError{Name: ref, Columns: n}
		}
		return i, nil
	}

	matches := columnsOf(defs, func(id string) bool { return id == ref })
	if len(matches) == 0 {
		matches = columnsOf(defs, func(id string) bool { return strings.EqualFold(id, ref) })
	}

	switch len(matches) {
	case 0:
		return -1, &NotFoundError{Name: ref, Columns: n}
	case 1:
		return matches[0], nil
	default:
		return -1, &AmbiguityError{Name: ref, Columns: matches}
	}
}

func columnsOf(defs *state.Defs, match func(id string) bool) []int {
	var cols []int
	for i, id := range defs.Game.Dice {
		if match(id) {
			cols = append(cols, i)
		}
	}
	return cols
}
