// Package game rolls a collection of similar dice together, one batch at a
// time, and keeps the outcome matrix of the most recent batch.
package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nathoo/dicelab/dice"
	"github.com/nathoo/dicelab/table"
)

// Index and column names used by result tables.
const (
	RollIndex  = "Roll Number"
	DieIndex   = "Die"
	FaceColumn = "Face Rolled"
)

// Format selects the shape returned by Results.
type Format string

const (
	// Wide has one row per roll and one column per die.
	Wide Format = "wide"
	// Narrow has one row per (roll, die) pair and a single value column.
	Narrow Format = "narrow"
)

// ParseFormat maps "wide" or "narrow" (any case) to a Format. The empty
// string means Wide.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Wide):
		return Wide, nil
	case string(Narrow):
		return Narrow, nil
	default:
		return "", &dice.ValidationError{
			Op:  "game.ParseFormat",
			Msg: fmt.Sprintf("format must be %q or %q, got %q", Wide, Narrow, s),
		}
	}
}

// Game holds dice that are assumed to share a face set and the outcome of
// the most recent Play.
type Game struct {
	mu      sync.RWMutex
	dice    []*dice.Die
	outcome *table.Table[dice.Face]
}

// New creates a game over the given dice, in order. Face sets are not
// cross-checked; mixing dice with different faces is the caller's choice.
func New(ds []*dice.Die) (*Game, error) {
	for i, d := range ds {
		if d == nil {
			return nil, &dice.ValidationError{Op: "game.New", Msg: fmt.Sprintf("element %d is not a die", i)}
		}
	}
	g := &Game{dice: append([]*dice.Die(nil), ds...)}
	g.outcome = table.New[dice.Face]([]string{RollIndex}, nil, g.columns())
	return g, nil
}

func (g *Game) columns() []table.Label {
	cols := make([]table.Label, len(g.dice))
	for i := range cols {
		cols[i] = table.Int(i)
	}
	return cols
}

// Play rolls every die rolls times and replaces the stored outcome with a
// rolls x dice table. The previous outcome is discarded only when every die
// rolled successfully.
func (g *Game) Play(rolls int) error {
	if rolls < 1 || rolls > dice.MaxRolls {
		return &dice.ValidationError{Op: "Game.Play", Msg: fmt.Sprintf("number of rolls must be between 1 and %d, got %d", dice.MaxRolls, rolls)}
	}

	perDie := make([][]dice.Face, len(g.dice))
	for i, d := range g.dice {
		faces, err := d.Roll(rolls)
		if err != nil {
			return fmt.Errorf("rolling die %d: %w", i, err)
		}
		perDie[i] = faces
	}

	rows := make([]table.Key, rolls)
	for r := range rows {
		rows[r] = table.Key{table.Int(r)}
	}
	outcome := table.New[dice.Face]([]string{RollIndex}, rows, g.columns())
	for c, faces := range perDie {
		for r, f := range faces {
			_ = outcome.Set(r, c, f)
		}
	}

	g.mu.Lock()
	g.outcome = outcome
	g.mu.Unlock()
	return nil
}

// Restore replaces the stored outcome with previously saved rows, one slice
// of faces per roll with one face per die.
func (g *Game) Restore(rows [][]dice.Face) error {
	keys := make([]table.Key, len(rows))
	for r := range keys {
		keys[r] = table.Key{table.Int(r)}
	}
	outcome, err := table.FromRows([]string{RollIndex}, keys, g.columns(), rows)
	if err != nil {
		return &dice.ValidationError{Op: "Game.Restore", Msg: err.Error()}
	}

	g.mu.Lock()
	g.outcome = outcome
	g.mu.Unlock()
	return nil
}

// Results returns a copy of the most recent outcome in the requested shape.
func (g *Game) Results(format Format) (*table.Table[dice.Face], error) {
	switch format {
	case Wide, Narrow:
	default:
		return nil, &dice.ValidationError{
			Op:  "Game.Results",
			Msg: fmt.Sprintf("format must be %q or %q, got %q", Wide, Narrow, string(format)),
		}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if format == Narrow {
		return g.outcome.Stack(DieIndex, table.Text(FaceColumn)), nil
	}
	return g.outcome.Clone(), nil
}

// Dice returns the game's dice in order.
func (g *Game) Dice() []*dice.Die {
	return append([]*dice.Die(nil), g.dice...)
}

// Rolls returns the number of rolls in the stored outcome.
func (g *Game) Rolls() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rows, _ := g.outcome.Shape()
	return rows
}
