// Package state holds the immutable experiment definitions and the
// constructor for a fresh session state.
package state

import (
	"github.com/nathoo/dicelab/table"
	"github.com/nathoo/dicelab/types"
)

// Defs holds the immutable experiment definitions loaded from Lua.
type Defs struct {
	Game types.GameDef
	Dice map[string]types.DieDef
}

// NewState creates a fresh session state from definitions. Weights start at
// the values the definitions assign.
func NewState(defs *Defs) *types.State {
	weights := make([][]float64, len(defs.Game.Dice))
	for i, id := range defs.Game.Dice {
		weights[i] = InitialWeights(defs.Dice[id])
	}
	return &types.State{
		Weights:    weights,
		Results:    [][]table.Label{},
		CommandLog: []string{},
	}
}

// InitialWeights returns def's weights in face order, 1.0 for every face the
// definition leaves out.
func InitialWeights(def types.DieDef) []float64 {
	w := make([]float64, len(def.Faces))
	for i, f := range def.Faces {
		if v, ok := def.Weights[f]; ok {
			w[i] = v
		} else {
			w[i] = 1.0
		}
	}
	return w
}

// DieAt returns the definition of the die in column i.
func DieAt(defs *Defs, i int) (types.DieDef, bool) {
	if i < 0 || i >= len(defs.Game.Dice) {
		return types.DieDef{}, false
	}
	d, ok := defs.Dice[defs.Game.Dice[i]]
	return d, ok
}
