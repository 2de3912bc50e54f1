package loader

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/nathoo/dicelab/dice"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/table"
	"github.com/nathoo/dicelab/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for referential integrity and
// consistency. Warnings never fail loading.
func validate(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}
	if len(defs.Game.Dice) == 0 {
		ve.Errors = append(ve.Errors, "Game.Dice must list at least one die")
	}
	if defs.Game.Rolls < 1 || defs.Game.Rolls > dice.MaxRolls {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Game.Rolls must be between 1 and %d, got %d", dice.MaxRolls, defs.Game.Rolls))
	}

	used := map[string]bool{}
	for i, id := range defs.Game.Dice {
		if _, ok := defs.Dice[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Game.Dice[%d] references undefined die %q", i+1, id))
			continue
		}
		used[id] = true
	}

	for _, def := range sortedDice(defs) {
		validateDie(def, ve)
		if !used[def.ID] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("die %q is defined but not used by the game", def.ID))
		}
	}

	// Dice in one game are expected to share a face set.
	var first *types.DieDef
	for _, id := range defs.Game.Dice {
		def, ok := defs.Dice[id]
		if !ok {
			continue
		}
		if first == nil {
			first = &def
			continue
		}
		if !slices.Equal(first.Faces, def.Faces) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"die %q has a different face set than die %q", def.ID, first.ID))
		}
	}

	return ve
}

func validateDie(def types.DieDef, ve *ValidationError) {
	// Face rules are the die's own: non-empty, distinct, no NaN.
	if _, err := dice.New(def.Faces); err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf("die %q: %v", def.ID, err))
		return
	}

	faces := map[dice.Face]bool{}
	for _, f := range def.Faces {
		faces[f] = true
	}
	for _, face := range sortedWeightKeys(def) {
		w := def.Weights[face]
		if !faces[face] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("die %q: weight given for unknown face %s", def.ID, face))
			continue
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("die %q: weight for face %s must be non-negative and finite, got %v", def.ID, face, w))
		}
	}
}

// sortedDice returns die definitions in source order.
func sortedDice(defs *state.Defs) []types.DieDef {
	out := make([]types.DieDef, 0, len(defs.Dice))
	for _, d := range defs.Dice {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

func sortedWeightKeys(def types.DieDef) []dice.Face {
	keys := make([]dice.Face, 0, len(def.Weights))
	for k := range def.Weights {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, table.Compare)
	return keys
}
