// Package save implements JSON serialization and deserialization of session state.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/table"
	"github.com/nathoo/dicelab/types"
)

// DieData records one die column: its definition ID, faces, and the weights
// in effect when the session was saved.
type DieData struct {
	ID      string        `json:"id"`
	Faces   []table.Label `json:"faces"`
	Weights []float64     `json:"weights"`
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string          `json:"version"`
	Game        string          `json:"game"`
	Seed        int64           `json:"seed"`
	RNGPosition int64           `json:"rng_position"`
	Plays       int             `json:"plays"`
	LastBatch   int             `json:"last_batch"`
	Dice        []DieData       `json:"dice"`
	Results     [][]table.Label `json:"results"`
	CommandLog  []string        `json:"command_log"`
}

// Save serializes session state to JSON bytes.
func Save(s *types.State, defs *state.Defs) ([]byte, error) {
	dice := make([]DieData, len(defs.Game.Dice))
	for i, id := range defs.Game.Dice {
		def := defs.Dice[id]
		dice[i] = DieData{ID: id, Faces: def.Faces}
		if i < len(s.Weights) {
			dice[i].Weights = s.Weights[i]
		}
	}
	data := SaveData{
		Version:     defs.Game.Version,
		Game:        defs.Game.Title,
		Seed:        s.Seed,
		RNGPosition: s.RNGPosition,
		Plays:       s.Plays,
		LastBatch:   s.LastBatch,
		Dice:        dice,
		Results:     s.Results,
		CommandLog:  s.CommandLog,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure slices are never nil after load.
	if sd.Dice == nil {
		sd.Dice = []DieData{}
	}
	if sd.Results == nil {
		sd.Results = [][]table.Label{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return &sd, nil
}

// Check reports whether sd was saved from the experiment defs describes:
// same title, same dice in the same columns, and matching face sets.
func Check(sd *SaveData, defs *state.Defs) error {
	if sd.Game != defs.Game.Title {
		return fmt.Errorf("save is for %q, not %q", sd.Game, defs.Game.Title)
	}
	if len(sd.Dice) != len(defs.Game.Dice) {
		return fmt.Errorf("save has %d dice, experiment has %d", len(sd.Dice), len(defs.Game.Dice))
	}
	for i, d := range sd.Dice {
		def := defs.Dice[defs.Game.Dice[i]]
		if d.ID != def.ID {
			return fmt.Errorf("die %d is %q in the save, %q in the experiment", i, d.ID, def.ID)
		}
		if len(d.Faces) != len(def.Faces) || len(d.Weights) != len(def.Faces) {
			return fmt.Errorf("die %d (%s): face set does not match the experiment", i, d.ID)
		}
		for j := range d.Faces {
			if d.Faces[j] != def.Faces[j] {
				return fmt.Errorf("die %d (%s): face set does not match the experiment", i, d.ID)
			}
		}
	}
	for r, row := range sd.Results {
		if len(row) != len(sd.Dice) {
			return fmt.Errorf("results row %d has %d values, want %d", r, len(row), len(sd.Dice))
		}
	}
	return nil
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *types.State, sd *SaveData) {
	weights := make([][]float64, len(sd.Dice))
	for i, d := range sd.Dice {
		weights[i] = append([]float64(nil), d.Weights...)
	}
	s.Seed = sd.Seed
	s.RNGPosition = sd.RNGPosition
	s.Plays = sd.Plays
	s.LastBatch = sd.LastBatch
	s.Weights = weights
	s.Results = sd.Results
	s.CommandLog = sd.CommandLog
}
