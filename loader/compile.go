// Package loader loads Lua experiment definitions into Go structs.
// The Lua VM is discarded after loading; nothing runs Lua during a session.
package loader

import (
	"fmt"
	"math"
	"sort"

	"github.com/nathoo/dicelab/dice"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/table"
	"github.com/nathoo/dicelab/types"
	lua "github.com/yuin/gopher-lua"
)

// DefaultRolls is the play size used when Game{} leaves rolls unset.
const DefaultRolls = 1000

// rawDie holds a die table before compilation.
type rawDie struct {
	id    string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toLabel converts a Lua number or string to a face label.
func toLabel(v lua.LValue) (table.Label, error) {
	switch val := v.(type) {
	case lua.LNumber:
		return table.Number(float64(val)), nil
	case lua.LString:
		return table.Text(string(val)), nil
	default:
		return table.Label{}, fmt.Errorf("face must be a number or string, got %s", v.Type())
	}
}

// toWeight converts a Lua number or numeric string to a weight. Range
// checks happen during validation.
func toWeight(v lua.LValue) (float64, error) {
	switch val := v.(type) {
	case lua.LNumber:
		return float64(val), nil
	case lua.LString:
		return dice.ParseWeight(string(val))
	default:
		return 0, fmt.Errorf("weight must be a number or numeric string, got %s", v.Type())
	}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Dice: map[string]types.DieDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	game, err := compileGame(coll.game)
	if err != nil {
		return nil, fmt.Errorf("compiling Game: %w", err)
	}
	defs.Game = game

	for _, raw := range coll.dice {
		if _, dup := defs.Dice[raw.id]; dup {
			coll.duplicates = append(coll.duplicates, raw.id)
			continue
		}
		d, err := compileDie(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling die %s: %w", raw.id, err)
		}
		defs.Dice[d.ID] = d
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) (types.GameDef, error) {
	g := types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Rolls:   DefaultRolls,
	}

	if diceTbl := getTable(tbl, "dice"); diceTbl != nil {
		for i := 1; i <= diceTbl.MaxN(); i++ {
			v := diceTbl.RawGetInt(i)
			s, ok := v.(lua.LString)
			if !ok {
				return g, fmt.Errorf("dice[%d] must be a die ID string, got %s", i, v.Type())
			}
			g.Dice = append(g.Dice, string(s))
		}
	}

	switch v := tbl.RawGetString("rolls").(type) {
	case *lua.LNilType:
	case lua.LNumber:
		f := float64(v)
		if f != math.Trunc(f) {
			return g, fmt.Errorf("rolls must be a whole number, got %v", f)
		}
		if math.Abs(f) > dice.MaxRolls {
			return g, fmt.Errorf("rolls must be at most %d, got %v", dice.MaxRolls, f)
		}
		g.Rolls = int(f)
	default:
		return g, fmt.Errorf("rolls must be a number, got %s", v.Type())
	}

	switch v := tbl.RawGetString("seed").(type) {
	case *lua.LNilType:
	case lua.LNumber:
		f := float64(v)
		if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return g, fmt.Errorf("seed must be an integer, got %v", f)
		}
		seed := int64(f)
		g.Seed = &seed
	default:
		return g, fmt.Errorf("seed must be a number, got %s", v.Type())
	}

	return g, nil
}

func compileDie(raw rawDie) (types.DieDef, error) {
	d := types.DieDef{
		ID:     raw.id,
		Source: raw.order,
	}

	if facesTbl := getTable(raw.table, "faces"); facesTbl != nil {
		for i := 1; i <= facesTbl.MaxN(); i++ {
			f, err := toLabel(facesTbl.RawGetInt(i))
			if err != nil {
				return d, fmt.Errorf("faces[%d]: %w", i, err)
			}
			d.Faces = append(d.Faces, f)
		}
	}

	if wTbl := getTable(raw.table, "weights"); wTbl != nil {
		d.Weights = map[table.Label]float64{}
		var ferr error
		wTbl.ForEach(func(k, v lua.LValue) {
			if ferr != nil {
				return
			}
			face, err := toLabel(k)
			if err != nil {
				ferr = fmt.Errorf("weights key: %w", err)
				return
			}
			w, err := toWeight(v)
			if err != nil {
				ferr = fmt.Errorf("weights[%s]: %w", face, err)
				return
			}
			d.Weights[face] = w
		})
		if ferr != nil {
			return d, ferr
		}
	}

	return d, nil
}

// sortedLuaFiles returns .lua files in a directory, with experiment.lua
// first and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var mainFile string
	var others []string
	for _, f := range files {
		if f == "experiment.lua" {
			mainFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if mainFile != "" {
		return append([]string{mainFile}, others...)
	}
	return others
}
