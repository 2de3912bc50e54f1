// Package types defines the shared data structures for the dicelab session.
// This package contains only type definitions; no logic, no methods.
package types

import "github.com/nathoo/dicelab/table"

// Intent is the parsed representation of a session command.
type Intent struct {
	Verb string
	Args []string
}

// Result is the output of a single session step.
type Result struct {
	Intent Intent
	Output []string
	Err    error // non-nil when the command failed; Output holds the message
	Draws  int64 // random draws consumed by the step
}

// DieDef is the definition of one die from Lua.
type DieDef struct {
	ID      string
	Faces   []table.Label
	Weights map[table.Label]float64 // face → weight; unlisted faces weigh 1.0
	Source  int                     // load order, for stable listings
}

// GameDef holds experiment metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Dice    []string // die IDs in column order; repeats allowed
	Rolls   int      // default batch size for play
	Seed    *int64   // nil when the experiment leaves seeding to the session
}

// State is the complete mutable session state.
type State struct {
	Seed        int64
	RNGPosition int64
	Plays       int             // number of successful play commands
	LastBatch   int             // rolls in the current outcome
	Weights     [][]float64     // per die column, in face order
	Results     [][]table.Label // current wide outcome, one row per roll
	CommandLog  []string
}
