// Package engine provides the Step() orchestrator that turns one command into
// operations on the session's dice, game, and analyzer.
package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nathoo/dicelab/analyzer"
	"github.com/nathoo/dicelab/dice"
	"github.com/nathoo/dicelab/engine/parser"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/game"
	"github.com/nathoo/dicelab/render"
	"github.com/nathoo/dicelab/types"
)

// NoResults is the answer to statistics commands before the first play.
const NoResults = "No results yet. Use play first."

// Engine holds the experiment definitions and mutable session state.
type Engine struct {
	Defs  *state.Defs
	State *types.State
	RNG   *dice.RNG

	dice     []*dice.Die
	game     *game.Game
	analyzer *analyzer.Analyzer // nil until the first play

	logger *slog.Logger
	seed   *int64
	table  render.Options
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for session events. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSeed overrides the experiment's seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// WithTableOptions sets how result tables are rendered.
func WithTableOptions(opts render.Options) Option {
	return func(e *Engine) {
		e.table = opts
	}
}

// New creates an engine from definitions. The seed is taken from WithSeed,
// then the experiment, then crypto/rand.
func New(defs *state.Defs, opts ...Option) (*Engine, error) {
	e := &Engine{
		Defs:   defs,
		State:  state.NewState(defs),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	switch {
	case e.seed != nil:
		e.State.Seed = *e.seed
	case defs.Game.Seed != nil:
		e.State.Seed = *defs.Game.Seed
	default:
		seed, err := dice.NewSeed()
		if err != nil {
			return nil, err
		}
		e.State.Seed = seed
	}

	if err := e.Restore(); err != nil {
		return nil, err
	}
	e.logger.Debug("session started",
		"experiment", defs.Game.Title, "dice", len(e.dice), "seed", e.State.Seed)
	return e, nil
}

// Restore rebuilds the RNG, dice, outcome, and analyzer from State. Call it
// after replacing State, e.g. with save.ApplySave.
func (e *Engine) Restore() error {
	rng := dice.RestoreRNG(e.State.Seed, e.State.RNGPosition)

	ds := make([]*dice.Die, len(e.Defs.Game.Dice))
	for i := range ds {
		def, ok := state.DieAt(e.Defs, i)
		if !ok {
			return fmt.Errorf("die %d: undefined die %q", i, e.Defs.Game.Dice[i])
		}
		d, err := dice.New(def.Faces, dice.WithSource(rng))
		if err != nil {
			return fmt.Errorf("die %d (%s): %w", i, def.ID, err)
		}
		if i < len(e.State.Weights) {
			if len(e.State.Weights[i]) != len(def.Faces) {
				return fmt.Errorf("die %d (%s): %d weights for %d faces", i, def.ID, len(e.State.Weights[i]), len(def.Faces))
			}
			for j, w := range e.State.Weights[i] {
				if err := d.SetWeight(def.Faces[j], w); err != nil {
					return fmt.Errorf("die %d (%s): %w", i, def.ID, err)
				}
			}
		}
		ds[i] = d
	}

	g, err := game.New(ds)
	if err != nil {
		return err
	}

	var an *analyzer.Analyzer
	if len(e.State.Results) > 0 {
		if err := g.Restore(e.State.Results); err != nil {
			return err
		}
		if an, err = analyzer.New(g); err != nil {
			return err
		}
	}

	e.RNG = rng
	e.dice = ds
	e.game = g
	e.analyzer = an
	e.syncWeights()
	return nil
}

// Dice returns the session's dice in column order.
func (e *Engine) Dice() []*dice.Die {
	return append([]*dice.Die(nil), e.dice...)
}

// Game returns the session's game.
func (e *Engine) Game() *game.Game {
	return e.game
}

// Analyzer returns the analyzer over the most recent play, or nil before
// the first play.
func (e *Engine) Analyzer() *analyzer.Analyzer {
	return e.analyzer
}

// Step processes one command and returns the result.
func (e *Engine) Step(input string) types.Result {
	intent := parser.Parse(input)
	result := types.Result{Intent: intent}

	if intent.Verb == "" {
		result.Output = append(result.Output, "Type help for a list of commands.")
		return result
	}

	e.State.CommandLog = append(e.State.CommandLog, input)
	before := e.RNG.Position()

	output, err := e.dispatch(intent)
	if err != nil {
		result.Err = err
		result.Output = append(result.Output, "Error: "+err.Error())
		e.logger.Debug("command failed", "verb", intent.Verb, "args", intent.Args, "err", err)
	} else {
		result.Output = append(result.Output, output...)
	}

	// Track RNG position for save/load.
	e.State.RNGPosition = e.RNG.Position()
	result.Draws = e.State.RNGPosition - before
	return result
}

func (e *Engine) dispatch(intent types.Intent) ([]string, error) {
	switch intent.Verb {
	case "play":
		return e.cmdPlay(intent.Args)
	case "results":
		return e.cmdResults(intent.Args)
	case "jackpot":
		return e.cmdJackpot()
	case "faces":
		return e.cmdFaces()
	case "combos":
		return e.cmdCombos()
	case "perms":
		return e.cmdPerms()
	case "summary":
		return e.cmdSummary()
	case "dice":
		return e.cmdDice()
	case "weights":
		return e.cmdWeights(intent.Args)
	case "weigh":
		return e.cmdWeigh(intent.Args)
	case "roll":
		return e.cmdRoll(intent.Args)
	case "help":
		return HelpLines(), nil
	default:
		return nil, fmt.Errorf("unknown command %q. Type help for a list of commands", intent.Verb)
	}
}

// syncWeights copies every die's current weights into State.
func (e *Engine) syncWeights() {
	weights := make([][]float64, len(e.dice))
	for i, d := range e.dice {
		weights[i] = d.Weights()
	}
	e.State.Weights = weights
}
