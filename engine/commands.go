package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/dicelab/analyzer"
	"github.com/nathoo/dicelab/dice"
	"github.com/nathoo/dicelab/engine/resolve"
	"github.com/nathoo/dicelab/game"
	"github.com/nathoo/dicelab/render"
	"github.com/nathoo/dicelab/table"
)

// HelpLines lists the session commands.
func HelpLines() []string {
	return []string{
		"Commands:",
		"  play [n] (p, run)           Roll every die n times (default from the experiment)",
		"  results [wide|narrow] (r)   Show the most recent outcome",
		"  jackpot (j)                 Count rolls where every die matched",
		"  faces (f)                   Count each face per roll",
		"  combos (c)                  Distinct combinations, order ignored",
		"  perms                       Distinct permutations, order kept",
		"  summary (stats)             Overview of the most recent play",
		"  dice (list)                 List the dice and their faces",
		"  weights <die>               Show a die's face weights",
		"  weigh <die> <face> <w> (w)  Change one face's weight",
		"  roll <die> [n]              Roll a single die n times",
		"  help (h, ?)                 Show this help",
		"",
		"A die is its column number (from 0) or its ID.",
	}
}

func (e *Engine) cmdPlay(args []string) ([]string, error) {
	rolls := e.Defs.Game.Rolls
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, &dice.ValidationError{Op: "play", Msg: fmt.Sprintf("%q is not a whole number", args[0])}
		}
		rolls = n
	}

	if err := e.game.Play(rolls); err != nil {
		return nil, err
	}
	an, err := analyzer.New(e.game)
	if err != nil {
		return nil, err
	}
	e.analyzer = an

	res := an.Results()
	n, _ := res.Shape()
	rows := make([][]table.Label, n)
	for i := range rows {
		rows[i], _ = res.Row(i)
	}
	e.State.Results = rows
	e.State.Plays++
	e.State.LastBatch = rolls

	jackpots := an.Jackpot()
	e.logger.Debug("played", "rolls", rolls, "dice", len(e.dice), "jackpots", jackpots, "rng_position", e.RNG.Position())

	return []string{
		fmt.Sprintf("Rolled %d %s %d %s.", len(e.dice), plural(len(e.dice), "die", "dice"), rolls, plural(rolls, "time", "times")),
		jackpotLine(jackpots, rolls),
	}, nil
}

func (e *Engine) cmdResults(args []string) ([]string, error) {
	format := game.Wide
	if len(args) > 0 {
		f, err := game.ParseFormat(args[0])
		if err != nil {
			return nil, err
		}
		format = f
	}
	if e.analyzer == nil {
		return []string{NoResults}, nil
	}
	res, err := e.game.Results(format)
	if err != nil {
		return nil, err
	}
	return render.Table(res, e.table), nil
}

func (e *Engine) cmdJackpot() ([]string, error) {
	if e.analyzer == nil {
		return []string{NoResults}, nil
	}
	rolls, _ := e.analyzer.Results().Shape()
	return []string{jackpotLine(e.analyzer.Jackpot(), rolls)}, nil
}

func (e *Engine) cmdFaces() ([]string, error) {
	if e.analyzer == nil {
		return []string{NoResults}, nil
	}
	return render.Table(e.analyzer.FaceCount(), e.table), nil
}

func (e *Engine) cmdCombos() ([]string, error) {
	if e.analyzer == nil {
		return []string{NoResults}, nil
	}
	return render.Table(e.analyzer.ComboCount(), e.table), nil
}

func (e *Engine) cmdPerms() ([]string, error) {
	if e.analyzer == nil {
		return []string{NoResults}, nil
	}
	return render.Table(e.analyzer.PermutationCount(), e.table), nil
}

func (e *Engine) cmdSummary() ([]string, error) {
	if e.analyzer == nil {
		return []string{NoResults}, nil
	}
	an := e.analyzer
	rolls, _ := an.Results().Shape()
	combos := an.ComboCount()
	perms := an.PermutationCount()
	nc, _ := combos.Shape()
	np, _ := perms.Shape()

	out := []string{
		fmt.Sprintf("Experiment: %s", e.Defs.Game.Title),
		fmt.Sprintf("Dice: %d, rolls: %d, plays so far: %d", len(e.dice), rolls, e.State.Plays),
		jackpotLine(an.Jackpot(), rolls),
		fmt.Sprintf("Distinct combinations: %d", nc),
		fmt.Sprintf("Distinct permutations: %d", np),
	}
	if nc > 0 {
		top, _ := combos.At(0, 0)
		out = append(out, fmt.Sprintf("Most common combination: %s (%d)", combos.RowKeys()[0], top))
	}
	return out, nil
}

func (e *Engine) cmdDice() ([]string, error) {
	out := make([]string, 0, len(e.dice))
	for i, d := range e.dice {
		faces := make([]string, 0, d.Sides())
		for _, f := range d.Faces() {
			faces = append(faces, f.String())
		}
		line := fmt.Sprintf("%d: %s  faces %s", i, e.Defs.Game.Dice[i], strings.Join(faces, " "))
		if !uniform(d.Weights()) {
			line += "  (weighted)"
		}
		out = append(out, line)
	}
	return out, nil
}

func (e *Engine) cmdWeights(args []string) ([]string, error) {
	if len(args) < 1 {
		return nil, &dice.ValidationError{Op: "weights", Msg: "which die? Give a column number or die ID"}
	}
	col, d, err := e.die("weights", args[0])
	if err != nil {
		return nil, err
	}
	out := []string{fmt.Sprintf("Die %d (%s):", col, e.Defs.Game.Dice[col])}
	return append(out, render.Table(d.Snapshot(), e.table)...), nil
}

func (e *Engine) cmdWeigh(args []string) ([]string, error) {
	if len(args) != 3 {
		return nil, &dice.ValidationError{Op: "weigh", Msg: "usage: weigh <die> <face> <weight>"}
	}
	col, d, err := e.die("weigh", args[0])
	if err != nil {
		return nil, err
	}
	face, ok := d.Face(args[1])
	if !ok {
		return nil, &dice.LookupError{Op: "weigh", Face: table.ParseLabel(args[1])}
	}
	if err := d.SetWeightString(face, args[2]); err != nil {
		return nil, err
	}
	e.syncWeights()

	w, _ := d.Weight(face)
	e.logger.Debug("weight changed", "die", col, "face", face.String(), "weight", w)
	return []string{fmt.Sprintf("Die %d (%s): face %s now weighs %s.", col, e.Defs.Game.Dice[col], face, render.Value(w))}, nil
}

func (e *Engine) cmdRoll(args []string) ([]string, error) {
	if len(args) < 1 {
		return nil, &dice.ValidationError{Op: "roll", Msg: "which die? Give a column number or die ID"}
	}
	col, d, err := e.die("roll", args[0])
	if err != nil {
		return nil, err
	}
	n := 1
	if len(args) > 1 {
		if n, err = strconv.Atoi(args[1]); err != nil {
			return nil, &dice.ValidationError{Op: "roll", Msg: fmt.Sprintf("%q is not a whole number", args[1])}
		}
	}
	faces, err := d.Roll(n)
	if err != nil {
		return nil, err
	}
	shown := make([]string, len(faces))
	for i, f := range faces {
		shown[i] = f.String()
	}
	return []string{fmt.Sprintf("Die %d (%s) rolled: %s", col, e.Defs.Game.Dice[col], strings.Join(shown, " "))}, nil
}

// die resolves a column number or die ID to a die. A die ID shared by
// several columns is ambiguous.
func (e *Engine) die(op, ref string) (int, *dice.Die, error) {
	col, err := resolve.Column(e.Defs, ref)
	if err != nil {
		return 0, nil, &dice.ValidationError{Op: op, Msg: err.Error()}
	}
	return col, e.dice[col], nil
}

func jackpotLine(jackpots, rolls int) string {
	rate := 0.0
	if rolls > 0 {
		rate = 100 * float64(jackpots) / float64(rolls)
	}
	return fmt.Sprintf("Jackpots: %d of %d rolls (%.1f%%)", jackpots, rolls, rate)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func uniform(weights []float64) bool {
	for _, w := range weights[1:] {
		if w != weights[0] {
			return false
		}
	}
	return true
}
