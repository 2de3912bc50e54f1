// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for a dicelab session.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/dicelab/engine"
	"github.com/nathoo/dicelab/engine/save"
	"github.com/nathoo/dicelab/engine/state"
	"github.com/nathoo/dicelab/types"
)

// CLI handles line-oriented terminal interaction.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".dicelab", "saves")
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the session loop. It shows the intro, then loops:
// prompt → input → dispatch → output.
func (c *CLI) Run() {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	c.printSystem(fmt.Sprintf("%d dice loaded, seed %d. Type help for commands.", len(c.Defs.Game.Dice), c.Engine.State.Seed))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the session should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	msg, err := SaveSession(c.Engine, c.Defs, c.SaveDir, name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(msg)
}

func (c *CLI) cmdLoad(name string) {
	msg, err := LoadSession(c.Engine, c.Defs, c.SaveDir, name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem(msg)
}

// SaveSession writes the engine's state to <dir>/<name>.json and returns a
// confirmation message. An empty name means "quicksave".
func SaveSession(eng *engine.Engine, defs *state.Defs, dir, name string) (string, error) {
	name, err := saveName(name)
	if err != nil {
		return "", err
	}

	data, err := save.Save(eng.State, defs)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Session saved to %s.", name), nil
}

// saveName defaults an empty name to quicksave and rejects names that
// would resolve outside the save directory.
func saveName(name string) (string, error) {
	if name == "" {
		return "quicksave", nil
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid save name %q: use a plain name without path separators", name)
	}
	return name, nil
}

// LoadSession restores the engine from <dir>/<name>.json. The engine is left
// untouched when the file is unreadable or belongs to another experiment.
func LoadSession(eng *engine.Engine, defs *state.Defs, dir, name string) (string, error) {
	name, err := saveName(name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return "", err
	}
	sd, err := save.Load(data)
	if err != nil {
		return "", err
	}
	if err := save.Check(sd, defs); err != nil {
		return "", err
	}

	prev := *eng.State
	save.ApplySave(eng.State, sd)
	if err := eng.Restore(); err != nil {
		*eng.State = prev
		return "", err
	}
	return fmt.Sprintf("Session loaded from %s (%d plays, %d rolls in view).", name, sd.Plays, len(sd.Results)), nil
}

// HelpLines lists the meta-commands followed by the session commands.
func HelpLines() []string {
	lines := []string{
		"System:",
		"  /save [name]  Save session (default: quicksave)",
		"  /load [name]  Load session (default: quicksave)",
		"  /quit         Exit",
		"  /help         Show this help",
		"  /state        Debug: dump session state",
		"  /trace        Toggle trace output",
		"  again (g)     Repeat your last command",
		"",
	}
	return append(lines, engine.HelpLines()...)
}

func (c *CLI) cmdHelp() {
	for _, line := range HelpLines() {
		c.printLine(line)
	}
}

// StateLines describes the session state for /state.
func StateLines(s *types.State) []string {
	lines := []string{
		fmt.Sprintf("Seed: %d", s.Seed),
		fmt.Sprintf("RNG position: %d", s.RNGPosition),
		fmt.Sprintf("Plays: %d", s.Plays),
		fmt.Sprintf("Rolls in view: %d", len(s.Results)),
	}
	for i, w := range s.Weights {
		lines = append(lines, fmt.Sprintf("Die %d weights: %v", i, w))
	}
	return append(lines, fmt.Sprintf("Commands: %d", len(s.CommandLog)))
}

func (c *CLI) cmdState() {
	for _, line := range StateLines(c.Engine.State) {
		c.printSystem(line)
	}
}

// TraceLines describes how a step was parsed and what it consumed.
func TraceLines(result types.Result) []string {
	return []string{
		fmt.Sprintf("[trace] Intent: %s %v", result.Intent.Verb, result.Intent.Args),
		fmt.Sprintf("[trace] Draws: %d", result.Draws),
	}
}

func (c *CLI) printTrace(result types.Result) {
	for _, line := range TraceLines(result) {
		c.printLine(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
