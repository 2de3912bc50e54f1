// Dicelab runs Monte Carlo experiments with weighted dice defined in Lua.
// Usage: dicelab [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <experiment_directory>
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/nathoo/dicelab/cli"
	"github.com/nathoo/dicelab/config"
	"github.com/nathoo/dicelab/engine"
	"github.com/nathoo/dicelab/loader"
	"github.com/nathoo/dicelab/render"
	"github.com/nathoo/dicelab/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: dicelab [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <experiment_directory>"

func main() {
	plain := false
	trace := false
	var expDir string
	var scriptFile string
	var seed *int64

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("dicelab %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid --seed %q: %v\n", args[i], err)
				os.Exit(1)
			}
			seed = &n
		default:
			if expDir == "" {
				expDir = args[i]
			}
		}
	}

	if expDir == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	defs, err := loader.Load(expDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading experiment: %v\n", err)
		os.Exit(1)
	}

	// The TUI is used only for interactive sessions on a terminal.
	interactive := scriptFile == "" && !plain && isTerminal()

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithTableOptions(render.Options{MaxRows: cfg.MaxRows, Styled: interactive}),
	}
	// Flag beats environment; both beat the experiment's own seed.
	if seed == nil {
		seed = cfg.Seed
	}
	if seed != nil {
		opts = append(opts, engine.WithSeed(*seed))
	}

	eng, err := engine.New(defs, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if interactive {
		if err := tui.Run(eng, defs, cfg.SaveDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
	c := cli.New(eng, defs)
	c.SaveDir = cfg.SaveDir
	c.Trace = trace

	// Script mode: read commands from the file and echo them.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}
	c.Run()
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
