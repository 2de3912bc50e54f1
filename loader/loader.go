package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/dicelab/engine/state"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game       *lua.LTable
	dice       []rawDie
	duplicates []string // die IDs defined more than once
	order      int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Load reads all .lua files from dir, compiles them into experiment
// definitions, validates them, and returns the immutable Defs. Validation
// warnings go to logger; a nil logger discards them. The Lua VM is
// discarded after loading.
func Load(dir string, logger *slog.Logger) (*state.Defs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading experiment directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// experiment.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	L, coll := newVM()
	defer L.Close()

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	return finish(coll, logger)
}

// LoadString compiles a single chunk of Lua source. It is the in-memory
// counterpart of Load, used for scripts and tests.
func LoadString(src string, logger *slog.Logger) (*state.Defs, error) {
	L, coll := newVM()
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("executing source: %w", err)
	}
	return finish(coll, logger)
}

func newVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func finish(coll *collector, logger *slog.Logger) (*state.Defs, error) {
	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling experiment: %w", err)
	}

	ve := validate(defs)
	for _, id := range coll.duplicates {
		ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate die ID %q", id))
	}
	if logger != nil {
		for _, w := range ve.Warnings {
			logger.Warn("experiment definition", "warning", w)
		}
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Seeding belongs to the session, not the definitions.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
