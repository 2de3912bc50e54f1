package loader

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/dicelab/table"
)

func TestLoad_Pair(t *testing.T) {
	defs, err := Load("testdata/pair", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Title != "Loaded Pair" {
		t.Errorf("Title = %q", defs.Game.Title)
	}
	if defs.Game.Author != "Tester" {
		t.Errorf("Author = %q", defs.Game.Author)
	}
	if defs.Game.Rolls != 500 {
		t.Errorf("Rolls = %d, want 500", defs.Game.Rolls)
	}
	if defs.Game.Seed == nil || *defs.Game.Seed != 42 {
		t.Errorf("Seed = %v, want 42", defs.Game.Seed)
	}
	if len(defs.Game.Dice) != 2 || defs.Game.Dice[0] != "fair" || defs.Game.Dice[1] != "loaded" {
		t.Errorf("Dice = %v", defs.Game.Dice)
	}

	loaded, ok := defs.Dice["loaded"]
	if !ok {
		t.Fatal("die 'loaded' not found")
	}
	if len(loaded.Faces) != 6 || loaded.Faces[0] != table.Int(1) || loaded.Faces[5] != table.Int(6) {
		t.Errorf("loaded faces = %v", loaded.Faces)
	}
	if loaded.Weights[table.Int(6)] != 5 {
		t.Errorf("loaded weight for 6 = %v, want 5", loaded.Weights[table.Int(6)])
	}
	if defs.Dice["fair"].Weights != nil {
		t.Errorf("fair die has weights %v", defs.Dice["fair"].Weights)
	}
}

func TestLoad_CoinRepeat(t *testing.T) {
	defs, err := Load("testdata/coin", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(defs.Game.Dice) != 3 {
		t.Fatalf("Dice = %v, want three coins", defs.Game.Dice)
	}
	if defs.Game.Rolls != DefaultRolls {
		t.Errorf("Rolls = %d, want default %d", defs.Game.Rolls, DefaultRolls)
	}
	if defs.Game.Seed != nil {
		t.Errorf("Seed = %d, want unset", *defs.Game.Seed)
	}
	coin := defs.Dice["coin"]
	if coin.Weights[table.Text("H")] != 2.5 {
		t.Errorf("H weight = %v, want 2.5 from numeric string", coin.Weights[table.Text("H")])
	}
}

func TestLoad_SampleExperiments(t *testing.T) {
	for _, dir := range []string{"../experiments/loaded-pair", "../experiments/coin-flips"} {
		if _, err := Load(dir, nil); err != nil {
			t.Errorf("Load(%s): %v", dir, err)
		}
	}
}

func TestLoad_NoLuaFiles(t *testing.T) {
	_, err := Load("testdata/empty", nil)
	if err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Fatalf("expected no .lua files error, got %v", err)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load("testdata/does-not-exist", nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoad_LuaError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "experiment.lua", `Game { title = "Broken" `)
	_, err := Load(dir, nil)
	if err == nil || !strings.Contains(err.Error(), "experiment.lua") {
		t.Fatalf("expected error naming the file, got %v", err)
	}
}

func TestLoad_ExperimentFileFirst(t *testing.T) {
	dir := t.TempDir()
	// a.lua sorts first alphabetically but must run after experiment.lua,
	// which defines the helper it uses.
	writeFile(t, dir, "a.lua", `Die "d6" { faces = sides }`)
	writeFile(t, dir, "experiment.lua", `
		sides = Range(1, 6)
		Game { title = "Order", dice = { "d6" } }
	`)
	defs, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(defs.Dice["d6"].Faces) != 6 {
		t.Errorf("faces = %v", defs.Dice["d6"].Faces)
	}
}

func TestLoad_ValidationAggregates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "experiment.lua", `
		Game { dice = { "missing" }, rolls = 0 }
		Die "bad" { faces = { 1, 1 } }
	`)
	_, err := Load(dir, nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if len(ve.Errors) < 4 {
		t.Errorf("expected at least 4 errors, got %v", ve.Errors)
	}
}

func TestLoad_WarningsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := LoadString(`
		Game { title = "Mixed", dice = { "d6", "coin" } }
		Die "d6" { faces = Range(1, 6) }
		Die "coin" { faces = { "H", "T" } }
		Die "spare" { faces = Range(1, 4) }
	`, logger)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "different face set") {
		t.Errorf("missing face set warning in log:\n%s", out)
	}
	if !strings.Contains(out, "spare") {
		t.Errorf("missing unused die warning in log:\n%s", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("warnings not logged at warn level:\n%s", out)
	}
}

func TestLoadString_NoGame(t *testing.T) {
	_, err := LoadString(`Die "d6" { faces = Range(1, 6) }`, nil)
	if err == nil || !strings.Contains(err.Error(), "no Game{}") {
		t.Fatalf("expected missing Game error, got %v", err)
	}
}

func TestSandbox(t *testing.T) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "rawset", "rawget", "rawequal", "collectgarbage"} {
		_, err := LoadString(name+`()`, nil)
		if err == nil {
			t.Errorf("%s should not be callable", name)
		}
	}
	if _, err := LoadString(`math.randomseed(1)`, nil); err == nil {
		t.Error("math.randomseed should not be callable")
	}
	if _, err := LoadString(`os.exit(1)`, nil); err == nil {
		t.Error("os library should not be loaded")
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"z.lua", "experiment.lua", "b.lua"})
	want := []string{"experiment.lua", "b.lua", "z.lua"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sortedLuaFiles = %v, want %v", got, want)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
