package analyzer

import (
	"sync"
	"testing"

	"github.com/nathoo/dicelab/dice"
	"github.com/nathoo/dicelab/game"
	"github.com/nathoo/dicelab/table"
)

// wideTable builds a wide outcome table from per-die columns, the way the
// results of a two-dice game are laid out.
func wideTable(t *testing.T, columns ...[]int) *table.Table[dice.Face] {
	t.Helper()
	n := len(columns[0])
	keys := make([]table.Key, n)
	values := make([][]dice.Face, n)
	for r := 0; r < n; r++ {
		keys[r] = table.Key{table.Int(r)}
		values[r] = make([]dice.Face, len(columns))
		for c, col := range columns {
			values[r][c] = table.Int(col[r])
		}
	}
	cols := make([]table.Label, len(columns))
	for c := range cols {
		cols[c] = table.Int(c)
	}
	tbl, err := table.FromRows([]string{game.RollIndex}, keys, cols, values)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return tbl
}

func mustAnalyzer(t *testing.T, wide *table.Table[dice.Face]) *Analyzer {
	t.Helper()
	a, err := FromTable(wide)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	return a
}

func tuple(vals ...int) table.Key {
	k := make(table.Key, len(vals))
	for i, v := range vals {
		k[i] = table.Int(v)
	}
	return k
}

func countOf(t *testing.T, tbl *table.Table[int], key table.Key) int {
	t.Helper()
	v, ok := tbl.Lookup(key, table.Text(CountColumn))
	if !ok {
		t.Fatalf("no row for %v", key)
	}
	return v
}

func TestNew_NilGame(t *testing.T) {
	if _, err := New(nil); !dice.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if _, err := FromTable(nil); !dice.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestJackpot(t *testing.T) {
	a := mustAnalyzer(t, wideTable(t, []int{1, 1, 3, 3, 5}, []int{1, 1, 2, 4, 5}))
	if got := a.Jackpot(); got != 3 {
		t.Errorf("Jackpot = %d, want 3", got)
	}
}

func TestJackpot_SingleDie(t *testing.T) {
	a := mustAnalyzer(t, wideTable(t, []int{1, 2, 3, 4}))
	if got := a.Jackpot(); got != 4 {
		t.Errorf("Jackpot = %d, want 4 (every single-die roll)", got)
	}
}

func TestJackpot_ThreeDice(t *testing.T) {
	a := mustAnalyzer(t, wideTable(t, []int{2, 2, 6}, []int{2, 2, 6}, []int{2, 3, 6}))
	if got := a.Jackpot(); got != 2 {
		t.Errorf("Jackpot = %d, want 2", got)
	}
}

func TestFaceCount(t *testing.T) {
	a := mustAnalyzer(t, wideTable(t, []int{1, 1, 3, 3, 5}, []int{1, 1, 2, 4, 5}))
	fc := a.FaceCount()

	rows, cols := fc.Shape()
	if rows != 5 || cols != 5 {
		t.Fatalf("shape = %dx%d, want 5x5", rows, cols)
	}
	wantCols := []int{1, 2, 3, 4, 5}
	for i, c := range fc.Columns() {
		if c != table.Int(wantCols[i]) {
			t.Errorf("column %d = %v, want %d", i, c, wantCols[i])
		}
	}

	// Roll 0 rolled two ones; roll 2 rolled a 3 and a 2.
	if v, _ := fc.Lookup(table.Key{table.Int(0)}, table.Int(1)); v != 2 {
		t.Errorf("roll 0 count of 1 = %d, want 2", v)
	}
	if v, _ := fc.Lookup(table.Key{table.Int(2)}, table.Int(2)); v != 1 {
		t.Errorf("roll 2 count of 2 = %d, want 1", v)
	}
	if v, _ := fc.Lookup(table.Key{table.Int(2)}, table.Int(5)); v != 0 {
		t.Errorf("roll 2 count of 5 = %d, want 0", v)
	}

	for r := 0; r < rows; r++ {
		row, _ := fc.Row(r)
		sum := 0
		for _, v := range row {
			sum += v
		}
		if sum != 2 {
			t.Errorf("row %d sums to %d, want 2", r, sum)
		}
	}
}

func TestFaceCount_TextFaces(t *testing.T) {
	keys := []table.Key{{table.Int(0)}, {table.Int(1)}}
	wide, err := table.FromRows([]string{game.RollIndex}, keys,
		[]table.Label{table.Int(0), table.Int(1)},
		[][]dice.Face{
			{table.Text("T"), table.Text("H")},
			{table.Text("T"), table.Text("T")},
		})
	if err != nil {
		t.Fatal(err)
	}
	fc := mustAnalyzer(t, wide).FaceCount()
	cols := fc.Columns()
	if len(cols) != 2 || cols[0] != table.Text("H") || cols[1] != table.Text("T") {
		t.Fatalf("columns = %v, want [H T]", cols)
	}
	if v, _ := fc.Lookup(table.Key{table.Int(1)}, table.Text("T")); v != 2 {
		t.Errorf("roll 1 count of T = %d, want 2", v)
	}
}

func TestComboCount(t *testing.T) {
	a := mustAnalyzer(t, wideTable(t, []int{2, 3, 4, 3, 1}, []int{3, 2, 3, 2, 1}))
	cc := a.ComboCount()

	rows, cols := cc.Shape()
	if rows != 3 || cols != 1 {
		t.Fatalf("shape = %dx%d, want 3x1", rows, cols)
	}
	if got := countOf(t, cc, tuple(2, 3)); got != 3 {
		t.Errorf("(2, 3) = %d, want 3", got)
	}
	if got := countOf(t, cc, tuple(3, 4)); got != 1 {
		t.Errorf("(3, 4) = %d, want 1", got)
	}
	if got := countOf(t, cc, tuple(1, 1)); got != 1 {
		t.Errorf("(1, 1) = %d, want 1", got)
	}

	total := 0
	col, _ := cc.Column(table.Text(CountColumn))
	for _, v := range col {
		total += v
	}
	if total != 5 {
		t.Errorf("counts sum to %d, want 5", total)
	}

	// Most frequent first, ties in order of first appearance.
	keys := cc.RowKeys()
	if !keys[0].Equal(tuple(2, 3)) || !keys[1].Equal(tuple(3, 4)) || !keys[2].Equal(tuple(1, 1)) {
		t.Errorf("row order = %v", keys)
	}
}

func TestPermutationCount(t *testing.T) {
	a := mustAnalyzer(t, wideTable(t, []int{2, 3, 4, 3, 1}, []int{3, 2, 3, 2, 1}))
	pc := a.PermutationCount()

	rows, cols := pc.Shape()
	if rows != 4 || cols != 1 {
		t.Fatalf("shape = %dx%d, want 4x1", rows, cols)
	}
	want := map[string]int{"(2, 3)": 1, "(3, 2)": 2, "(4, 3)": 1, "(1, 1)": 1}
	for i, k := range pc.RowKeys() {
		v, _ := pc.At(i, 0)
		if want[k.String()] != v {
			t.Errorf("%v = %d, want %d", k, v, want[k.String()])
		}
	}
	if keys := pc.RowKeys(); !keys[0].Equal(tuple(3, 2)) {
		t.Errorf("first row = %v, want (3, 2)", keys[0])
	}
}

func TestFrequency_TextLabelsDoNotCollide(t *testing.T) {
	keys := []table.Key{{table.Int(0)}, {table.Int(1)}}
	wide, err := table.FromRows([]string{game.RollIndex}, keys,
		[]table.Label{table.Int(0), table.Int(1)},
		[][]dice.Face{
			{table.Text("a"), table.Text("bc")},
			{table.Text("ab"), table.Text("c")},
		})
	if err != nil {
		t.Fatal(err)
	}
	if rows, _ := mustAnalyzer(t, wide).PermutationCount().Shape(); rows != 2 {
		t.Errorf("distinct permutations = %d, want 2", rows)
	}
}

func TestFrequency_NumberAndTextDiffer(t *testing.T) {
	keys := []table.Key{{table.Int(0)}, {table.Int(1)}}
	wide, err := table.FromRows([]string{game.RollIndex}, keys,
		[]table.Label{table.Int(0)},
		[][]dice.Face{{table.Int(6)}, {table.Text("6")}})
	if err != nil {
		t.Fatal(err)
	}
	if rows, _ := mustAnalyzer(t, wide).ComboCount().Shape(); rows != 2 {
		t.Errorf("distinct combos = %d, want 2", rows)
	}
}

func TestEmptyResults(t *testing.T) {
	wide := table.New[dice.Face]([]string{game.RollIndex}, nil, []table.Label{table.Int(0), table.Int(1)})
	a := mustAnalyzer(t, wide)
	if a.Jackpot() != 0 {
		t.Error("expected no jackpots")
	}
	if rows, cols := a.FaceCount().Shape(); rows != 0 || cols != 0 {
		t.Errorf("face count shape = %dx%d", rows, cols)
	}
	if rows, _ := a.ComboCount().Shape(); rows != 0 {
		t.Errorf("combo rows = %d", rows)
	}
}

func playedGame(t *testing.T, dieCount, rolls int) *game.Game {
	t.Helper()
	rng := dice.NewRNG(7)
	faces := []dice.Face{table.Int(1), table.Int(2), table.Int(3), table.Int(4), table.Int(5), table.Int(6)}
	ds := make([]*dice.Die, dieCount)
	for i := range ds {
		d, err := dice.New(faces, dice.WithSource(rng))
		if err != nil {
			t.Fatal(err)
		}
		ds[i] = d
	}
	g, err := game.New(ds)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Play(rolls); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNew_SnapshotShape(t *testing.T) {
	g := playedGame(t, 2, 5)
	a, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	res, _ := g.Results(game.Wide)
	gr, gc := res.Shape()
	ar, ac := a.Results().Shape()
	if gr != ar || gc != ac {
		t.Errorf("analyzer results %dx%d, game %dx%d", ar, ac, gr, gc)
	}
}

func TestIdempotent(t *testing.T) {
	a, err := New(playedGame(t, 3, 200))
	if err != nil {
		t.Fatal(err)
	}
	if a.Jackpot() != a.Jackpot() {
		t.Error("Jackpot not idempotent")
	}
	c1, c2 := a.ComboCount(), a.ComboCount()
	r1, _ := c1.Shape()
	r2, _ := c2.Shape()
	if r1 != r2 {
		t.Fatalf("ComboCount rows %d vs %d", r1, r2)
	}
	k1, k2 := c1.RowKeys(), c2.RowKeys()
	for i := range k1 {
		v1, _ := c1.At(i, 0)
		v2, _ := c2.At(i, 0)
		if !k1[i].Equal(k2[i]) || v1 != v2 {
			t.Fatalf("row %d differs: %v=%d vs %v=%d", i, k1[i], v1, k2[i], v2)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	g := playedGame(t, 2, 50)
	a, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	jackpots := a.Jackpot()
	perms, _ := a.PermutationCount().Shape()

	if err := g.Play(3); err != nil {
		t.Fatal(err)
	}

	if rows, _ := a.Results().Shape(); rows != 50 {
		t.Errorf("analyzer rows = %d after replay, want 50", rows)
	}
	if a.Jackpot() != jackpots {
		t.Error("jackpot count changed after replay")
	}
	if p, _ := a.PermutationCount().Shape(); p != perms {
		t.Error("permutation table changed after replay")
	}
}

func TestFaceCount_RowSumsMatchDice(t *testing.T) {
	a, err := New(playedGame(t, 4, 100))
	if err != nil {
		t.Fatal(err)
	}
	fc := a.FaceCount()
	rows, _ := fc.Shape()
	for r := 0; r < rows; r++ {
		row, _ := fc.Row(r)
		sum := 0
		for _, v := range row {
			sum += v
		}
		if sum != 4 {
			t.Fatalf("row %d sums to %d, want 4", r, sum)
		}
	}
}

func TestNew_ConcurrentWithPlay(t *testing.T) {
	g := playedGame(t, 2, 10)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 100; i++ {
			if err := g.Play(i); err != nil {
				t.Errorf("Play: %v", err)
				return
			}
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				a, err := New(g)
				if err != nil {
					t.Errorf("New: %v", err)
					return
				}
				// Each snapshot is one whole batch: every roll holds two
				// faces, so face counts sum to twice the row count.
				rows, _ := a.Results().Shape()
				total := 0
				fc := a.FaceCount()
				for j := 0; j < rows; j++ {
					counts, _ := fc.Row(j)
					for _, c := range counts {
						total += c
					}
				}
				if total != 2*rows {
					t.Errorf("face counts sum to %d over %d rolls", total, rows)
					return
				}
			}
		}()
	}
	wg.Wait()
}
