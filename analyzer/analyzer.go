// Package analyzer computes descriptive statistics over the outcome of a
// single game: jackpots, per-roll face counts, and frequency tables of
// distinct combinations and permutations.
package analyzer

import (
	"slices"
	"sort"
	"strconv"

	"github.com/nathoo/dicelab/dice"
	"github.com/nathoo/dicelab/game"
	"github.com/nathoo/dicelab/table"
)

// CountColumn labels the single column of combination and permutation
// tables.
const CountColumn = "Count"

// Index names for the frequency tables.
const (
	ComboIndex       = "Combination"
	PermutationIndex = "Permutation"
)

// Analyzer holds an immutable snapshot of a game's wide outcome table.
// Later plays of the source game do not affect it.
type Analyzer struct {
	results *table.Table[dice.Face]
	rows    [][]dice.Face
}

// New snapshots g's current wide results.
func New(g *game.Game) (*Analyzer, error) {
	if g == nil {
		return nil, &dice.ValidationError{Op: "analyzer.New", Msg: "a game is required"}
	}
	res, err := g.Results(game.Wide)
	if err != nil {
		return nil, err
	}
	return fromOwned(res), nil
}

// FromTable analyzes an explicit wide outcome table (rows are rolls,
// columns are dice). The table is copied.
func FromTable(wide *table.Table[dice.Face]) (*Analyzer, error) {
	if wide == nil {
		return nil, &dice.ValidationError{Op: "analyzer.FromTable", Msg: "a results table is required"}
	}
	return fromOwned(wide.Clone()), nil
}

func fromOwned(res *table.Table[dice.Face]) *Analyzer {
	n, _ := res.Shape()
	rows := make([][]dice.Face, n)
	for i := range rows {
		rows[i], _ = res.Row(i)
	}
	return &Analyzer{results: res, rows: rows}
}

// Results returns a copy of the analyzed outcome table.
func (a *Analyzer) Results() *table.Table[dice.Face] {
	return a.results.Clone()
}

// Jackpot counts rolls in which every die shows the same face. With a
// single die every roll is a jackpot; a roll with no dice is not.
func (a *Analyzer) Jackpot() int {
	count := 0
	for _, row := range a.rows {
		if len(row) == 0 {
			continue
		}
		same := true
		for _, f := range row[1:] {
			if f != row[0] {
				same = false
				break
			}
		}
		if same {
			count++
		}
	}
	return count
}

// FaceCount returns a table indexed by roll number with one column per face
// observed anywhere in the results, in ascending face order. Each cell
// counts that face in that roll, so every row sums to the number of dice.
func (a *Analyzer) FaceCount() *table.Table[int] {
	seen := map[dice.Face]bool{}
	var faces []dice.Face
	for _, row := range a.rows {
		for _, f := range row {
			if !seen[f] {
				seen[f] = true
				faces = append(faces, f)
			}
		}
	}
	slices.SortFunc(faces, table.Compare)

	col := make(map[dice.Face]int, len(faces))
	for j, f := range faces {
		col[f] = j
	}

	out := table.New[int]([]string{game.RollIndex}, a.results.RowKeys(), faces)
	for i, row := range a.rows {
		counts := make([]int, len(faces))
		for _, f := range row {
			counts[col[f]]++
		}
		for j, c := range counts {
			_ = out.Set(i, j, c)
		}
	}
	return out
}

// ComboCount returns the distinct combinations rolled with their counts.
// A combination is the roll's faces sorted ascending, so rolls showing the
// same faces on different dice collapse into one row.
func (a *Analyzer) ComboCount() *table.Table[int] {
	return a.frequency(ComboIndex, func(row []dice.Face) table.Key {
		key := append(table.Key(nil), row...)
		slices.SortFunc(key, table.Compare)
		return key
	})
}

// PermutationCount returns the distinct as-rolled tuples with their counts.
// Unlike ComboCount, die order matters.
func (a *Analyzer) PermutationCount() *table.Table[int] {
	return a.frequency(PermutationIndex, func(row []dice.Face) table.Key {
		return append(table.Key(nil), row...)
	})
}

type bucket struct {
	key   table.Key
	count int
	first int
}

// frequency groups rows by keyOf and returns one row per distinct key,
// ordered by count descending, then by first occurrence.
func (a *Analyzer) frequency(indexName string, keyOf func([]dice.Face) table.Key) *table.Table[int] {
	byID := map[string]*bucket{}
	var buckets []*bucket
	for i, row := range a.rows {
		key := keyOf(row)
		id := keyID(key)
		b, ok := byID[id]
		if !ok {
			b = &bucket{key: key, first: i}
			byID[id] = b
			buckets = append(buckets, b)
		}
		b.count++
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].first < buckets[j].first
	})

	keys := make([]table.Key, len(buckets))
	for i, b := range buckets {
		keys[i] = b.key
	}
	out := table.New[int]([]string{indexName}, keys, []table.Label{table.Text(CountColumn)})
	for i, b := range buckets {
		_ = out.Set(i, 0, b.count)
	}
	return out
}

// keyID encodes a key for map lookup. Text labels are length-prefixed so
// that no two distinct keys share an encoding.
func keyID(k table.Key) string {
	buf := make([]byte, 0, len(k)*8)
	for _, l := range k {
		if f, ok := l.Float(); ok {
			buf = append(buf, 'n')
			buf = strconv.AppendFloat(buf, f+0, 'g', -1, 64) // folds -0 into 0
			buf = append(buf, ';')
			continue
		}
		s := l.String()
		buf = append(buf, 't')
		buf = strconv.AppendInt(buf, int64(len(s)), 10)
		buf = append(buf, ':')
		buf = append(buf, s...)
	}
	return string(buf)
}
