package dice

import (
	"math"
	"testing"
)

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Intn(6)
		b := rng2.Intn(6)
		if a != b {
			t.Fatalf("draw %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Intn_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Intn(6)
		if r < 0 || r > 5 {
			t.Fatalf("draw out of range [0,5]: got %d", r)
		}
	}
}

func TestRNG_Float64_Range(t *testing.T) {
	rng := NewRNG(7)

	for i := 0; i < 1000; i++ {
		f := rng.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range [0,1): %v", f)
		}
	}
}

func TestRNG_WeightedSelect_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)
	weights := []float64{70, 20, 10}

	for i := 0; i < 20; i++ {
		a := rng1.WeightedSelect(weights)
		b := rng2.WeightedSelect(weights)
		if a != b {
			t.Fatalf("selection %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_WeightedSelect_Distribution(t *testing.T) {
	rng := NewRNG(12345)
	weights := []float64{0.7, 0.2, 0.1}
	counts := [3]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := rng.WeightedSelect(weights)
		if idx < 0 || idx > 2 {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}

	// With 10k trials, expect roughly 70%/20%/10% ± some margin.
	if counts[0] < 6000 || counts[0] > 8000 {
		t.Errorf("expected ~7000 for weight 0.7, got %d", counts[0])
	}
	if counts[1] < 1000 || counts[1] > 3000 {
		t.Errorf("expected ~2000 for weight 0.2, got %d", counts[1])
	}
	if counts[2] < 200 || counts[2] > 1800 {
		t.Errorf("expected ~1000 for weight 0.1, got %d", counts[2])
	}
}

func TestRNG_WeightedSelect_HugeWeights(t *testing.T) {
	rng := NewRNG(77)
	weights := []float64{math.MaxFloat64, math.MaxFloat64}
	counts := [2]int{}

	const trials = 2000
	for i := 0; i < trials; i++ {
		counts[rng.WeightedSelect(weights)]++
	}

	// Equal weights whose sum overflows must still split evenly.
	for i, c := range counts {
		if c < 800 || c > 1200 {
			t.Errorf("index %d drawn %d/%d times, want ~1000", i, c, trials)
		}
	}
}

func TestRNG_WeightedSelect_HugeAndSmall(t *testing.T) {
	rng := NewRNG(78)
	weights := []float64{math.MaxFloat64, math.MaxFloat64 / 4, 0}
	counts := [3]int{}

	const trials = 5000
	for i := 0; i < trials; i++ {
		counts[rng.WeightedSelect(weights)]++
	}

	if counts[2] != 0 {
		t.Errorf("zero weight drawn %d times", counts[2])
	}
	// Expect 80% / 20%.
	if counts[0] < 3700 || counts[0] > 4300 {
		t.Errorf("expected ~4000 for the largest weight, got %d", counts[0])
	}
}

func TestRNG_WeightedSelect_SkipsZeroWeights(t *testing.T) {
	rng := NewRNG(3)
	weights := []float64{0, 1, 0, 1, 0}

	for i := 0; i < 500; i++ {
		idx := rng.WeightedSelect(weights)
		if idx != 1 && idx != 3 {
			t.Fatalf("selected zero-weight index %d", idx)
		}
	}
}

func TestRNG_WeightedSelect_SingleOption(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if idx := rng.WeightedSelect([]float64{100}); idx != 0 {
			t.Fatalf("single option should always be 0, got %d", idx)
		}
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.Intn(6)
	if rng.Position() != 1 {
		t.Fatalf("expected position 1, got %d", rng.Position())
	}

	rng.WeightedSelect([]float64{50, 50})
	if rng.Position() != 2 {
		t.Fatalf("expected position 2, got %d", rng.Position())
	}

	rng.Float64()
	rng.Float64()
	if rng.Position() != 4 {
		t.Fatalf("expected position 4, got %d", rng.Position())
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	// Advance an RNG to position 10 and record the next 5 selections.
	rng := NewRNG(42)
	weights := []float64{1, 2, 3, 4, 5, 6}
	for i := 0; i < 10; i++ {
		rng.WeightedSelect(weights)
	}

	var expected [5]int
	for i := range expected {
		expected[i] = rng.WeightedSelect(weights)
	}

	restored := RestoreRNG(42, 10)
	if restored.Position() != 10 {
		t.Fatalf("expected position 10, got %d", restored.Position())
	}
	if restored.Seed() != 42 {
		t.Fatalf("expected seed 42, got %d", restored.Seed())
	}

	for i, want := range expected {
		got := restored.WeightedSelect(weights)
		if got != want {
			t.Fatalf("selection %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Intn(100) != rng2.Intn(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}

func TestDefaultSource_Shared(t *testing.T) {
	if DefaultSource() != DefaultSource() {
		t.Error("expected DefaultSource to return the same RNG")
	}
}
