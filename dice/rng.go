package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source picks an index from a slice of relative weights.
type Source interface {
	WeightedSelect(weights []float64) int
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Every draw consumes exactly one value from the underlying source, so the
// position alone is enough to restore the generator. RNG is safe for use by
// several dice at once.
type RNG struct {
	mu   sync.Mutex
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.float64()
}

// Int63n on a power of two reads exactly one Int63.
func (r *RNG) float64() float64 {
	r.pos++
	return float64(r.src.Int63n(1<<53)) / (1 << 53)
}

// Intn returns a value in [0, n). n must be positive.
func (r *RNG) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

// WeightedSelect returns an index chosen with probability proportional to
// its weight. Indices with zero weight are never chosen. weights must hold
// at least one positive value. Weights are scaled by the largest one first,
// so finite weights whose sum would overflow still draw correctly.
func (r *RNG) WeightedSelect(weights []float64) int {
	largest := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			largest = max(largest, w)
			last = i
		}
	}
	if last < 0 {
		return 0
	}

	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w / largest
		}
	}

	r.mu.Lock()
	target := r.float64() * total
	r.mu.Unlock()

	cumulative := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w / largest
		if target < cumulative {
			return i
		}
	}
	return last
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

var (
	defaultOnce sync.Once
	defaultRNG  *RNG
)

// DefaultSource returns the process-wide RNG used by dice created without
// WithSource. It is seeded from crypto/rand on first use.
func DefaultSource() *RNG {
	defaultOnce.Do(func() {
		seed, err := NewSeed()
		if err != nil {
			seed = rand.Int63()
		}
		defaultRNG = NewRNG(seed)
	})
	return defaultRNG
}
