package grid

import (
	"math"
	"math/rand"
)

// Source is the randomness provider for all bounded position searches.
// Injecting it keeps every sampled point reproducible under a fixed seed.
//
// Implementations MUST be safe for sequential reuse across evaluations;
// they are never called concurrently by the engine.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// randSource implements Source with a seeded math/rand generator.
type randSource struct {
	rng *rand.Rand
}

// NewSource returns a deterministic Source seeded with seed.
//
// Postcondition: two Sources built from the same seed produce identical
// Intn streams.
func NewSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0. Panics with "grid: Intn called with n <= 0" otherwise.
func (s *randSource) Intn(n int) int {
	if n <= 0 {
		panic("grid: Intn called with n <= 0")
	}
	return s.rng.Intn(n)
}

// angleFrom draws a uniform angle in [0, 2*pi) from src at ~0.35 degree
// resolution, which is plenty for cell-granular position sampling.
func angleFrom(src Source) float64 {
	const steps = 1024
	return float64(src.Intn(steps)) / steps * 2 * math.Pi
}
