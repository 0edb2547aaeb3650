package game

import "math/rand"

// Random draws gate placements. Uniform returns a value in [min, max).
type Random interface {
	Uniform(min, max float64) float64
}

// RandomFunc adapts a function to the Random interface.
type RandomFunc func(min, max float64) float64

// Uniform calls f(min, max).
func (f RandomFunc) Uniform(min, max float64) float64 {
	return f(min, max)
}

// SeededRandom is a deterministic Random backed by math/rand.
type SeededRandom struct {
	rng *rand.Rand
}

// NewRandom creates a seeded source. The same seed yields the same gates.
func NewRandom(seed int64) *SeededRandom {
	return &SeededRandom{rng: rand.New(rand.NewSource(seed))}
}

// Uniform returns a uniformly distributed value in [min, max).
func (r *SeededRandom) Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.rng.Float64()*(max-min)
}
