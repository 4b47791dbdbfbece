// core/rng/rng.go
package rng

// LCG is a linear congruential generator with the classic glibc-style
// constants. Identical seeds produce identical draw sequences on every
// platform; there is no global instance, so callers that need independent
// streams construct one generator each. The zero value is a generator
// seeded with 0.
type LCG struct {
	state uint64
}

// M is the output modulus: every Uint result lies in [0, M).
const M = 32768

const (
	multiplier = 1103515245
	increment  = 12345
)

// New returns a generator seeded with seed.
func New(seed uint64) *LCG {
	return &LCG{state: seed}
}

// Uint advances the state by one step and returns the next value in [0, M).
func (g *LCG) Uint() uint64 {
	g.state = g.state*multiplier + increment
	return (g.state / 65536) % M
}

// To returns a uniform value in [0, max) by modulo reduction.
// max == 0 is a caller contract violation and panics.
func (g *LCG) To(max uint64) uint64 {
	if max == 0 {
		panic("rng: To called with max == 0")
	}
	return g.Uint() % max
}

// Real returns a value in [0, 1) with M discrete steps.
func (g *LCG) Real() float64 {
	return float64(g.Uint()) / M
}

// Shuffle runs a Fisher-Yates shuffle over n elements, swapping positions
// i and j via swap for i from n-1 down to 1. n <= 1 consumes no draws.
func (g *LCG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i >= 1; i-- {
		j := int(g.To(uint64(i + 1)))
		swap(i, j)
	}
}
