package dice

import "math"

// Roller provides the random draws used by combat and the enemy catalog.
// It is an interface so tests can inject scripted results.
type Roller interface {
	// Uniform returns a value drawn uniformly from [min, max)
	Uniform(min, max float64) float64

	// Chance returns true with probability p
	Chance(p float64) bool

	// Intn returns a value in [0, n)
	Intn(n int) int
}

// FloorUniform draws from [min, max) and truncates toward negative infinity.
// Used for integer ranges such as healing and experience rewards.
func FloorUniform(r Roller, min, max float64) int {
	return int(math.Floor(r.Uniform(min, max)))
}
