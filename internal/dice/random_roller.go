package dice

import (
	"math/rand"
	"sync"
	"time"
)

// randomRoller implements Roller on top of math/rand
type randomRoller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// NewRandomRoller creates a new roller seeded from the clock
func NewRandomRoller() Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller creates a roller with a fixed seed, useful for replays
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Uniform implements Roller.Uniform
func (r *randomRoller) Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.random.Float64()*(max-min)
}

// Chance implements Roller.Chance
func (r *randomRoller) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Float64() < p
}

// Intn implements Roller.Intn
func (r *randomRoller) Intn(n int) int {
	if n <= 1 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(n)
}
