package mockdice

import (
	"fmt"
	"sync"
)

// ManualMockRoller implements dice.Roller for testing with predetermined results.
// Each kind of draw has its own queue; running out panics so a test that
// under-scripts its rolls fails loudly instead of silently using defaults.
type ManualMockRoller struct {
	mu       sync.Mutex
	uniforms []float64
	chances  []bool
	ints     []int
}

// NewManualMockRoller creates a new mock roller
func NewManualMockRoller() *ManualMockRoller {
	return &ManualMockRoller{}
}

// SetUniforms queues the values returned by Uniform, in order
func (m *ManualMockRoller) SetUniforms(values ...float64) *ManualMockRoller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uniforms = append(m.uniforms, values...)
	return m
}

// SetChances queues the values returned by Chance, in order
func (m *ManualMockRoller) SetChances(values ...bool) *ManualMockRoller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chances = append(m.chances, values...)
	return m
}

// SetInts queues the values returned by Intn, in order
func (m *ManualMockRoller) SetInts(values ...int) *ManualMockRoller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints = append(m.ints, values...)
	return m
}

// Remaining reports how many scripted draws have not been consumed
func (m *ManualMockRoller) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uniforms) + len(m.chances) + len(m.ints)
}

// Reset clears every queue
func (m *ManualMockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uniforms = nil
	m.chances = nil
	m.ints = nil
}

// Uniform returns the next scripted value. It must lie in [min, max].
func (m *ManualMockRoller) Uniform(min, max float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.uniforms) == 0 {
		panic(fmt.Sprintf("no more predetermined uniform draws for [%v, %v)", min, max))
	}
	v := m.uniforms[0]
	m.uniforms = m.uniforms[1:]
	if v < min || v > max {
		panic(fmt.Sprintf("invalid uniform draw %v for [%v, %v)", v, min, max))
	}
	return v
}

// Chance returns the next scripted outcome
func (m *ManualMockRoller) Chance(p float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.chances) == 0 {
		panic(fmt.Sprintf("no more predetermined chance draws (p=%v)", p))
	}
	v := m.chances[0]
	m.chances = m.chances[1:]
	return v
}

// Intn returns the next scripted index. It must lie in [0, n).
func (m *ManualMockRoller) Intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.ints) == 0 {
		panic(fmt.Sprintf("no more predetermined int draws for n=%d", n))
	}
	v := m.ints[0]
	m.ints = m.ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("invalid int draw %d for n=%d", v, n))
	}
	return v
}
