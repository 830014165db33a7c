package scheduler

import (
	"sync"
	"time"
)

// Manual is a Scheduler that only runs callbacks when told to.
// Tests use it to step the battle engine deterministically.
type Manual struct {
	mu      sync.Mutex
	pending []*manualTask
	delays  []time.Duration
}

type manualTask struct {
	mu        sync.Mutex
	delay     time.Duration
	fn        func()
	done      bool
	cancelled bool
}

// NewManual creates a new manual scheduler
func NewManual() *Manual {
	return &Manual{}
}

// Schedule implements Scheduler.Schedule
func (m *Manual) Schedule(delay time.Duration, fn func()) Token {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := &manualTask{delay: delay, fn: fn}
	m.pending = append(m.pending, task)
	m.delays = append(m.delays, delay)
	return task
}

// Cancel implements Token.Cancel
func (t *manualTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}

// Pending returns the number of callbacks that are neither run nor cancelled
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, task := range m.pending {
		task.mu.Lock()
		if !task.done && !task.cancelled {
			count++
		}
		task.mu.Unlock()
	}
	return count
}

// Delays returns every delay requested so far, in order
func (m *Manual) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]time.Duration, len(m.delays))
	copy(out, m.delays)
	return out
}

// RunNext runs the oldest live callback. Returns false if there was none.
func (m *Manual) RunNext() bool {
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			return false
		}
		task := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()

		task.mu.Lock()
		if task.cancelled || task.done {
			task.mu.Unlock()
			continue
		}
		task.done = true
		task.mu.Unlock()

		task.fn()
		return true
	}
}

// RunAll runs callbacks, including ones scheduled while running, until none remain.
// Returns how many ran.
func (m *Manual) RunAll() int {
	ran := 0
	for m.RunNext() {
		ran++
	}
	return ran
}
