// Package scheduler defers callbacks behind a cancellable token.
// The battle engine uses it to pace the enemy's reply.
package scheduler

import (
	"sync"
	"time"
)

// Token is a handle to a scheduled callback
type Token interface {
	// Cancel prevents the callback from running.
	// Returns false if it already ran or was already cancelled.
	Cancel() bool
}

// Scheduler runs fn once after delay
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Token
}

type timerScheduler struct{}

// NewTimer creates a Scheduler backed by time.AfterFunc
func NewTimer() Scheduler {
	return &timerScheduler{}
}

// Schedule implements Scheduler.Schedule
func (s *timerScheduler) Schedule(delay time.Duration, fn func()) Token {
	tok := &timerToken{}

	tok.mu.Lock()
	defer tok.mu.Unlock()

	tok.timer = time.AfterFunc(delay, func() {
		tok.mu.Lock()
		if tok.cancelled {
			tok.mu.Unlock()
			return
		}
		tok.fired = true
		tok.mu.Unlock()

		fn()
	})

	return tok
}

type timerToken struct {
	mu        sync.Mutex
	timer     *time.Timer
	fired     bool
	cancelled bool
}

// Cancel implements Token.Cancel.
// A timer that already started its callback but has not yet run fn is still stopped.
func (t *timerToken) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fired || t.cancelled {
		return false
	}

	t.cancelled = true
	t.timer.Stop()
	return true
}
