package feedback

import (
	"log"
	"sync"

	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
)

// DefaultAsyncBuffer is the queue size used when NewAsync is given zero
const DefaultAsyncBuffer = 32

// AsyncSink forwards hooks to another sink from a background goroutine.
// When the queue is full the hook is dropped rather than blocking the battle.
type AsyncSink struct {
	next  Sink
	queue chan Hook

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsync starts the forwarding goroutine
func NewAsync(next Sink, buffer int) *AsyncSink {
	if next == nil {
		panic("next sink is required")
	}
	if buffer <= 0 {
		buffer = DefaultAsyncBuffer
	}

	s := &AsyncSink{
		next:  next,
		queue: make(chan Hook, buffer),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// Trigger implements Sink.Trigger
func (s *AsyncSink) Trigger(hook Hook) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return battleerr.Newf(battleerr.CodeUnavailable, "feedback sink closed, dropping %s", hook)
	}

	select {
	case s.queue <- hook:
		return nil
	default:
		return battleerr.Newf(battleerr.CodeUnavailable, "feedback queue full, dropping %s", hook)
	}
}

// Close stops accepting hooks and waits for queued ones to be forwarded
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *AsyncSink) run() {
	defer s.wg.Done()

	for hook := range s.queue {
		Fire(s.next, hook)
	}
	log.Println("Feedback: async sink drained")
}
