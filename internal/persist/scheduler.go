package persist

import (
	"sync"
	"time"
)

// Scheduler debounces one kind of work: each Schedule restarts the quiet
// window and only the last scheduled function runs once the window elapses.
// With a zero delay the function runs inline.
type Scheduler struct {
	delay time.Duration
	clock Clock

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// NewScheduler returns a scheduler with the given quiet window.
func NewScheduler(delay time.Duration, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{delay: delay, clock: clock}
}

// Schedule replaces any pending function with fn and restarts the window.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.stopLocked()
	if s.delay <= 0 {
		s.mu.Unlock()
		fn()
		return
	}
	s.timer = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
	s.mu.Unlock()
}

// Cancel drops the pending function, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.stopLocked()
}

// Pending reports whether a function is waiting for its window to elapse.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
