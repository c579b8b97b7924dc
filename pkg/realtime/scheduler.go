package realtime

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs keyed, cancellable callbacks on a clock. At most one job is
// installed per key: scheduling under a key that already has a job stops the
// old one first, so a recurring job can never run twice side by side.
//
// Callbacks run on their own goroutine without any Scheduler lock held. A job
// that is cancelled while its callback is already in flight may still run that
// callback once; callers that care tag the callback with a generation.
type Scheduler struct {
	clock clockwork.Clock

	mu      sync.Mutex
	jobs    map[string]*job
	stopped bool
}

type job struct {
	once sync.Once
	stop func()
}

func (j *job) cancel() {
	j.once.Do(j.stop)
}

// NewScheduler returns a scheduler on clock. A nil clock means the real clock.
func NewScheduler(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock: clock,
		jobs:  make(map[string]*job),
	}
}

// Every calls fn every interval until the key is cancelled or replaced.
func (s *Scheduler) Every(key string, interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.cancelLocked(key)

	ticker := s.clock.NewTicker(interval)
	done := make(chan struct{})
	j := &job{stop: func() {
		ticker.Stop()
		close(done)
	}}
	s.jobs[key] = j

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.Chan():
				if !s.current(key, j) {
					return
				}
				fn()
			}
		}
	}()
}

// After calls fn once after delay unless the key is cancelled or replaced first.
func (s *Scheduler) After(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.cancelLocked(key)

	j := &job{}
	timer := s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.jobs[key] != j {
			s.mu.Unlock()
			return
		}
		delete(s.jobs, key)
		s.mu.Unlock()
		fn()
	})
	j.stop = func() { timer.Stop() }
	s.jobs[key] = j
}

// Cancel stops the job under key. It reports whether a job was installed.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(key)
}

// Pending reports whether a job is installed under key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[key]
	return ok
}

// Len returns the number of installed jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels every job. Jobs scheduled afterwards are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for key := range s.jobs {
		s.cancelLocked(key)
	}
}

func (s *Scheduler) cancelLocked(key string) bool {
	j, ok := s.jobs[key]
	if !ok {
		return false
	}
	delete(s.jobs, key)
	j.cancel()
	return true
}

func (s *Scheduler) current(key string, j *job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[key] == j
}
