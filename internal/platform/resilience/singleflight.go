package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into a single
// execution; waiters block until the leading call finishes and then share its
// result. The auth client uses it so a burst of requests carrying the same
// token costs one introspection round trip.
type SingleFlight struct {
	mu       sync.Mutex
	inFlight map[string]*flight
}

type flight struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn unless a call for key is already in flight, in which case it
// waits for that call instead. The bool reports whether the result was shared.
func (s *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	s.mu.Lock()
	if s.inFlight == nil {
		s.inFlight = make(map[string]*flight)
	}
	if f, ok := s.inFlight[key]; ok {
		s.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}
	f := &flight{done: make(chan struct{})}
	s.inFlight[key] = f
	s.mu.Unlock()

	f.val, f.err = fn()

	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
	close(f.done)

	return f.val, f.err, false
}
