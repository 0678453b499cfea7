package session

import "sync/atomic"

// State is the per-session acquisition flag. It starts false and, once marked
// ready, stays ready for the rest of the session.
type State struct {
	ready atomic.Bool
}

// NewState returns a state that is not ready
func NewState() *State {
	return &State{}
}

// IsReady reports whether the dataset has been acquired in this session
func (s *State) IsReady() bool {
	return s != nil && s.ready.Load()
}

// MarkReady records a successful acquisition
func (s *State) MarkReady() {
	s.ready.Store(true)
}
