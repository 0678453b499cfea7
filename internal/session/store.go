package session

import (
	"sync"

	"bmidash/domain/core"
)

// Store keeps one State per browser session for the life of the process.
// Nothing is persisted and nothing expires.
type Store struct {
	mu     sync.Mutex
	states map[core.ID]*State
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{states: make(map[core.ID]*State)}
}

// Resolve returns the state for id. Unknown or empty ids get a fresh session;
// the returned id is the one the caller should hand back to the client.
func (s *Store) Resolve(id core.ID) (core.ID, *State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !id.IsEmpty() {
		if st, ok := s.states[id]; ok {
			return id, st, false
		}
	}

	id = core.NewID()
	st := NewState()
	s.states[id] = st
	return id, st, true
}

// Len returns the number of sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
