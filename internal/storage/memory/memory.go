package memory

import (
	"context"
	"sync"
)

// Store implements storage.ImageStore using an in-memory set of refs. It is
// used by tests and by the seed tooling, where no real files exist.
type Store struct {
	mu   sync.RWMutex
	refs map[string]struct{}

	// Err, when set, is returned by every Delete call.
	Err error
}

// New creates a new in-memory image store.
func New() *Store {
	return &Store{refs: make(map[string]struct{})}
}

// Add records a ref as stored.
func (s *Store) Add(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[ref] = struct{}{}
}

// Has reports whether the ref is currently stored.
func (s *Store) Has(ref string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.refs[ref]
	return ok
}

// Delete removes the ref. Deleting an unknown ref is a no-op.
func (s *Store) Delete(_ context.Context, ref string) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refs, ref)
	return nil
}
