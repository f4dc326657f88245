// Package thoughtstore implements the Thought Store: the authoritative
// record of CachedThought rows, keyed by id.
package thoughtstore

import (
	"sync"

	"github.com/coreason-ai/archive/archivemodel"
	"github.com/google/uuid"
)

// Predicate filters thoughts during a Scan.
type Predicate func(*archivemodel.CachedThought) bool

// Store is an in-memory map keyed by thought id, with periodic JSON snapshot
// persistence handled by the snapshot package.
type Store struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*archivemodel.CachedThought
}

// New creates an empty store.
func New() *Store {
	return &Store{byID: make(map[uuid.UUID]*archivemodel.CachedThought)}
}

// Put inserts or replaces t, keyed by t.ID. Put happens-before any lookup
// observing it.
func (s *Store) Put(t *archivemodel.CachedThought) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[t.ID] = t
}

// Get retrieves the thought for id, or (nil, false) if absent.
func (s *Store) Get(id uuid.UUID) (*archivemodel.CachedThought, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	return t, ok
}

// Delete removes id's row. Delete happens-before any lookup failing to
// observe it. Deleting an absent id is a no-op (NotFound is the caller's
// concern, not the store's).
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// Scan returns every thought satisfying pred. The returned slice is a
// snapshot copy; mutating it does not affect the store.
func (s *Store) Scan(pred Predicate) []*archivemodel.CachedThought {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*archivemodel.CachedThought
	for _, t := range s.byID {
		if pred == nil || pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// All returns every stored thought, for snapshotting.
func (s *Store) All() []*archivemodel.CachedThought {
	return s.Scan(nil)
}

// Len returns the number of stored thoughts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// SetEntities overwrites a thought's Entities field in place, used by the
// extractor-completion callback. Returns false if the thought no longer
// exists (it was deleted — the callback becomes a no-op).
func (s *Store) SetEntities(id uuid.UUID, entities []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	t.Entities = entities
	return true
}

// MarkStale flips IsStale to true for every thought whose SourceURNs
// contains urn. Returns the number of thoughts updated. Idempotent: applying
// the same urn twice leaves state unchanged after the first call.
func (s *Store) MarkStale(urn string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.byID {
		if t.IsStale {
			continue
		}
		if t.HasSourceURN(urn) {
			t.IsStale = true
			n++
		}
	}
	return n
}
