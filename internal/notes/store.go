package notes

import (
	"sync"
	"time"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// Store is a thread-safe in-memory registry of assembled notes with TTL
// eviction. Notes are the value records themselves; callers receive copies
// and cannot mutate stored state.
type Store struct {
	mu    sync.Mutex
	notes map[string]schema.StudyNotes
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		notes: make(map[string]schema.StudyNotes),
		ttl:   ttl,
	}
}

func (s *Store) Put(n schema.StudyNotes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[n.ID] = n
}

func (s *Store) Get(id string) (schema.StudyNotes, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	return n, ok
}

// Cleanup removes notes older than the TTL and reports how many were evicted.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.ttl)
	evicted := 0
	for id, n := range s.notes {
		if n.CreatedAt.Before(cutoff) {
			delete(s.notes, id)
			evicted++
		}
	}
	return evicted
}
