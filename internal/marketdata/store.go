package marketdata

import "sync"

// DataKey is where the futures tool keeps its latest result.
const DataKey = "data"

// Store keeps fetched tables for the caller of the agent run.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewStore() *Store {
	return &Store{tables: map[string]*Table{}}
}

func (s *Store) Set(key string, t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables[key] = t
}

// Get returns the table stored under key.
func (s *Store) Get(key string) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[key]

	return t, ok
}
