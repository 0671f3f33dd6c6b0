package schedule

// Store maps a category name to its last observed snapshot. It is owned by
// a single poll loop and is not safe for concurrent use.
type Store struct {
	entries map[string]*Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Snapshot)}
}

// Get returns the last snapshot for category, or nil if none was observed.
func (s *Store) Get(category string) *Snapshot {
	return s.entries[category]
}

// Put records snap as the latest snapshot for category.
func (s *Store) Put(category string, snap *Snapshot) {
	s.entries[category] = snap
}

// Len returns the number of categories observed so far.
func (s *Store) Len() int {
	return len(s.entries)
}
