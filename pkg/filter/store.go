package filter

import (
	"sort"
	"sync"
)

// Reader exposes the current selection for a dimension.
// ok is false when the dimension is absent from the active filter set.
type Reader interface {
	Selection(key Key) (sel Selection, ok bool)
}

// Writer is the single commit entry point for filter state.
// present=false removes the dimension entirely; present=true with an empty
// selection keeps the dimension with zero values.
type Writer interface {
	SetSelection(key Key, sel Selection, present bool)
}

// Store is the filter state collaborator the inbox views read and commit through
type Store interface {
	Reader
	Writer
}

// Set commits sel as a present value for key
func Set(w Writer, key Key, sel Selection) {
	if sel == nil {
		sel = Selection{}
	}
	w.SetSelection(key, sel, true)
}

// Clear removes key from the active filter set
func Clear(w Writer, key Key) {
	w.SetSelection(key, nil, false)
}

// MemoryStore is an in-process Store. Every commit bumps Version so owners
// can tell when they need to re-derive.
type MemoryStore struct {
	mu      sync.RWMutex
	values  map[Key]Selection
	version uint64
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]Selection)}
}

// Selection returns a copy of the selection for key
func (s *MemoryStore) Selection(key Key) (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sel, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return sel.Clone(), true
}

// SetSelection replaces or removes the value for key
func (s *MemoryStore) SetSelection(key Key, sel Selection, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !present {
		delete(s.values, key)
	} else {
		if sel == nil {
			sel = Selection{}
		}
		s.values[key] = sel.Clone()
	}
	s.version++
}

// Version increases on every commit
func (s *MemoryStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ActiveKeys returns the present dimensions, sorted
func (s *MemoryStore) ActiveKeys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]Key, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Snapshot returns a deep copy of all present dimensions
func (s *MemoryStore) Snapshot() map[Key]Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Key]Selection, len(s.values))
	for k, v := range s.values {
		out[k] = v.Clone()
	}
	return out
}

// Load replaces the whole state. Used when hydrating from persistence.
func (s *MemoryStore) Load(values map[Key]Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[Key]Selection, len(values))
	for k, v := range values {
		if v == nil {
			v = Selection{}
		}
		s.values[k] = v.Clone()
	}
	s.version++
}

// Versioned is implemented by stores that count commits
type Versioned interface {
	Version() uint64
}
