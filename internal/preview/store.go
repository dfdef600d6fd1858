package preview

import (
	"sync"

	"github.com/google/uuid"
)

const handlePrefix = "preview-"

type entry struct {
	mediaType string
	data      []byte
}

// Store holds local preview images keyed by an opaque handle. A handle is
// valid until released; releasing it a second time does nothing.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewStore() *Store {
	return &Store{
		entries: map[string]entry{},
	}
}

func (s *Store) Create(mediaType string, data []byte) string {
	handle := handlePrefix + uuid.NewString()

	s.mu.Lock()
	s.entries[handle] = entry{mediaType: mediaType, data: data}
	s.mu.Unlock()

	return handle
}

func (s *Store) Get(handle string) (string, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[handle]
	if !ok {
		return "", nil, false
	}
	return e.mediaType, e.data, true
}

// Release frees the handle and reports whether it was still live.
func (s *Store) Release(handle string) bool {
	if handle == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[handle]; !ok {
		return false
	}
	delete(s.entries, handle)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
