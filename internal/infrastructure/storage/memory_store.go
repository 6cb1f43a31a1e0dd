package storage

import (
	"path/filepath"
	"sync"

	"dental-vision/internal/domain/entity"
	"dental-vision/internal/domain/port"
)

// MemoryStore is an in-memory artifact store used in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artifacts: make(map[string][]byte),
	}
}

// Save stores a copy of the artifact bytes.
func (s *MemoryStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.artifacts[filepath.Base(name)] = buf
	return nil
}

// Open returns the stored artifact bytes.
func (s *MemoryStore) Open(name string) ([]byte, error) {
	s.mu.RLock()
	data, exists := s.artifacts[filepath.Base(name)]
	s.mu.RUnlock()

	if !exists {
		return nil, &entity.StorageError{Name: name, NotFound: true}
	}
	return data, nil
}

// Delete removes an artifact. Missing artifacts are ignored.
func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	delete(s.artifacts, filepath.Base(name))
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored artifacts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// Exists reports whether an artifact is present.
func (s *MemoryStore) Exists(name string) bool {
	s.mu.RLock()
	_, exists := s.artifacts[filepath.Base(name)]
	s.mu.RUnlock()
	return exists
}

var _ port.ArtifactStore = (*MemoryStore)(nil)
