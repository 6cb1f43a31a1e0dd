package storage

import (
	"errors"
	"os"
	"path/filepath"

	"dental-vision/internal/domain/entity"
	"dental-vision/internal/domain/port"
)

// DiskStore keeps artifacts as plain files inside a single upload
// directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// path flattens the artifact name to a bare base name so callers cannot
// escape the upload directory.
func (s *DiskStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save writes an artifact. Names are unique per request, so an existing
// file is never expected here.
func (s *DiskStore) Save(name string, data []byte) error {
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return &entity.StorageError{Name: name, Err: err}
	}
	return nil
}

// Open reads an artifact back.
func (s *DiskStore) Open(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, &entity.StorageError{Name: name, NotFound: errors.Is(err, os.ErrNotExist), Err: err}
	}
	return data, nil
}

// Delete removes an artifact. Deleting a missing artifact is not an error.
func (s *DiskStore) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &entity.StorageError{Name: name, Err: err}
	}
	return nil
}

// Exists reports whether an artifact is present.
func (s *DiskStore) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

var _ port.ArtifactStore = (*DiskStore)(nil)
