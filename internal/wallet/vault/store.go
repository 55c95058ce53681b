package vault

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps the vault in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	vault string
}

func NewMemoryStore(initial string) *MemoryStore {
	return &MemoryStore{vault: initial}
}

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.vault == "" {
		return "", ErrNoVault
	}

	return s.vault, nil
}

func (s *MemoryStore) Save(_ context.Context, vault string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vault = vault
	return nil
}

// FileStore keeps the vault in a single file. Save writes a temporary file in the same
// directory and renames it over the previous vault.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoVault
		}
		return "", errors.Wrap(err, "failed to read vault file")
	}

	if len(raw) == 0 {
		return "", ErrNoVault
	}

	return string(raw), nil
}

func (s *FileStore) Save(_ context.Context, vault string) error {
	dir := filepath.Dir(s.path)

	//nolint:mnd // owner-only directory
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "failed to create vault directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary vault file")
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.WriteString(vault); err != nil {
		cleanup()
		return errors.Wrap(err, "failed to write temporary vault file")
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Wrap(err, "failed to sync temporary vault file")
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to close temporary vault file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to replace vault file")
	}

	return nil
}
