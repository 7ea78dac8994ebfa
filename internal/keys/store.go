package keys

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store holds the single persisted client-side credential. It is passed by
// reference to whoever needs it; there is no ambient global.
type Store interface {
	// Get returns the stored key. A stored value that fails the format
	// precondition is reported as absent.
	Get() (string, bool)
	Set(key string) error
	Clear() error
}

const storeFileName = "api_key"

// FileStore persists the credential as a single file, the CLI analog of the
// browser's local storage slot.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("keys: store dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// DefaultStoreDir returns the per-user location for the key store.
func DefaultStoreDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "careerkit"), nil
}

func (s *FileStore) Get() (string, bool) {
	raw, err := os.ReadFile(filepath.Join(s.dir, storeFileName))
	if err != nil {
		return "", false
	}
	key := strings.TrimSpace(string(raw))
	if !ValidFormat(key) {
		return "", false
	}
	return key, true
}

func (s *FileStore) Set(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("keys: refusing to store empty key")
	}
	return os.WriteFile(filepath.Join(s.dir, storeFileName), []byte(key+"\n"), 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(filepath.Join(s.dir, storeFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu  sync.Mutex
	key string
}

func (s *MemStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ValidFormat(s.key) {
		return "", false
	}
	return s.key, true
}

func (s *MemStore) Set(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = strings.TrimSpace(key)
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = ""
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemStore)(nil)
)
