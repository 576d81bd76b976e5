package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Well-known keys persisted by the application.
const (
	KeyUserToken = "user_token"
	KeyUserInfo  = "user_info"
	KeyAppTheme  = "app_theme"
)

// Store is a durable string key-value store. Reads report whether the key
// was present; writes must be durable before they return.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore persists keys as a YAML map in a single state file.
type FileStore struct {
	path   string
	mu     sync.Mutex
	loaded bool
	data   map[string]string
}

// NewFileStore creates a store backed by the given file path. The file is
// created on first write; a missing file reads as empty.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the state file location under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(home, ".tastectl", "state.yaml"), nil
}

func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	s.data = make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("could not read state file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return fmt.Errorf("could not parse state file: %w", err)
	}
	if s.data == nil {
		s.data = make(map[string]string)
	}
	s.loaded = true
	return nil
}

func (s *FileStore) flush() error {
	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("could not create state directory: %w", err)
	}
	return os.WriteFile(s.path, raw, 0600)
}

// Get returns the stored value for key and whether it was present.
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return "", false, err
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key, rewriting the state file before returning.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	s.data[key] = value
	return s.flush()
}

// Delete removes key from the store. Deleting an absent key is not an error.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// MemStore is an in-memory Store used in tests and as a fallback when no
// durable location is available.
type MemStore struct {
	mu   sync.Mutex
	data map[string]string

	// FailWrites makes Set and Delete return an error, for exercising
	// write-through failure paths.
	FailWrites bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

// Get returns the stored value for key and whether it was present.
func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return fmt.Errorf("write failed for key %q", key)
	}
	s.data[key] = value
	return nil
}

// Delete removes key from the store.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return fmt.Errorf("delete failed for key %q", key)
	}
	delete(s.data, key)
	return nil
}
