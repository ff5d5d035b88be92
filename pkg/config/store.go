// Package config provides persistence for operator settings: the saved
// values of the settings-tab slots (JSON, one flat slot-id to value map)
// and the engine run settings (YAML file).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the flat slot-id to value mapping captured by the
// save-config control.
type Store interface {
	// Load loads the saved values from disk.
	Load() error

	// Save saves the current values to disk.
	Save() error

	// Get retrieves the saved value for a slot id.
	Get(slotID string) (interface{}, bool)

	// Set records a value for a slot id.
	Set(slotID string, value interface{})

	// Values retrieves a copy of all saved values.
	Values() map[string]interface{}

	// Replace replaces all saved values at once.
	Replace(values map[string]interface{})
}

// FileStore implements Store using a JSON file.
type FileStore struct {
	path     string
	values   map[string]interface{}
	mu       sync.RWMutex
	version  string
	modified bool
}

// NewFileStore creates a file-based store. If path is empty, it defaults to
// ~/.scout/config.json. An existing file is loaded; a missing one is not an
// error.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".scout", "config.json")
	}

	store := &FileStore{
		path:    path,
		values:  make(map[string]interface{}),
		version: "1.0",
	}

	if err := store.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	return store, nil
}

// Load loads the saved values from disk.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.values = make(map[string]interface{})
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var config struct {
		Version string                 `json:"version"`
		Slots   map[string]interface{} `json:"slots"`
	}

	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	s.version = config.Version
	if config.Slots != nil {
		s.values = config.Slots
	} else {
		s.values = make(map[string]interface{})
	}
	s.modified = false

	return nil
}

// Save writes the values to disk atomically via a temp file and rename, so
// a crash mid-write never corrupts the saved config.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}

	config := struct {
		Version string                 `json:"version"`
		Slots   map[string]interface{} `json:"slots"`
	}{
		Version: s.version,
		Slots:   s.values,
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.modified = false
	return nil
}

// Get retrieves the saved value for a slot id.
func (s *FileStore) Get(slotID string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.values[slotID]
	return value, exists
}

// Set records a value for a slot id.
func (s *FileStore) Set(slotID string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[slotID] = value
	s.modified = true
}

// Values returns a copy of all saved values.
func (s *FileStore) Values() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	valuesCopy := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		valuesCopy[k] = v
	}
	return valuesCopy
}

// Replace replaces all saved values with a copy of the given map.
func (s *FileStore) Replace(values map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	valuesCopy := make(map[string]interface{}, len(values))
	for k, v := range values {
		valuesCopy[k] = v
	}
	s.values = valuesCopy
	s.modified = true
}

// IsModified returns true if the store has unsaved changes.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}
