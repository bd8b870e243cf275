// Package storage provides whole-value key/value persistence for the
// application's durable slots.
//
// A slot is read and written as a single JSON value. Reads never fail: a missing
// or unparseable value yields the slot's default. Writes replace the stored value
// entirely; there is no merge and no partial update.
package storage

import (
	"errors"
	"sync"

	"github.com/mrlokans/bookfinder/internal/database"
)

// ErrNotFound is returned by KV implementations when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// KV defines the string key/value operations slots are built on.
type KV interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(key string) (string, error)

	// Set replaces the value stored under key.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// SettingsKV stores values in the database settings table.
type SettingsKV struct {
	db *database.Database
}

// NewSettingsKV creates a KV backed by the settings table.
func NewSettingsKV(db *database.Database) *SettingsKV {
	return &SettingsKV{db: db}
}

func (s *SettingsKV) Get(key string) (string, error) {
	setting, err := s.db.GetSetting(key)
	if errors.Is(err, database.ErrSettingNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingsKV) Set(key, value string) error {
	return s.db.SetSetting(key, value)
}

func (s *SettingsKV) Delete(key string) error {
	return s.db.DeleteSetting(key)
}

// MemoryKV keeps values in process memory. Used by the terminal UI for
// ephemeral data and by tests.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
