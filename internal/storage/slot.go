package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Slot is a named durable value of type T stored as JSON in a KV.
type Slot[T any] struct {
	kv     KV
	key    string
	def    func() T
	logger *zap.Logger
}

// NewSlot creates a slot under key. def builds the value returned when the
// slot is empty or its content cannot be decoded.
func NewSlot[T any](kv KV, key string, def func() T, logger *zap.Logger) *Slot[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Slot[T]{kv: kv, key: key, def: def, logger: logger}
}

// Key returns the storage key of the slot.
func (s *Slot[T]) Key() string {
	return s.key
}

// Get returns the current value, or the default if it is absent or corrupt.
func (s *Slot[T]) Get() T {
	raw, err := s.kv.Get(s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Failed to read storage slot", zap.String("key", s.key), zap.Error(err))
		}
		return s.def()
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("Discarding unparseable storage slot", zap.String("key", s.key), zap.Error(err))
		return s.def()
	}
	return v
}

// Set replaces the stored value.
func (s *Slot[T]) Set(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", s.key, err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("write slot %s: %w", s.key, err)
	}
	return nil
}

// Clear removes the stored value so the next Get returns the default.
func (s *Slot[T]) Clear() error {
	return s.kv.Delete(s.key)
}
