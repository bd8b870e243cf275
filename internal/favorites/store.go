// Package favorites persists the user's favorite books in a single durable
// slot, newest first, with at most one record per key.
//
// # Usage
//
//	store := favorites.NewStore(storage.NewSettingsKV(db), logger)
//	added, err := store.Toggle(book)
//	list := store.List()
package favorites

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/storage"
)

// CoverWarmer is notified when a favorite with a cover is added.
type CoverWarmer interface {
	WarmCover(coverID int)
}

// Store reads and writes the favorites slot.
type Store struct {
	slot   *storage.Slot[[]entities.Favorite]
	logger *zap.Logger

	// mu serializes read-modify-write cycles within this process. Other
	// processes writing the same slot are not coordinated; last writer wins.
	mu     sync.Mutex
	warmer CoverWarmer
}

func emptyFavorites() []entities.Favorite {
	return []entities.Favorite{}
}

// NewStore creates a favorites store over kv.
func NewStore(kv storage.KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		slot:   storage.NewSlot(kv, entities.SettingKeyFavorites, emptyFavorites, logger),
		logger: logger,
	}
}

// SetCoverWarmer registers a hook called for every newly added favorite.
func (s *Store) SetCoverWarmer(w CoverWarmer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warmer = w
}

// List returns all favorites, newest first. It never returns nil.
func (s *Store) List() []entities.Favorite {
	list := s.slot.Get()
	if list == nil {
		return emptyFavorites()
	}
	return list
}

// Replace overwrites the whole collection.
func (s *Store) Replace(list []entities.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot.Set(list)
}

// Contains reports whether a favorite with the given key exists.
func (s *Store) Contains(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Get returns the favorite stored under key.
func (s *Store) Get(key string) (entities.Favorite, bool) {
	for _, f := range s.List() {
		if f.Key == key {
			return f, true
		}
	}
	return entities.Favorite{}, false
}

// Keys returns the set of favorite keys, for membership tests over a page of results.
func (s *Store) Keys() map[string]bool {
	list := s.List()
	keys := make(map[string]bool, len(list))
	for _, f := range list {
		keys[f.Key] = true
	}
	return keys
}

// Toggle adds the book as the newest favorite when it is not a favorite yet,
// and removes it otherwise. It reports whether the book is a favorite afterwards.
func (s *Store) Toggle(book entities.Book) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := book.ID()
	current := s.List()

	filtered := make([]entities.Favorite, 0, len(current)+1)
	removed := false
	for _, f := range current {
		if f.Key == id {
			removed = true
			continue
		}
		filtered = append(filtered, f)
	}

	if removed {
		if err := s.slot.Set(filtered); err != nil {
			return true, err
		}
		s.logger.Debug("Favorite removed", zap.String("key", id))
		return false, nil
	}

	fav := entities.NewFavorite(book)
	next := append([]entities.Favorite{fav}, filtered...)
	if err := s.slot.Set(next); err != nil {
		return false, err
	}
	s.logger.Debug("Favorite added", zap.String("key", id), zap.String("title", book.Title))

	if s.warmer != nil && fav.CoverID > 0 {
		s.warmer.WarmCover(fav.CoverID)
	}
	return true, nil
}
