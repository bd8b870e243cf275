package search

import (
	"context"
	"sync"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// SnapshotStore keeps the search state saved while a details view is open.
// The context carries the caller's session for implementations that need one.
type SnapshotStore interface {
	Load(ctx context.Context) (entities.SearchState, bool)
	Save(ctx context.Context, state entities.SearchState) error
	Clear(ctx context.Context) error
}

// MemorySnapshots is a SnapshotStore for a single process-local session.
type MemorySnapshots struct {
	mu    sync.Mutex
	state *entities.SearchState
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{}
}

func (m *MemorySnapshots) Load(context.Context) (entities.SearchState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return entities.SearchState{}, false
	}
	return cloneState(*m.state), true
}

func (m *MemorySnapshots) Save(_ context.Context, state entities.SearchState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := cloneState(state)
	m.state = &s
	return nil
}

func (m *MemorySnapshots) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

func cloneState(s entities.SearchState) entities.SearchState {
	s.Results = cloneBooks(s.Results)
	return s
}

func cloneBooks(books []entities.Book) []entities.Book {
	out := make([]entities.Book, len(books))
	copy(out, books)
	return out
}
