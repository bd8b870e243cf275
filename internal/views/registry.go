// Package views keeps one search orchestrator per browser session.
//
// Orchestrators live in memory only. They are evicted when unused for the
// configured TTL or when the registry is full; a session whose orchestrator
// was evicted gets a fresh one, restored from its saved snapshot if any.
package views

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mrlokans/bookfinder/internal/search"
)

// Factory builds the orchestrator for a new view.
type Factory func() *search.Orchestrator

type Registry struct {
	mu      sync.Mutex
	cache   *expirable.LRU[string, *search.Orchestrator]
	factory Factory
}

// NewRegistry creates a registry holding at most size views, each expiring
// ttl after it was last requested.
func NewRegistry(size int, ttl time.Duration, factory Factory) *Registry {
	if size < 1 {
		size = 1
	}
	return &Registry{
		cache:   expirable.NewLRU[string, *search.Orchestrator](size, nil, ttl),
		factory: factory,
	}
}

// Get returns the orchestrator for id, creating it when missing. created
// reports whether a new orchestrator was built.
func (r *Registry) Get(id string) (o *search.Orchestrator, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.cache.Get(id); ok {
		// re-adding resets the expiry
		r.cache.Add(id, o)
		return o, false
	}
	o = r.factory()
	r.cache.Add(id, o)
	return o, true
}

// Remove drops the view with id.
func (r *Registry) Remove(id string) {
	r.cache.Remove(id)
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	return r.cache.Len()
}
