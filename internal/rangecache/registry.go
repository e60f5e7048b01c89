package rangecache

import (
	"sync"

	"go.uber.org/zap"
)

// Registry hands out one Cache per open shop session and tears it
// down on logout or shop switch. Nothing here is global: the
// registry itself is constructed once and passed where needed.
type Registry struct {
	fetch Fetcher
	log   *zap.Logger

	mu     sync.Mutex
	caches map[uint]*Cache
}

func NewRegistry(fetch Fetcher, log *zap.Logger) *Registry {
	return &Registry{
		fetch:  fetch,
		log:    log,
		caches: make(map[uint]*Cache),
	}
}

// ForShop returns the session cache for an atelier, creating it on
// first use.
func (r *Registry) ForShop(atelierID uint) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.caches[atelierID]
	if !ok {
		c = New(atelierID, r.fetch, r.log)
		r.caches[atelierID] = c
	}
	return c
}

// Drop discards a shop's session cache entirely.
func (r *Registry) Drop(atelierID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caches, atelierID)
}

// Invalidate routes a post-write invalidation to the shop's cache,
// if one exists. rng == nil clears the whole session.
func (r *Registry) Invalidate(atelierID uint, rng *DateRange) {
	r.mu.Lock()
	c, ok := r.caches[atelierID]
	r.mu.Unlock()

	if ok {
		c.Invalidate(rng)
	}
}
