package service

import (
	"sync"

	"github.com/msomdec/movie-ranker/internal/catalog"
)

// SearchCache holds, per browser session, the most recent search or
// discover result set. It is the index from movie id to full catalog
// record for movies that have not been persisted yet. Entries are
// keyed by session id so concurrent sessions never overwrite each
// other; within one session the last search wins.
type SearchCache struct {
	mu      sync.RWMutex
	results map[string][]catalog.Movie
}

// NewSearchCache creates an empty SearchCache.
func NewSearchCache() *SearchCache {
	return &SearchCache{results: make(map[string][]catalog.Movie)}
}

// Put replaces the session's cached result set.
func (c *SearchCache) Put(sessionID string, movies []catalog.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[sessionID] = movies
}

// Get returns the session's cached result set, or nil.
func (c *SearchCache) Get(sessionID string) []catalog.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.results[sessionID]
}

// Lookup finds one movie by id in the session's cached result set.
func (c *SearchCache) Lookup(sessionID string, movieID int64) (catalog.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.results[sessionID] {
		if m.ID == movieID {
			return m, true
		}
	}
	return catalog.Movie{}, false
}
