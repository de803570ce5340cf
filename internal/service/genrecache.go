package service

import (
	"context"
	"sync"

	"github.com/msomdec/movie-ranker/internal/catalog"
)

// GenreCache fetches the catalog's genre id to name mapping once and
// reuses it. A failed fetch yields an empty mapping for the current
// call but is not cached, so the next call retries.
type GenreCache struct {
	mu     sync.Mutex
	client *catalog.Client
	genres map[int64]string
}

// NewGenreCache creates a GenreCache backed by the given client.
func NewGenreCache(client *catalog.Client) *GenreCache {
	return &GenreCache{client: client}
}

// Mapping returns the genre id to name mapping, fetching it on first use.
func (c *GenreCache) Mapping(ctx context.Context) map[int64]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.genres != nil {
		return c.genres
	}

	genres := c.client.FetchGenres(ctx)
	if len(genres) > 0 {
		c.genres = genres
	}
	return genres
}

// Names resolves genre ids to names, with "Unknown" for ids missing
// from the mapping.
func (c *GenreCache) Names(ctx context.Context, ids []int64) []string {
	return catalog.ResolveGenreNames(c.Mapping(ctx), ids)
}
