package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/movie-ranker/internal/catalog"
	"github.com/msomdec/movie-ranker/internal/service"
	"github.com/msomdec/movie-ranker/internal/view"
)

// HomeHandler serves the search/discover page.
type HomeHandler struct {
	catalog  *catalog.Client
	cache    *service.SearchCache
	genres   *service.GenreCache
	renderer *view.Renderer
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(client *catalog.Client, cache *service.SearchCache, genres *service.GenreCache, renderer *view.Renderer) *HomeHandler {
	return &HomeHandler{catalog: client, cache: cache, genres: genres, renderer: renderer}
}

// HandleHome renders search results when a query is given, and the
// catalog's popular movies otherwise. Either way the result set becomes
// the session's transient cache, the index detail and rate views use to
// resolve movie ids that are not persisted yet.
// GET /?query=&year=
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("query"))

	var year int
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid year.", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	var movies []catalog.Movie
	if query != "" {
		movies = h.catalog.Search(ctx, catalog.SearchParams{Query: query, Year: year})
	} else {
		movies = h.catalog.Discover(ctx, "", year, 1)
	}

	h.cache.Put(SessionFromContext(ctx), movies)

	resolve := func(ids []int64) []string { return h.genres.Names(ctx, ids) }
	renderPage(w, h.renderer, http.StatusOK, "results", view.ResultsData{
		UserName: displayName(r),
		Query:    query,
		Movies:   cardsFromCatalog(movies, resolve),
	})
}
