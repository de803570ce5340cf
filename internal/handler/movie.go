package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/movie-ranker/internal/catalog"
	"github.com/msomdec/movie-ranker/internal/domain"
	"github.com/msomdec/movie-ranker/internal/service"
	"github.com/msomdec/movie-ranker/internal/view"
)

// MovieHandler serves the movie detail page and the trailer listing.
type MovieHandler struct {
	library  *service.LibraryService
	cache    *service.SearchCache
	catalog  *catalog.Client
	genres   *service.GenreCache
	renderer *view.Renderer
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(library *service.LibraryService, cache *service.SearchCache, client *catalog.Client, genres *service.GenreCache, renderer *view.Renderer) *MovieHandler {
	return &MovieHandler{library: library, cache: cache, catalog: client, genres: genres, renderer: renderer}
}

// HandleDetail renders one movie. The local store is checked first (it
// is authoritative for anything a user has rated); unrated movies are
// resolved from the session's search cache. An id in neither place is
// a stale reference and renders the not-found page.
// GET /movie/{id}
func (h *MovieHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	var card view.MovieCard
	var backdrop string

	movie, err := h.library.Movie(ctx, id)
	switch {
	case err == nil:
		card = cardFromMovie(movie, h.genres.Names(ctx, movie.GenreIDs))
		backdrop = movie.BackdropPath
	case errors.Is(err, domain.ErrNotFound):
		cached, ok := h.cache.Lookup(SessionFromContext(ctx), id)
		if !ok {
			h.renderNotFound(w, r)
			return
		}
		card = cardFromCatalog(cached, h.genres.Names(ctx, cached.GenreIDs))
		backdrop = cached.BackdropPath
	default:
		slog.Error("load movie", "movie_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user := UserFromContext(ctx); user != nil {
		if rating, err := h.library.UserRating(ctx, user.ID, id); err == nil {
			card.Rating = rating
		}
	}

	renderPage(w, h.renderer, http.StatusOK, "detail", view.DetailData{
		UserName:     displayName(r),
		Movie:        card,
		BackdropPath: backdrop,
	})
}

// HandleTrailers returns the trailer listing for one movie as JSON.
// GET /movie/{id}/videos.json
func (h *MovieHandler) HandleTrailers(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown movie id.")
		return
	}

	trailers := h.catalog.Trailers(r.Context(), id)
	if trailers == nil {
		trailers = []catalog.Trailer{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": trailers})
}

func (h *MovieHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, http.StatusNotFound, "notfound", view.NotFoundData{
		UserName: displayName(r),
	})
}
