package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/movie-ranker/internal/domain"
	"github.com/msomdec/movie-ranker/internal/service"
	"github.com/msomdec/movie-ranker/internal/view"
)

// LibraryHandler serves the personal pages (my movies, watched) and the
// rate action. All of its routes sit behind RequireAuth.
type LibraryHandler struct {
	library  *service.LibraryService
	cache    *service.SearchCache
	genres   *service.GenreCache
	renderer *view.Renderer
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(library *service.LibraryService, cache *service.SearchCache, genres *service.GenreCache, renderer *view.Renderer) *LibraryHandler {
	return &LibraryHandler{library: library, cache: cache, genres: genres, renderer: renderer}
}

// HandleMyMovies renders the user's rated list, sortable by any field
// in the allow-list.
// GET /my_movies.html?sort=&order=
func (h *LibraryHandler) HandleMyMovies(w http.ResponseWriter, r *http.Request) {
	sortKey := r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = string(domain.SortByRating)
	}
	sortBy, err := domain.ParseSortField(sortKey)
	if err != nil {
		http.Error(w, "Invalid sort field.", http.StatusBadRequest)
		return
	}
	ascending := r.URL.Query().Get("order") == "asc"

	h.renderList(w, r, "My Movies", sortBy, ascending)
}

// HandleWatched renders the user's rated list, fixed at rating
// descending.
// GET /watched.html
func (h *LibraryHandler) HandleWatched(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "Watched", domain.SortByRating, false)
}

func (h *LibraryHandler) renderList(w http.ResponseWriter, r *http.Request, title string, sortBy domain.SortField, ascending bool) {
	ctx := r.Context()
	user := UserFromContext(ctx)

	movies, err := h.library.UserMovies(ctx, user.Name, sortBy, ascending)
	if err != nil {
		slog.Error("list user movies", "user", user.Name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resolve := func(ids []int64) []string { return h.genres.Names(ctx, ids) }
	renderPage(w, h.renderer, http.StatusOK, "list", view.ListData{
		UserName:  user.Name,
		Title:     title,
		Movies:    cardsFromUserMovies(movies, resolve),
		Sort:      string(sortBy),
		Ascending: ascending,
	})
}

// HandleRate persists a rating for the movie. The movie's metadata is
// resolved store-first, then from the session search cache; an id in
// neither place is a stale reference. A submitted form with no rating
// value is a no-op.
// POST /rate_movie/{id} (form field: rating)
func (h *LibraryHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(ctx)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		renderPage(w, h.renderer, http.StatusNotFound, "notfound", view.NotFoundData{UserName: user.Name})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	value := strings.TrimSpace(r.PostFormValue("rating"))
	if value == "" {
		// No rating selected; nothing to do.
		http.Redirect(w, r, "/movie/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
		return
	}

	rating, err := strconv.Atoi(value)
	if err != nil {
		http.Error(w, "Rating must be a whole number.", http.StatusBadRequest)
		return
	}

	movie, err := h.resolveMovie(r, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			renderPage(w, h.renderer, http.StatusNotFound, "notfound", view.NotFoundData{UserName: user.Name})
			return
		}
		slog.Error("resolve movie for rating", "movie_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.library.Rate(ctx, user.ID, movie, rating); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, "Rating must be between 1 and 10.", http.StatusBadRequest)
			return
		}
		slog.Error("rate movie", "user_id", user.ID, "movie_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/movie/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// resolveMovie finds the full metadata needed to persist a rating: the
// store row if the movie was rated before, otherwise the session's
// cached catalog record.
func (h *LibraryHandler) resolveMovie(r *http.Request, id int64) (*domain.Movie, error) {
	movie, err := h.library.Movie(r.Context(), id)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	cached, ok := h.cache.Lookup(SessionFromContext(r.Context()), id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return service.MovieFromCatalog(cached), nil
}
