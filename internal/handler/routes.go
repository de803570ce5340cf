package handler

import (
	"net/http"

	"github.com/msomdec/movie-ranker/internal/catalog"
	"github.com/msomdec/movie-ranker/internal/service"
	"github.com/msomdec/movie-ranker/internal/view"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	library *service.LibraryService,
	client *catalog.Client,
	cache *service.SearchCache,
	genres *service.GenreCache,
	renderer *view.Renderer,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, renderer, cookieSecure)
	home := NewHomeHandler(client, cache, genres, renderer)
	movie := NewMovieHandler(library, cache, client, genres, renderer)
	lib := NewLibraryHandler(library, cache, genres, renderer)

	public := func(h http.HandlerFunc) http.Handler {
		return WithSession(cookieSecure, OptionalAuth(auth, h))
	}
	private := func(h http.HandlerFunc) http.Handler {
		return WithSession(cookieSecure, RequireAuth(auth, h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /{$}", public(home.HandleHome))
	mux.Handle("GET /movie/{id}", public(movie.HandleDetail))
	mux.Handle("GET /movie/{id}/videos.json", public(movie.HandleTrailers))
	mux.Handle("GET /login", public(authHandler.HandleLoginPage))
	mux.Handle("POST /login", public(authHandler.HandleLogin))
	mux.Handle("GET /logout", public(authHandler.HandleLogout))
	mux.Handle("GET /my_movies.html", private(lib.HandleMyMovies))
	mux.Handle("GET /watched.html", private(lib.HandleWatched))
	mux.Handle("POST /rate_movie/{id}", private(lib.HandleRate))
}
