package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/movie-ranker/internal/catalog"
	"github.com/msomdec/movie-ranker/internal/handler"
	"github.com/msomdec/movie-ranker/internal/repository/sqlite"
	"github.com/msomdec/movie-ranker/internal/service"
	"github.com/msomdec/movie-ranker/internal/view"
)

func tmdbMovie(id int64, title string) map[string]any {
	return map[string]any{
		"id":                id,
		"title":             title,
		"overview":          "Overview of " + title,
		"release_date":      "1997-06-20",
		"poster_path":       "/poster.jpg",
		"backdrop_path":     "/backdrop.jpg",
		"original_language": "en",
		"vote_average":      6.5,
		"vote_count":        1200,
		"popularity":        42.0,
		"genre_ids":         []int64{28, 14},
	}
}

func resultsBody(movies ...map[string]any) map[string]any {
	return map[string]any{
		"page":          1,
		"results":       movies,
		"total_pages":   1,
		"total_results": len(movies),
	}
}

// newFakeCatalog serves just enough of the TMDB surface for the
// handlers under test.
func newFakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("query") {
		case "Batman":
			json.NewEncoder(w).Encode(resultsBody(tmdbMovie(415, "Batman & Robin"), tmdbMovie(268, "Batman")))
		case "Alien":
			json.NewEncoder(w).Encode(resultsBody(tmdbMovie(600, "Alien")))
		default:
			json.NewEncoder(w).Encode(resultsBody())
		}
	})
	mux.HandleFunc("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(resultsBody(tmdbMovie(100, "Popular One"), tmdbMovie(101, "Popular Two")))
	})
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"genres": []map[string]any{
				{"id": 28, "name": "Action"},
				{"id": 14, "name": "Fantasy"},
			},
		})
	})
	mux.HandleFunc("/movie/415/videos", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"key": "abc123", "name": "Official Trailer", "type": "Trailer", "site": "YouTube"},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestServer wires the full application against a temp database and
// a fake catalog, returning the server and a cookie-keeping client that
// does not follow redirects.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	upstream := newFakeCatalog(t)
	client := catalog.New(catalog.Config{BaseURL: upstream.URL, APIKey: "test-key", Language: "en-US"})

	renderer, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}

	auth := service.NewAuthService(db.Users(), "test-secret-key-for-handler-tests")
	library := service.NewLibraryService(db.Movies(), db.Ratings(), db.Users())
	cache := service.NewSearchCache()
	genres := service.NewGenreCache(client)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, library, client, cache, genres, renderer, false)

	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	httpClient := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // don't follow redirects automatically
		},
	}
	return srv, httpClient
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func login(t *testing.T, client *http.Client, baseURL, name string) {
	t.Helper()
	resp, err := client.PostForm(baseURL+"/login", url.Values{"username": {name}})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303 redirect, got %d", resp.StatusCode)
	}
}

func TestIntegration_SearchRateAndList(t *testing.T) {
	srv, client := newTestServer(t)

	login(t, client, srv.URL, "alice")

	// Search fills the session's transient cache.
	resp, err := client.Get(srv.URL + "/?query=Batman")
	if err != nil {
		t.Fatalf("GET /?query=Batman: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Batman &amp; Robin") {
		t.Fatalf("expected search results to list Batman & Robin")
	}

	// Detail resolves from the cache and shows resolved genre names.
	resp, err = client.Get(srv.URL + "/movie/415")
	if err != nil {
		t.Fatalf("GET /movie/415: %v", err)
	}
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Action") || !strings.Contains(body, "Fantasy") {
		t.Fatal("expected genre names resolved on the detail page")
	}

	// Rate it.
	resp, err = client.PostForm(srv.URL+"/rate_movie/415", url.Values{"rating": {"5"}})
	if err != nil {
		t.Fatalf("POST /rate_movie/415: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("rate: expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/movie/415" {
		t.Fatalf("rate: expected redirect to /movie/415, got %s", loc)
	}

	// The personal list now shows the movie with the written rating.
	resp, err = client.Get(srv.URL + "/my_movies.html")
	if err != nil {
		t.Fatalf("GET /my_movies.html: %v", err)
	}
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my movies: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Batman &amp; Robin") || !strings.Contains(body, "5/10") {
		t.Fatal("expected my movies to list Batman & Robin rated 5/10")
	}

	// The detail page overlays the stored rating.
	resp, err = client.Get(srv.URL + "/movie/415")
	if err != nil {
		t.Fatalf("GET /movie/415 after rating: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "You rated this 5/10") {
		t.Fatal("expected stored rating overlaid on detail page")
	}
}

func TestIntegration_RatedMovieSurvivesCacheOverwrite(t *testing.T) {
	srv, client := newTestServer(t)

	login(t, client, srv.URL, "alice")

	resp, err := client.Get(srv.URL + "/?query=Batman")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	resp.Body.Close()

	resp, err = client.PostForm(srv.URL+"/rate_movie/415", url.Values{"rating": {"5"}})
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	resp.Body.Close()

	// A new search replaces the session cache with results that do not
	// include movie 415.
	resp, err = client.Get(srv.URL + "/?query=Alien")
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	resp.Body.Close()

	// The rated movie is still resolvable: the store is authoritative.
	resp, err = client.Get(srv.URL + "/movie/415")
	if err != nil {
		t.Fatalf("GET /movie/415: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected rated movie resolvable after cache overwrite, got %d", resp.StatusCode)
	}

	// An unrated movie from the replaced result set is gone.
	resp, err = client.Get(srv.URL + "/movie/268")
	if err != nil {
		t.Fatalf("GET /movie/268: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected stale reference to 404, got %d", resp.StatusCode)
	}
}

func TestIntegration_StaleMovieIDNotFound(t *testing.T) {
	srv, client := newTestServer(t)

	// No search has happened in this session and nothing is rated: any
	// id is a stale reference.
	resp, err := client.Get(srv.URL + "/movie/415")
	if err != nil {
		t.Fatalf("GET /movie/415: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown movie id, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Movie not found") {
		t.Fatal("expected the not-found page body")
	}
}

func TestIntegration_SearchCacheIsPerSession(t *testing.T) {
	srv, clientA := newTestServer(t)

	// Session A searches Batman.
	resp, err := clientA.Get(srv.URL + "/?query=Batman")
	if err != nil {
		t.Fatalf("session A search: %v", err)
	}
	resp.Body.Close()

	// Session B (a fresh cookie jar) searches Alien.
	jar, _ := cookiejar.New(nil)
	clientB := &http.Client{Jar: jar, CheckRedirect: clientA.CheckRedirect}
	resp, err = clientB.Get(srv.URL + "/?query=Alien")
	if err != nil {
		t.Fatalf("session B search: %v", err)
	}
	resp.Body.Close()

	// Session A can still resolve its own results.
	resp, err = clientA.Get(srv.URL + "/movie/415")
	if err != nil {
		t.Fatalf("session A detail: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected session A cache intact, got %d", resp.StatusCode)
	}

	// Session B never saw movie 415.
	resp, err = clientB.Get(srv.URL + "/movie/415")
	if err != nil {
		t.Fatalf("session B detail: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for session B, got %d", resp.StatusCode)
	}
}

func TestIntegration_AnonymousRedirects(t *testing.T) {
	srv, client := newTestServer(t)

	for _, path := range []string{"/my_movies.html", "/watched.html"} {
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("%s: expected 303, got %d", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %s", path, loc)
		}
	}

	resp, err := client.PostForm(srv.URL+"/rate_movie/415", url.Values{"rating": {"5"}})
	if err != nil {
		t.Fatalf("POST /rate_movie/415: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("anonymous rate: expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("anonymous rate: expected redirect to /login, got %s", loc)
	}
}

func TestIntegration_LoginValidation(t *testing.T) {
	srv, client := newTestServer(t)

	resp, err := client.PostForm(srv.URL+"/login", url.Values{"username": {"   "}})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank username: expected 400, got %d", resp.StatusCode)
	}
}

func TestIntegration_InvalidSortRejected(t *testing.T) {
	srv, client := newTestServer(t)

	login(t, client, srv.URL, "alice")

	resp, err := client.Get(srv.URL + "/my_movies.html?sort=evil")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid sort field, got %d", resp.StatusCode)
	}
}

func TestIntegration_RateWithoutValueIsNoOp(t *testing.T) {
	srv, client := newTestServer(t)

	login(t, client, srv.URL, "alice")

	resp, err := client.Get(srv.URL + "/?query=Batman")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	resp.Body.Close()

	resp, err = client.PostForm(srv.URL+"/rate_movie/415", url.Values{"rating": {""}})
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 no-op redirect, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/my_movies.html")
	if err != nil {
		t.Fatalf("GET /my_movies.html: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "You haven't rated any movies yet.") {
		t.Fatal("expected no rating to be written")
	}
}

func TestIntegration_TrailerListing(t *testing.T) {
	srv, client := newTestServer(t)

	resp, err := client.Get(srv.URL + "/movie/415/videos.json")
	if err != nil {
		t.Fatalf("GET /movie/415/videos.json: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Key  string `json:"key"`
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Results) != 1 {
		t.Fatalf("expected 1 trailer, got %d", len(payload.Results))
	}
	if payload.Results[0].Key != "abc123" || payload.Results[0].Type != "Trailer" {
		t.Fatalf("unexpected trailer %+v", payload.Results[0])
	}
}

func TestIntegration_LogoutClearsSession(t *testing.T) {
	srv, client := newTestServer(t)

	login(t, client, srv.URL, "alice")

	resp, err := client.Get(srv.URL + "/logout")
	if err != nil {
		t.Fatalf("GET /logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout: expected 303, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/my_movies.html")
	if err != nil {
		t.Fatalf("GET /my_movies.html: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login redirect after logout, got %d", resp.StatusCode)
	}
}

func TestIntegration_HomeDiscoverWithoutQuery(t *testing.T) {
	srv, client := newTestServer(t)

	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Popular One") {
		t.Fatal("expected discover results on the home page")
	}

	// Discover results become the session cache too.
	resp, err = client.Get(srv.URL + "/movie/100")
	if err != nil {
		t.Fatalf("GET /movie/100: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected discover result resolvable, got %d", resp.StatusCode)
	}
}

func TestIntegration_UpstreamDownStillRenders(t *testing.T) {
	// A dead upstream degrades the page to empty results, never a 500.
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(dead.Close)

	client := catalog.New(catalog.Config{BaseURL: dead.URL, APIKey: "test-key", Language: "en-US"})
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}

	auth := service.NewAuthService(db.Users(), "test-secret-key-for-handler-tests")
	library := service.NewLibraryService(db.Movies(), db.Ratings(), db.Users())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, library, client, service.NewSearchCache(), service.NewGenreCache(client), renderer, false)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/?query=Batman")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 despite dead upstream, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "No movies found.") {
		t.Fatal("expected the empty-results rendering")
	}
}
