// Package catalog wraps the external movie-catalog REST API (TMDB).
//
// All calls are synchronous and soft-fail: a network error or non-2xx
// response is logged and surfaces to the caller as an empty result, so
// a degraded upstream degrades the page instead of breaking it.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultMaxResults = 1000

// Config holds catalog client configuration.
type Config struct {
	BaseURL      string
	APIKey       string
	Language     string
	IncludeAdult bool
	// HTTPClient overrides the default client (15s timeout) when set.
	HTTPClient *http.Client
}

// Client is a client for the movie-catalog API.
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	includeAdult bool
	httpClient   *http.Client
}

// New creates a new catalog Client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		includeAdult: cfg.IncludeAdult,
		httpClient:   httpClient,
	}
}

// Movie is one movie record as returned by the catalog's paginated
// endpoints.
type Movie struct {
	ID               int64   `json:"id"`
	Adult            bool    `json:"adult"`
	BackdropPath     string  `json:"backdrop_path"`
	PosterPath       string  `json:"poster_path"`
	OriginalLanguage string  `json:"original_language"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int64 `json:"genre_ids"`
}

// Trailer is one video record attached to a movie.
type Trailer struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type resultsPage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// SearchParams are the inputs to Search. Zero values mean: first page,
// single page, default result cap.
type SearchParams struct {
	Query string
	Year  int
	Page  int
	// FetchAllPages keeps requesting subsequent pages until the
	// reported total page count is exhausted or MaxResults is reached.
	FetchAllPages bool
	MaxResults    int
}

// Search queries the catalog's search endpoint by title. Results keep
// catalog order; pages are concatenated in page order. A failed page
// stops the loop but keeps what was already fetched.
func (c *Client) Search(ctx context.Context, p SearchParams) []Movie {
	page := p.Page
	if page < 1 {
		page = 1
	}
	maxResults := p.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	query := url.Values{}
	query.Set("query", p.Query)
	if p.Year > 0 {
		query.Set("year", strconv.Itoa(p.Year))
	}
	query.Set("page", strconv.Itoa(page))

	var first resultsPage
	if err := c.get(ctx, "/search/movie", query, &first); err != nil {
		slog.Warn("catalog search failed", "query", p.Query, "error", err)
		return nil
	}

	results := first.Results
	if !p.FetchAllPages {
		return results
	}

	for page++; page <= first.TotalPages && len(results) < maxResults; page++ {
		query.Set("page", strconv.Itoa(page))
		var next resultsPage
		if err := c.get(ctx, "/search/movie", query, &next); err != nil {
			slog.Warn("catalog search page failed", "query", p.Query, "page", page, "error", err)
			break
		}
		results = append(results, next.Results...)
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// Discover returns a single page from the catalog's discover endpoint,
// sorted by sortBy (defaults to popularity.desc).
func (c *Client) Discover(ctx context.Context, sortBy string, year, page int) []Movie {
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("sort_by", sortBy)
	if year > 0 {
		query.Set("primary_release_year", strconv.Itoa(year))
	}
	query.Set("page", strconv.Itoa(page))

	var result resultsPage
	if err := c.get(ctx, "/discover/movie", query, &result); err != nil {
		slog.Warn("catalog discover failed", "sort_by", sortBy, "error", err)
		return nil
	}
	return result.Results
}

// FetchGenres returns the catalog's genre id to name mapping. Callers
// cache and reuse the result; an upstream failure yields an empty map.
func (c *Client) FetchGenres(ctx context.Context) map[int64]string {
	var result struct {
		Genres []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", url.Values{}, &result); err != nil {
		slog.Warn("catalog genre fetch failed", "error", err)
		return map[int64]string{}
	}

	genres := make(map[int64]string, len(result.Genres))
	for _, g := range result.Genres {
		genres[g.ID] = g.Name
	}
	return genres
}

// ResolveGenreNames maps genre ids to names using a previously fetched
// mapping. Unknown ids resolve to "Unknown".
func ResolveGenreNames(genres map[int64]string, ids []int64) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		name, ok := genres[id]
		if !ok {
			name = "Unknown"
		}
		names[i] = name
	}
	return names
}

// Trailers returns video metadata for one movie.
func (c *Client) Trailers(ctx context.Context, movieID int64) []Trailer {
	var result struct {
		Results []Trailer `json:"results"`
	}
	path := fmt.Sprintf("/movie/%d/videos", movieID)
	if err := c.get(ctx, path, url.Values{}, &result); err != nil {
		slog.Warn("catalog trailer fetch failed", "movie_id", movieID, "error", err)
		return nil
	}
	return result.Results
}

// get performs one catalog API request and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)
	query.Set("include_adult", strconv.FormatBool(c.includeAdult))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var status struct {
			StatusMessage string `json:"status_message"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(body, &status)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, status.StatusMessage)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
