// Package view renders the server-side HTML pages from embedded
// templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	posterBaseURL   = "https://image.tmdb.org/t/p/w342"
	backdropBaseURL = "https://image.tmdb.org/t/p/w780"
)

// MovieCard is the view model for one movie on any page.
type MovieCard struct {
	ID          int64
	Title       string
	Overview    string
	ReleaseDate string
	PosterPath  string
	VoteAverage float64
	VoteCount   int64
	Popularity  float64
	Genres      []string
	// Rating is the signed-in user's own rating; 0 means unrated.
	Rating int
}

// ResultsData drives the home/search results page.
type ResultsData struct {
	UserName string
	Query    string
	Movies   []MovieCard
}

// DetailData drives the movie detail page.
type DetailData struct {
	UserName     string
	Movie        MovieCard
	BackdropPath string
}

// ListData drives the my-movies and watched pages.
type ListData struct {
	UserName  string
	Title     string
	Movies    []MovieCard
	Sort      string
	Ascending bool
}

// LoginData drives the login page.
type LoginData struct {
	UserName string
	Error    string
}

// NotFoundData drives the 404 page.
type NotFoundData struct {
	UserName string
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"posterURL": func(path string) string {
		if path == "" {
			return ""
		}
		return posterBaseURL + path
	},
	"backdropURL": func(path string) string {
		if path == "" {
			return ""
		}
		return backdropBaseURL + path
	},
	"joinGenres": func(genres []string) string {
		return strings.Join(genres, ", ")
	},
	"seq10": func() []int {
		return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	},
	"sortFields": func() []string {
		return []string{"rating", "popularity", "title", "vote_average", "vote_count", "release_date"}
	},
}

// New parses all embedded page templates.
func New() (*Renderer, error) {
	pageNames := []string{"results", "detail", "list", "login", "notfound"}
	pages := make(map[string]*template.Template, len(pageNames))

	for _, name := range pageNames {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templatesFS,
			"templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render executes the named page template with the given data.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}
	return tmpl.ExecuteTemplate(w, "base.html", data)
}
