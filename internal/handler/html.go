package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/msomdec/movie-ranker/internal/view"
)

// renderPage renders a page template to the response. The template is
// executed into a buffer first so a render failure becomes a clean 500
// instead of a half-written page.
func renderPage(w http.ResponseWriter, renderer *view.Renderer, status int, page string, data any) {
	var buf bytes.Buffer
	if err := renderer.Render(&buf, page, data); err != nil {
		slog.Error("render page", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// displayName returns the navbar name for the request's user, empty
// when anonymous.
func displayName(r *http.Request) string {
	if user := UserFromContext(r.Context()); user != nil {
		return user.Name
	}
	return ""
}
